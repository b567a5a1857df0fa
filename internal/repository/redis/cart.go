package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/entity"
	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/repository"
)

const keyPrefix = "cart:"

type cartRepository struct {
	client goredis.Cmdable
	ttl    time.Duration
}

// NewCartRepository creates a CartRepository that stores each cart as a JSON
// document under "cart:<session>". A zero ttl keeps carts forever.
func NewCartRepository(client goredis.Cmdable, ttl time.Duration) repository.CartRepository {
	return &cartRepository{client: client, ttl: ttl}
}

// NewClient connects to Redis and verifies the connection.
func NewClient(ctx context.Context, addr, password string, db int) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", addr, err)
	}
	return client, nil
}

func (r *cartRepository) Load(ctx context.Context, sessionID string) (entity.Cart, error) {
	payload, err := r.client.Get(ctx, keyPrefix+sessionID).Bytes()
	if errors.Is(err, goredis.Nil) {
		return entity.Cart{SessionID: sessionID}, nil
	}
	if err != nil {
		return entity.Cart{}, fmt.Errorf("failed to load cart %s: %w", sessionID, err)
	}

	var c entity.Cart
	if err := json.Unmarshal(payload, &c); err != nil {
		return entity.Cart{}, fmt.Errorf("failed to decode cart %s: %w", sessionID, err)
	}
	c.SessionID = sessionID
	return c, nil
}

func (r *cartRepository) Save(ctx context.Context, c entity.Cart) error {
	payload, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode cart %s: %w", c.SessionID, err)
	}
	if err := r.client.Set(ctx, keyPrefix+c.SessionID, payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save cart %s: %w", c.SessionID, err)
	}
	return nil
}

package repository

import (
	"context"

	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/entity"
)

// ProductRepository is the catalog provider. Products come back with their
// variants in catalog order.
type ProductRepository interface {
	FindAll(ctx context.Context) ([]entity.Product, error)
	FindByID(ctx context.Context, id string) (*entity.Product, error)
	// Save inserts or replaces a product and its variants.
	Save(ctx context.Context, product entity.Product) error
	// Seed inserts initial products if none exist.
	Seed(ctx context.Context, products []entity.Product) error
}

// CartRepository durably stores carts keyed by session.
type CartRepository interface {
	// Load returns an empty cart for unknown sessions.
	Load(ctx context.Context, sessionID string) (entity.Cart, error)
	Save(ctx context.Context, cart entity.Cart) error
}

// FavoritesRepository durably stores favorite product ids keyed by user.
type FavoritesRepository interface {
	Load(ctx context.Context, userID string) ([]string, error)
	// Replace overwrites the stored set for userID.
	Replace(ctx context.Context, userID string, productIDs []string) error
}

// OrderRepository stores orders written from PlaceOrder commands.
type OrderRepository interface {
	// PlaceOrder stores cmd and reports false when the order already existed.
	PlaceOrder(ctx context.Context, cmd *entity.PlaceOrder) (bool, error)
	FindRecent(ctx context.Context, limit int) ([]entity.Order, error)
}

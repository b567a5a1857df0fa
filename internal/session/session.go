// Package session serializes access to the shopping state of one session: its
// cart and its favorites. The stores stay the source of truth: every WithLock
// reads the state fresh, and only what the callback saves survives it.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/entity"
	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/favorites"
	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/repository"
)

// State is the session data handed to WithLock callbacks.
type State struct {
	Cart      entity.Cart
	Favorites *favorites.Set
}

// Loader reads session state from the cart and favorites stores.
type Loader struct {
	Carts     repository.CartRepository
	Favorites repository.FavoritesRepository
}

func (l Loader) load(ctx context.Context, id string) (State, error) {
	c, err := l.Carts.Load(ctx, id)
	if err != nil {
		return State{}, fmt.Errorf("failed to load cart for session %s: %w", id, err)
	}
	ids, err := l.Favorites.Load(ctx, id)
	if err != nil {
		return State{}, fmt.Errorf("failed to load favorites for session %s: %w", id, err)
	}
	return State{Cart: c, Favorites: favorites.NewSet(ids...)}, nil
}

type lock struct {
	mu   sync.Mutex
	refs int
}

// Registry hands out one lock per active session id. A lock is dropped as soon
// as its last holder or waiter is done, so the registry only grows with
// concurrent requests, not with the number of ids ever seen.
type Registry struct {
	mu    sync.Mutex
	locks map[string]*lock
}

func NewRegistry() *Registry {
	return &Registry{locks: make(map[string]*lock)}
}

// WithLock loads the state of session id and runs fn on it while holding the
// session lock. Callers persist the changes they want to keep inside fn.
func (r *Registry) WithLock(ctx context.Context, id string, load Loader, fn func(st *State) error) error {
	l := r.acquire(id)
	defer r.release(id, l)

	l.mu.Lock()
	defer l.mu.Unlock()

	st, err := load.load(ctx, id)
	if err != nil {
		return err
	}
	return fn(&st)
}

func (r *Registry) acquire(id string) *lock {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.locks[id]
	if !ok {
		l = &lock{}
		r.locks[id] = l
	}
	l.refs++
	return l
}

func (r *Registry) release(id string, l *lock) {
	r.mu.Lock()
	defer r.mu.Unlock()

	l.refs--
	if l.refs == 0 {
		delete(r.locks, id)
	}
}

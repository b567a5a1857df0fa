package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/cart"
	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/entity"
	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/messaging"
	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/repository"
	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/session"
)

// CartService orchestrates cart and favorites changes for shopping sessions.
type CartService struct {
	catalog    *CatalogService
	sessions   *session.Registry
	loader     session.Loader
	carts      repository.CartRepository
	favorites  repository.FavoritesRepository
	reconciler *cart.Reconciler
	publisher  messaging.Publisher
}

func NewCartService(
	catalog *CatalogService,
	sessions *session.Registry,
	carts repository.CartRepository,
	favorites repository.FavoritesRepository,
	reconciler *cart.Reconciler,
	publisher messaging.Publisher,
) *CartService {
	return &CartService{
		catalog:    catalog,
		sessions:   sessions,
		loader:     session.Loader{Carts: carts, Favorites: favorites},
		carts:      carts,
		favorites:  favorites,
		reconciler: reconciler,
		publisher:  publisher,
	}
}

// GetCart returns the current cart of a session.
func (s *CartService) GetCart(ctx context.Context, sessionID string) (entity.Cart, error) {
	var out entity.Cart
	err := s.withSession(ctx, sessionID, func(st *session.State) error {
		out = st.Cart.Clone()
		return nil
	})
	return out, err
}

// EvaluateSelection evaluates a selection, resolving the edited line from the session cart.
func (s *CartService) EvaluateSelection(ctx context.Context, sessionID, productID string, in SelectionInput) (*Evaluation, error) {
	if in.EditingLineID == "" {
		return s.catalog.EvaluateSelection(ctx, productID, in, nil)
	}

	var eval *Evaluation
	err := s.withSession(ctx, sessionID, func(st *session.State) error {
		line, ok := st.Cart.Line(in.EditingLineID)
		if !ok {
			return fmt.Errorf("line %s: %w", in.EditingLineID, cart.ErrLineNotFound)
		}
		var err error
		eval, err = s.catalog.EvaluateSelection(ctx, productID, in, &line)
		return err
	})
	return eval, err
}

// CommitSelection resolves the selection and reconciles it into the session cart.
func (s *CartService) CommitSelection(ctx context.Context, sessionID, productID string, in SelectionInput) (cart.Result, error) {
	slog.Info("Service: Committing selection", "session_id", sessionID, "product_id", productID, "editing_line_id", in.EditingLineID)

	var res cart.Result
	err := s.withSession(ctx, sessionID, func(st *session.State) error {
		var editing *entity.CartLine
		if in.EditingLineID != "" {
			line, ok := st.Cart.Line(in.EditingLineID)
			if !ok {
				return fmt.Errorf("line %s: %w", in.EditingLineID, cart.ErrLineNotFound)
			}
			editing = &line
		}

		eval, err := s.catalog.EvaluateSelection(ctx, productID, in, editing)
		if err != nil {
			return err
		}
		resolved, err := eval.resolve()
		if err != nil {
			return err
		}

		res, err = s.reconciler.Commit(st.Cart, resolved, resolved.EditingLineID)
		if err != nil {
			return err
		}
		if err := s.carts.Save(ctx, res.Cart); err != nil {
			return fmt.Errorf("failed to persist cart: %w", err)
		}
		return nil
	})
	if err != nil {
		return cart.Result{}, err
	}

	s.publishCartUpdated(ctx, res)
	return res, nil
}

// RemoveLine deletes a line from the session cart.
func (s *CartService) RemoveLine(ctx context.Context, sessionID, lineID string) (cart.Result, error) {
	var res cart.Result
	err := s.withSession(ctx, sessionID, func(st *session.State) error {
		var err error
		res, err = s.reconciler.Remove(st.Cart, lineID)
		if err != nil {
			return err
		}
		if err := s.carts.Save(ctx, res.Cart); err != nil {
			return fmt.Errorf("failed to persist cart: %w", err)
		}
		return nil
	})
	if err != nil {
		return cart.Result{}, err
	}

	s.publishCartUpdated(ctx, res)
	return res, nil
}

// ToggleFavorite flips a product's membership in the session's favorites and
// returns the new membership.
func (s *CartService) ToggleFavorite(ctx context.Context, sessionID, productID string) (bool, error) {
	if _, err := s.catalog.products.FindByID(ctx, productID); err != nil {
		return false, err
	}

	var member bool
	err := s.withSession(ctx, sessionID, func(st *session.State) error {
		member = st.Favorites.Toggle(productID)
		if err := s.favorites.Replace(ctx, sessionID, st.Favorites.IDs()); err != nil {
			return fmt.Errorf("failed to persist favorites: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	event := entity.FavoriteToggled{UserID: sessionID, ProductID: productID, Favorite: member, ToggledAt: time.Now()}
	if err := s.publisher.PublishEvent(ctx, messaging.TopicFavoritesToggled, sessionID, event); err != nil {
		slog.Error("Failed to publish FavoriteToggled", "session_id", sessionID, "err", err)
	}
	return member, nil
}

// GetFavorites returns the session's favorite product ids, sorted.
func (s *CartService) GetFavorites(ctx context.Context, sessionID string) ([]string, error) {
	var ids []string
	err := s.withSession(ctx, sessionID, func(st *session.State) error {
		ids = st.Favorites.IDs()
		return nil
	})
	return ids, err
}

func (s *CartService) withSession(ctx context.Context, sessionID string, fn func(st *session.State) error) error {
	if sessionID == "" {
		return ErrSessionMissing
	}
	return s.sessions.WithLock(ctx, sessionID, s.loader, fn)
}

func (s *CartService) publishCartUpdated(ctx context.Context, res cart.Result) {
	event := entity.CartUpdated{
		SessionID: res.Cart.SessionID,
		LineID:    res.LineID,
		Action:    string(res.Action),
		Lines:     len(res.Cart.Lines),
		Subtotal:  res.Cart.Subtotal(),
		UpdatedAt: res.Cart.UpdatedAt,
	}
	if err := s.publisher.PublishEvent(ctx, messaging.TopicCartUpdated, res.Cart.SessionID, event); err != nil {
		slog.Error("Failed to publish CartUpdated", "session_id", res.Cart.SessionID, "err", err)
	}
}

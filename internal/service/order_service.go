package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/cart"
	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/entity"
	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/messaging"
	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/repository"
	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/session"
)

// OrderService turns a session cart into a PlaceOrder command and records the
// commands it consumes back from orders.commands.
type OrderService struct {
	products   repository.ProductRepository
	orders     repository.OrderRepository
	sessions   *session.Registry
	loader     session.Loader
	carts      repository.CartRepository
	reconciler *cart.Reconciler
	publisher  messaging.Publisher
}

func NewOrderService(
	products repository.ProductRepository,
	orders repository.OrderRepository,
	sessions *session.Registry,
	carts repository.CartRepository,
	favorites repository.FavoritesRepository,
	reconciler *cart.Reconciler,
	publisher messaging.Publisher,
) *OrderService {
	return &OrderService{
		products:   products,
		orders:     orders,
		sessions:   sessions,
		loader:     session.Loader{Carts: carts, Favorites: favorites},
		carts:      carts,
		reconciler: reconciler,
		publisher:  publisher,
	}
}

// Checkout publishes a PlaceOrder command for the session cart at its snapshot
// prices. The cart is emptied first and restored if the command cannot be published.
func (s *OrderService) Checkout(ctx context.Context, sessionID string) (*entity.PlaceOrder, error) {
	if sessionID == "" {
		return nil, ErrSessionMissing
	}

	var cmd *entity.PlaceOrder
	err := s.sessions.WithLock(ctx, sessionID, s.loader, func(st *session.State) error {
		if len(st.Cart.Lines) == 0 {
			return ErrEmptyCart
		}

		items := make([]entity.OrderItem, 0, len(st.Cart.Lines))
		total := decimal.Zero
		for _, line := range st.Cart.Lines {
			p, err := s.products.FindByID(ctx, line.ProductID)
			if err != nil {
				return fmt.Errorf("failed to load product for line %s: %w", line.ID, err)
			}
			items = append(items, entity.OrderItem{
				ProductID: line.ProductID,
				Name:      p.Name,
				Color:     line.Color,
				Size:      line.Size,
				Price:     line.UnitPrice,
				Quantity:  line.Quantity,
			})
			total = total.Add(line.Total())
		}

		cmd = &entity.PlaceOrder{
			OrderID:    uuid.New().String(),
			SessionID:  sessionID,
			Items:      items,
			TotalPrice: total,
			PlacedAt:   time.Now().UTC(),
		}
		slog.Info("Service: Placing order", "order_id", cmd.OrderID, "session_id", sessionID, "items", len(items), "total", total.StringFixed(2))

		if err := s.carts.Save(ctx, s.reconciler.Clear(st.Cart)); err != nil {
			return fmt.Errorf("failed to clear cart: %w", err)
		}

		if err := s.publisher.PublishEvent(ctx, messaging.TopicOrderCommands, cmd.OrderID, cmd); err != nil {
			if restoreErr := s.carts.Save(ctx, st.Cart); restoreErr != nil {
				slog.Error("Failed to restore cart after publish failure", "session_id", sessionID, "order_id", cmd.OrderID, "err", restoreErr)
			}
			return fmt.Errorf("failed to publish PlaceOrder command: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cmd, nil
}

// HandlePlaceOrder stores a PlaceOrder command consumed from orders.commands.
// Redelivered commands are skipped.
func (s *OrderService) HandlePlaceOrder(ctx context.Context, payload []byte) error {
	var cmd entity.PlaceOrder
	if err := json.Unmarshal(payload, &cmd); err != nil {
		return fmt.Errorf("failed to unmarshal PlaceOrder command: %w", err)
	}
	if cmd.OrderID == "" {
		return fmt.Errorf("PlaceOrder command without order id")
	}

	placed, err := s.orders.PlaceOrder(ctx, &cmd)
	if err != nil {
		return fmt.Errorf("failed to store order %s: %w", cmd.OrderID, err)
	}
	if !placed {
		slog.Info("Order already exists, skipping (idempotent)", "order_id", cmd.OrderID)
		return nil
	}
	slog.Info("Order stored", "order_id", cmd.OrderID, "session_id", cmd.SessionID, "items", len(cmd.Items), "total", cmd.TotalPrice.StringFixed(2))
	return nil
}

// RecentOrders returns the newest orders first.
func (s *OrderService) RecentOrders(ctx context.Context, limit int) ([]entity.Order, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	orders, err := s.orders.FindRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent orders: %w", err)
	}
	return orders, nil
}

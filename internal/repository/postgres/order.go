package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/entity"
	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/repository"
)

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new OrderRepository backed by Postgres.
func NewOrderRepository(db *sql.DB) repository.OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) PlaceOrder(ctx context.Context, cmd *entity.PlaceOrder) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Kafka may redeliver the command; a second insert of the same id is a no-op.
	var inserted bool
	err = tx.QueryRowContext(ctx,
		"INSERT INTO orders (id, session_id, total_price, status, created_at) VALUES ($1, $2, $3, $4, $5) ON CONFLICT (id) DO NOTHING RETURNING true",
		cmd.OrderID, cmd.SessionID, cmd.TotalPrice, entity.OrderStatusPlaced, cmd.PlacedAt,
	).Scan(&inserted)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to insert order: %w", err)
	}

	for i, item := range cmd.Items {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO order_items (order_id, position, product_id, name, color, size, price, quantity) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)",
			cmd.OrderID, i, item.ProductID, item.Name, item.Color, item.Size, item.Price, item.Quantity,
		)
		if err != nil {
			return false, fmt.Errorf("failed to insert order item: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			"UPDATE product_variants SET stock = stock - $1 WHERE product_id = $2 AND color = $3 AND size = $4 AND stock >= $1",
			item.Quantity, item.ProductID, item.Color, item.Size,
		)
		if err != nil {
			return false, fmt.Errorf("failed to update variant stock: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return true, nil
}

func (r *orderRepository) FindRecent(ctx context.Context, limit int) ([]entity.Order, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, session_id, total_price, status, created_at FROM orders ORDER BY created_at DESC LIMIT $1", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []entity.Order
	index := make(map[string]int)
	for rows.Next() {
		var o entity.Order
		if err := rows.Scan(&o.ID, &o.SessionID, &o.TotalPrice, &o.Status, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		index[o.ID] = len(orders)
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order rows: %w", err)
	}
	if len(orders) == 0 {
		return orders, nil
	}

	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	itemRows, err := r.db.QueryContext(ctx,
		"SELECT order_id, product_id, name, color, size, price, quantity FROM order_items WHERE order_id = ANY($1) ORDER BY order_id, position",
		pq.Array(ids),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var orderID string
		var item entity.OrderItem
		if err := itemRows.Scan(&orderID, &item.ProductID, &item.Name, &item.Color, &item.Size, &item.Price, &item.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		i := index[orderID]
		orders[i].Items = append(orders[i].Items, item)
	}
	if err := itemRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order item rows: %w", err)
	}
	return orders, nil
}

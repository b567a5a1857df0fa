package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/repository"
)

type favoritesRepository struct {
	db *sql.DB
}

// NewFavoritesRepository creates a new FavoritesRepository backed by Postgres.
func NewFavoritesRepository(db *sql.DB) repository.FavoritesRepository {
	return &favoritesRepository{db: db}
}

func (r *favoritesRepository) Load(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT product_id FROM favorites WHERE user_id = $1 ORDER BY product_id", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query favorites: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan favorite: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *favoritesRepository) Replace(ctx context.Context, userID string, productIDs []string) error {
	if productIDs == nil {
		productIDs = []string{} // pq.Array(nil) is NULL, which ANY() never matches
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"DELETE FROM favorites WHERE user_id = $1 AND NOT (product_id = ANY($2))",
		userID, pq.Array(productIDs),
	)
	if err != nil {
		return fmt.Errorf("failed to prune favorites: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO favorites (user_id, product_id) SELECT $1, unnest($2::text[]) ON CONFLICT DO NOTHING",
		userID, pq.Array(productIDs),
	)
	if err != nil {
		return fmt.Errorf("failed to insert favorites: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

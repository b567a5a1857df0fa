package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"
)

// InitDB opens the connection pool and verifies it is reachable.
func InitDB(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	slog.Info("Database connected")
	return db, nil
}

// Migrate creates the catalog, order and favorites tables if they are missing.
func Migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS products (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL DEFAULT '',
			image_url TEXT NOT NULL DEFAULT '',
			price NUMERIC(12,2) NOT NULL,
			original_price NUMERIC(12,2),
			in_stock BOOLEAN NOT NULL DEFAULT TRUE
		);

		CREATE TABLE IF NOT EXISTS product_variants (
			product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
			position INT NOT NULL,
			color TEXT NOT NULL DEFAULT '',
			size TEXT NOT NULL DEFAULT '',
			stock INT NOT NULL DEFAULT 0,
			PRIMARY KEY (product_id, color, size)
		);

		CREATE TABLE IF NOT EXISTS orders (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			total_price NUMERIC(12,2) NOT NULL,
			status TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS order_items (
			order_id TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			position INT NOT NULL,
			product_id TEXT NOT NULL,
			name TEXT NOT NULL,
			color TEXT NOT NULL DEFAULT '',
			size TEXT NOT NULL DEFAULT '',
			price NUMERIC(12,2) NOT NULL,
			quantity INT NOT NULL,
			PRIMARY KEY (order_id, position)
		);

		CREATE TABLE IF NOT EXISTS favorites (
			user_id TEXT NOT NULL,
			product_id TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			PRIMARY KEY (user_id, product_id)
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	slog.Info("Database migrated")
	return nil
}

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

const selectProducts = "SELECT id, name, description, category, image_url, price, original_price, in_stock FROM products"

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new ProductRepository backed by Postgres.
func NewProductRepository(db *sql.DB) repository.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) FindAll(ctx context.Context) ([]entity.Product, error) {
	rows, err := r.db.QueryContext(ctx, selectProducts+" ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating product rows: %w", err)
	}
	if len(products) == 0 {
		return products, nil
	}

	ids := make([]string, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}
	variants, err := r.loadVariants(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range products {
		products[i].Variants = variants[products[i].ID]
	}
	return products, nil
}

func (r *productRepository) FindByID(ctx context.Context, id string) (*entity.Product, error) {
	p, err := scanProduct(r.db.QueryRowContext(ctx, selectProducts+" WHERE id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("product %s: %w", id, entity.ErrProductNotFound)
	}
	if err != nil {
		return nil, err
	}

	variants, err := r.loadVariants(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	p.Variants = variants[id]
	return &p, nil
}

func (r *productRepository) Save(ctx context.Context, p entity.Product) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO products (id, name, description, category, image_url, price, original_price, in_stock)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			category = EXCLUDED.category,
			image_url = EXCLUDED.image_url,
			price = EXCLUDED.price,
			original_price = EXCLUDED.original_price,
			in_stock = EXCLUDED.in_stock`,
		p.ID, p.Name, p.Description, p.Category, p.ImageURL, p.Price, p.OriginalPrice, p.InStock,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert product %s: %w", p.ID, err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM product_variants WHERE product_id = $1", p.ID); err != nil {
		return fmt.Errorf("failed to clear variants for %s: %w", p.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO product_variants (product_id, position, color, size, stock) VALUES ($1, $2, $3, $4, $5)")
	if err != nil {
		return fmt.Errorf("failed to prepare variant insert: %w", err)
	}
	defer stmt.Close()

	for i, v := range p.Variants {
		if _, err := stmt.ExecContext(ctx, p.ID, i, v.Color, v.Size, v.Stock); err != nil {
			return fmt.Errorf("failed to insert variant %s/%s for %s: %w", v.Color, v.Size, p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *productRepository) Seed(ctx context.Context, products []entity.Product) error {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM products").Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to count products: %w", err)
	}
	if count > 0 {
		return nil // already seeded
	}

	for _, p := range products {
		if err := r.Save(ctx, p); err != nil {
			return fmt.Errorf("failed to seed product %s: %w", p.ID, err)
		}
	}
	return nil
}

func (r *productRepository) loadVariants(ctx context.Context, productIDs []string) (map[string][]entity.Variant, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT product_id, color, size, stock FROM product_variants WHERE product_id = ANY($1) ORDER BY product_id, position",
		pq.Array(productIDs),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query variants: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]entity.Variant, len(productIDs))
	for rows.Next() {
		var productID string
		var v entity.Variant
		if err := rows.Scan(&productID, &v.Color, &v.Size, &v.Stock); err != nil {
			return nil, fmt.Errorf("failed to scan variant: %w", err)
		}
		out[productID] = append(out[productID], v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating variant rows: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(row scanner) (entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Category, &p.ImageURL, &p.Price, &p.OriginalPrice, &p.InStock)
	if errors.Is(err, sql.ErrNoRows) {
		return p, err
	}
	if err != nil {
		return p, fmt.Errorf("failed to scan product: %w", err)
	}
	return p, nil
}

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/entity"
	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/pricing"
	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/repository"
	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/selection"
	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/variant"
)

// ProductView is a catalog product with its resolved price.
type ProductView struct {
	entity.Product
	Pricing pricing.PriceResult `json:"pricing"`
}

// SelectionInput is the in-progress selection sent by the client. A nil Color
// or Size leaves that axis as it is, so an edit keeps the line's values.
type SelectionInput struct {
	Color         *string     `json:"color,omitempty"`
	Size          *string     `json:"size,omitempty"`
	Quantity      json.Number `json:"quantity,omitempty"`
	EditingLineID string      `json:"editing_line_id,omitempty"`
}

// Evaluation is the state of a selection after replaying an input.
type Evaluation struct {
	State     selection.State     `json:"state"`
	Tier      string              `json:"tier"`
	Readiness selection.Readiness `json:"readiness"`
	CTA       selection.CTAState  `json:"-"`
	Pricing   pricing.PriceResult `json:"pricing"`
	Colors    []selection.Option  `json:"colors"`
	Sizes     []selection.Option  `json:"sizes"`
	// Problems are validation messages for input that was corrected locally.
	Problems []error `json:"-"`

	sel *selection.Selection
}

// CatalogService serves products and evaluates selections against them.
type CatalogService struct {
	products repository.ProductRepository
	prices   selection.PriceResolver
}

func NewCatalogService(products repository.ProductRepository, prices selection.PriceResolver) *CatalogService {
	return &CatalogService{products: products, prices: prices}
}

// GetProducts returns every product whose price resolves.
func (s *CatalogService) GetProducts(ctx context.Context) ([]ProductView, error) {
	products, err := s.products.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		res, err := s.prices.Resolve(p)
		if err != nil {
			slog.Warn("Skipping product with invalid pricing", "product_id", p.ID, "err", err)
			continue
		}
		views = append(views, ProductView{Product: p, Pricing: res})
	}
	return views, nil
}

// GetProduct returns one product with its price.
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*ProductView, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	res, err := s.prices.Resolve(*p)
	if err != nil {
		return nil, err
	}
	return &ProductView{Product: *p, Pricing: res}, nil
}

// SaveProduct validates and stores a product from the admin surface.
func (s *CatalogService) SaveProduct(ctx context.Context, p entity.Product) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProduct, err)
	}
	slog.Info("Service: Saving product", "product_id", p.ID, "variants", len(p.Variants))
	return s.products.Save(ctx, p)
}

// EvaluateSelection replays in against a fresh selection for productID, or an
// edit-mode selection when editing is not nil.
func (s *CatalogService) EvaluateSelection(ctx context.Context, productID string, in SelectionInput, editing *entity.CartLine) (*Evaluation, error) {
	p, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	return s.evaluate(*p, in, editing)
}

func (s *CatalogService) evaluate(p entity.Product, in SelectionInput, editing *entity.CartLine) (*Evaluation, error) {
	matrix := variant.NewMatrix(p.Variants)

	var sel *selection.Selection
	var err error
	if editing != nil {
		sel, err = selection.ForLine(p, matrix, s.prices, *editing)
	} else {
		sel, err = selection.New(p, matrix, s.prices)
	}
	if err != nil {
		return nil, err
	}

	var problems []error
	if in.Color != nil {
		sel.SelectColor(*in.Color)
	}
	if in.Size != nil && *in.Size != "" {
		if err := sel.SelectSize(*in.Size); err != nil {
			problems = append(problems, err)
		}
	}
	if in.Quantity != "" {
		if err := sel.SetQuantityInput(in.Quantity.String()); err != nil {
			problems = append(problems, err)
		}
	}

	return &Evaluation{
		State:     sel.State(),
		Tier:      sel.Tier().String(),
		Readiness: sel.Readiness(),
		CTA:       sel.CTA(),
		Pricing:   sel.Price(),
		Colors:    sel.ColorOptions(),
		Sizes:     sel.SizeOptions(),
		Problems:  problems,
		sel:       sel,
	}, nil
}

// resolve hands off the evaluated selection, refusing input that had to be corrected.
func (e *Evaluation) resolve() (selection.Resolved, error) {
	if len(e.Problems) > 0 {
		return selection.Resolved{}, errors.Join(e.Problems...)
	}
	return e.sel.Resolve()
}

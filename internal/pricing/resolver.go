// Package pricing turns a product's base and original prices into the numeric
// price shown and charged, and formats amounts for display.
package pricing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/entity"
)

// ErrInvalidPriceInput is returned when a product's pricing is missing or negative.
var ErrInvalidPriceInput = errors.New("invalid price input")

var hundred = decimal.NewFromInt(100)

// PriceResult is the normalized price of a product.
type PriceResult struct {
	OriginalPrice      decimal.Decimal `json:"original_price"`
	DiscountedPrice    decimal.Decimal `json:"discounted_price"`
	FinalPrice         decimal.Decimal `json:"final_price"`
	HasDiscount        bool            `json:"has_discount"`
	DiscountPercentage int             `json:"discount_percentage"`
}

// Resolver resolves product prices. It is stateless.
type Resolver struct{}

// Resolve maps a product's price and optional original price to a PriceResult.
// An original price that is not above the price is ignored.
func (Resolver) Resolve(p entity.Product) (PriceResult, error) {
	if !p.Price.Valid {
		return PriceResult{}, fmt.Errorf("product %s: price is missing: %w", p.ID, ErrInvalidPriceInput)
	}
	price := p.Price.Decimal
	if price.IsNegative() {
		return PriceResult{}, fmt.Errorf("product %s: price %s is negative: %w", p.ID, price, ErrInvalidPriceInput)
	}
	if p.OriginalPrice.Valid && p.OriginalPrice.Decimal.IsNegative() {
		return PriceResult{}, fmt.Errorf("product %s: original price %s is negative: %w", p.ID, p.OriginalPrice.Decimal, ErrInvalidPriceInput)
	}

	res := PriceResult{
		OriginalPrice:   price,
		DiscountedPrice: price,
		FinalPrice:      price,
	}

	if p.OriginalPrice.Valid && p.OriginalPrice.Decimal.GreaterThan(price) {
		original := p.OriginalPrice.Decimal
		res.OriginalPrice = original
		res.HasDiscount = true
		res.DiscountPercentage = DiscountPercentage(original, price)
	}
	return res, nil
}

// DiscountPercentage returns round-half-up(100 * (original - price) / original),
// kept within 1..100 so a real discount never displays as 0%.
// It returns 0 when original is not greater than price.
func DiscountPercentage(original, price decimal.Decimal) int {
	if !original.GreaterThan(price) || !original.IsPositive() {
		return 0
	}
	q, r := original.Sub(price).Mul(hundred).QuoRem(original, 0)
	pct := q.IntPart()
	if r.Mul(decimal.NewFromInt(2)).GreaterThanOrEqual(original) {
		pct++
	}
	switch {
	case pct < 1:
		return 1
	case pct > 100:
		return 100
	}
	return int(pct)
}

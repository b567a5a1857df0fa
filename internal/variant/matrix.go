// Package variant indexes a product's color/size variants by stock availability.
package variant

import "github.com/egannguyen/go-kafka-ecommerce/storefront/internal/entity"

// Matrix is a read-only index of variants keyed by color, then size.
// Unknown colors and sizes are reported as not in stock.
type Matrix struct {
	colors  []string
	sizes   map[string][]string
	stock   map[string]map[string]int
	hasSize bool
	empty   bool
}

// NewMatrix builds the index once from a product's variant sequence.
// If a (color, size) pair appears twice the first occurrence wins.
func NewMatrix(variants []entity.Variant) *Matrix {
	m := &Matrix{
		sizes: make(map[string][]string),
		stock: make(map[string]map[string]int),
		empty: len(variants) == 0,
	}

	for _, v := range variants {
		bySize, ok := m.stock[v.Color]
		if !ok {
			bySize = make(map[string]int)
			m.stock[v.Color] = bySize
			if v.Color != "" {
				m.colors = append(m.colors, v.Color)
			}
		}
		if _, dup := bySize[v.Size]; dup {
			continue
		}
		bySize[v.Size] = v.Stock
		if v.Size != "" {
			m.sizes[v.Color] = append(m.sizes[v.Color], v.Size)
			m.hasSize = true
		}
	}
	return m
}

// Colors returns the distinct colors in first-occurrence order.
func (m *Matrix) Colors() []string {
	return append([]string(nil), m.colors...)
}

// SizesForColor returns the distinct sizes under color in first-occurrence order.
// Passing an empty color only yields sizes when the product has no color axis.
func (m *Matrix) SizesForColor(color string) []string {
	if color == "" && m.HasColorAxis() {
		return nil
	}
	return append([]string(nil), m.sizes[color]...)
}

// IsInStock reports whether the exact (color, size) pair exists with positive stock.
func (m *Matrix) IsInStock(color, size string) bool {
	return m.Stock(color, size) > 0
}

// Stock returns the stock count for a pair, or 0 when unknown.
func (m *Matrix) Stock(color, size string) int {
	return m.stock[color][size]
}

// IsColorAvailable reports whether any size under color is in stock.
func (m *Matrix) IsColorAvailable(color string) bool {
	for _, n := range m.stock[color] {
		if n > 0 {
			return true
		}
	}
	return false
}

// HasColorAxis reports whether any variant carries a color.
func (m *Matrix) HasColorAxis() bool { return len(m.colors) > 0 }

// HasSizeAxis reports whether any variant carries a size.
func (m *Matrix) HasSizeAxis() bool { return m.hasSize }

// IsEmpty reports whether the product has no variants at all.
func (m *Matrix) IsEmpty() bool { return m.empty }

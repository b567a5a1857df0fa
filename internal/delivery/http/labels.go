package http

import "github.com/egannguyen/go-kafka-ecommerce/storefront/internal/selection"

// Labels maps CTA localization keys to display text.
type Labels map[string]string

// EnglishLabels is the default label table.
var EnglishLabels = Labels{
	"cta.select_color": "Select a color",
	"cta.select_size":  "Select a size",
	"cta.out_of_stock": "Out of stock",
	"cta.add_to_cart":  "Add to cart",
	"cta.update":       "Update cart",
}

// Label returns the text for a CTA state, falling back to its key.
func (l Labels) Label(s selection.CTAState) string {
	if text, ok := l[s.Key()]; ok {
		return text
	}
	return s.Key()
}

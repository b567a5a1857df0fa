// Package selection tracks a shopper's in-progress color, size and quantity choice
// for one product view and derives whether it can be bought.
package selection

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/entity"
	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/pricing"
	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/variant"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be a whole number of at least 1")
	ErrColorRequired   = errors.New("a color must be chosen before a size")
	ErrNotPurchasable  = errors.New("selection cannot be purchased")
	ErrProductMismatch = errors.New("cart line belongs to a different product")
)

// Tier is the position in the Empty -> ColorChosen -> ColorAndSizeChosen progression.
type Tier int

const (
	Empty Tier = iota
	ColorChosen
	ColorAndSizeChosen
)

func (t Tier) String() string {
	switch t {
	case ColorChosen:
		return "ColorChosen"
	case ColorAndSizeChosen:
		return "ColorAndSizeChosen"
	default:
		return "Empty"
	}
}

// PriceResolver resolves the price shown for a product.
type PriceResolver interface {
	Resolve(p entity.Product) (pricing.PriceResult, error)
}

// State is the user's in-progress choice. Empty strings mean unset.
type State struct {
	SelectedColor string `json:"selected_color"`
	SelectedSize  string `json:"selected_size"`
	Quantity      int    `json:"quantity"`
	EditMode      bool   `json:"edit_mode"`
	EditingLineID string `json:"editing_line_id,omitempty"`
}

// Resolved is a purchasable selection ready to be reconciled into the cart.
type Resolved struct {
	ProductID     string
	Color         string
	Size          string
	Quantity      int
	UnitPrice     decimal.Decimal
	EditingLineID string
}

// Selection is the state machine for one product view. It is not safe for
// concurrent use.
type Selection struct {
	product  entity.Product
	matrix   *variant.Matrix
	price    pricing.PriceResult
	state    State
	baseline *State
}

// New starts a fresh selection for adding a new cart line.
func New(product entity.Product, matrix *variant.Matrix, prices PriceResolver) (*Selection, error) {
	price, err := prices.Resolve(product)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve price: %w", err)
	}
	if matrix == nil {
		matrix = variant.NewMatrix(product.Variants)
	}
	return &Selection{
		product: product,
		matrix:  matrix,
		price:   price,
		state:   State{Quantity: 1},
	}, nil
}

// ForLine starts a selection in edit mode, prefilled from an existing cart line.
func ForLine(product entity.Product, matrix *variant.Matrix, prices PriceResolver, line entity.CartLine) (*Selection, error) {
	if line.ProductID != product.ID {
		return nil, fmt.Errorf("line %s is for %s, not %s: %w", line.ID, line.ProductID, product.ID, ErrProductMismatch)
	}
	s, err := New(product, matrix, prices)
	if err != nil {
		return nil, err
	}

	qty := line.Quantity
	if qty < 1 {
		qty = 1
	}
	s.state = State{
		SelectedColor: line.Color,
		SelectedSize:  line.Size,
		Quantity:      qty,
		EditMode:      true,
		EditingLineID: line.ID,
	}
	baseline := s.state
	s.baseline = &baseline
	return s, nil
}

// SelectColor chooses a color. Changing the color clears the size; an empty
// color returns the selection to Empty.
func (s *Selection) SelectColor(color string) {
	if color == s.state.SelectedColor {
		return
	}
	s.state.SelectedColor = color
	s.state.SelectedSize = ""
}

// SelectSize chooses a size. It requires a valid color first; an empty size
// clears the current size.
func (s *Selection) SelectSize(size string) error {
	if !s.colorValid() {
		return ErrColorRequired
	}
	s.state.SelectedSize = size
	return nil
}

// SetQuantity sets the quantity. Values below 1 are clamped to 1 and reported
// as ErrInvalidQuantity.
func (s *Selection) SetQuantity(n int) error {
	if n < 1 {
		s.state.Quantity = 1
		return fmt.Errorf("got %d: %w", n, ErrInvalidQuantity)
	}
	s.state.Quantity = n
	return nil
}

// SetQuantityInput parses raw user input before applying it.
func (s *Selection) SetQuantityInput(raw string) error {
	n, err := ParseQuantity(raw)
	if err != nil {
		s.state.Quantity = 1
		return err
	}
	return s.SetQuantity(n)
}

// ParseQuantity parses a quantity typed by the user. Non-integers and values
// below 1 return ErrInvalidQuantity together with the clamped value 1.
func ParseQuantity(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 1, fmt.Errorf("%q: %w", raw, ErrInvalidQuantity)
	}
	if n < 1 {
		return 1, fmt.Errorf("got %d: %w", n, ErrInvalidQuantity)
	}
	return n, nil
}

// Tier reports how far the selection has progressed.
func (s *Selection) Tier() Tier {
	switch {
	case s.state.SelectedSize != "":
		return ColorAndSizeChosen
	case s.state.SelectedColor != "":
		return ColorChosen
	default:
		return Empty
	}
}

// State returns a copy of the current choice.
func (s *Selection) State() State { return s.state }

// Price returns the resolved price for the product.
func (s *Selection) Price() pricing.PriceResult { return s.price }

// Readiness recomputes the predicates behind the CTA.
func (s *Selection) Readiness() Readiness {
	r := Readiness{
		ColorValid:     s.colorValid(),
		SizeValid:      s.state.SelectedSize != "" || !s.matrix.HasSizeAxis(),
		ProductInStock: s.product.InStock,
		EditMode:       s.state.EditMode,
	}

	if r.ColorValid && r.SizeValid && !s.matrix.IsEmpty() {
		r.VariantInStock = s.matrix.IsInStock(s.state.SelectedColor, s.state.SelectedSize)
	} else {
		r.VariantInStock = s.product.InStock
	}

	if s.baseline != nil {
		r.Unchanged = s.state.SelectedColor == s.baseline.SelectedColor &&
			s.state.SelectedSize == s.baseline.SelectedSize &&
			s.state.Quantity == s.baseline.Quantity
	}
	return r
}

// CTA returns the symbolic buy-control state for the current selection.
func (s *Selection) CTA() CTAState {
	return ResolveCTA(s.Readiness())
}

// Resolve hands off a purchasable selection. It fails with ErrNotPurchasable
// whenever the CTA is disabled.
func (s *Selection) Resolve() (Resolved, error) {
	if cta := s.CTA(); !cta.Enabled() {
		return Resolved{}, fmt.Errorf("%s: %w", cta, ErrNotPurchasable)
	}
	return Resolved{
		ProductID:     s.product.ID,
		Color:         s.state.SelectedColor,
		Size:          s.state.SelectedSize,
		Quantity:      s.state.Quantity,
		UnitPrice:     s.price.FinalPrice,
		EditingLineID: s.state.EditingLineID,
	}, nil
}

func (s *Selection) colorValid() bool {
	return s.state.SelectedColor != "" || !s.matrix.HasColorAxis()
}

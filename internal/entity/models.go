package entity

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrDuplicateVariant = errors.New("duplicate color/size variant")
	ErrInvalidDiscount  = errors.New("original price must be greater than price")
)

// Product represents a product in the store together with its variant matrix.
type Product struct {
	ID            string              `json:"id"`
	Name          string              `json:"name"`
	Description   string              `json:"description"`
	Category      string              `json:"category"`
	ImageURL      string              `json:"image_url"`
	Price         decimal.NullDecimal `json:"price"`
	OriginalPrice decimal.NullDecimal `json:"original_price"`
	InStock       bool                `json:"in_stock"`
	Variants      []Variant           `json:"variants"`
}

// Validate checks the catalog invariants enforced on admin writes.
func (p *Product) Validate() error {
	if p.ID == "" {
		return errors.New("product id is required")
	}
	if !p.Price.Valid || p.Price.Decimal.IsNegative() {
		return fmt.Errorf("product %s: price must be present and non-negative", p.ID)
	}
	if p.OriginalPrice.Valid && p.OriginalPrice.Decimal.LessThanOrEqual(p.Price.Decimal) {
		return fmt.Errorf("product %s: %w", p.ID, ErrInvalidDiscount)
	}

	seen := make(map[VariantKey]struct{}, len(p.Variants))
	for _, v := range p.Variants {
		if v.Stock < 0 {
			return fmt.Errorf("product %s: variant %s/%s has negative stock", p.ID, v.Color, v.Size)
		}
		if _, dup := seen[v.Key()]; dup {
			return fmt.Errorf("product %s: %w: %s/%s", p.ID, ErrDuplicateVariant, v.Color, v.Size)
		}
		seen[v.Key()] = struct{}{}
	}
	return nil
}

// Variant is a single (color, size) combination with its own stock count.
// An empty Color or Size means the product has no such axis.
type Variant struct {
	Color string `json:"color"`
	Size  string `json:"size"`
	Stock int    `json:"stock"`
}

// VariantKey identifies a variant within one product.
type VariantKey struct {
	Color string
	Size  string
}

func (v Variant) Key() VariantKey {
	return VariantKey{Color: v.Color, Size: v.Size}
}

// UnmarshalJSON accepts either a stock count or a boolean availability flag.
func (v *Variant) UnmarshalJSON(data []byte) error {
	var raw struct {
		Color string          `json:"color"`
		Size  string          `json:"size"`
		Stock json.RawMessage `json:"stock"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v.Color, v.Size, v.Stock = raw.Color, raw.Size, 0

	if len(raw.Stock) == 0 || string(raw.Stock) == "null" {
		return nil
	}

	var available bool
	if err := json.Unmarshal(raw.Stock, &available); err == nil {
		if available {
			v.Stock = 1
		}
		return nil
	}
	if err := json.Unmarshal(raw.Stock, &v.Stock); err != nil {
		return fmt.Errorf("variant %s/%s: stock must be a number or boolean: %w", raw.Color, raw.Size, err)
	}
	return nil
}

// CartLine is an item currently in a user's cart. UnitPrice is a snapshot taken when
// the line was added or last edited.
type CartLine struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Color     string          `json:"color"`
	Size      string          `json:"size"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// LineKey is the reconciliation key of a cart line.
type LineKey struct {
	ProductID string
	Color     string
	Size      string
}

func (l CartLine) Key() LineKey {
	return LineKey{ProductID: l.ProductID, Color: l.Color, Size: l.Size}
}

// Total returns unit price times quantity.
func (l CartLine) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is the ordered set of lines owned by one shopping session.
type Cart struct {
	SessionID string     `json:"session_id"`
	Lines     []CartLine `json:"lines"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Subtotal sums all line totals.
func (c Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.Total())
	}
	return total
}

// Line returns the line with the given id.
func (c Cart) Line(id string) (CartLine, bool) {
	for _, l := range c.Lines {
		if l.ID == id {
			return l, true
		}
	}
	return CartLine{}, false
}

// Clone returns a copy whose line slice can be mutated independently.
func (c Cart) Clone() Cart {
	out := c
	out.Lines = append([]CartLine(nil), c.Lines...)
	return out
}

// --- Commands ---

// OrderItem is a line item within an order.
type OrderItem struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Color     string          `json:"color"`
	Size      string          `json:"size"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// PlaceOrder is a command to create a new order from a checked-out cart.
type PlaceOrder struct {
	OrderID    string          `json:"order_id"`
	SessionID  string          `json:"session_id"`
	Items      []OrderItem     `json:"items"`
	TotalPrice decimal.Decimal `json:"total_price"`
	PlacedAt   time.Time       `json:"placed_at"`
}

func (c PlaceOrder) EventType() string { return "PlaceOrder" }

// Order is the stored form of a placed order.
type Order struct {
	ID         string          `json:"id"`
	SessionID  string          `json:"session_id"`
	Items      []OrderItem     `json:"items"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Status     string          `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
}

const OrderStatusPlaced = "placed"

// --- Events ---

// CartUpdated is emitted after a selection has been reconciled into the cart.
type CartUpdated struct {
	SessionID string          `json:"session_id"`
	LineID    string          `json:"line_id"`
	Action    string          `json:"action"` // "appended", "merged", "overwritten", "removed"
	Lines     int             `json:"lines"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (e CartUpdated) EventType() string { return "CartUpdated" }

// FavoriteToggled is emitted when a product enters or leaves a user's favorites.
type FavoriteToggled struct {
	UserID    string    `json:"user_id"`
	ProductID string    `json:"product_id"`
	Favorite  bool      `json:"favorite"`
	ToggledAt time.Time `json:"toggled_at"`
}

func (e FavoriteToggled) EventType() string { return "FavoriteToggled" }

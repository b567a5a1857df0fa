package selection

// CTAState is the symbolic state of the buy control. Display text is looked up
// from Key by the presentation layer.
type CTAState int

const (
	NeedColor CTAState = iota
	NeedSize
	OutOfStock
	AddToCart
	UpdateDisabled
	UpdateEnabled
)

func (s CTAState) String() string {
	switch s {
	case NeedColor:
		return "NeedColor"
	case NeedSize:
		return "NeedSize"
	case OutOfStock:
		return "OutOfStock"
	case AddToCart:
		return "AddToCart"
	case UpdateDisabled:
		return "UpdateDisabled"
	case UpdateEnabled:
		return "UpdateEnabled"
	default:
		return "Unknown"
	}
}

// Key is the localization key for the label.
func (s CTAState) Key() string {
	switch s {
	case NeedColor:
		return "cta.select_color"
	case NeedSize:
		return "cta.select_size"
	case OutOfStock:
		return "cta.out_of_stock"
	case AddToCart:
		return "cta.add_to_cart"
	case UpdateDisabled, UpdateEnabled:
		return "cta.update"
	default:
		return "cta.unknown"
	}
}

// Enabled reports whether the control may be submitted.
func (s CTAState) Enabled() bool {
	return s == AddToCart || s == UpdateEnabled
}

// Readiness is the set of predicates the CTA is derived from.
type Readiness struct {
	ColorValid     bool `json:"color_valid"`
	SizeValid      bool `json:"size_valid"`
	ProductInStock bool `json:"product_in_stock"`
	VariantInStock bool `json:"variant_in_stock"`
	EditMode       bool `json:"edit_mode"`
	// Unchanged is set in edit mode when the selection still matches the line being edited.
	Unchanged bool `json:"unchanged"`
}

// ResolveCTA is the buy-control decision table. Rows are checked top to bottom.
func ResolveCTA(r Readiness) CTAState {
	switch {
	case !r.ColorValid:
		return NeedColor
	case !r.SizeValid:
		return NeedSize
	case !r.ProductInStock, !r.VariantInStock:
		return OutOfStock
	case !r.EditMode:
		return AddToCart
	case r.Unchanged:
		return UpdateDisabled
	default:
		return UpdateEnabled
	}
}

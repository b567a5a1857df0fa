package selection

// Option is a selectable color or size with its availability.
type Option struct {
	Value     string `json:"value"`
	Available bool   `json:"available"`
	Selected  bool   `json:"selected"`
	// Stock is the units left, set on size options only.
	Stock int `json:"stock,omitempty"`
}

// ColorOptions lists the product's colors in catalog order.
func (s *Selection) ColorOptions() []Option {
	colors := s.matrix.Colors()
	out := make([]Option, 0, len(colors))
	for _, c := range colors {
		out = append(out, Option{
			Value:     c,
			Available: s.matrix.IsColorAvailable(c),
			Selected:  c == s.state.SelectedColor,
		})
	}
	return out
}

// SizeOptions lists the sizes offered under the selected color.
func (s *Selection) SizeOptions() []Option {
	if !s.colorValid() {
		return nil
	}
	color := s.state.SelectedColor
	sizes := s.matrix.SizesForColor(color)
	out := make([]Option, 0, len(sizes))
	for _, size := range sizes {
		out = append(out, Option{
			Value:     size,
			Available: s.matrix.IsInStock(color, size),
			Selected:  size == s.state.SelectedSize,
			Stock:     s.matrix.Stock(color, size),
		})
	}
	return out
}

package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// SymbolPlacement says where the currency symbol goes relative to the number.
type SymbolPlacement string

const (
	SymbolBefore SymbolPlacement = "before"
	SymbolAfter  SymbolPlacement = "after"
)

// Formatter renders amounts for display. It never changes the amount itself.
type Formatter struct {
	Symbol            string
	Placement         SymbolPlacement
	GroupSeparator    string
	DecimalSeparator  string
	SpaceBeforeSymbol bool
}

// DefaultFormatter renders amounts as "$1,234.50".
func DefaultFormatter() Formatter {
	return Formatter{
		Symbol:           "$",
		Placement:        SymbolBefore,
		GroupSeparator:   ",",
		DecimalSeparator: ".",
	}
}

// Format rounds half-up to two fractional digits and applies the separators and symbol.
func (f Formatter) Format(amount decimal.Decimal) string {
	rounded := amount.Round(2)
	negative := rounded.IsNegative()
	fixed := rounded.Abs().StringFixed(2)

	intPart, fracPart, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	if negative {
		b.WriteByte('-')
	}
	if f.Placement != SymbolAfter {
		b.WriteString(f.Symbol)
	}
	b.WriteString(group(intPart, f.GroupSeparator))
	b.WriteString(f.decimalSeparator())
	b.WriteString(fracPart)
	if f.Placement == SymbolAfter {
		if f.SpaceBeforeSymbol {
			b.WriteByte(' ')
		}
		b.WriteString(f.Symbol)
	}
	return b.String()
}

// FormatResult formats the final and original prices of a PriceResult.
func (f Formatter) FormatResult(res PriceResult) (final, original string) {
	return f.Format(res.FinalPrice), f.Format(res.OriginalPrice)
}

func (f Formatter) decimalSeparator() string {
	if f.DecimalSeparator == "" {
		return "."
	}
	return f.DecimalSeparator
}

func group(digits, sep string) string {
	if sep == "" || len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

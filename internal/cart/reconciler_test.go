package cart_test

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/cart"
	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/entity"
	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/pricing"
	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/selection"
)

func setup() *cart.Reconciler {
	n := 0
	return cart.NewReconcilerWithIDs(func() string {
		n++
		return fmt.Sprintf("line-%d", n)
	})
}

func resolved(color, size string, qty int) selection.Resolved {
	return selection.Resolved{
		ProductID: "tee-001",
		Color:     color,
		Size:      size,
		Quantity:  qty,
		UnitPrice: decimal.NewFromInt(80),
	}
}

func TestCommitAppendsNewLine(t *testing.T) {
	r := setup()

	res, err := r.Commit(entity.Cart{SessionID: "s1"}, resolved("red", "M", 1), "")

	require.NoError(t, err)
	assert.Equal(t, cart.Appended, res.Action)
	assert.Equal(t, "line-1", res.LineID)
	require.Len(t, res.Cart.Lines, 1)
	assert.Equal(t, "s1", res.Cart.SessionID)
	assert.False(t, res.Cart.UpdatedAt.IsZero())
}

func TestCommitMergesIdenticalTuple(t *testing.T) {
	r := setup()

	first, err := r.Commit(entity.Cart{}, resolved("red", "M", 2), "")
	require.NoError(t, err)
	second, err := r.Commit(first.Cart, resolved("red", "M", 3), "")
	require.NoError(t, err)

	assert.Equal(t, cart.Merged, second.Action)
	require.Len(t, second.Cart.Lines, 1)
	assert.Equal(t, 5, second.Cart.Lines[0].Quantity)
	assert.Equal(t, first.LineID, second.LineID)

	t.Run("Input cart untouched", func(t *testing.T) {
		assert.Equal(t, 2, first.Cart.Lines[0].Quantity)
	})

	t.Run("Different size is a new line", func(t *testing.T) {
		third, err := r.Commit(second.Cart, resolved("red", "L", 1), "")
		require.NoError(t, err)
		assert.Equal(t, cart.Appended, third.Action)
		assert.Len(t, third.Cart.Lines, 2)
	})
}

func TestCommitOverwritesEditedLine(t *testing.T) {
	r := setup()
	base, err := r.Commit(entity.Cart{}, resolved("red", "M", 2), "")
	require.NoError(t, err)

	sel := resolved("blue", "S", 4)
	sel.UnitPrice = decimal.NewFromInt(75)
	res, err := r.Commit(base.Cart, sel, base.LineID)

	require.NoError(t, err)
	assert.Equal(t, cart.Overwritten, res.Action)
	require.Len(t, res.Cart.Lines, 1)
	line := res.Cart.Lines[0]
	assert.Equal(t, base.LineID, line.ID)
	assert.Equal(t, "blue", line.Color)
	assert.Equal(t, "S", line.Size)
	assert.Equal(t, 4, line.Quantity)
	assert.True(t, line.UnitPrice.Equal(decimal.NewFromInt(75)))
}

func TestCommitEditCollisionMerges(t *testing.T) {
	r := setup()
	a, err := r.Commit(entity.Cart{}, resolved("red", "M", 2), "")
	require.NoError(t, err)
	b, err := r.Commit(a.Cart, resolved("blue", "S", 1), "")
	require.NoError(t, err)

	res, err := r.Commit(b.Cart, resolved("red", "M", 3), b.LineID)

	require.NoError(t, err)
	assert.Equal(t, cart.Merged, res.Action)
	assert.Equal(t, a.LineID, res.LineID)
	require.Len(t, res.Cart.Lines, 1)
	assert.Equal(t, 5, res.Cart.Lines[0].Quantity)
}

func TestCommitFailures(t *testing.T) {
	r := setup()
	base, err := r.Commit(entity.Cart{}, resolved("red", "M", 1), "")
	require.NoError(t, err)

	t.Run("Fail on missing edited line", func(t *testing.T) {
		_, err := r.Commit(base.Cart, resolved("red", "M", 1), "gone")
		assert.ErrorIs(t, err, cart.ErrLineNotFound)
	})

	t.Run("Fail on invalid quantity", func(t *testing.T) {
		_, err := r.Commit(base.Cart, resolved("red", "M", 0), "")
		assert.ErrorIs(t, err, selection.ErrInvalidQuantity)
	})

	t.Run("Fail on product mismatch", func(t *testing.T) {
		sel := resolved("red", "M", 1)
		sel.ProductID = "other"
		_, err := r.Commit(base.Cart, sel, base.LineID)
		assert.ErrorIs(t, err, selection.ErrProductMismatch)
	})
}

func TestUniquenessInvariant(t *testing.T) {
	r := setup()
	c := entity.Cart{}
	ops := []selection.Resolved{
		resolved("red", "M", 1),
		resolved("red", "L", 1),
		resolved("red", "M", 2),
		resolved("blue", "M", 1),
		resolved("red", "L", 4),
	}
	for _, op := range ops {
		res, err := r.Commit(c, op, "")
		require.NoError(t, err)
		c = res.Cart
	}

	seen := map[entity.LineKey]bool{}
	for _, l := range c.Lines {
		assert.False(t, seen[l.Key()], "duplicate line for %v", l.Key())
		seen[l.Key()] = true
	}
	assert.Len(t, c.Lines, 3)
	assert.True(t, c.Subtotal().Equal(decimal.NewFromInt(80*9)))
}

func TestRemoveAndClear(t *testing.T) {
	r := setup()
	base, err := r.Commit(entity.Cart{SessionID: "s1"}, resolved("red", "M", 1), "")
	require.NoError(t, err)

	res, err := r.Remove(base.Cart, base.LineID)
	require.NoError(t, err)
	assert.Equal(t, cart.Removed, res.Action)
	assert.Empty(t, res.Cart.Lines)

	_, err = r.Remove(res.Cart, base.LineID)
	assert.ErrorIs(t, err, cart.ErrLineNotFound)

	cleared := r.Clear(base.Cart)
	assert.Empty(t, cleared.Lines)
	assert.Equal(t, "s1", cleared.SessionID)
}

func TestCommitThenEditRoundTrip(t *testing.T) {
	p := entity.Product{
		ID:      "tee-001",
		Price:   decimal.NewNullDecimal(decimal.NewFromInt(80)),
		InStock: true,
		Variants: []entity.Variant{
			{Color: "red", Size: "M", Stock: 5},
		},
	}
	sel, err := selection.New(p, nil, pricing.Resolver{})
	require.NoError(t, err)
	sel.SelectColor("red")
	require.NoError(t, sel.SelectSize("M"))
	require.NoError(t, sel.SetQuantity(2))
	resolvedSel, err := sel.Resolve()
	require.NoError(t, err)

	res, err := setup().Commit(entity.Cart{}, resolvedSel, "")
	require.NoError(t, err)

	line, ok := res.Cart.Line(res.LineID)
	require.True(t, ok)
	edit, err := selection.ForLine(p, nil, pricing.Resolver{}, line)
	require.NoError(t, err)

	assert.Equal(t, selection.UpdateDisabled, edit.CTA())
}

package entity_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/entity"
)

func TestVariantUnmarshalStock(t *testing.T) {
	tests := []struct {
		name string
		json string
		want int
	}{
		{"count", `{"color":"red","size":"M","stock":7}`, 7},
		{"available flag", `{"color":"red","size":"M","stock":true}`, 1},
		{"unavailable flag", `{"color":"red","size":"M","stock":false}`, 0},
		{"missing", `{"color":"red","size":"M"}`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v entity.Variant
			require.NoError(t, json.Unmarshal([]byte(tt.json), &v))
			assert.Equal(t, tt.want, v.Stock)
			assert.Equal(t, "red", v.Color)
		})
	}

	t.Run("Fail on text stock", func(t *testing.T) {
		var v entity.Variant
		assert.Error(t, json.Unmarshal([]byte(`{"color":"red","stock":"lots"}`), &v))
	})
}

func TestProductValidate(t *testing.T) {
	valid := func() entity.Product {
		return entity.Product{
			ID:    "tee-001",
			Price: decimal.NewNullDecimal(decimal.NewFromInt(80)),
			Variants: []entity.Variant{
				{Color: "red", Size: "M", Stock: 1},
				{Color: "red", Size: "L", Stock: 0},
			},
		}
	}

	t.Run("Success", func(t *testing.T) {
		p := valid()
		p.OriginalPrice = decimal.NewNullDecimal(decimal.NewFromInt(100))
		assert.NoError(t, p.Validate())
	})

	t.Run("Fail on missing price", func(t *testing.T) {
		p := valid()
		p.Price = decimal.NullDecimal{}
		assert.Error(t, p.Validate())
	})

	t.Run("Fail on original price not above price", func(t *testing.T) {
		p := valid()
		p.OriginalPrice = decimal.NewNullDecimal(decimal.NewFromInt(80))
		assert.ErrorIs(t, p.Validate(), entity.ErrInvalidDiscount)
	})

	t.Run("Fail on duplicate variant", func(t *testing.T) {
		p := valid()
		p.Variants = append(p.Variants, entity.Variant{Color: "red", Size: "M", Stock: 3})
		assert.ErrorIs(t, p.Validate(), entity.ErrDuplicateVariant)
	})

	t.Run("Fail on negative stock", func(t *testing.T) {
		p := valid()
		p.Variants[1].Stock = -1
		assert.Error(t, p.Validate())
	})
}

func TestCartSubtotalAndClone(t *testing.T) {
	c := entity.Cart{SessionID: "s1", Lines: []entity.CartLine{
		{ID: "a", Quantity: 2, UnitPrice: decimal.RequireFromString("19.99")},
		{ID: "b", Quantity: 1, UnitPrice: decimal.RequireFromString("0.02")},
	}}

	assert.True(t, decimal.RequireFromString("40.00").Equal(c.Subtotal()))

	clone := c.Clone()
	clone.Lines[0].Quantity = 9
	assert.Equal(t, 2, c.Lines[0].Quantity)

	line, ok := c.Line("b")
	require.True(t, ok)
	assert.Equal(t, 1, line.Quantity)
	_, ok = c.Line("zzz")
	assert.False(t, ok)
}

package main

import (
	"github.com/shopspring/decimal"

	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/entity"
)

func price(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func sampleProducts() []entity.Product {
	return []entity.Product{
		{
			ID: "prod-001", Name: "Wireless Noise-Cancelling Headphones", Category: "Electronics",
			Description: "Premium over-ear headphones with active noise cancellation and 30-hour battery life.",
			ImageURL:    "https://images.unsplash.com/photo-1505740420928-5e560c06d30e?w=400",
			Price:       price("299.99"), OriginalPrice: price("349.99"), InStock: true,
			Variants: []entity.Variant{
				{Color: "black", Stock: 40},
				{Color: "silver", Stock: 10},
				{Color: "midnight blue", Stock: 0},
			},
		},
		{
			ID: "prod-002", Name: "Mechanical Keyboard RGB", Category: "Electronics",
			Description: "Cherry MX switches with per-key RGB lighting and aluminum frame.",
			ImageURL:    "https://images.unsplash.com/photo-1618384887929-16ec33fab9ef?w=400",
			Price:       price("179.99"), InStock: true,
		},
		{
			ID: "prod-003", Name: "Heavyweight Hoodie", Category: "Apparel",
			Description: "Brushed fleece hoodie with a relaxed fit and kangaroo pocket.",
			ImageURL:    "https://images.unsplash.com/photo-1556821840-3a63f95609a7?w=400",
			Price:       price("64.00"), OriginalPrice: price("80.00"), InStock: true,
			Variants: []entity.Variant{
				{Color: "heather grey", Size: "S", Stock: 6},
				{Color: "heather grey", Size: "M", Stock: 12},
				{Color: "heather grey", Size: "L", Stock: 0},
				{Color: "forest", Size: "M", Stock: 3},
				{Color: "forest", Size: "L", Stock: 4},
				{Color: "black", Size: "S", Stock: 0},
				{Color: "black", Size: "M", Stock: 0},
			},
		},
		{
			ID: "prod-004", Name: "Ergonomic Office Chair", Category: "Furniture",
			Description: "Adjustable lumbar support, breathable mesh, and 4D armrests.",
			ImageURL:    "https://images.unsplash.com/photo-1592078615290-033ee584e267?w=400",
			Price:       price("549.99"), InStock: false,
		},
		{
			ID: "prod-005", Name: "Trail Running Shoes", Category: "Footwear",
			Description: "Lightweight trail shoes with a grippy lugged outsole.",
			ImageURL:    "https://images.unsplash.com/photo-1542291026-7eec264c27ff?w=400",
			Price:       price("119.95"), InStock: true,
			Variants: []entity.Variant{
				{Color: "orange", Size: "42", Stock: 2},
				{Color: "orange", Size: "43", Stock: 5},
				{Color: "orange", Size: "44", Stock: 1},
				{Color: "slate", Size: "42", Stock: 0},
				{Color: "slate", Size: "43", Stock: 8},
			},
		},
		{
			ID: "prod-006", Name: "Premium Laptop Backpack", Category: "Accessories",
			Description: "Water-resistant 17\" laptop compartment with anti-theft design.",
			ImageURL:    "https://images.unsplash.com/photo-1553062407-98eeb64c6a62?w=400",
			Price:       price("103.99"), OriginalPrice: price("129.99"), InStock: true,
			Variants: []entity.Variant{
				{Color: "charcoal", Stock: 25},
				{Color: "sand", Stock: 14},
			},
		},
	}
}

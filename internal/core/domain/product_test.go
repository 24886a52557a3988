package domain_test

import (
	"math"
	"testing"

	"github.com/niksmo/shop/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestProductDraft(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		d := domain.ProductDraft{Title: "Mug", Category: "kitchen", Price: 3}
		assert.NoError(t, d.Validate())

		p := d.Product()
		assert.Equal(t, domain.DefaultStock, p.Stock)
		assert.Equal(t, domain.DefaultInStock, p.InStock)
	})

	t.Run("Explicit", func(t *testing.T) {
		stock, inStock := 7, false
		d := domain.ProductDraft{
			Title: "Mug", Category: "kitchen", Price: 3,
			Stock: &stock, InStock: &inStock,
		}
		p := d.Product()
		assert.Equal(t, 7, p.Stock)
		assert.False(t, p.InStock)
	})

	t.Run("Invalid", func(t *testing.T) {
		negative := -1
		drafts := []domain.ProductDraft{
			{Category: "kitchen"},
			{Title: "Mug"},
			{Title: "Mug", Category: "kitchen", Price: -0.01},
			{Title: "Mug", Category: "kitchen", Price: 1e308},
			{Title: "Mug", Category: "kitchen", Price: math.Inf(1)},
			{Title: "Mug", Category: "kitchen", Price: math.NaN()},
			{Title: "Mug", Category: "kitchen", Stock: &negative},
		}
		for _, d := range drafts {
			assert.ErrorIs(t, d.Validate(), domain.ErrValidation)
		}
	})
}

func TestProductPatch(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		var p domain.ProductPatch
		assert.True(t, p.Empty())
		assert.ErrorIs(t, p.Validate(), domain.ErrValidation)
	})

	t.Run("PriceOutOfRange", func(t *testing.T) {
		for _, price := range []float64{-1, domain.MaxPrice * 2, math.Inf(1), math.NaN()} {
			p := domain.ProductPatch{Price: &price}
			assert.ErrorIs(t, p.Validate(), domain.ErrValidation, price)
		}

		limit := float64(domain.MaxPrice)
		assert.NoError(t, domain.ProductPatch{Price: &limit}.Validate())
	})

	t.Run("ApplyOnlySupplied", func(t *testing.T) {
		price := 12.5
		p := domain.ProductPatch{Price: &price}
		assert.NoError(t, p.Validate())

		before := domain.Product{
			ID: "id", Title: "Mug", Description: "white",
			Price: 3, Category: "kitchen", Stock: 4, InStock: true,
		}
		after := p.Apply(before)

		want := before
		want.Price = 12.5
		assert.Equal(t, want, after)
	})

	t.Run("Invalid", func(t *testing.T) {
		empty, negative, negativePrice := "", -2, -1.0
		patches := []domain.ProductPatch{
			{Title: &empty},
			{Category: &empty},
			{Stock: &negative},
			{Price: &negativePrice},
		}
		for _, p := range patches {
			assert.ErrorIs(t, p.Validate(), domain.ErrValidation)
		}
	})
}

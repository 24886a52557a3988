package domain_test

import (
	"math"
	"testing"

	"github.com/niksmo/shop/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrderItem(t *testing.T) {
	p := domain.Product{ID: "p1", Title: "Mug", Price: 9.99, Stock: 5}

	item, err := domain.NewOrderItem(p, 2)
	require.NoError(t, err)

	assert.Equal(t, "p1", item.ProductID)
	assert.Equal(t, "Mug", item.Title)
	assert.Equal(t, 9.99, item.Price)
	assert.Equal(t, 2, item.Quantity)
	assert.Equal(t, 19.98, item.Subtotal)
}

func TestNewOrderItemNoFloatDrift(t *testing.T) {
	p := domain.Product{ID: "p1", Title: "Pin", Price: 0.1}

	item, err := domain.NewOrderItem(p, 3)
	require.NoError(t, err)

	assert.Equal(t, 0.3, item.Subtotal)
}

func TestNewOrderItemOutOfRange(t *testing.T) {
	for _, price := range []float64{1e308, math.Inf(1), math.NaN(), -1} {
		p := domain.Product{ID: "p1", Title: "Vase", Price: price}
		_, err := domain.NewOrderItem(p, 2)
		require.ErrorIs(t, err, domain.ErrValidation, price)
		assert.ErrorContains(t, err, "Vase")
	}
}

func TestOrderTotal(t *testing.T) {
	carts := []struct {
		name   string
		prices []float64
		qty    []int
	}{
		{"Single", []float64{9.99}, []int{2}},
		{"Several", []float64{0.1, 0.2, 19.99}, []int{3, 7, 1}},
		{"Cheap", []float64{0.01, 0.005}, []int{1, 3}},
		{"Free", []float64{0}, []int{4}},
	}

	for _, c := range carts {
		t.Run(c.name, func(t *testing.T) {
			var items []domain.OrderItem
			want := decimal.Zero
			for i := range c.prices {
				p := domain.Product{ID: "id", Title: "t", Price: c.prices[i]}
				item, err := domain.NewOrderItem(p, c.qty[i])
				require.NoError(t, err)
				items = append(items, item)
				want = want.Add(
					decimal.NewFromFloat(c.prices[i]).Mul(decimal.NewFromInt(int64(c.qty[i]))),
				)
			}
			total, err := domain.OrderTotal(items)
			require.NoError(t, err)
			assert.Equal(t, want.Round(2).InexactFloat64(), total)
		})
	}
}

func TestOrderTotalOverflow(t *testing.T) {
	t.Run("Sum", func(t *testing.T) {
		items := []domain.OrderItem{
			{ProductID: "a", Title: "A", Price: 1e308, Quantity: 1, Subtotal: 1e308},
			{ProductID: "b", Title: "B", Price: 1e308, Quantity: 1, Subtotal: 1e308},
		}
		_, err := domain.OrderTotal(items)
		assert.ErrorIs(t, err, domain.ErrValidation)

		_, err = domain.NewPaidOrder(domain.Cart{}, items)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("InfiniteSubtotal", func(t *testing.T) {
		items := []domain.OrderItem{
			{ProductID: "a", Title: "A", Quantity: 1, Subtotal: math.Inf(1)},
		}
		assert.NotPanics(t, func() {
			_, err := domain.OrderTotal(items)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	})
}

func TestCartValidate(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		err := domain.Cart{}.Validate()
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("ZeroQuantity", func(t *testing.T) {
		c := domain.Cart{Lines: []domain.CartLine{{ProductID: "p1", Quantity: 0}}}
		err := c.Validate()
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.Contains(t, err.Error(), "p1")
	})

	t.Run("Valid", func(t *testing.T) {
		c := domain.Cart{Lines: []domain.CartLine{{ProductID: "p1", Quantity: 1}}}
		assert.NoError(t, c.Validate())
	})
}

func TestNewPaidOrder(t *testing.T) {
	a, err := domain.NewOrderItem(domain.Product{ID: "a", Title: "A", Price: 1.25}, 2)
	require.NoError(t, err)
	b, err := domain.NewOrderItem(domain.Product{ID: "b", Title: "B", Price: 3.10}, 1)
	require.NoError(t, err)
	c := domain.Cart{BuyerName: "Ann", BuyerEmail: "ann@example.com"}

	o, err := domain.NewPaidOrder(c, []domain.OrderItem{a, b})
	require.NoError(t, err)

	assert.Equal(t, domain.OrderStatusPaid, o.Status)
	assert.Equal(t, 5.6, o.Total)
	assert.Equal(t, "Ann", o.BuyerName)
	assert.Equal(t, "ann@example.com", o.BuyerEmail)
	require.Len(t, o.Items, 2)
	assert.Equal(t, "a", o.Items[0].ProductID)
	assert.Equal(t, "b", o.Items[1].ProductID)
}

package domain

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

const OrderStatusPaid = "paid"

const totalPlaces = 2

type (
	CartLine struct {
		ProductID string
		Quantity  int
	}

	Cart struct {
		Lines      []CartLine
		BuyerName  string
		BuyerEmail string
	}

	OrderItem struct {
		ProductID string
		Title     string
		Price     float64
		Quantity  int
		Subtotal  float64
	}

	Order struct {
		ID         string
		BuyerName  string
		BuyerEmail string
		Items      []OrderItem
		Total      float64
		Status     string
		CreatedAt  time.Time
	}

	Receipt struct {
		OrderID string
		Total   float64
	}
)

func (c Cart) Validate() error {
	if len(c.Lines) == 0 {
		return ValidationErr("cart is empty")
	}
	for _, l := range c.Lines {
		if l.Quantity < 1 {
			return ValidationErr(
				"quantity must be >= 1 for product %s", l.ProductID,
			)
		}
	}
	return nil
}

// NewOrderItem freezes the product title and price for the purchased quantity.
func NewOrderItem(p Product, quantity int) (OrderItem, error) {
	if !ValidPrice(p.Price) {
		return OrderItem{}, ValidationErr("price of %s is out of range", p.Title)
	}

	subtotal := decimal.NewFromFloat(p.Price).
		Mul(decimal.NewFromInt(int64(quantity))).
		InexactFloat64()
	if !finite(subtotal) {
		return OrderItem{}, ValidationErr("subtotal for %s is out of range", p.Title)
	}

	return OrderItem{
		ProductID: p.ID,
		Title:     p.Title,
		Price:     p.Price,
		Quantity:  quantity,
		Subtotal:  subtotal,
	}, nil
}

// OrderTotal sums item subtotals rounded to cents.
func OrderTotal(items []OrderItem) (float64, error) {
	total := decimal.Zero
	for _, it := range items {
		if !finite(it.Subtotal) {
			return 0, ValidationErr("subtotal for %s is out of range", it.Title)
		}
		total = total.Add(decimal.NewFromFloat(it.Subtotal))
	}

	v := total.Round(totalPlaces).InexactFloat64()
	if !finite(v) {
		return 0, ValidationErr("order total is out of range")
	}
	return v, nil
}

// NewPaidOrder builds the order record written by a successful checkout.
func NewPaidOrder(c Cart, items []OrderItem) (Order, error) {
	total, err := OrderTotal(items)
	if err != nil {
		return Order{}, err
	}
	return Order{
		BuyerName:  c.BuyerName,
		BuyerEmail: c.BuyerEmail,
		Items:      items,
		Total:      total,
		Status:     OrderStatusPaid,
	}, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

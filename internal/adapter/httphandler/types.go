package httphandler

import (
	"time"

	"github.com/niksmo/shop/internal/core/domain"
)

type (
	Product struct {
		ID          string    `json:"id"`
		Title       string    `json:"title"`
		Description string    `json:"description"`
		Price       float64   `json:"price"`
		Category    string    `json:"category"`
		Stock       int       `json:"stock"`
		ImageURL    string    `json:"image_url"`
		InStock     bool      `json:"in_stock"`
		CreatedAt   time.Time `json:"created_at"`
		UpdatedAt   time.Time `json:"updated_at"`
	}

	ProductCreate struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Price       *float64 `json:"price"`
		Category    string   `json:"category"`
		Stock       *int     `json:"stock"`
		ImageURL    string   `json:"image_url"`
		InStock     *bool    `json:"in_stock"`
	}

	// A ProductUpdate carries only the fields present in the request body.
	ProductUpdate struct {
		Title       *string  `json:"title"`
		Description *string  `json:"description"`
		Price       *float64 `json:"price"`
		Category    *string  `json:"category"`
		Stock       *int     `json:"stock"`
		ImageURL    *string  `json:"image_url"`
		InStock     *bool    `json:"in_stock"`
	}

	CreatedResponse struct {
		ID string `json:"id"`
	}

	UpdatedResponse struct {
		Updated bool `json:"updated"`
	}
)

type (
	CartItem struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	}

	CheckoutRequest struct {
		Items      []CartItem `json:"items"`
		BuyerName  string     `json:"buyer_name"`
		BuyerEmail string     `json:"buyer_email"`
	}

	CheckoutResponse struct {
		OrderID string  `json:"order_id"`
		Total   float64 `json:"total"`
	}

	OrderItem struct {
		ProductID string  `json:"product_id"`
		Title     string  `json:"title"`
		Price     float64 `json:"price"`
		Quantity  int     `json:"quantity"`
		Subtotal  float64 `json:"subtotal"`
	}

	Order struct {
		ID         string      `json:"id"`
		BuyerName  string      `json:"buyer_name,omitempty"`
		BuyerEmail string      `json:"buyer_email,omitempty"`
		Items      []OrderItem `json:"items"`
		Total      float64     `json:"total"`
		Status     string      `json:"status"`
		CreatedAt  time.Time   `json:"created_at"`
	}
)

type (
	ProductSales struct {
		ProductID string  `json:"product_id"`
		UnitsSold int     `json:"units_sold"`
		Revenue   float64 `json:"revenue"`
		Orders    int     `json:"orders"`
	}

	Message struct {
		Message string `json:"message"`
	}

	Diagnostic struct {
		Backend          string   `json:"backend"`
		Database         string   `json:"database"`
		DatabaseName     string   `json:"database_name"`
		ConnectionStatus string   `json:"connection_status"`
		Collections      []string `json:"collections"`
	}
)

func productFromDomain(p domain.Product) Product {
	return Product{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price,
		Category:    p.Category,
		Stock:       p.Stock,
		ImageURL:    p.ImageURL,
		InStock:     p.InStock,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func orderFromDomain(o domain.Order) Order {
	items := make([]OrderItem, len(o.Items))
	for i, it := range o.Items {
		items[i] = OrderItem{
			ProductID: it.ProductID,
			Title:     it.Title,
			Price:     it.Price,
			Quantity:  it.Quantity,
			Subtotal:  it.Subtotal,
		}
	}
	return Order{
		ID:         o.ID,
		BuyerName:  o.BuyerName,
		BuyerEmail: o.BuyerEmail,
		Items:      items,
		Total:      o.Total,
		Status:     o.Status,
		CreatedAt:  o.CreatedAt,
	}
}

func (c ProductCreate) toDomain() domain.ProductDraft {
	d := domain.ProductDraft{
		Title:       c.Title,
		Description: c.Description,
		Category:    c.Category,
		Stock:       c.Stock,
		ImageURL:    c.ImageURL,
		InStock:     c.InStock,
	}
	if c.Price != nil {
		d.Price = *c.Price
	}
	return d
}

func (u ProductUpdate) toDomain() domain.ProductPatch {
	return domain.ProductPatch{
		Title:       u.Title,
		Description: u.Description,
		Price:       u.Price,
		Category:    u.Category,
		Stock:       u.Stock,
		ImageURL:    u.ImageURL,
		InStock:     u.InStock,
	}
}

func (r CheckoutRequest) toDomain() domain.Cart {
	lines := make([]domain.CartLine, len(r.Items))
	for i, it := range r.Items {
		lines[i] = domain.CartLine{ProductID: it.ProductID, Quantity: it.Quantity}
	}
	return domain.Cart{
		Lines:      lines,
		BuyerName:  r.BuyerName,
		BuyerEmail: r.BuyerEmail,
	}
}

package storage

import (
	"time"

	"github.com/niksmo/shop/internal/core/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type productDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description,omitempty"`
	Price       float64            `bson:"price"`
	Category    string             `bson:"category"`
	Stock       int                `bson:"stock"`
	ImageURL    string             `bson:"image_url,omitempty"`
	InStock     bool               `bson:"in_stock"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func newProductDoc(p domain.Product) productDoc {
	return productDoc{
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

func (d productDoc) product() domain.Product {
	return domain.Product{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Price:       d.Price,
		Category:    d.Category,
		Stock:       d.Stock,
		ImageURL:    d.ImageURL,
		InStock:     d.InStock,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// patchSet builds the $set document of the supplied patch fields.
func patchSet(p domain.ProductPatch, updatedAt time.Time) bson.D {
	set := bson.D{}
	if p.Title != nil {
		set = append(set, bson.E{Key: "title", Value: *p.Title})
	}
	if p.Description != nil {
		set = append(set, bson.E{Key: "description", Value: *p.Description})
	}
	if p.Price != nil {
		set = append(set, bson.E{Key: "price", Value: *p.Price})
	}
	if p.Category != nil {
		set = append(set, bson.E{Key: "category", Value: *p.Category})
	}
	if p.Stock != nil {
		set = append(set, bson.E{Key: "stock", Value: *p.Stock})
	}
	if p.ImageURL != nil {
		set = append(set, bson.E{Key: "image_url", Value: *p.ImageURL})
	}
	if p.InStock != nil {
		set = append(set, bson.E{Key: "in_stock", Value: *p.InStock})
	}
	return append(set, bson.E{Key: "updated_at", Value: updatedAt})
}

type orderItemDoc struct {
	ProductID string  `bson:"product_id"`
	Title     string  `bson:"title"`
	Price     float64 `bson:"price"`
	Quantity  int     `bson:"quantity"`
	Subtotal  float64 `bson:"subtotal"`
}

type orderDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	BuyerName  string             `bson:"buyer_name,omitempty"`
	BuyerEmail string             `bson:"buyer_email,omitempty"`
	Items      []orderItemDoc     `bson:"items"`
	Total      float64            `bson:"total"`
	Status     string             `bson:"status"`
	CreatedAt  time.Time          `bson:"created_at"`
}

func newOrderDoc(o domain.Order) orderDoc {
	items := make([]orderItemDoc, len(o.Items))
	for i, it := range o.Items {
		items[i] = orderItemDoc{
			ProductID: it.ProductID,
			Title:     it.Title,
			Price:     it.Price,
			Quantity:  it.Quantity,
			Subtotal:  it.Subtotal,
		}
	}
	return orderDoc{
		BuyerName:  o.BuyerName,
		BuyerEmail: o.BuyerEmail,
		Items:      items,
		Total:      o.Total,
		Status:     o.Status,
		CreatedAt:  o.CreatedAt,
	}
}

func (d orderDoc) order() domain.Order {
	items := make([]domain.OrderItem, len(d.Items))
	for i, it := range d.Items {
		items[i] = domain.OrderItem{
			ProductID: it.ProductID,
			Title:     it.Title,
			Price:     it.Price,
			Quantity:  it.Quantity,
			Subtotal:  it.Subtotal,
		}
	}
	return domain.Order{
		ID:         d.ID.Hex(),
		BuyerName:  d.BuyerName,
		BuyerEmail: d.BuyerEmail,
		Items:      items,
		Total:      d.Total,
		Status:     d.Status,
		CreatedAt:  d.CreatedAt,
	}
}

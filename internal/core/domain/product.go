package domain

import (
	"time"
)

const (
	DefaultStock   = 0
	DefaultInStock = true

	MaxPrice = 1e12
)

type (
	Product struct {
		ID          string
		Title       string
		Description string
		Price       float64
		Category    string
		Stock       int
		ImageURL    string
		InStock     bool
		CreatedAt   time.Time
		UpdatedAt   time.Time
	}

	// A ProductDraft is a product before the store has assigned
	// its identity and timestamps. Nil Stock and InStock take defaults.
	ProductDraft struct {
		Title       string
		Description string
		Price       float64
		Category    string
		Stock       *int
		ImageURL    string
		InStock     *bool
	}

	// A ProductPatch holds the fields supplied for a partial update.
	//
	// Only non-nil fields are applied.
	ProductPatch struct {
		Title       *string
		Description *string
		Price       *float64
		Category    *string
		Stock       *int
		ImageURL    *string
		InStock     *bool
	}

	ProductQuery struct {
		Text     string
		Category string
	}

	ProductSales struct {
		ProductID string
		UnitsSold int
		Revenue   float64
		Orders    int
	}
)

// Validate reports the first rule the draft breaks.
func (d ProductDraft) Validate() error {
	switch {
	case d.Title == "":
		return ValidationErr("title is required")
	case d.Category == "":
		return ValidationErr("category is required")
	case !ValidPrice(d.Price):
		return ValidationErr("price must be between 0 and %g", MaxPrice)
	case d.Stock != nil && *d.Stock < 0:
		return ValidationErr("stock must be >= 0")
	}
	return nil
}

// ValidPrice reports whether v is a finite price within [0, MaxPrice].
func ValidPrice(v float64) bool {
	return finite(v) && v >= 0 && v <= MaxPrice
}

// Product returns the product the draft describes with defaults applied.
func (d ProductDraft) Product() Product {
	p := Product{
		Title:       d.Title,
		Description: d.Description,
		Price:       d.Price,
		Category:    d.Category,
		Stock:       DefaultStock,
		ImageURL:    d.ImageURL,
		InStock:     DefaultInStock,
	}
	if d.Stock != nil {
		p.Stock = *d.Stock
	}
	if d.InStock != nil {
		p.InStock = *d.InStock
	}
	return p
}

func (p ProductPatch) Empty() bool {
	return p.Title == nil &&
		p.Description == nil &&
		p.Price == nil &&
		p.Category == nil &&
		p.Stock == nil &&
		p.ImageURL == nil &&
		p.InStock == nil
}

func (p ProductPatch) Validate() error {
	switch {
	case p.Empty():
		return ValidationErr("no fields to update")
	case p.Title != nil && *p.Title == "":
		return ValidationErr("title must not be empty")
	case p.Category != nil && *p.Category == "":
		return ValidationErr("category must not be empty")
	case p.Price != nil && !ValidPrice(*p.Price):
		return ValidationErr("price must be between 0 and %g", MaxPrice)
	case p.Stock != nil && *p.Stock < 0:
		return ValidationErr("stock must be >= 0")
	}
	return nil
}

// Apply returns v with the patch fields applied.
func (p ProductPatch) Apply(v Product) Product {
	if p.Title != nil {
		v.Title = *p.Title
	}
	if p.Description != nil {
		v.Description = *p.Description
	}
	if p.Price != nil {
		v.Price = *p.Price
	}
	if p.Category != nil {
		v.Category = *p.Category
	}
	if p.Stock != nil {
		v.Stock = *p.Stock
	}
	if p.ImageURL != nil {
		v.ImageURL = *p.ImageURL
	}
	if p.InStock != nil {
		v.InStock = *p.InStock
	}
	return v
}

package schema

import "time"

const ProductSchemaTextV1 = `{
	"type": "record",
	"namespace": "shop.products",
	"name": "Product",
	"fields": [
		{"name": "product_id", "type": "string"},
		{"name": "title", "type": "string"},
		{"name": "description", "type": "string"},
		{"name": "price", "type": "double"},
		{"name": "category", "type": "string"},
		{"name": "stock", "type": "int"},
		{"name": "image_url", "type": "string"},
		{"name": "in_stock", "type": "boolean"},
		{"name": "updated_at", "type": {"type": "long", "logicalType": "timestamp-millis"}}
	]
}`

type ProductV1 struct {
	ProductID   string    `avro:"product_id"`
	Title       string    `avro:"title"`
	Description string    `avro:"description"`
	Price       float64   `avro:"price"`
	Category    string    `avro:"category"`
	Stock       int       `avro:"stock"`
	ImageURL    string    `avro:"image_url"`
	InStock     bool      `avro:"in_stock"`
	UpdatedAt   time.Time `avro:"updated_at"`
}

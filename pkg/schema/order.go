package schema

import "time"

const OrderPlacedSchemaTextV1 = `{
	"type": "record",
	"namespace": "shop.orders",
	"name": "OrderPlaced",
	"fields": [
		{"name": "order_id", "type": "string"},
		{"name": "buyer_name", "type": "string"},
		{"name": "buyer_email", "type": "string"},
		{"name": "items", "type": {
			"type": "array",
			"items": {
				"type": "record",
				"name": "OrderItem",
				"fields": [
					{"name": "product_id", "type": "string"},
					{"name": "title", "type": "string"},
					{"name": "price", "type": "double"},
					{"name": "quantity", "type": "int"},
					{"name": "subtotal", "type": "double"}
				]
			}
		}},
		{"name": "total", "type": "double"},
		{"name": "status", "type": "string"},
		{"name": "created_at", "type": {"type": "long", "logicalType": "timestamp-millis"}}
	]
}`

type (
	OrderPlacedV1 struct {
		OrderID    string        `avro:"order_id"`
		BuyerName  string        `avro:"buyer_name"`
		BuyerEmail string        `avro:"buyer_email"`
		Items      []OrderItemV1 `avro:"items"`
		Total      float64       `avro:"total"`
		Status     string        `avro:"status"`
		CreatedAt  time.Time     `avro:"created_at"`
	}

	OrderItemV1 struct {
		ProductID string  `avro:"product_id"`
		Title     string  `avro:"title"`
		Price     float64 `avro:"price"`
		Quantity  int     `avro:"quantity"`
		Subtotal  float64 `avro:"subtotal"`
	}
)

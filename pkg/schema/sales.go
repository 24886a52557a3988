package schema

// ProductSaleSchemaTextV1 describes one order line keyed by its product.
const ProductSaleSchemaTextV1 = `{
	"type": "record",
	"namespace": "shop.sales",
	"name": "ProductSale",
	"fields": [
		{"name": "order_id", "type": "string"},
		{"name": "product_id", "type": "string"},
		{"name": "quantity", "type": "int"},
		{"name": "revenue", "type": "double"}
	]
}`

// ProductSalesSchemaTextV1 describes the running sales total of a product.
const ProductSalesSchemaTextV1 = `{
	"type": "record",
	"namespace": "shop.sales",
	"name": "ProductSales",
	"fields": [
		{"name": "product_id", "type": "string"},
		{"name": "units_sold", "type": "long"},
		{"name": "revenue", "type": "double"},
		{"name": "orders", "type": "long"}
	]
}`

type (
	ProductSaleV1 struct {
		OrderID   string  `avro:"order_id"`
		ProductID string  `avro:"product_id"`
		Quantity  int     `avro:"quantity"`
		Revenue   float64 `avro:"revenue"`
	}

	ProductSalesV1 struct {
		ProductID string  `avro:"product_id"`
		UnitsSold int64   `avro:"units_sold"`
		Revenue   float64 `avro:"revenue"`
		Orders    int64   `avro:"orders"`
	}
)

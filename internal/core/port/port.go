package port

import (
	"context"
	"sync"

	"github.com/niksmo/shop/internal/core/domain"
)

type (
	runnerContextWg interface {
		Run(context.Context, context.CancelFunc, *sync.WaitGroup)
	}

	closer interface {
		Close()
	}
)

// Inbound ports.

type Checkouter interface {
	Checkout(context.Context, domain.Cart) (domain.Receipt, error)
}

type ProductsLister interface {
	ListProducts(context.Context, domain.ProductQuery) ([]domain.Product, error)
}

type ProductsAdministrator interface {
	CreateProduct(context.Context, domain.ProductDraft) (string, error)
	UpdateProduct(context.Context, string, domain.ProductPatch) error
}

type OrdersLister interface {
	ListOrders(context.Context) ([]domain.Order, error)
}

type ProductSalesReader interface {
	ReadProductSales(context.Context, string) (domain.ProductSales, error)
}

type StorageDiagnoser interface {
	DiagnoseStorage(context.Context) (domain.StorageStatus, error)
}

// Outbound ports.

// A ProductsStorage reads and writes the product collection.
//
// Malformed ids fail with [domain.ErrInvalidReference],
// missing documents with [domain.ErrNotFound].
type ProductsStorage interface {
	ReadProduct(context.Context, string) (domain.Product, error)
	ListProducts(context.Context, domain.ProductQuery) ([]domain.Product, error)
	CreateProduct(context.Context, domain.Product) (domain.Product, error)
	UpdateProduct(context.Context, string, domain.ProductPatch) (domain.Product, error)
}

// A StockStorage mutates product stock atomically.
//
// ReserveStock decrements stock by qty only if the current stock is
// at least qty and fails with [domain.ErrInsufficientStock] otherwise.
// ReleaseStock gives reserved units back.
type StockStorage interface {
	ReserveStock(ctx context.Context, productID string, qty int) error
	ReleaseStock(ctx context.Context, productID string, qty int) error
}

// An OrdersStorage assigns the order id and creation time on insert.
type OrdersStorage interface {
	CreateOrder(context.Context, domain.Order) (domain.Order, error)
	ListOrders(context.Context) ([]domain.Order, error)
}

type StorageInspector interface {
	Status(context.Context) (domain.StorageStatus, error)
}

type OrdersProducer interface {
	ProduceOrder(context.Context, domain.Order) error
}

type ProductsProducer interface {
	ProduceProduct(context.Context, domain.Product) error
}

type ProductSalesView interface {
	runnerContextWg
	ProductSales(productID string) (domain.ProductSales, error)
}

type OrderSplitterProcessor interface {
	runnerContextWg
	closer
}

type ProductSalesProcessor interface {
	runnerContextWg
	closer
}

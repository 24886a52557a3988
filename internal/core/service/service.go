package service

import (
	"context"
	"sync"
	"time"

	"github.com/niksmo/shop/internal/core/port"
	"github.com/niksmo/shop/pkg/retry"
)

var (
	_ port.Checkouter            = (*Service)(nil)
	_ port.ProductsLister        = (*Service)(nil)
	_ port.ProductsAdministrator = (*Service)(nil)
	_ port.OrdersLister          = (*Service)(nil)
	_ port.ProductSalesReader    = (*Service)(nil)
	_ port.StorageDiagnoser      = (*Service)(nil)
)

const (
	reserveTimeout     = 10 * time.Second
	compensateTimeout  = 10 * time.Second
	compensateAttempts = 5
	compensateDelay    = 50 * time.Millisecond
)

// Storage groups the store collaborators of the service.
type Storage struct {
	Products  port.ProductsStorage
	Stock     port.StockStorage
	Orders    port.OrdersStorage
	Inspector port.StorageInspector
}

// Events groups the broker collaborators of the service.
//
// The zero Events disables publishing and sales statistics.
type Events struct {
	Orders        port.OrdersProducer
	Products      port.ProductsProducer
	SalesView     port.ProductSalesView
	OrderSplitter port.OrderSplitterProcessor
	ProductSales  port.ProductSalesProcessor
}

type Service struct {
	storage    Storage
	events     Events
	compensate retry.RetryConfig
	views      *sync.WaitGroup
}

func New(storage Storage, events Events) Service {
	return Service{
		storage: storage,
		events:  events,
		compensate: retry.RetryConfig{
			MaxAttempts: compensateAttempts,
			Backoff:     retry.ExponentialBackoff(compensateDelay),
		},
		views: &sync.WaitGroup{},
	}
}

// Run runs the stream processors and the sales view in separate goroutines.
//
// Blocks current goroutine while processors are preparing to ready state.
// The view is not waited for: sales statistics answer Unavailable until
// it is recovered. Does nothing when the broker is disabled.
func (s Service) Run(ctx context.Context, stopFn context.CancelFunc) {
	if s.events.SalesView != nil {
		s.views.Add(1)
		go s.events.SalesView.Run(ctx, stopFn, s.views)
	}

	var wg sync.WaitGroup
	if s.events.OrderSplitter != nil {
		wg.Add(1)
		go s.events.OrderSplitter.Run(ctx, stopFn, &wg)
	}
	if s.events.ProductSales != nil {
		wg.Add(1)
		go s.events.ProductSales.Run(ctx, stopFn, &wg)
	}
	wg.Wait()
}

// Close stops the processors and waits for the sales view,
// which returns once the ctx passed to Run is done.
func (s Service) Close() {
	s.views.Wait()
	if s.events.OrderSplitter != nil {
		s.events.OrderSplitter.Close()
	}
	if s.events.ProductSales != nil {
		s.events.ProductSales.Close()
	}
}

package service

import (
	"context"
	"fmt"

	"github.com/niksmo/shop/internal/core/domain"
)

func (s Service) ListOrders(ctx context.Context) ([]domain.Order, error) {
	const op = "Service.ListOrders"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	orders, err := s.storage.Orders.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return orders, nil
}

// ReadProductSales returns the sales aggregated from placed orders.
//
// Products without sales yield zero statistics.
func (s Service) ReadProductSales(
	ctx context.Context, productID string,
) (domain.ProductSales, error) {
	const op = "Service.ReadProductSales"

	if err := ctx.Err(); err != nil {
		return domain.ProductSales{}, fmt.Errorf("%s: %w", op, err)
	}

	if s.events.SalesView == nil {
		return domain.ProductSales{}, fmt.Errorf(
			"%s: %w", op, domain.UnavailableErr("Sales statistics"),
		)
	}

	if !domain.ValidID(productID) {
		return domain.ProductSales{}, fmt.Errorf(
			"%s: %w", op, domain.InvalidReferenceErr(productID),
		)
	}

	stats, err := s.events.SalesView.ProductSales(productID)
	if err != nil {
		return domain.ProductSales{}, fmt.Errorf("%s: %w", op, err)
	}
	return stats, nil
}

// DiagnoseStorage reports what is known about the store
// even when it fails to answer.
func (s Service) DiagnoseStorage(
	ctx context.Context,
) (domain.StorageStatus, error) {
	const op = "Service.DiagnoseStorage"

	status, err := s.storage.Inspector.Status(ctx)
	if err != nil {
		return status, fmt.Errorf("%s: %w", op, err)
	}
	return status, nil
}

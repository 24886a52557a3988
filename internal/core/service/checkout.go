package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/niksmo/shop/internal/core/domain"
	"github.com/niksmo/shop/pkg/retry"
)

type reservation struct {
	productID string
	quantity  int
}

// Checkout turns the cart into a paid order.
//
// Either every cart line is reserved and the order is stored,
// or no stock changes and no order exists.
func (s Service) Checkout(
	ctx context.Context, cart domain.Cart,
) (domain.Receipt, error) {
	const op = "Service.Checkout"

	if err := ctx.Err(); err != nil {
		return domain.Receipt{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := cart.Validate(); err != nil {
		return domain.Receipt{}, fmt.Errorf("%s: %w", op, err)
	}

	items, err := s.priceCart(ctx, cart)
	if err != nil {
		return domain.Receipt{}, fmt.Errorf("%s: %w", op, err)
	}

	// The order is complete before any stock moves.
	paid, err := domain.NewPaidOrder(cart, items)
	if err != nil {
		return domain.Receipt{}, fmt.Errorf("%s: %w", op, err)
	}

	reserved, err := s.reserveItems(ctx, items)
	if err != nil {
		s.releaseStock(ctx, reserved)
		return domain.Receipt{}, fmt.Errorf("%s: %w", op, err)
	}

	order, err := s.storage.Orders.CreateOrder(ctx, paid)
	if err != nil {
		s.releaseStock(ctx, reserved)
		return domain.Receipt{}, fmt.Errorf("%s: %w", op, err)
	}

	s.publishOrder(ctx, order)

	return domain.Receipt{OrderID: order.ID, Total: order.Total}, nil
}

// priceCart reads every product in cart order without side effects
// and freezes its title and price into an order item.
func (s Service) priceCart(
	ctx context.Context, cart domain.Cart,
) ([]domain.OrderItem, error) {
	items := make([]domain.OrderItem, 0, len(cart.Lines))
	for _, l := range cart.Lines {
		if !domain.ValidID(l.ProductID) {
			return nil, domain.InvalidReferenceErr(l.ProductID)
		}

		p, err := s.storage.Products.ReadProduct(ctx, l.ProductID)
		if err != nil {
			return nil, err
		}

		if p.Stock < l.Quantity {
			return nil, domain.InsufficientStockErr(p.Title)
		}

		item, err := domain.NewOrderItem(p, l.Quantity)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// reserveItems decrements stock line by line.
//
// It returns what was reserved so far even on failure. Writes run on a
// context detached from the request so a client deadline cannot drop a
// decrement the store has already applied.
func (s Service) reserveItems(
	ctx context.Context, items []domain.OrderItem,
) ([]reservation, error) {
	const op = "Service.reserveItems"
	log := slog.With("op", op)

	ctx, cancel := context.WithTimeout(
		context.WithoutCancel(ctx), reserveTimeout,
	)
	defer cancel()

	reserved := make([]reservation, 0, len(items))
	for _, it := range items {
		err := s.storage.Stock.ReserveStock(ctx, it.ProductID, it.Quantity)
		if err != nil {
			if errors.Is(err, domain.ErrInsufficientStock) ||
				errors.Is(err, domain.ErrNotFound) {
				return reserved, domain.InsufficientStockErr(it.Title)
			}
			// The store may have applied the write before failing.
			log.Error(
				"stock reservation outcome is unknown",
				"productID", it.ProductID,
				"quantity", it.Quantity,
				"err", err,
			)
			return reserved, err
		}
		reserved = append(reserved, reservation{it.ProductID, it.Quantity})
	}
	return reserved, nil
}

// releaseStock gives reserved units back on a context that outlives
// the request.
func (s Service) releaseStock(ctx context.Context, reserved []reservation) {
	const op = "Service.releaseStock"
	log := slog.With("op", op)

	if len(reserved) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(
		context.WithoutCancel(ctx), compensateTimeout,
	)
	defer cancel()

	for _, r := range reserved {
		err := retry.Do(ctx, s.compensate, func() error {
			return s.storage.Stock.ReleaseStock(ctx, r.productID, r.quantity)
		})
		if err != nil {
			log.Error(
				"failed to release reserved stock",
				"productID", r.productID,
				"quantity", r.quantity,
				"err", err,
			)
		}
	}
}

func (s Service) publishOrder(ctx context.Context, order domain.Order) {
	const op = "Service.publishOrder"
	log := slog.With("op", op)

	if s.events.Orders == nil {
		return
	}

	if err := s.events.Orders.ProduceOrder(ctx, order); err != nil {
		log.Error(
			"failed to produce order",
			"orderID", order.ID,
			"err", err,
		)
	}
}

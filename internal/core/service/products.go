package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/niksmo/shop/internal/core/domain"
)

func (s Service) ListProducts(
	ctx context.Context, q domain.ProductQuery,
) ([]domain.Product, error) {
	const op = "Service.ListProducts"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ps, err := s.storage.Products.ListProducts(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ps, nil
}

func (s Service) CreateProduct(
	ctx context.Context, d domain.ProductDraft,
) (string, error) {
	const op = "Service.CreateProduct"

	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if err := d.Validate(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	p, err := s.storage.Products.CreateProduct(ctx, d.Product())
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	s.publishProduct(ctx, p)
	return p.ID, nil
}

func (s Service) UpdateProduct(
	ctx context.Context, id string, patch domain.ProductPatch,
) error {
	const op = "Service.UpdateProduct"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if !domain.ValidID(id) {
		return fmt.Errorf("%s: %w", op, domain.InvalidReferenceErr(id))
	}

	if err := patch.Validate(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	p, err := s.storage.Products.UpdateProduct(ctx, id, patch)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.publishProduct(ctx, p)
	return nil
}

func (s Service) publishProduct(ctx context.Context, p domain.Product) {
	const op = "Service.publishProduct"
	log := slog.With("op", op)

	if s.events.Products == nil {
		return
	}

	if err := s.events.Products.ProduceProduct(ctx, p); err != nil {
		log.Error(
			"failed to produce product",
			"productID", p.ID,
			"err", err,
		)
	}
}

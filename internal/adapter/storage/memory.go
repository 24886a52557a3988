package storage

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/niksmo/shop/internal/core/domain"
	"github.com/niksmo/shop/internal/core/port"
)

var (
	_ port.ProductsStorage  = (*Memory)(nil)
	_ port.StockStorage     = (*Memory)(nil)
	_ port.OrdersStorage    = (*Memory)(nil)
	_ port.StorageInspector = (*Memory)(nil)
)

type memProduct struct {
	p   domain.Product
	seq uint64
}

type memOrder struct {
	o   domain.Order
	seq uint64
}

// Memory keeps products and orders in process memory.
//
// Every operation runs under one mutex, which makes stock
// reservations atomic. Insertion order breaks created_at ties.
type Memory struct {
	mu       sync.RWMutex
	seq      uint64
	products map[string]memProduct
	orders   map[string]memOrder
}

func NewMemory() *Memory {
	return &Memory{
		products: make(map[string]memProduct),
		orders:   make(map[string]memOrder),
	}
}

func (s *Memory) nextSeq() uint64 {
	s.seq++
	return s.seq
}

func (s *Memory) ReadProduct(
	ctx context.Context, id string,
) (domain.Product, error) {
	const op = "Memory.ReadProduct"

	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	if !domain.ValidID(id) {
		return domain.Product{}, fmt.Errorf(
			"%s: %w", op, domain.InvalidReferenceErr(id),
		)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	mp, ok := s.products[id]
	if !ok {
		return domain.Product{}, fmt.Errorf(
			"%s: %w", op, domain.ProductNotFoundErr(id),
		)
	}
	return mp.p, nil
}

func (s *Memory) ListProducts(
	ctx context.Context, q domain.ProductQuery,
) ([]domain.Product, error) {
	const op = "Memory.ListProducts"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.RLock()
	matched := make([]memProduct, 0, len(s.products))
	for _, mp := range s.products {
		if matchProduct(mp.p, q) {
			matched = append(matched, mp)
		}
	}
	s.mu.RUnlock()

	slices.SortFunc(matched, func(a, b memProduct) int {
		if c := b.p.CreatedAt.Compare(a.p.CreatedAt); c != 0 {
			return c
		}
		return int(b.seq) - int(a.seq)
	})

	ps := make([]domain.Product, len(matched))
	for i, mp := range matched {
		ps[i] = mp.p
	}
	return ps, nil
}

func matchProduct(p domain.Product, q domain.ProductQuery) bool {
	if q.Category != "" && p.Category != q.Category {
		return false
	}
	if q.Text == "" {
		return true
	}
	text := strings.ToLower(q.Text)
	return strings.Contains(strings.ToLower(p.Title), text) ||
		strings.Contains(strings.ToLower(p.Description), text)
}

func (s *Memory) CreateProduct(
	ctx context.Context, p domain.Product,
) (domain.Product, error) {
	const op = "Memory.CreateProduct"

	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	p.ID = domain.NewID()
	p.CreatedAt = now()
	p.UpdatedAt = p.CreatedAt

	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = memProduct{p, s.nextSeq()}
	return p, nil
}

func (s *Memory) UpdateProduct(
	ctx context.Context, id string, patch domain.ProductPatch,
) (domain.Product, error) {
	const op = "Memory.UpdateProduct"

	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	if !domain.ValidID(id) {
		return domain.Product{}, fmt.Errorf(
			"%s: %w", op, domain.InvalidReferenceErr(id),
		)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	mp, ok := s.products[id]
	if !ok {
		return domain.Product{}, fmt.Errorf(
			"%s: %w", op, domain.ProductNotFoundErr(id),
		)
	}
	mp.p = patch.Apply(mp.p)
	mp.p.UpdatedAt = now()
	s.products[id] = mp
	return mp.p, nil
}

func (s *Memory) ReserveStock(
	ctx context.Context, productID string, qty int,
) error {
	const op = "Memory.ReserveStock"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	mp, ok := s.products[productID]
	if !ok || mp.p.Stock < qty {
		return fmt.Errorf("%s: %w", op, domain.ErrInsufficientStock)
	}
	s.setStock(productID, mp, mp.p.Stock-qty)
	return nil
}

func (s *Memory) ReleaseStock(
	ctx context.Context, productID string, qty int,
) error {
	const op = "Memory.ReleaseStock"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	mp, ok := s.products[productID]
	if !ok {
		return fmt.Errorf("%s: %w", op, domain.ProductNotFoundErr(productID))
	}
	s.setStock(productID, mp, mp.p.Stock+qty)
	return nil
}

// setStock must be called with the write lock held.
func (s *Memory) setStock(id string, mp memProduct, stock int) {
	mp.p.Stock = stock
	mp.p.InStock = stock > 0
	mp.p.UpdatedAt = now()
	s.products[id] = mp
}

func (s *Memory) CreateOrder(
	ctx context.Context, o domain.Order,
) (domain.Order, error) {
	const op = "Memory.CreateOrder"

	if err := ctx.Err(); err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	o.ID = domain.NewID()
	o.CreatedAt = now()
	o.Items = slices.Clone(o.Items)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[o.ID] = memOrder{o, s.nextSeq()}
	return o, nil
}

func (s *Memory) ListOrders(ctx context.Context) ([]domain.Order, error) {
	const op = "Memory.ListOrders"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.RLock()
	all := make([]memOrder, 0, len(s.orders))
	for _, mo := range s.orders {
		all = append(all, mo)
	}
	s.mu.RUnlock()

	slices.SortFunc(all, func(a, b memOrder) int {
		if c := b.o.CreatedAt.Compare(a.o.CreatedAt); c != 0 {
			return c
		}
		return int(b.seq) - int(a.seq)
	})

	orders := make([]domain.Order, len(all))
	for i, mo := range all {
		o := mo.o
		o.Items = slices.Clone(o.Items)
		orders[i] = o
	}
	return orders, nil
}

func (s *Memory) Status(ctx context.Context) (domain.StorageStatus, error) {
	return domain.StorageStatus{
		Driver:       DriverMemory,
		DatabaseName: DriverMemory,
		Collections:  []string{ordersCollection, productsCollection},
	}, nil
}

func (s *Memory) Close(context.Context) {}

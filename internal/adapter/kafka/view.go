package kafka

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lovoo/goka"
	"github.com/niksmo/shop/internal/core/domain"
	"github.com/niksmo/shop/internal/core/port"
	"github.com/niksmo/shop/pkg/schema"
)

var _ port.ProductSalesView = (*ProductSalesView)(nil)

const recoveryPollInterval = 100 * time.Millisecond

// A ProductSalesView serves the group table of [ProductSalesProcessor].
type ProductSalesView struct {
	opPrefix string
	gv       *goka.View
}

func NewProductSalesView(
	seedBrokers []string,
	group string,
	salesSerde Serde,
	opts ...goka.ViewOption,
) (*ProductSalesView, error) {
	const op = "NewProductSalesView"

	gv, err := goka.NewView(
		seedBrokers,
		goka.GroupTable(goka.Group(group)),
		newProductSalesCodec(salesSerde),
		opts...,
	)
	if err != nil {
		return nil, opErr(err, op)
	}

	return &ProductSalesView{opPrefix: "ProductSalesView", gv: gv}, nil
}

// Run runs the view in a separate goroutine.
//
// Returns after the table is recovered or ctx is done.
func (v *ProductSalesView) Run(
	ctx context.Context, stopFn context.CancelFunc, wg *sync.WaitGroup,
) {
	const op = "Run"
	log := slog.With("op", makeOp(v.opPrefix, op))

	defer wg.Done()

	go func() {
		defer stopFn()
		if err := v.gv.Run(ctx); err != nil {
			log.Error("stopped", "err", err)
			return
		}
		log.Info("stopped")
	}()

	log.Info("recovering...")
	ticker := time.NewTicker(recoveryPollInterval)
	defer ticker.Stop()
	for !v.gv.Recovered() {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
	log.Info("running")
}

// ProductSales returns zero statistics for products without sales.
func (v *ProductSalesView) ProductSales(
	productID string,
) (domain.ProductSales, error) {
	const op = "ProductSales"

	if !v.gv.Recovered() {
		return domain.ProductSales{}, opErr(
			domain.UnavailableErr("Sales statistics"), v.opPrefix, op,
		)
	}

	value, err := v.gv.Get(productID)
	if err != nil {
		return domain.ProductSales{}, opErr(err, v.opPrefix, op)
	}

	if value == nil {
		return domain.ProductSales{ProductID: productID}, nil
	}

	s, ok := value.(schema.ProductSalesV1)
	if !ok {
		return domain.ProductSales{}, opErr(
			fmt.Errorf("%w: %T", ErrInvalidValueType, value), v.opPrefix, op,
		)
	}
	return productSalesFromSchemaV1(s), nil
}

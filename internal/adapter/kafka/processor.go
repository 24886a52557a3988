package kafka

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/lovoo/goka"
	"github.com/niksmo/shop/internal/core/port"
	"github.com/niksmo/shop/pkg/schema"
	"github.com/shopspring/decimal"
)

var (
	_ port.OrderSplitterProcessor = (*OrderSplitterProcessor)(nil)
	_ port.ProductSalesProcessor  = (*ProductSalesProcessor)(nil)
)

const revenuePlaces = 2

// A processor is used for composition.
//
// Running and closing the underlying [goka.Processor]
type processor struct {
	opPrefix string
	gp       *goka.Processor
}

func (p *processor) run(
	ctx context.Context, stopFn context.CancelFunc, wg *sync.WaitGroup,
) {
	const op = "run"
	log := slog.With("op", makeOp(p.opPrefix, op))

	defer wg.Done()

	go p.runProc(ctx, stopFn)

	log.Info("preparing...")
	p.waitForReady(ctx)
	log.Info("running")
}

func (p *processor) runProc(ctx context.Context, stopFn context.CancelFunc) {
	const op = "run"
	log := slog.With("op", makeOp(p.opPrefix, op))

	defer stopFn()

	err := p.gp.Run(ctx)
	if err != nil {
		log.Error("stopped", "err", err)
		return
	}
	log.Info("stopped")
}

func (p *processor) waitForReady(ctx context.Context) {
	const op = "waitForReady"
	log := slog.With("op", makeOp(p.opPrefix, op))

	err := p.gp.WaitForReadyContext(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		log.Error("fall down while preparing", "err", err)
		return
	}
}

func (p *processor) close() {
	const op = "close"
	log := slog.With("op", makeOp(p.opPrefix, op))

	log.Info("closing processor...")
	p.gp.Stop()
	log.Info("processor is closed")
}

// An avroCodec used for serde of the registered schema type T.
type avroCodec[T any] struct {
	name  string
	serde Serde
}

func newOrderPlacedCodec(s Serde) avroCodec[schema.OrderPlacedV1] {
	return avroCodec[schema.OrderPlacedV1]{"orderPlacedCodec", s}
}

func newProductSaleCodec(s Serde) avroCodec[schema.ProductSaleV1] {
	return avroCodec[schema.ProductSaleV1]{"productSaleCodec", s}
}

func newProductSalesCodec(s Serde) avroCodec[schema.ProductSalesV1] {
	return avroCodec[schema.ProductSalesV1]{"productSalesCodec", s}
}

func (c avroCodec[T]) Encode(v any) ([]byte, error) {
	if _, ok := v.(T); !ok {
		return nil, opErr(ErrInvalidValueType, c.name, "Encode")
	}
	return c.serde.Encode(v)
}

func (c avroCodec[T]) Decode(data []byte) (any, error) {
	var s T
	if err := c.serde.Decode(data, &s); err != nil {
		return nil, opErr(err, c.name, "Decode")
	}
	return s, nil
}

// An OrderSplitterProcessor splits placed orders from the input stream
// into one sale per product and emits them keyed by product id.
type OrderSplitterProcessor struct {
	opPrefix     string
	proc         processor
	outputStream goka.Stream
}

func NewOrderSplitterProc(
	seedBrokers []string,
	group string,
	inputTopic string,
	outputTopic string,
	orderSerde Serde,
	saleSerde Serde,
	opts ...goka.ProcessorOption,
) (*OrderSplitterProcessor, error) {
	const op = "NewOrderSplitterProc"

	p := OrderSplitterProcessor{
		opPrefix:     "OrderSplitterProcessor",
		outputStream: goka.Stream(outputTopic),
	}

	gg := goka.DefineGroup(goka.Group(group),
		goka.Input(
			goka.Stream(inputTopic),
			newOrderPlacedCodec(orderSerde),
			p.processFn,
		),
		goka.Output(p.outputStream, newProductSaleCodec(saleSerde)),
	)

	opts = append([]goka.ProcessorOption{withNonlogProcOpt()}, opts...)
	gp, err := goka.NewProcessor(seedBrokers, gg, opts...)
	if err != nil {
		return nil, opErr(err, op)
	}

	p.proc = processor{opPrefix: p.opPrefix, gp: gp}
	return &p, nil
}

func (p *OrderSplitterProcessor) Run(
	ctx context.Context, stopFn context.CancelFunc, wg *sync.WaitGroup,
) {
	p.proc.run(ctx, stopFn, wg)
}

func (p *OrderSplitterProcessor) Close() {
	p.proc.close()
}

func (p *OrderSplitterProcessor) processFn(ctx goka.Context, msg any) {
	const op = "processFn"

	order, _ := msg.(schema.OrderPlacedV1)
	log := slog.With("op", makeOp(p.opPrefix, op), "orderID", order.OrderID)

	sales := splitOrder(order)
	for _, s := range sales {
		ctx.Emit(p.outputStream, s.ProductID, s)
	}
	log.Debug("order is split", "sales", len(sales))
}

// splitOrder merges order lines of the same product.
//
// Sales keep the order of first appearance.
func splitOrder(order schema.OrderPlacedV1) []schema.ProductSaleV1 {
	idx := make(map[string]int, len(order.Items))
	revenue := make([]decimal.Decimal, 0, len(order.Items))
	sales := make([]schema.ProductSaleV1, 0, len(order.Items))

	for _, it := range order.Items {
		i, ok := idx[it.ProductID]
		if !ok {
			i = len(sales)
			idx[it.ProductID] = i
			sales = append(sales, schema.ProductSaleV1{
				OrderID:   order.OrderID,
				ProductID: it.ProductID,
			})
			revenue = append(revenue, decimal.Zero)
		}
		sales[i].Quantity += it.Quantity
		revenue[i] = revenue[i].Add(decimal.NewFromFloat(it.Subtotal))
	}

	for i := range sales {
		sales[i].Revenue = revenue[i].Round(revenuePlaces).InexactFloat64()
	}
	return sales
}

// A ProductSalesProcessor folds product sales from the input stream
// into running totals kept in its group table.
type ProductSalesProcessor struct {
	opPrefix string
	proc     processor
}

func NewProductSalesProc(
	seedBrokers []string,
	group string,
	inputTopic string,
	saleSerde Serde,
	salesSerde Serde,
	opts ...goka.ProcessorOption,
) (*ProductSalesProcessor, error) {
	const op = "NewProductSalesProc"

	p := ProductSalesProcessor{opPrefix: "ProductSalesProcessor"}

	gg := goka.DefineGroup(goka.Group(group),
		goka.Input(
			goka.Stream(inputTopic),
			newProductSaleCodec(saleSerde),
			p.processFn,
		),
		goka.Persist(newProductSalesCodec(salesSerde)),
	)

	opts = append([]goka.ProcessorOption{withNonlogProcOpt()}, opts...)
	gp, err := goka.NewProcessor(seedBrokers, gg, opts...)
	if err != nil {
		return nil, opErr(err, op)
	}

	p.proc = processor{opPrefix: p.opPrefix, gp: gp}
	return &p, nil
}

func (p *ProductSalesProcessor) Run(
	ctx context.Context, stopFn context.CancelFunc, wg *sync.WaitGroup,
) {
	p.proc.run(ctx, stopFn, wg)
}

func (p *ProductSalesProcessor) Close() {
	p.proc.close()
}

func (p *ProductSalesProcessor) processFn(ctx goka.Context, msg any) {
	const op = "processFn"

	sale, _ := msg.(schema.ProductSaleV1)
	log := slog.With("op", makeOp(p.opPrefix, op), "productID", ctx.Key())

	total, _ := ctx.Value().(schema.ProductSalesV1)
	total = addSale(total, ctx.Key(), sale)
	ctx.SetValue(total)

	log.Debug("sales updated", "unitsSold", total.UnitsSold)
}

func addSale(
	total schema.ProductSalesV1, productID string, sale schema.ProductSaleV1,
) schema.ProductSalesV1 {
	revenue := decimal.NewFromFloat(total.Revenue).
		Add(decimal.NewFromFloat(sale.Revenue)).
		Round(revenuePlaces)

	total.ProductID = productID
	total.UnitsSold += int64(sale.Quantity)
	total.Revenue = revenue.InexactFloat64()
	total.Orders++
	return total
}

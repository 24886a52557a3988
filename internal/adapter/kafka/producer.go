package kafka

import (
	"context"
	"log/slog"

	"github.com/niksmo/shop/internal/core/domain"
	"github.com/niksmo/shop/internal/core/port"
	"github.com/twmb/franz-go/pkg/kgo"
)

var (
	_ port.OrdersProducer   = (*OrdersProducer)(nil)
	_ port.ProductsProducer = (*ProductsProducer)(nil)
)

// A producer is used for composition.
//
// Producing records to kafka broker and closing underlying [kgo.Client].
type producer struct {
	opPrefix string
	cl       ProducerClient
	encoder  Encoder
}

func newProducer(opPrefix string, opts ...ProducerOpt) (producer, error) {
	op := "New" + opPrefix

	if len(opts) != 2 {
		panic(opErr(ErrTooFewOpts, op)) // develop mistake
	}

	var options producerOpts
	for _, opt := range opts {
		if err := opt(&options); err != nil {
			return producer{}, opErr(err, op)
		}
	}

	return producer{
		opPrefix: opPrefix,
		cl:       options.cl,
		encoder:  options.encoder,
	}, nil
}

func (p producer) close() {
	const op = "close"
	log := slog.With("op", makeOp(p.opPrefix, op))
	log.Info("closing producer...")
	p.cl.Close()
	log.Info("producer is closed")
}

// produce encodes v and writes it synchronously under key.
func (p producer) produce(ctx context.Context, key string, v any) error {
	const op = "produce"

	b, err := p.encoder.Encode(v)
	if err != nil {
		return opErr(err, p.opPrefix, op)
	}

	r := &kgo.Record{Key: []byte(key), Value: b}
	res := p.cl.ProduceSync(ctx, r)
	if err := res.FirstErr(); err != nil {
		return opErr(err, p.opPrefix, op)
	}
	return nil
}

// An OrdersProducer publishes placed orders keyed by order id.
type OrdersProducer struct {
	producer producer
}

func NewOrdersProducer(opts ...ProducerOpt) (OrdersProducer, error) {
	p, err := newProducer("OrdersProducer", opts...)
	if err != nil {
		return OrdersProducer{}, err
	}
	return OrdersProducer{p}, nil
}

func (p OrdersProducer) Close() {
	p.producer.close()
}

func (p OrdersProducer) ProduceOrder(ctx context.Context, v domain.Order) error {
	const op = "ProduceOrder"

	if err := ctx.Err(); err != nil {
		return opErr(err, p.producer.opPrefix, op)
	}

	err := p.producer.produce(ctx, v.ID, orderToSchemaV1(v))
	if err != nil {
		return opErr(err, p.producer.opPrefix, op)
	}
	return nil
}

// A ProductsProducer publishes the catalog state of created
// and updated products keyed by product id.
type ProductsProducer struct {
	producer producer
}

func NewProductsProducer(opts ...ProducerOpt) (ProductsProducer, error) {
	p, err := newProducer("ProductsProducer", opts...)
	if err != nil {
		return ProductsProducer{}, err
	}
	return ProductsProducer{p}, nil
}

func (p ProductsProducer) Close() {
	p.producer.close()
}

func (p ProductsProducer) ProduceProduct(
	ctx context.Context, v domain.Product,
) error {
	const op = "ProduceProduct"

	if err := ctx.Err(); err != nil {
		return opErr(err, p.producer.opPrefix, op)
	}

	err := p.producer.produce(ctx, v.ID, productToSchemaV1(v))
	if err != nil {
		return opErr(err, p.producer.opPrefix, op)
	}
	return nil
}

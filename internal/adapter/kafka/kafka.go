package kafka

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/lovoo/goka"
	"github.com/niksmo/shop/internal/core/domain"
	"github.com/niksmo/shop/pkg/schema"
	"github.com/twmb/franz-go/pkg/kgo"
)

var (
	ErrTooFewOpts       = errors.New("too few options")
	ErrInvalidValueType = errors.New("invalid value type")
)

type ProducerOpt func(*producerOpts) error

type producerOpts struct {
	cl      ProducerClient
	encoder Encoder
}

// ProducerClientOpt connects a [kgo.Client] producing to topic.
//
// A nil tlsConfig means plaintext.
func ProducerClientOpt(
	ctx context.Context,
	seedBrokers []string,
	topic string,
	tlsConfig *tls.Config,
) ProducerOpt {
	return func(opts *producerOpts) error {
		kopts := []kgo.Opt{
			kgo.SeedBrokers(seedBrokers...),
			kgo.DefaultProduceTopicAlways(),
			kgo.DefaultProduceTopic(topic),
			kgo.RequiredAcks(kgo.AllISRAcks()),
			kgo.AllowAutoTopicCreation(),
		}
		if tlsConfig != nil {
			kopts = append(kopts, kgo.DialTLSConfig(tlsConfig))
		}

		cl, err := kgo.NewClient(kopts...)
		if err != nil {
			return err
		}

		if err := cl.Ping(ctx); err != nil {
			cl.Close()
			return err
		}
		opts.cl = cl
		return nil
	}
}

// ProducerRawClientOpt uses an already built client.
func ProducerRawClientOpt(cl ProducerClient) ProducerOpt {
	return func(opts *producerOpts) error {
		if cl == nil {
			return errors.New("producer client is nil")
		}
		opts.cl = cl
		return nil
	}
}

func ProducerEncoderOpt(encoder Encoder) ProducerOpt {
	return func(opts *producerOpts) error {
		if encoder == nil {
			return errors.New("encoder is nil")
		}
		opts.encoder = encoder
		return nil
	}
}

type ProducerClient interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	Close()
}

type Encoder interface {
	Encode(v any) ([]byte, error)
}

type Decoder interface {
	Decode(b []byte, v any) error
}

type Serde interface {
	Encoder
	Decoder
}

// ConfigureGokaTLS switches the sarama clients of every goka
// processor and view created afterwards to TLS.
func ConfigureGokaTLS(tlsConfig *tls.Config) {
	if tlsConfig == nil {
		return
	}
	cfg := goka.DefaultConfig()
	cfg.Net.TLS.Enable = true
	cfg.Net.TLS.Config = tlsConfig
	goka.ReplaceGlobalConfig(cfg)
}

func withNonlogProcOpt() goka.ProcessorOption {
	return goka.WithLogger(log.New(io.Discard, "", 0))
}

func makeOp(s ...string) string {
	return strings.Join(s, ".")
}

func opErr(err error, op ...string) error {
	return fmt.Errorf("%s: %w", makeOp(op...), err)
}

func productToSchemaV1(v domain.Product) schema.ProductV1 {
	return schema.ProductV1{
		ProductID:   v.ID,
		Title:       v.Title,
		Description: v.Description,
		Price:       v.Price,
		Category:    v.Category,
		Stock:       v.Stock,
		ImageURL:    v.ImageURL,
		InStock:     v.InStock,
		UpdatedAt:   v.UpdatedAt,
	}
}

func orderToSchemaV1(v domain.Order) (s schema.OrderPlacedV1) {
	s.OrderID = v.ID
	s.BuyerName = v.BuyerName
	s.BuyerEmail = v.BuyerEmail
	s.Total = v.Total
	s.Status = v.Status
	s.CreatedAt = v.CreatedAt

	s.Items = make([]schema.OrderItemV1, len(v.Items))
	for i, it := range v.Items {
		s.Items[i] = schema.OrderItemV1{
			ProductID: it.ProductID,
			Title:     it.Title,
			Price:     it.Price,
			Quantity:  it.Quantity,
			Subtotal:  it.Subtotal,
		}
	}
	return
}

func productSalesFromSchemaV1(s schema.ProductSalesV1) domain.ProductSales {
	return domain.ProductSales{
		ProductID: s.ProductID,
		UnitsSold: int(s.UnitsSold),
		Revenue:   s.Revenue,
		Orders:    int(s.Orders),
	}
}

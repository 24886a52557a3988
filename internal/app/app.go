package app

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/lovoo/goka"
	"github.com/niksmo/shop/config"
	"github.com/niksmo/shop/internal/adapter"
	"github.com/niksmo/shop/internal/adapter/httphandler"
	"github.com/niksmo/shop/internal/adapter/kafka"
	"github.com/niksmo/shop/internal/adapter/storage"
	"github.com/niksmo/shop/internal/core/service"
	"github.com/niksmo/shop/pkg/schema"
	"github.com/twmb/franz-go/pkg/sr"
)

const connectTimeout = 10 * time.Second

type storeCloser interface {
	Close(context.Context)
}

type serdes struct {
	order        schema.Serde
	product      schema.Serde
	productSale  schema.Serde
	productSales schema.Serde
}

type producers struct {
	orders   *kafka.OrdersProducer
	products *kafka.ProductsProducer
}

type App struct {
	ctx        context.Context
	cfg        config.Config
	tlsConfig  *tls.Config
	store      storeCloser
	storage    service.Storage
	serdes     serdes
	producers  producers
	events     service.Events
	service    service.Service
	httpServer httphandler.HTTPServer
}

func New(ctx context.Context, cfg config.Config) *App {
	app := &App{ctx: ctx, cfg: cfg}

	app.initLogger()
	app.initStorage()
	if cfg.Broker.Enabled {
		app.initTLS()
		app.initSerdes()
		app.initProducers()
		app.initProcessors()
	} else {
		slog.Warn("broker is disabled, events and sales statistics are off")
	}
	app.initCoreService()
	app.initInboundAdapters()

	return app
}

func (app *App) initLogger() {
	opts := &slog.HandlerOptions{Level: app.cfg.LogLevel}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, opts))
	slog.SetDefault(logger)
}

func (app *App) initStorage() {
	const op = "App.initStorage"

	switch app.cfg.Storage.Driver {
	case config.DriverMemory:
		mem := storage.NewMemory()
		app.store = mem
		app.storage = service.Storage{
			Products:  mem,
			Stock:     mem,
			Orders:    mem,
			Inspector: mem,
		}
	default:
		ctx, cancel := context.WithTimeout(app.ctx, connectTimeout)
		defer cancel()

		db, err := storage.NewMongoDB(
			ctx, app.cfg.Storage.URI, app.cfg.Storage.Database,
		)
		if err != nil {
			app.fallDown(op, err)
		}

		products := storage.NewProductsRepository(db.Database())
		app.store = db
		app.storage = service.Storage{
			Products:  products,
			Stock:     products,
			Orders:    storage.NewOrdersRepository(db.Database()),
			Inspector: db,
		}
	}
	slog.Info("storage is ready", "driver", app.cfg.Storage.Driver)
}

func (app *App) initTLS() {
	const op = "App.initTLS"

	files := app.cfg.Broker.TLS
	if !files.Enabled() {
		return
	}

	tlsConfig, err := adapter.MakeTLSConfig(
		files.CAFile, files.CertFile, files.KeyFile,
	)
	if err != nil {
		app.fallDown(op, err)
	}
	kafka.ConfigureGokaTLS(tlsConfig)
	app.tlsConfig = tlsConfig
}

func (app *App) initSerdes() {
	const op = "App.initSerdes"
	ctx := app.ctx
	topics := app.cfg.Broker.Topics

	srOpts := []sr.ClientOpt{sr.URLs(app.cfg.Broker.SchemaRegistryURLs...)}
	if app.tlsConfig != nil {
		srOpts = append(srOpts, sr.DialTLSConfig(app.tlsConfig))
	}
	srClient, err := sr.NewClient(srOpts...)
	if err != nil {
		app.fallDown(op, err)
	}

	schemaCreater := schema.NewSchemaCreater(srClient)

	newSerde := func(
		subject string,
		fn func(context.Context, ...schema.Opt) (schema.Serde, error),
	) schema.Serde {
		s, err := fn(
			ctx,
			schema.SubjectOpt(subject+"-value"),
			schema.SchemaIdentifierOpt(schemaCreater),
		)
		if err != nil {
			app.fallDown(op, err)
		}
		return s
	}

	salesTable := string(goka.GroupTable(
		goka.Group(app.cfg.Broker.Groups.ProductSales),
	))

	app.serdes = serdes{
		order:        newSerde(topics.Orders, schema.NewSerdeOrderPlacedV1),
		product:      newSerde(topics.Products, schema.NewSerdeProductV1),
		productSale:  newSerde(topics.ProductSales, schema.NewSerdeProductSaleV1),
		productSales: newSerde(salesTable, schema.NewSerdeProductSalesV1),
	}
}

func (app *App) initProducers() {
	const op = "App.initProducers"

	ctx := app.ctx
	seedBrokers := app.cfg.Broker.SeedBrokers
	topics := app.cfg.Broker.Topics

	ordersProducer, err := kafka.NewOrdersProducer(
		kafka.ProducerClientOpt(ctx, seedBrokers, topics.Orders, app.tlsConfig),
		kafka.ProducerEncoderOpt(app.serdes.order),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	productsProducer, err := kafka.NewProductsProducer(
		kafka.ProducerClientOpt(ctx, seedBrokers, topics.Products, app.tlsConfig),
		kafka.ProducerEncoderOpt(app.serdes.product),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	app.producers = producers{&ordersProducer, &productsProducer}
	app.events.Orders = ordersProducer
	app.events.Products = productsProducer
}

func (app *App) initProcessors() {
	const op = "App.initProcessors"

	seedBrokers := app.cfg.Broker.SeedBrokers
	topics := app.cfg.Broker.Topics
	groups := app.cfg.Broker.Groups

	orderSplitter, err := kafka.NewOrderSplitterProc(
		seedBrokers,
		groups.OrderSplitter,
		topics.Orders,
		topics.ProductSales,
		app.serdes.order,
		app.serdes.productSale,
	)
	if err != nil {
		app.fallDown(op, err)
	}

	productSales, err := kafka.NewProductSalesProc(
		seedBrokers,
		groups.ProductSales,
		topics.ProductSales,
		app.serdes.productSale,
		app.serdes.productSales,
	)
	if err != nil {
		app.fallDown(op, err)
	}

	salesView, err := kafka.NewProductSalesView(
		seedBrokers, groups.ProductSales, app.serdes.productSales,
	)
	if err != nil {
		app.fallDown(op, err)
	}

	app.events.OrderSplitter = orderSplitter
	app.events.ProductSales = productSales
	app.events.SalesView = salesView
}

func (app *App) initCoreService() {
	app.service = service.New(app.storage, app.events)
}

func (app *App) initInboundAdapters() {
	mux := http.NewServeMux()
	httphandler.RegisterRoot(mux, app.service)
	httphandler.RegisterProducts(mux, app.service)
	httphandler.RegisterCheckout(mux, app.service)
	httphandler.RegisterAdmin(mux, app.service, app.service, app.service)

	handler := httphandler.Chain(mux,
		httphandler.CORS,
		httphandler.WithRequestID,
		httphandler.WithLogging,
		httphandler.AllowJSON,
	)
	app.httpServer = httphandler.NewHTTPServer(
		app.cfg.HTTPServerAddr, handler, app.cfg.HandlerTimeout,
	)
}

func (app *App) Run(stopFn context.CancelFunc) {
	app.service.Run(app.ctx, stopFn)
	go app.httpServer.Run(stopFn)

	slog.Info("application is running")
}

func (app *App) Close(ctx context.Context) {
	slog.Info("application is closing...")

	app.httpServer.Close(ctx)
	app.service.Close()
	if app.producers.orders != nil {
		app.producers.orders.Close()
	}
	if app.producers.products != nil {
		app.producers.products.Close()
	}
	app.store.Close(ctx)

	slog.Info("application is closed")
}

func (app *App) fallDown(op string, err error) {
	panic(fmt.Errorf("%s: %w", op, err))
}

package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/niksmo/shop/internal/core/domain"
	"github.com/niksmo/shop/internal/core/port"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	DriverMongo  = "mongodb"
	DriverMemory = "memory"
)

const (
	productsCollection = "product"
	ordersCollection   = "order"
)

const maxListedCollections = 10

var _ port.StorageInspector = (*MongoDB)(nil)

type MongoDB struct {
	client *mongo.Client
	db     *mongo.Database
}

func NewMongoDB(ctx context.Context, uri, database string) (MongoDB, error) {
	const op = "MongoDB"
	log := slog.With("op", op)

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return MongoDB{}, fmt.Errorf("%s: failed to connect: %w", op, err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return MongoDB{}, fmt.Errorf("%s: database is unavailable: %w", op, err)
	}
	log.Info("database is available", "database", database)
	return MongoDB{client, client.Database(database)}, nil
}

func (s MongoDB) Client() *mongo.Client {
	return s.client
}

// Database returns the handle the repositories are built on.
func (s MongoDB) Database() *mongo.Database {
	return s.db
}

func (s MongoDB) Close(ctx context.Context) {
	const op = "MongoDB.Close"
	log := slog.With("op", op)

	log.Info("closing mongo database...")

	if err := s.client.Disconnect(ctx); err != nil {
		log.Error("failed to close", "err", err)
		return
	}
	log.Info("mongo database is closed")
}

// Status lists up to ten collections of the database.
func (s MongoDB) Status(ctx context.Context) (domain.StorageStatus, error) {
	const op = "MongoDB.Status"

	status := domain.StorageStatus{
		Driver:       DriverMongo,
		DatabaseName: s.db.Name(),
	}

	names, err := s.db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return status, fmt.Errorf("%s: %w", op, err)
	}
	if len(names) > maxListedCollections {
		names = names[:maxListedCollections]
	}
	status.Collections = names
	return status, nil
}

// now returns the current time at the precision a BSON date keeps.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

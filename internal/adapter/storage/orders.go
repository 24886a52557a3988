package storage

import (
	"context"
	"fmt"

	"github.com/niksmo/shop/internal/core/domain"
	"github.com/niksmo/shop/internal/core/port"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ port.OrdersStorage = (*OrdersRepository)(nil)

type OrdersRepository struct {
	coll *mongo.Collection
}

func NewOrdersRepository(db *mongo.Database) OrdersRepository {
	return OrdersRepository{db.Collection(ordersCollection)}
}

func (r OrdersRepository) CreateOrder(
	ctx context.Context, o domain.Order,
) (domain.Order, error) {
	const op = "OrdersRepository.CreateOrder"

	doc := newOrderDoc(o)
	doc.ID = primitive.NewObjectID()
	doc.CreatedAt = now()

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}
	return doc.order(), nil
}

func (r OrdersRepository) ListOrders(ctx context.Context) ([]domain.Order, error) {
	const op = "OrdersRepository.ListOrders"

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var docs []orderDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	orders := make([]domain.Order, len(docs))
	for i, d := range docs {
		orders[i] = d.order()
	}
	return orders, nil
}

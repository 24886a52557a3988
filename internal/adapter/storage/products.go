package storage

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/niksmo/shop/internal/core/domain"
	"github.com/niksmo/shop/internal/core/port"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	_ port.ProductsStorage = (*ProductsRepository)(nil)
	_ port.StockStorage    = (*ProductsRepository)(nil)
)

type ProductsRepository struct {
	coll *mongo.Collection
}

func NewProductsRepository(db *mongo.Database) ProductsRepository {
	return ProductsRepository{db.Collection(productsCollection)}
}

func (r ProductsRepository) ReadProduct(
	ctx context.Context, id string,
) (domain.Product, error) {
	const op = "ProductsRepository.ReadProduct"

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.Product{}, fmt.Errorf(
			"%s: %w", op, domain.InvalidReferenceErr(id),
		)
	}

	var doc productDoc
	err = r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Product{}, fmt.Errorf(
				"%s: %w", op, domain.ProductNotFoundErr(id),
			)
		}
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	return doc.product(), nil
}

// ListProducts returns the newest products first.
//
// Text is matched literally and case-insensitively
// against title or description.
func (r ProductsRepository) ListProducts(
	ctx context.Context, q domain.ProductQuery,
) ([]domain.Product, error) {
	const op = "ProductsRepository.ListProducts"

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, productsFilter(q), opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var docs []productDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ps := make([]domain.Product, len(docs))
	for i, d := range docs {
		ps[i] = d.product()
	}
	return ps, nil
}

func productsFilter(q domain.ProductQuery) bson.D {
	filter := bson.D{}
	if q.Text != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(q.Text), Options: "i"}
		filter = append(filter, bson.E{Key: "$or", Value: bson.A{
			bson.D{{Key: "title", Value: re}},
			bson.D{{Key: "description", Value: re}},
		}})
	}
	if q.Category != "" {
		filter = append(filter, bson.E{Key: "category", Value: q.Category})
	}
	return filter
}

func (r ProductsRepository) CreateProduct(
	ctx context.Context, p domain.Product,
) (domain.Product, error) {
	const op = "ProductsRepository.CreateProduct"

	doc := newProductDoc(p)
	doc.ID = primitive.NewObjectID()
	doc.CreatedAt = now()
	doc.UpdatedAt = doc.CreatedAt

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	return doc.product(), nil
}

// UpdateProduct sets the supplied fields and returns the updated product.
func (r ProductsRepository) UpdateProduct(
	ctx context.Context, id string, patch domain.ProductPatch,
) (domain.Product, error) {
	const op = "ProductsRepository.UpdateProduct"

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.Product{}, fmt.Errorf(
			"%s: %w", op, domain.InvalidReferenceErr(id),
		)
	}

	update := bson.D{{Key: "$set", Value: patchSet(patch, now())}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc productDoc
	err = r.coll.FindOneAndUpdate(
		ctx, bson.D{{Key: "_id", Value: oid}}, update, opts,
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Product{}, fmt.Errorf(
				"%s: %w", op, domain.ProductNotFoundErr(id),
			)
		}
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	return doc.product(), nil
}

// ReserveStock decrements stock in one conditional update.
//
// The document matches only while stock >= qty, so concurrent
// reservations can never drive stock below zero.
func (r ProductsRepository) ReserveStock(
	ctx context.Context, productID string, qty int,
) error {
	const op = "ProductsRepository.ReserveStock"

	oid, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, domain.InvalidReferenceErr(productID))
	}

	filter := bson.D{
		{Key: "_id", Value: oid},
		{Key: "stock", Value: bson.D{{Key: "$gte", Value: qty}}},
	}
	res, err := r.coll.UpdateOne(ctx, filter, stockUpdate(-qty))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%s: %w", op, domain.ErrInsufficientStock)
	}
	return nil
}

func (r ProductsRepository) ReleaseStock(
	ctx context.Context, productID string, qty int,
) error {
	const op = "ProductsRepository.ReleaseStock"

	oid, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, domain.InvalidReferenceErr(productID))
	}

	res, err := r.coll.UpdateOne(
		ctx, bson.D{{Key: "_id", Value: oid}}, stockUpdate(qty),
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%s: %w", op, domain.ProductNotFoundErr(productID))
	}
	return nil
}

// stockUpdate adds delta to stock and derives in_stock from the result.
func stockUpdate(delta int) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "stock", Value: bson.D{{Key: "$add", Value: bson.A{"$stock", delta}}}},
		}}},
		{{Key: "$set", Value: bson.D{
			{Key: "in_stock", Value: bson.D{{Key: "$gt", Value: bson.A{"$stock", 0}}}},
			{Key: "updated_at", Value: "$$NOW"},
		}}},
	}
}

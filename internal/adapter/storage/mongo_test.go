package storage

import (
	"testing"
	"time"

	"github.com/niksmo/shop/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func productBSON(oid primitive.ObjectID, title string, price float64, stock int) bson.D {
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	return bson.D{
		{Key: "_id", Value: oid},
		{Key: "title", Value: title},
		{Key: "price", Value: price},
		{Key: "category", Value: "kitchen"},
		{Key: "stock", Value: stock},
		{Key: "in_stock", Value: stock > 0},
		{Key: "created_at", Value: created},
		{Key: "updated_at", Value: created},
	}
}

func TestProductsRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("ReadProduct", func(mt *mtest.T) {
		oid := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(
			0, "db.product", mtest.FirstBatch, productBSON(oid, "Mug", 9.99, 5),
		))

		p, err := NewProductsRepository(mt.DB).ReadProduct(t.Context(), oid.Hex())
		require.NoError(mt, err)
		assert.Equal(mt, oid.Hex(), p.ID)
		assert.Equal(mt, "Mug", p.Title)
		assert.Equal(mt, 9.99, p.Price)
		assert.Equal(mt, 5, p.Stock)
	})

	mt.Run("ReadProductNotFound", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.product", mtest.FirstBatch))

		id := primitive.NewObjectID().Hex()
		_, err := NewProductsRepository(mt.DB).ReadProduct(t.Context(), id)
		assert.ErrorIs(mt, err, domain.ErrNotFound)
		assert.ErrorContains(mt, err, id)
	})

	mt.Run("ReadProductInvalidID", func(mt *mtest.T) {
		_, err := NewProductsRepository(mt.DB).ReadProduct(t.Context(), "nope")
		assert.ErrorIs(mt, err, domain.ErrInvalidReference)
	})

	mt.Run("ListProducts", func(mt *mtest.T) {
		newer, older := primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(
			0, "db.product", mtest.FirstBatch,
			productBSON(newer, "Blue mug", 4, 1),
			productBSON(older, "Mug", 3, 0),
		))

		ps, err := NewProductsRepository(mt.DB).ListProducts(
			t.Context(), domain.ProductQuery{Text: "mug+", Category: "kitchen"},
		)
		require.NoError(mt, err)
		require.Len(mt, ps, 2)
		assert.Equal(mt, newer.Hex(), ps[0].ID)

		cmd := mt.GetStartedEvent().Command
		pattern, opts := cmd.Lookup("filter", "$or", "0", "title").Regex()
		assert.Equal(mt, `mug\+`, pattern)
		assert.Equal(mt, "i", opts)
		assert.Equal(mt, "kitchen", cmd.Lookup("filter", "category").StringValue())
		assert.Equal(mt, int64(-1), cmd.Lookup("sort", "created_at").AsInt64())
	})

	mt.Run("CreateProduct", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		p, err := NewProductsRepository(mt.DB).CreateProduct(
			t.Context(), domain.Product{Title: "Mug", Category: "kitchen", InStock: true},
		)
		require.NoError(mt, err)
		assert.True(mt, domain.ValidID(p.ID))
		assert.False(mt, p.CreatedAt.IsZero())
		assert.Equal(mt, p.CreatedAt, p.UpdatedAt)

		cmd := mt.GetStartedEvent().Command
		assert.Equal(mt, "product", cmd.Lookup("insert").StringValue())
	})

	mt.Run("UpdateProduct", func(mt *mtest.T) {
		oid := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "value", Value: productBSON(oid, "Mug", 12.5, 5)},
		))

		price := 12.5
		p, err := NewProductsRepository(mt.DB).UpdateProduct(
			t.Context(), oid.Hex(), domain.ProductPatch{Price: &price},
		)
		require.NoError(mt, err)
		assert.Equal(mt, 12.5, p.Price)

		cmd := mt.GetStartedEvent().Command
		set := cmd.Lookup("update", "$set").Document()
		assert.Equal(mt, 12.5, set.Lookup("price").Double())
		_, err = set.LookupErr("title")
		assert.Error(mt, err)
		_, err = set.LookupErr("updated_at")
		assert.NoError(mt, err)
	})

	mt.Run("UpdateProductNotFound", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		title := "Cup"
		_, err := NewProductsRepository(mt.DB).UpdateProduct(
			t.Context(), primitive.NewObjectID().Hex(),
			domain.ProductPatch{Title: &title},
		)
		assert.ErrorIs(mt, err, domain.ErrNotFound)
	})

	mt.Run("ReserveStock", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		oid := primitive.NewObjectID()
		err := NewProductsRepository(mt.DB).ReserveStock(t.Context(), oid.Hex(), 3)
		require.NoError(mt, err)

		cmd := mt.GetStartedEvent().Command
		q := cmd.Lookup("updates", "0", "q")
		assert.Equal(mt, oid, q.Document().Lookup("_id").ObjectID())
		assert.Equal(mt, int64(3), q.Document().Lookup("stock", "$gte").AsInt64())
	})

	mt.Run("ReserveStockInsufficient", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		err := NewProductsRepository(mt.DB).ReserveStock(
			t.Context(), primitive.NewObjectID().Hex(), 3,
		)
		assert.ErrorIs(mt, err, domain.ErrInsufficientStock)
	})

	mt.Run("ReleaseStockNotFound", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		err := NewProductsRepository(mt.DB).ReleaseStock(
			t.Context(), primitive.NewObjectID().Hex(), 3,
		)
		assert.ErrorIs(mt, err, domain.ErrNotFound)
	})
}

func TestOrdersRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("CreateOrder", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		in := domain.Order{
			BuyerName: "Ann",
			Items: []domain.OrderItem{
				{ProductID: "p", Title: "Mug", Price: 9.99, Quantity: 2, Subtotal: 19.98},
			},
			Total:  19.98,
			Status: domain.OrderStatusPaid,
		}
		o, err := NewOrdersRepository(mt.DB).CreateOrder(t.Context(), in)
		require.NoError(mt, err)
		assert.True(mt, domain.ValidID(o.ID))
		assert.False(mt, o.CreatedAt.IsZero())
		assert.Equal(mt, in.Items, o.Items)

		cmd := mt.GetStartedEvent().Command
		assert.Equal(mt, "order", cmd.Lookup("insert").StringValue())
		doc := cmd.Lookup("documents", "0").Document()
		assert.Equal(mt, "paid", doc.Lookup("status").StringValue())
		assert.Equal(mt, 19.98, doc.Lookup("items", "0", "subtotal").Double())
	})

	mt.Run("ListOrders", func(mt *mtest.T) {
		oid := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(
			0, "db.order", mtest.FirstBatch,
			bson.D{
				{Key: "_id", Value: oid},
				{Key: "items", Value: bson.A{
					bson.D{
						{Key: "product_id", Value: "p"},
						{Key: "title", Value: "Mug"},
						{Key: "price", Value: 9.99},
						{Key: "quantity", Value: 2},
						{Key: "subtotal", Value: 19.98},
					},
				}},
				{Key: "total", Value: 19.98},
				{Key: "status", Value: "paid"},
			},
		))

		orders, err := NewOrdersRepository(mt.DB).ListOrders(t.Context())
		require.NoError(mt, err)
		require.Len(mt, orders, 1)
		assert.Equal(mt, oid.Hex(), orders[0].ID)
		assert.Equal(mt, 2, orders[0].Items[0].Quantity)
	})
}

func TestMongoDBStatus(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("ListsCollections", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(
			0, "db.$cmd.listCollections", mtest.FirstBatch,
			bson.D{{Key: "name", Value: "order"}},
			bson.D{{Key: "name", Value: "product"}},
		))

		s := MongoDB{client: mt.Client, db: mt.DB}
		status, err := s.Status(t.Context())
		require.NoError(mt, err)
		assert.Equal(mt, DriverMongo, status.Driver)
		assert.Equal(mt, mt.DB.Name(), status.DatabaseName)
		assert.Equal(mt, []string{"order", "product"}, status.Collections)
	})
}

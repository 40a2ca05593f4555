package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	catalog "github.com/jcmexdev/katana-shop/internal/catalog/domain"
	"github.com/jcmexdev/katana-shop/internal/order/domain"
)

type CatalogRepository struct {
	coll *mongo.Collection
}

// List returns katanas in natural order. A limit of 0 is unlimited.
func (r *CatalogRepository) List(ctx context.Context, limit int) ([]catalog.Katana, error) {
	opts := options.Find()
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cur, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongodb: find katanas: %w", err)
	}
	defer cur.Close(ctx)

	katanas := make([]catalog.Katana, 0)
	for cur.Next(ctx) {
		var doc katanaDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("mongodb: decode katana: %w", err)
		}
		katanas = append(katanas, katanaFromDocument(doc))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("mongodb: iterate katanas: %w", err)
	}
	return katanas, nil
}

func (r *CatalogRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("mongodb: count katanas: %w", err)
	}
	return n, nil
}

func (r *CatalogRepository) Insert(ctx context.Context, k catalog.Katana) (string, error) {
	res, err := r.coll.InsertOne(ctx, katanaToDocument(k))
	if err != nil {
		return "", fmt.Errorf("mongodb: insert katana %q: %w", k.Name, err)
	}
	return insertedID(res), nil
}

type OrderRepository struct {
	coll *mongo.Collection
}

func (r *OrderRepository) Insert(ctx context.Context, o domain.Order) (string, error) {
	res, err := r.coll.InsertOne(ctx, orderToDocument(o))
	if err != nil {
		return "", fmt.Errorf("mongodb: insert order: %w", err)
	}
	return insertedID(res), nil
}

// Get looks an order up by its hex ObjectID. Malformed IDs are reported as
// not found.
func (r *OrderRepository) Get(ctx context.Context, id string) (domain.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.Order{}, domain.ErrOrderNotFound
	}

	var doc orderDocument
	err = r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	if err != nil {
		return domain.Order{}, fmt.Errorf("mongodb: get order %q: %w", id, err)
	}
	return orderFromDocument(doc), nil
}

func insertedID(res *mongo.InsertOneResult) string {
	switch id := res.InsertedID.(type) {
	case primitive.ObjectID:
		return id.Hex()
	case string:
		return id
	default:
		return fmt.Sprint(id)
	}
}

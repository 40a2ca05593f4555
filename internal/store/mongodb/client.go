// Package mongodb is the MongoDB-backed catalog and order store.
//
// Open connects once at startup; the returned Client is passed explicitly to
// the repositories and closed on shutdown.
//
//	client, err := mongodb.Open(ctx, "mongodb://localhost:27017", "katana_shop")
//	if err != nil { ... }
//	defer client.Close(context.Background())
package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	katanaCollection = "katana"
	orderCollection  = "order"
)

// Client owns the driver connection pool and the selected database.
type Client struct {
	client *mongo.Client
	db     *mongo.Database
}

// Open creates the connection pool. The driver connects lazily, so an
// unreachable server surfaces on the first operation or Ping, not here.
func Open(ctx context.Context, uri, database string) (*Client, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongodb: connect: %w", err)
	}
	return &Client{client: client, db: client.Database(database)}, nil
}

// Close disconnects the pool. Call it with defer in main().
func (c *Client) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}

func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx, readpref.Primary())
}

func (c *Client) Name() string { return c.db.Name() }

func (c *Client) Collections(ctx context.Context) ([]string, error) {
	names, err := c.db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("mongodb: list collections: %w", err)
	}
	return names, nil
}

// Catalog returns the katana repository bound to this client.
func (c *Client) Catalog() *CatalogRepository {
	return &CatalogRepository{coll: c.db.Collection(katanaCollection)}
}

// Orders returns the order repository bound to this client.
func (c *Client) Orders() *OrderRepository {
	return &OrderRepository{coll: c.db.Collection(orderCollection)}
}

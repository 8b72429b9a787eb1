package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Client represents a MongoDB client
type Client struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewClient connects to MongoDB and verifies the connection.
// Transactions require a replica set or sharded cluster.
func NewClient(ctx context.Context, uri string) (*Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return &Client{
		client: client,
	}, nil
}

// Database returns a database
func (c *Client) Database(name string) *mongo.Database {
	if c.db == nil || c.db.Name() != name {
		c.db = c.client.Database(name)
	}
	return c.db
}

// Mongo exposes the underlying driver client.
func (c *Client) Mongo() *mongo.Client {
	return c.client
}

// Disconnect disconnects from MongoDB
func (c *Client) Disconnect(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}

// EnsureIndexes creates the indexes the repositories rely on.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for collection, models := range indexModels() {
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", collection, err)
		}
	}
	return nil
}

// indexModels lists the indexes per collection.
func indexModels() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		"users": {
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("user_email_unique"),
			},
		},
		"majordraws": {
			{
				Keys:    bson.D{{Key: "status", Value: 1}},
				Options: options.Index().SetName("major_draw_status"),
			},
			{
				Keys:    bson.D{{Key: "entries.userId", Value: 1}},
				Options: options.Index().SetName("major_draw_entry_user"),
			},
		},
		"minidraws": {
			{
				Keys:    bson.D{{Key: "entries.userId", Value: 1}},
				Options: options.Index().SetName("mini_draw_entry_user"),
			},
		},
		"paymentevents": {
			{
				Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
				Options: options.Index().SetName("payment_event_user_created"),
			},
			{
				// events without a payment intent omit the field
				Keys:    bson.D{{Key: "paymentIntentId", Value: 1}},
				Options: options.Index().SetUnique(true).SetSparse(true).SetName("payment_event_intent_unique"),
			},
		},
		"orders": {
			{
				Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
				Options: options.Index().SetName("order_user_created"),
			},
		},
		"referralevents": {
			{
				Keys:    bson.D{{Key: "referrerId", Value: 1}},
				Options: options.Index().SetName("referral_referrer"),
			},
		},
	}
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package activity

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/danielhkuo/ledger-ballot/models"
)

// Collection is where activity entries are stored in MongoDB.
const Collection = "activity_logs"

const connectTimeout = 10 * time.Second

// MongoSink writes entries to a MongoDB collection.
type MongoSink struct {
	client     *mongo.Client
	collection *mongo.Collection
}

func NewMongoSink(url, dbName string) (*MongoSink, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(url))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("MongoDB ping failed: %w", err)
	}

	return &MongoSink{
		client:     client,
		collection: client.Database(dbName).Collection(Collection),
	}, nil
}

func (m *MongoSink) Write(ctx context.Context, e models.ActivityEntry) error {
	if _, err := m.collection.InsertOne(ctx, e); err != nil {
		return fmt.Errorf("failed to insert activity: %w", err)
	}
	return nil
}

func (m *MongoSink) List(ctx context.Context, adminID string, page, limit int) ([]models.ActivityEntry, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))
	cursor, err := m.collection.Find(ctx, bson.M{"admin_id": adminID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	var entries []models.ActivityEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode activity: %w", err)
	}
	return entries, nil
}

func (m *MongoSink) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/roomforge/pkg/layout"
)

const (
	defaultDatabase   = "roomforge"
	layoutsCollection = "layouts"
)

// MongoStore persists layouts in a MongoDB collection.
// Layouts are stored with their bson tags; the layout ID doubles as _id.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to MongoDB and verifies the connection with a ping.
// Pass an empty database name to use the default.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	if database == "" {
		database = defaultDatabase
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(layoutsCollection),
	}, nil
}

// Save upserts the layout, assigning a UUID when it has none.
func (s *MongoStore) Save(ctx context.Context, l layout.Layout) (string, error) {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	_, err := s.coll.ReplaceOne(ctx,
		bson.M{"_id": l.ID}, l, options.Replace().SetUpsert(true))
	if err != nil {
		return "", fmt.Errorf("save layout: %w", err)
	}
	return l.ID, nil
}

// Get retrieves a layout by ID.
func (s *MongoStore) Get(ctx context.Context, id string) (layout.Layout, error) {
	var l layout.Layout
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&l)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return layout.Layout{}, ErrNotFound
	}
	if err != nil {
		return layout.Layout{}, fmt.Errorf("get layout: %w", err)
	}
	return l, nil
}

// List returns the IDs of all stored layouts.
func (s *MongoStore) List(ctx context.Context) ([]string, error) {
	cur, err := s.coll.Find(ctx, bson.M{},
		options.Find().SetProjection(bson.M{"_id": 1}).SetSort(bson.M{"_id": 1}))
	if err != nil {
		return nil, fmt.Errorf("list layouts: %w", err)
	}
	defer cur.Close(ctx)

	var ids []string
	for cur.Next(ctx) {
		var doc struct {
			ID string `bson:"_id"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode layout id: %w", err)
		}
		ids = append(ids, doc.ID)
	}
	return ids, cur.Err()
}

// Delete removes a layout. Deleting an unknown ID is not an error.
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	_, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ensure MongoStore implements Store.
var _ Store = (*MongoStore)(nil)

// Package mongostore loads model snapshots from a MongoDB collection.
//
// Models are stored one snapshot per document, keyed by the snapshot
// name. The store is read-only from Stratum's point of view: snapshots
// are written by whatever exports them from the host application.
package mongostore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tmengistu/stratum/pkg/errors"
	"github.com/tmengistu/stratum/pkg/source"
)

// Default database and collection names.
const (
	DefaultDatabase   = "stratum"
	DefaultCollection = "models"
)

// connectTimeout bounds the initial connection handshake.
const connectTimeout = 10 * time.Second

// Config configures the MongoDB connection.
type Config struct {
	URI        string // connection string, e.g. "mongodb://localhost:27017"
	Database   string // defaults to DefaultDatabase
	Collection string // defaults to DefaultCollection
}

// Store is a MongoDB-backed model source.
type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// New connects to MongoDB and verifies the connection with a ping.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.URI == "" {
		return nil, errors.New(errors.ErrCodeInvalidSource, "mongodb URI is required")
	}
	if cfg.Database == "" {
		cfg.Database = DefaultDatabase
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	return &Store{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// Load fetches the snapshot stored under the given model name.
func (s *Store) Load(ctx context.Context, name string) (*source.Snapshot, error) {
	var snap source.Snapshot
	err := s.coll.FindOne(ctx, bson.M{"name": name}).Decode(&snap)
	if err == mongo.ErrNoDocuments {
		return nil, errors.New(errors.ErrCodeModelNotFound, "model %q not found in store", name)
	}
	if err != nil {
		return nil, fmt.Errorf("load model %q: %w", name, err)
	}
	return &snap, nil
}

// List returns the names of all stored models, for the API's model
// listing and CLI completion.
func (s *Store) List(ctx context.Context) ([]string, error) {
	cursor, err := s.coll.Find(ctx, bson.M{}, options.Find().SetProjection(bson.M{"name": 1}))
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	defer cursor.Close(ctx)

	var names []string
	for cursor.Next(ctx) {
		var doc struct {
			Name string `bson:"name"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode model listing: %w", err)
		}
		names = append(names, doc.Name)
	}
	return names, cursor.Err()
}

// Close disconnects from MongoDB.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ensure Store implements source.Source.
var _ source.Source = (*Store)(nil)

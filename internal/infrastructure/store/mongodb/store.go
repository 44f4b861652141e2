// Package mongodb provides the MongoDB state backend.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	// StateCollection is the name of the console state collection.
	StateCollection = "console_state"
)

// Config holds MongoDB connection configuration.
type Config struct {
	URI          string
	DatabaseName string
}

type stateDocument struct {
	Key       string     `bson:"_id"`
	Value     []byte     `bson:"value"`
	ExpiresAt *time.Time `bson:"expiresAt,omitempty"`
	UpdatedAt time.Time  `bson:"updatedAt"`
}

// Store implements the store.Client interface for MongoDB.
type Store struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewStore connects to MongoDB and prepares the state collection.
func NewStore(ctx context.Context, cfg *Config) (*Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.URI == "" {
		return nil, fmt.Errorf("mongodb URI is required")
	}
	if cfg.DatabaseName == "" {
		return nil, fmt.Errorf("database name is required")
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Verify connection
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	s := &Store{
		client:     client,
		collection: client.Database(cfg.DatabaseName).Collection(StateCollection),
	}

	if err := s.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	return s, nil
}

// EnsureIndexes creates the TTL index that lets MongoDB purge expired session entries.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expiresAt", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0).SetName("expiresAt_ttl"),
	})
	if err != nil {
		return fmt.Errorf("failed to ensure state indexes: %w", err)
	}
	return nil
}

// Get retrieves a value by key. Entries past their expiry are treated as missing
// because the TTL monitor only runs periodically.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var doc stateDocument
	err := s.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get key %s: %w", key, err)
	}
	if doc.ExpiresAt != nil && !time.Now().Before(*doc.ExpiresAt) {
		return nil, nil
	}
	return doc.Value, nil
}

// Set upserts a value. A ttl of 0 stores the key without expiry.
func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	now := time.Now().UTC()
	doc := stateDocument{
		Key:       key,
		Value:     value,
		UpdatedAt: now,
	}
	if ttl > 0 {
		expiresAt := now.Add(ttl)
		doc.ExpiresAt = &expiresAt
	}

	_, err := s.collection.ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}
	return nil
}

// Delete removes a key.
func (s *Store) Delete(ctx context.Context, key string) (bool, error) {
	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": key})
	if err != nil {
		return false, fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return result.DeletedCount > 0, nil
}

// DeletePattern removes all keys matching the given glob pattern.
func (s *Store) DeletePattern(ctx context.Context, pattern string) (int64, error) {
	filter := bson.M{"_id": bson.M{"$regex": globToRegex(pattern)}}
	result, err := s.collection.DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to delete keys with pattern %s: %w", pattern, err)
	}
	return result.DeletedCount, nil
}

// Ping verifies the connection to MongoDB.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("mongodb ping failed: %w", err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect from mongodb: %w", err)
	}
	return nil
}

// globToRegex converts a '*'/'?' glob into an anchored regular expression.
func globToRegex(pattern string) string {
	quoted := regexp.QuoteMeta(pattern)
	quoted = strings.ReplaceAll(quoted, `\*`, ".*")
	quoted = strings.ReplaceAll(quoted, `\?`, ".")
	return "^" + quoted + "$"
}

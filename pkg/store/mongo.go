package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
)

const (
	defaultDatabase   = "utitree"
	defaultCollection = "utis"
)

// MongoStore keeps one document per identifier:
//
//	{_id: "public.jpeg", ancestors: [...], descendants: [], root: false, run_id: "..."}
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to uri and pings the server. The database defaults
// to "utitree" unless the URI names one.
func NewMongoStore(ctx context.Context, uri string) (*MongoStore, error) {
	cs, err := connstring.ParseAndValidate(uri)
	if err != nil {
		return nil, fmt.Errorf("invalid mongo uri: %w", err)
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return NewMongoStoreFromClient(client, cs.Database), nil
}

// NewMongoStoreFromClient wraps an existing client.
func NewMongoStoreFromClient(client *mongo.Client, database string) *MongoStore {
	if database == "" {
		database = defaultDatabase
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(defaultCollection),
	}
}

// Save upserts every record in one unordered bulk write, then removes
// records left over from earlier runs.
func (s *MongoStore) Save(ctx context.Context, records []Record) error {
	if len(records) == 0 {
		_, err := s.coll.DeleteMany(ctx, bson.M{})
		return err
	}
	models := make([]mongo.WriteModel, len(records))
	for i, r := range records {
		models[i] = mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": r.UTI}).
			SetReplacement(r).
			SetUpsert(true)
	}
	if _, err := s.coll.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false)); err != nil {
		return fmt.Errorf("bulk write: %w", err)
	}
	runID := records[0].RunID
	if _, err := s.coll.DeleteMany(ctx, bson.M{"run_id": bson.M{"$ne": runID}}); err != nil {
		return fmt.Errorf("remove stale records: %w", err)
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, uti string) (*Record, error) {
	var rec Record
	err := s.coll.FindOne(ctx, bson.M{"_id": uti}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", uti, err)
	}
	return &rec, nil
}

func (s *MongoStore) Close() error {
	return s.client.Disconnect(context.Background())
}

var _ Store = (*MongoStore)(nil)

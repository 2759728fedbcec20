package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/raushankrgupta/catalog-crawler/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type inserter interface {
	InsertMany(ctx context.Context, documents []interface{}, opts ...*options.InsertManyOptions) (*mongo.InsertManyResult, error)
}

// MongoWriter stores records in a collection named by the destination. Each
// write inserts new documents stamped with the write time; earlier crawls are
// left untouched.
type MongoWriter struct {
	collection func(name string) inserter
	now        func() time.Time
}

func NewMongoWriter(db *mongo.Database) *MongoWriter {
	return &MongoWriter{
		collection: func(name string) inserter { return db.Collection(name) },
		now:        time.Now,
	}
}

func (w *MongoWriter) Write(ctx context.Context, recs []models.ProductRecord, destination string) error {
	if len(recs) == 0 {
		return nil
	}
	crawledAt := w.now().UTC()
	docs := make([]interface{}, 0, len(recs))
	for i := range recs {
		doc := bson.M(recs[i].Fields())
		doc["crawled_at"] = crawledAt
		docs = append(docs, doc)
	}

	res, err := w.collection(destination).InsertMany(ctx, docs)
	if err != nil {
		return fmt.Errorf("insert into %s: %w", destination, err)
	}
	slog.Info("records stored in mongodb", "collection", destination, "count", len(res.InsertedIDs))
	return nil
}

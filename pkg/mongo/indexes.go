package mongo

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

var requiredIndexes = []mongo.IndexModel{
	// Newest-first listing
	{
		Keys:    bson.D{{Key: "created_at", Value: -1}},
		Options: options.Index().SetName("idx_created_at"),
	},
	// Category filter and stats grouping
	{
		Keys:    bson.D{{Key: "category", Value: 1}},
		Options: options.Index().SetName("idx_category"),
	},
	// Low-stock alerts
	{
		Keys:    bson.D{{Key: "quantity", Value: 1}},
		Options: options.Index().SetName("idx_quantity"),
	},
}

// EnsureIndexes creates the indexes the items collection relies on. Creating an
// index that already exists is a no-op on the server.
func (s *Store) EnsureIndexes(ctx context.Context, logger *slog.Logger) error {
	for _, model := range requiredIndexes {
		name, err := s.collection.Indexes().CreateOne(ctx, model)
		if err != nil {
			return classify(fmt.Sprintf("failed to create index on %s", ItemsCollection), err)
		}
		logger.Debug("index ensured", "collection", ItemsCollection, "index", name)
	}
	return nil
}

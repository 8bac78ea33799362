// Package mongo is the document-store items backend.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"up2you.app/storefront/pkg/models"
	"up2you.app/storefront/pkg/storage"
)

const backendName = "mongo"

// Store implements storage.Backend over the items collection.
type Store struct {
	client     *mongo.Client
	collection *mongo.Collection
	now        func() time.Time
}

var (
	_ storage.Backend     = (*Store)(nil)
	_ storage.StatsSource = (*Store)(nil)
	_ storage.Pinger      = (*Store)(nil)
)

// New wraps an existing client.
func New(client *mongo.Client, dbName string) *Store {
	return &Store{
		client:     client,
		collection: client.Database(dbName).Collection(ItemsCollection),
		now:        time.Now,
	}
}

func (s *Store) Name() string {
	return backendName
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return storage.Unavailable(backendName, err)
	}
	return nil
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) List(ctx context.Context) ([]models.Item, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})

	cursor, err := s.collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, classify("failed to list items", err)
	}
	defer cursor.Close(ctx)

	items := []models.Item{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, classify("failed to decode items", err)
	}
	return items, nil
}

func (s *Store) Get(ctx context.Context, id string) (*models.Item, error) {
	var item models.Item
	if err := s.collection.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&item); err != nil {
		return nil, classify("failed to find item", err)
	}
	return &item, nil
}

func (s *Store) Insert(ctx context.Context, item models.Item) (*models.Item, error) {
	item.ID = bson.NewObjectID().Hex()
	item.Stamp(s.now())

	if _, err := s.collection.InsertOne(ctx, item); err != nil {
		return nil, classify("failed to create item", err)
	}
	return &item, nil
}

// Update applies $set without upsert, so an item deleted concurrently comes back
// as ErrNotFound rather than being resurrected.
func (s *Store) Update(ctx context.Context, id string, patch models.ItemPatch) (*models.Item, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	set := patchDocument(patch)
	set = append(set, bson.E{Key: "updated_at", Value: models.NextTimestamp(current.UpdatedAt, s.now())})

	var updated models.Item
	err = s.collection.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: id}}, bson.D{{Key: "$set", Value: set}}, updateOptions()).Decode(&updated)
	if err != nil {
		return nil, classify("failed to update item", err)
	}
	return &updated, nil
}

func (s *Store) Remove(ctx context.Context, id string) error {
	result, err := s.collection.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return classify("failed to delete item", err)
	}
	if result.DeletedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// updateOptions returns the post-update document and never upserts.
func updateOptions() *options.FindOneAndUpdateOptionsBuilder {
	return options.FindOneAndUpdate().SetReturnDocument(options.After).SetUpsert(false)
}

func patchDocument(patch models.ItemPatch) bson.D {
	set := bson.D{}
	if patch.Name != nil {
		set = append(set, bson.E{Key: "name", Value: *patch.Name})
	}
	if patch.Category != nil {
		set = append(set, bson.E{Key: "category", Value: *patch.Category})
	}
	if patch.Description != nil {
		set = append(set, bson.E{Key: "description", Value: *patch.Description})
	}
	if patch.Materials != nil {
		set = append(set, bson.E{Key: "materials", Value: *patch.Materials})
	}
	if patch.Location != nil {
		set = append(set, bson.E{Key: "location", Value: *patch.Location})
	}
	if patch.Price != nil {
		set = append(set, bson.E{Key: "price", Value: *patch.Price})
	}
	if patch.Quantity != nil {
		set = append(set, bson.E{Key: "quantity", Value: *patch.Quantity})
	}
	if patch.PhotoRef != nil {
		set = append(set, bson.E{Key: "photo", Value: *patch.PhotoRef})
	}
	return set
}

// classify maps driver errors onto the storage taxonomy.
func classify(msg string, err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return storage.ErrNotFound
	case errors.Is(err, mongo.ErrClientDisconnected),
		mongo.IsTimeout(err),
		mongo.IsNetworkError(err):
		return storage.Unavailable(backendName, err)
	default:
		return fmt.Errorf("%s: %w", msg, err)
	}
}

package mongo

import (
	"fmt"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"up2you.app/storefront/pkg/global"
	"up2you.app/storefront/pkg/storage"
)

// ItemsCollection is the collection every item document lives in.
const ItemsCollection = "items"

// NewClient builds a client for uri using the stable server API.
func NewClient(uri string) (*mongo.Client, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)

	clientOptions := options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI)
	client, err := mongo.Connect(clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to create MongoDB client: %w", err)
	}
	return client, nil
}

// Connect builds the items backend for database dbName. The driver connects
// lazily, so an unreachable server is reported by Ping and by later calls as
// *storage.UnavailableError rather than here.
func Connect(uri, dbName string) (*Store, error) {
	client, err := NewClient(uri)
	if err != nil {
		return nil, storage.Unavailable(backendName, err)
	}
	return New(client, dbName), nil
}

// CheckConnection pings the primary with the default timeout.
func (s *Store) CheckConnection() error {
	ctx, cancel := global.GetDefaultTimer()
	defer cancel()

	return s.Ping(ctx)
}

// Package badger stores cart snapshots in an embedded Badger database.
package badger

import (
	"context"
	"errors"
	"fmt"

	badgerdb "github.com/dgraph-io/badger/v4"

	"up2you.app/storefront/pkg/cart"
)

// Snapshotter implements cart.Snapshotter on Badger.
type Snapshotter struct {
	db *badgerdb.DB
}

var _ cart.Snapshotter = (*Snapshotter)(nil)

// Open opens (or creates) the database at path. An empty path runs in memory.
func Open(path string) (*Snapshotter, error) {
	opts := badgerdb.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening cart database: %w", err)
	}
	return &Snapshotter{db: db}, nil
}

func (s *Snapshotter) Load(_ context.Context, key string) ([]byte, error) {
	var data []byte
	err := s.db.View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badgerdb.ErrKeyNotFound) {
		return nil, cart.ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("reading cart snapshot %s: %w", key, err)
	}
	return data, nil
}

func (s *Snapshotter) Save(_ context.Context, key string, data []byte) error {
	err := s.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Set([]byte(key), data)
	})
	if err != nil {
		return fmt.Errorf("writing cart snapshot %s: %w", key, err)
	}
	return nil
}

func (s *Snapshotter) Close() error {
	return s.db.Close()
}

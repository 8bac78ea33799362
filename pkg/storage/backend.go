// Package storage defines the contract every item backend satisfies.
package storage

import (
	"context"
	"errors"
	"fmt"

	"up2you.app/storefront/pkg/models"
)

// ErrNotFound is returned when the referenced item does not exist at call time.
var ErrNotFound = errors.New("item not found")

// UnavailableError reports a backend that is not provisioned or not reachable.
// Callers may degrade reads to an empty result instead of failing.
type UnavailableError struct {
	Backend string
	Cause   error
}

func (e *UnavailableError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s backend unavailable: %v", e.Backend, e.Cause)
	}
	return e.Backend + " backend unavailable"
}

func (e *UnavailableError) Unwrap() error {
	return e.Cause
}

// Unavailable wraps cause as an UnavailableError for the named backend.
func Unavailable(backend string, cause error) error {
	return &UnavailableError{Backend: backend, Cause: cause}
}

// IsUnavailable reports whether err is (or wraps) an UnavailableError.
func IsUnavailable(err error) bool {
	var ue *UnavailableError
	return errors.As(err, &ue)
}

// Backend is the uniform create/read/update/delete/list surface over items.
type Backend interface {
	// Name identifies the implementation: memory, sql or mongo.
	Name() string
	// List returns every item, newest first by CreatedAt.
	List(ctx context.Context) ([]models.Item, error)
	Get(ctx context.Context, id string) (*models.Item, error)
	// Insert assigns the id and both timestamps.
	Insert(ctx context.Context, item models.Item) (*models.Item, error)
	// Update merges patch into the stored record, checking existence at write time.
	Update(ctx context.Context, id string, patch models.ItemPatch) (*models.Item, error)
	Remove(ctx context.Context, id string) error
}

// StatsSource is implemented by backends that can aggregate statistics natively.
type StatsSource interface {
	Stats(ctx context.Context) (*models.Stats, error)
}

// Pinger is implemented by backends with a reachable server behind them.
type Pinger interface {
	Ping(ctx context.Context) error
}

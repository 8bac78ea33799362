package cart

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	DefaultMaxSessions = 10000
	DefaultIdleTimeout = 30 * time.Minute
)

// Manager hands out one Accumulator per session so that every mutation of a
// session's cart goes through the same instance. Instances are kept in a bounded
// LRU and dropped once idle; an evicted cart is restored from its snapshot on
// next use.
type Manager struct {
	mu     sync.Mutex
	store  Snapshotter
	prefix string
	carts  *expirable.LRU[string, *Accumulator]
	logger *slog.Logger

	maxSessions int
	idleTimeout time.Duration
}

type ManagerOption func(*Manager)

// WithMaxSessions caps the number of carts held in memory.
func WithMaxSessions(n int) ManagerOption {
	return func(m *Manager) { m.maxSessions = n }
}

// WithIdleTimeout drops carts not touched for d. Keep it below the snapshot
// store's own expiry so an expired snapshot is never outlived in memory.
func WithIdleTimeout(d time.Duration) ManagerOption {
	return func(m *Manager) { m.idleTimeout = d }
}

// NewManager keys snapshots as "<prefix>:<session>".
func NewManager(store Snapshotter, prefix string, logger *slog.Logger, opts ...ManagerOption) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{
		store:       store,
		prefix:      prefix,
		logger:      logger,
		maxSessions: DefaultMaxSessions,
		idleTimeout: DefaultIdleTimeout,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.carts = expirable.NewLRU[string, *Accumulator](m.maxSessions, nil, m.idleTimeout)
	return m
}

// Key returns the snapshot key for a session.
func (m *Manager) Key(sessionID string) string {
	return m.prefix + ":" + sessionID
}

// Cart returns the session's accumulator, restoring it from its snapshot on first use.
func (m *Manager) Cart(ctx context.Context, sessionID string) *Accumulator {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.carts.Get(sessionID)
	if !ok {
		a = Open(ctx, m.store, m.Key(sessionID), m.logger)
	}
	// Re-adding refreshes the idle deadline.
	m.carts.Add(sessionID, a)
	return a
}

// Forget drops the in-memory instance; the snapshot stays.
func (m *Manager) Forget(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.carts.Remove(sessionID)
}

// Len is the number of carts currently held in memory.
func (m *Manager) Len() int {
	return m.carts.Len()
}

package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	redisclient "github.com/redis/go-redis/v9"

	"up2you.app/storefront/pkg/cart"
)

// CartSnapshotter keeps cart snapshots as plain string keys with a sliding TTL.
type CartSnapshotter struct {
	client *redisclient.Client
	ttl    time.Duration
}

var _ cart.Snapshotter = (*CartSnapshotter)(nil)

// NewCartSnapshotter uses ttl as the idle expiry; zero keeps snapshots forever.
func NewCartSnapshotter(client *redisclient.Client, ttl time.Duration) *CartSnapshotter {
	return &CartSnapshotter{client: client, ttl: ttl}
}

func (s *CartSnapshotter) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redisclient.Nil) {
		return nil, cart.ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart %s: %w", key, err)
	}
	return data, nil
}

func (s *CartSnapshotter) Save(ctx context.Context, key string, data []byte) error {
	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save cart %s: %w", key, err)
	}
	return nil
}

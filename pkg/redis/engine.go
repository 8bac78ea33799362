package redis

import (
	redisclient "github.com/redis/go-redis/v9"
)

// NewClient builds a client for addr. One client is shared by the item cache and
// the cart snapshotter.
func NewClient(addr, password string) *redisclient.Client {
	return redisclient.NewClient(&redisclient.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
		Protocol: 2,
	})
}

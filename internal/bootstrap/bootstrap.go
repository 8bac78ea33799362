// Package bootstrap turns a global.Config into ready-to-use services. Backend
// selection happens here, once per process.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	redisclient "github.com/redis/go-redis/v9"

	"up2you.app/storefront/pkg/ai"
	"up2you.app/storefront/pkg/badger"
	"up2you.app/storefront/pkg/cart"
	"up2you.app/storefront/pkg/global"
	"up2you.app/storefront/pkg/inventory"
	"up2you.app/storefront/pkg/memstore"
	"up2you.app/storefront/pkg/mongo"
	"up2you.app/storefront/pkg/redis"
	"up2you.app/storefront/pkg/sqlstore"
	"up2you.app/storefront/pkg/storage"
)

// Operation releases one resource on shutdown.
type Operation func(ctx context.Context) error

// Services holds everything the HTTP layer and the CLI commands need.
type Services struct {
	Inventory *inventory.Store
	Carts     *cart.Manager
	Reports   *ai.Service

	// Closers are keyed by resource name, in the shape graceful shutdown expects.
	Closers map[string]Operation
}

// Close runs every closer and joins their errors.
func (s *Services) Close(ctx context.Context) error {
	var errs []error
	for name, op := range s.Closers {
		if err := op(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// New wires storage, cache, cart snapshots and the report service from cfg.
// On error every resource opened so far is released.
func New(ctx context.Context, cfg global.Config, logger *slog.Logger) (_ *Services, err error) {
	s := &Services{Closers: make(map[string]Operation)}
	defer func() {
		if err != nil {
			_ = s.Close(ctx)
		}
	}()

	var rdb *redisclient.Client
	if cfg.RedisAddress != "" {
		rdb = redis.NewClient(cfg.RedisAddress, cfg.RedisPassword)
		s.Closers["redis"] = func(context.Context) error { return rdb.Close() }
	}

	backend, err := s.openBackend(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	if cfg.ItemCache {
		if rdb == nil {
			logger.Warn("ITEM_CACHE set without REDIS_ADDRESS, item cache disabled")
		} else {
			backend = redis.Wrap(backend, rdb, cfg.ItemCacheTTL, logger)
			logger.Info("item read cache enabled", "ttl", cfg.ItemCacheTTL)
		}
	}
	s.Inventory = inventory.NewStore(backend, logger)

	snapshots, err := s.openCartStore(cfg, rdb, logger)
	if err != nil {
		return nil, err
	}
	idle := cfg.CartIdleTimeout
	if strings.EqualFold(cfg.CartStore, "redis") && cfg.CartTTL > 0 && (idle <= 0 || idle > cfg.CartTTL) {
		idle = cfg.CartTTL
	}
	s.Carts = cart.NewManager(snapshots, cfg.CartPrefix, logger,
		cart.WithMaxSessions(cfg.CartMaxSessions),
		cart.WithIdleTimeout(idle),
	)

	s.Reports = ai.NewService(ai.Config{
		Endpoint:   cfg.AzureOpenAIEndpoint,
		APIKey:     cfg.AzureOpenAIKey,
		Deployment: cfg.AzureOpenAIDeployment,
	}, logger)

	return s, nil
}

func (s *Services) openBackend(ctx context.Context, cfg global.Config, logger *slog.Logger) (storage.Backend, error) {
	switch {
	case cfg.MongoURI != "":
		store, err := mongo.Connect(cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		s.Closers["mongo"] = store.Close

		if err := store.CheckConnection(); err != nil {
			logger.Warn("MongoDB unreachable at startup, reads will be empty until it recovers", "error", err)
		} else if err := store.EnsureIndexes(ctx, logger); err != nil {
			logger.Warn("failed to ensure indexes", "error", err)
		}
		logger.Info("using MongoDB item storage", "database", cfg.MongoDatabase)
		return store, nil

	case cfg.DatabaseURL != "" || cfg.SQLitePath != "":
		store, err := sqlstore.Open(sqlstore.Config{
			DatabaseURL: cfg.DatabaseURL,
			SQLitePath:  cfg.SQLitePath,
			Debug:       cfg.DBDebug,
			AutoMigrate: cfg.AutoMigrate,
		})
		if err != nil {
			return nil, err
		}
		s.Closers["sql"] = func(context.Context) error { return store.Close() }
		logger.Info("using SQL item storage", "postgres", cfg.DatabaseURL != "", "sqlite_path", cfg.SQLitePath)
		return store, nil

	default:
		logger.Warn("no database configured, items are kept in memory only")
		return memstore.New(), nil
	}
}

func (s *Services) openCartStore(cfg global.Config, rdb *redisclient.Client, logger *slog.Logger) (cart.Snapshotter, error) {
	switch strings.ToLower(cfg.CartStore) {
	case "redis":
		if rdb == nil {
			return nil, errors.New("CART_STORE=redis requires REDIS_ADDRESS")
		}
		logger.Info("cart snapshots in redis", "ttl", cfg.CartTTL)
		return redis.NewCartSnapshotter(rdb, cfg.CartTTL), nil

	case "badger":
		db, err := badger.Open(cfg.CartDBPath)
		if err != nil {
			return nil, fmt.Errorf("open cart store: %w", err)
		}
		s.Closers["badger"] = func(context.Context) error { return db.Close() }
		logger.Info("cart snapshots in badger", "path", cfg.CartDBPath)
		return db, nil

	case "memory", "":
		logger.Info("cart snapshots in memory")
		return cart.NewMemorySnapshotter(), nil

	default:
		return nil, fmt.Errorf("unknown CART_STORE %q", cfg.CartStore)
	}
}

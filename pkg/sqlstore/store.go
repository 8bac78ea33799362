// Package sqlstore is the relational items backend built on GORM. SQLite and
// Postgres share one implementation; only the dialector differs.
package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"up2you.app/storefront/pkg/models"
	"up2you.app/storefront/pkg/storage"
)

const backendName = "sql"

// PostgreSQL error codes that mean the table or server is not there.
const (
	PgErrUndefinedTable      = "42P01" // undefined_table
	PgErrConnectionException = "08000" // connection_exception
	PgErrConnectionFailure   = "08006" // connection_failure
)

// Config selects the dialect. DatabaseURL wins over SQLitePath.
type Config struct {
	DatabaseURL string
	SQLitePath  string
	Debug       bool
	// AutoMigrate creates the items table when it is missing.
	AutoMigrate bool
}

// Store implements storage.Backend over an "items" table.
type Store struct {
	db  *gorm.DB
	now func() time.Time
}

var (
	_ storage.Backend = (*Store)(nil)
	_ storage.Pinger  = (*Store)(nil)
)

// Open connects using cfg and optionally provisions the items table.
func Open(cfg Config) (*Store, error) {
	var dialector gorm.Dialector
	switch {
	case cfg.DatabaseURL != "":
		dialector = postgres.Open(cfg.DatabaseURL)
	case cfg.SQLitePath != "":
		dialector = sqlite.Open(cfg.SQLitePath)
	default:
		return nil, errors.New("sqlstore: neither DATABASE_URL nor SQLITE_PATH is set")
	}

	logLevel := logger.Silent
	if cfg.Debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.AutoMigrate {
		if err := db.AutoMigrate(&models.Item{}); err != nil {
			return nil, fmt.Errorf("failed to provision items table: %w", err)
		}
	}

	return New(db), nil
}

// New wraps an already opened connection.
func New(db *gorm.DB) *Store {
	return &Store{db: db, now: time.Now}
}

func (s *Store) Name() string {
	return backendName
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return storage.Unavailable(backendName, err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return storage.Unavailable(backendName, err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	return sqlDB.Close()
}

func (s *Store) List(ctx context.Context) ([]models.Item, error) {
	var items []models.Item
	if err := s.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&items).Error; err != nil {
		return nil, classify("failed to list items", err)
	}
	if items == nil {
		items = []models.Item{}
	}
	return items, nil
}

func (s *Store) Get(ctx context.Context, id string) (*models.Item, error) {
	var item models.Item
	if err := s.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, classify("failed to find item", err)
	}
	return &item, nil
}

func (s *Store) Insert(ctx context.Context, item models.Item) (*models.Item, error) {
	item.ID = uuid.New().String()
	item.Stamp(s.now())
	if err := s.db.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, classify("failed to create item", err)
	}
	return &item, nil
}

// Update writes only the patched columns. The WHERE clause is the existence
// check, so a concurrent delete surfaces as ErrNotFound instead of a re-insert.
func (s *Store) Update(ctx context.Context, id string, patch models.ItemPatch) (*models.Item, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	columns := patchColumns(patch)
	columns["updated_at"] = models.NextTimestamp(current.UpdatedAt, s.now())

	result := s.db.WithContext(ctx).Model(&models.Item{}).Where("id = ?", id).Updates(columns)
	if err := result.Error; err != nil {
		return nil, classify("failed to update item", err)
	}
	if result.RowsAffected == 0 {
		return nil, storage.ErrNotFound
	}
	return s.Get(ctx, id)
}

func (s *Store) Remove(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&models.Item{}, "id = ?", id)
	if err := result.Error; err != nil {
		return classify("failed to delete item", err)
	}
	if result.RowsAffected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func patchColumns(patch models.ItemPatch) map[string]any {
	columns := make(map[string]any)
	if patch.Name != nil {
		columns["name"] = *patch.Name
	}
	if patch.Category != nil {
		columns["category"] = *patch.Category
	}
	if patch.Description != nil {
		columns["description"] = *patch.Description
	}
	if patch.Materials != nil {
		columns["materials"] = *patch.Materials
	}
	if patch.Location != nil {
		columns["location"] = *patch.Location
	}
	if patch.Price != nil {
		columns["price"] = *patch.Price
	}
	if patch.Quantity != nil {
		columns["quantity"] = *patch.Quantity
	}
	if patch.PhotoRef != nil {
		columns["photo"] = *patch.PhotoRef
	}
	return columns
}

// classify maps driver errors onto the storage taxonomy.
func classify(msg string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return storage.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case PgErrUndefinedTable, PgErrConnectionException, PgErrConnectionFailure:
			return storage.Unavailable(backendName, err)
		}
		return fmt.Errorf("%s: %w", msg, err)
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return storage.Unavailable(backendName, err)
	}

	if strings.Contains(err.Error(), "no such table") {
		return storage.Unavailable(backendName, err)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

package global

import (
	"errors"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
)

// Config is the process configuration, read once at startup.
type Config struct {
	Env  string
	Port string

	// Item storage. The first configured backend wins: Mongo, then SQL, then memory.
	MongoURI      string
	MongoDatabase string
	DatabaseURL   string
	SQLitePath    string
	AutoMigrate   bool
	DBDebug       bool

	// Redis serves the item read cache and, optionally, cart snapshots.
	RedisAddress  string
	RedisPassword string
	ItemCache     bool
	ItemCacheTTL  time.Duration

	// Cart snapshots: "badger", "redis" or "memory".
	CartStore  string
	CartDBPath string
	CartPrefix string
	CartTTL    time.Duration

	// In-memory cart registry bounds.
	CartMaxSessions int
	CartIdleTimeout time.Duration

	AdminToken    string
	UploadDir     string
	AllowedOrigin []string

	LowStockThreshold int

	// Azure OpenAI; the report endpoint returns raw figures when unset.
	AzureOpenAIEndpoint   string
	AzureOpenAIKey        string
	AzureOpenAIDeployment string
}

// LoadEnvFile reads .env when it exists. A missing file is not an error.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// LoadConfig assembles Config from the environment.
func LoadConfig() Config {
	return Config{
		Env:  GetEnvOrDefault("ENV", "development"),
		Port: GetEnvOrDefault("PORT", "3001"),

		MongoURI:      GetEnvOrDefault("MONGODB_URI", ""),
		MongoDatabase: GetEnvOrDefault("MONGODB_DATABASE", "up2you"),
		DatabaseURL:   GetEnvOrDefault("DATABASE_URL", ""),
		SQLitePath:    GetEnvOrDefault("SQLITE_PATH", ""),
		AutoMigrate:   GetEnvBool("DB_AUTO_MIGRATE", true),
		DBDebug:       GetEnvBool("DB_DEBUG", false),

		RedisAddress:  GetEnvOrDefault("REDIS_ADDRESS", ""),
		RedisPassword: GetEnvOrDefault("REDIS_PASSWORD", ""),
		ItemCache:     GetEnvBool("ITEM_CACHE", false),
		ItemCacheTTL:  GetEnvDuration("ITEM_CACHE_TTL", 24*time.Hour),

		CartStore:  GetEnvOrDefault("CART_STORE", "badger"),
		CartDBPath: GetEnvOrDefault("CART_DB_PATH", "data/carts"),
		CartPrefix: GetEnvOrDefault("CART_KEY_PREFIX", "jewelry-cart"),
		CartTTL:    GetEnvDuration("CART_TTL", 7*24*time.Hour),

		CartMaxSessions: GetEnvInt("CART_MAX_SESSIONS", 10000),
		CartIdleTimeout: GetEnvDuration("CART_IDLE_TIMEOUT", 30*time.Minute),

		AdminToken: GetEnvOrDefault("ADMIN_API_TOKEN", ""),
		UploadDir:  GetEnvOrDefault("UPLOAD_DIR", "uploads"),
		AllowedOrigin: []string{
			GetEnvOrDefault("CORS_ORIGIN", "http://localhost:5173"),
			"http://localhost:3000",
		},

		LowStockThreshold: GetEnvInt("LOW_STOCK_THRESHOLD", 5),

		AzureOpenAIEndpoint:   GetEnvOrDefault("AZURE_OPENAI_ENDPOINT", ""),
		AzureOpenAIKey:        GetEnvOrDefault("AZURE_OPENAI_API_KEY", ""),
		AzureOpenAIDeployment: GetEnvOrDefault("AZURE_OPENAI_DEPLOYMENT_NAME", "gpt-35-turbo"),
	}
}

// IsProduction reports whether ENV=production.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

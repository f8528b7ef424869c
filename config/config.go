package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/yeremiapane/paradise-cafe/utils"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store backends
const (
	BackendMemory = "memory"
	BackendSQL    = "sql"
	BackendMongo  = "mongo"
)

type Config struct {
	Port          string
	GinMode       string
	LogLevel      string
	AllowedOrigin string
	RateLimit     int

	Store  StoreConfig
	DB     DBConfig
	Mongo  MongoConfig
	NATS   NATSConfig
	AI     AIConfig
	Banner BannerConfig
}

type StoreConfig struct {
	Backend          string
	MaxDocumentBytes int
	MaxImageBytes    int64
}

type DBConfig struct {
	Driver       string
	DSN          string
	PollInterval time.Duration
	Retention    time.Duration
}

type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

type NATSConfig struct {
	URL string
}

type AIConfig struct {
	APIKey     string
	Model      string
	ImageModel string
}

type BannerConfig struct {
	Interval time.Duration
}

// Load reads the environment, after loading .env when one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		GinMode:       getEnv("GIN_MODE", "debug"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		AllowedOrigin: getEnv("ALLOWED_ORIGIN", "*"),
		RateLimit:     getInt("RATE_LIMIT", 300),
		Store: StoreConfig{
			Backend:          strings.ToLower(getEnv("STORE_BACKEND", BackendSQL)),
			MaxDocumentBytes: getInt("MAX_DOCUMENT_BYTES", 16<<20),
			MaxImageBytes:    int64(getInt("MAX_IMAGE_BYTES", 8<<20)),
		},
		DB: DBConfig{
			Driver:       strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
			DSN:          getEnv("DB_DSN", "paradise.db"),
			PollInterval: getDuration("CHANGE_POLL_INTERVAL", 500*time.Millisecond),
			Retention:    getDuration("CHANGE_RETENTION", 24*time.Hour),
		},
		Mongo: MongoConfig{
			URI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database:   getEnv("MONGO_DB", "paradise"),
			Collection: getEnv("MONGO_COLLECTION", "collections"),
		},
		NATS: NATSConfig{
			URL: getEnv("NATS_URL", ""),
		},
		AI: AIConfig{
			APIKey:     getEnv("GEMINI_API_KEY", ""),
			Model:      getEnv("GEMINI_MODEL", ""),
			ImageModel: getEnv("GEMINI_IMAGE_MODEL", ""),
		},
		Banner: BannerConfig{
			Interval: getDuration("BANNER_INTERVAL", 8*time.Second),
		},
	}

	switch cfg.Store.Backend {
	case BackendMemory, BackendSQL, BackendMongo:
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.Store.Backend)
	}
	return cfg, nil
}

// InitDB opens the SQL database for the configured driver.
func InitDB(c DBConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch c.Driver {
	case "sqlite":
		dialector = sqlite.Open(c.DSN)
	case "mysql":
		dialector = mysql.Open(c.DSN)
	case "postgres":
		dialector = postgres.Open(c.DSN)
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q", c.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Connected to %s database", c.Driver)
	return db, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}

// getDuration falls back to def for unset, malformed or non-positive values.
func getDuration(key string, def time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("PORT", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, BackendSQL, cfg.Store.Backend)
	assert.Equal(t, "sqlite", cfg.DB.Driver)
	assert.Equal(t, 8*time.Second, cfg.Banner.Interval)
	assert.Equal(t, 500*time.Millisecond, cfg.DB.PollInterval)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("STORE_BACKEND", "Mongo")
	t.Setenv("MONGO_DB", "cafe")
	t.Setenv("BANNER_INTERVAL", "3s")
	t.Setenv("MAX_IMAGE_BYTES", "1024")
	t.Setenv("RATE_LIMIT", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, BackendMongo, cfg.Store.Backend)
	assert.Equal(t, "cafe", cfg.Mongo.Database)
	assert.Equal(t, 3*time.Second, cfg.Banner.Interval)
	assert.Equal(t, int64(1024), cfg.Store.MaxImageBytes)
	assert.Equal(t, 300, cfg.RateLimit)
}

func TestLoadIgnoresNonPositiveDurations(t *testing.T) {
	t.Setenv("CHANGE_POLL_INTERVAL", "0s")
	t.Setenv("CHANGE_RETENTION", "-1h")
	t.Setenv("BANNER_INTERVAL", "0")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, cfg.DB.PollInterval)
	assert.Equal(t, 24*time.Hour, cfg.DB.Retention)
	assert.Equal(t, 8*time.Second, cfg.Banner.Interval)
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("STORE_BACKEND", "redis")
	_, err := Load()
	assert.Error(t, err)
}

func TestInitDBUnknownDriver(t *testing.T) {
	_, err := InitDB(DBConfig{Driver: "oracle"})
	assert.Error(t, err)
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "listing-events", cfg.Kafka.Topic)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "Mozilla/5.0", cfg.UserAgent)

	sel := cfg.ExtractorSelectors()
	assert.Equal(t, "div.listing-item", sel.Container)
	assert.Equal(t, "span.price", sel.Price)
	assert.Equal(t, "span.address", sel.Address)
	assert.Empty(t, sel.Rooms)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("SELECTOR_ROOMS", "span.rooms")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "span.rooms", cfg.ExtractorSelectors().Rooms)
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("LOG_FORMAT=json\nHTTP_ADDR=:9999\n"), 0o644))
	t.Cleanup(func() {
		os.Unsetenv("LOG_FORMAT")
		os.Unsetenv("HTTP_ADDR")
	})

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, ":9999", cfg.HTTPAddr)
}

package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appconfig "github.com/sweetshop/sweetshop/internal/adapters/outbound/config"
	"github.com/sweetshop/sweetshop/internal/domain"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "sweetshop.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func noEnv(string) (string, bool) { return "", false }

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestYAMLLoader_MissingFileReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	loader := appconfig.NewWithEnv(noEnv)

	cfg, err := loader.Load(filepath.Join(dir, "sweetshop.yaml"))
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultConfig(), cfg)
}

func TestYAMLLoader_ValidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
server:
  addr: ":8080"
  request_timeout: 3s
database:
  driver: postgres
  url: postgres://localhost/sweetshop
events:
  broker: kafka
  kafka_brokers: ["k1:9092", "k2:9092"]
metrics:
  enabled: false
`)
	loader := appconfig.NewWithEnv(noEnv)

	cfg, err := loader.Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 3*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, domain.StorePostgres, cfg.Database.Driver)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Events.KafkaBrokers)
	assert.False(t, cfg.Metrics.Enabled)

	// Keys left out keep their defaults.
	assert.Equal(t, 15*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, "access_token", cfg.Auth.CookieName)
	assert.Equal(t, "sweetshop.orders", cfg.Events.KafkaTopic)
}

func TestYAMLLoader_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `{{{invalid yaml`)
	loader := appconfig.NewWithEnv(noEnv)

	_, err := loader.Load(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "parsing sweetshop.yaml")
}

func TestYAMLLoader_InvalidValues(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
events:
  broker: carrier-pigeon
`)
	loader := appconfig.NewWithEnv(noEnv)

	_, err := loader.Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid sweetshop.yaml")
	assert.Contains(t, err.Error(), "carrier-pigeon")
}

func TestYAMLLoader_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
server:
  addr: ":9000"
`)
	loader := appconfig.NewWithEnv(envMap(map[string]string{
		"PORT":                "4100",
		"DATABASE_URL":        "postgres://db/sweetshop",
		"JWT_SECRET":          "from-env",
		"KAFKA_BROKERS":       "a:9092,b:9092",
		"SWEETSHOP_LOG_LEVEL": "debug",
	}))

	cfg, err := loader.Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":4100", cfg.Server.Addr)
	assert.Equal(t, domain.StorePostgres, cfg.Database.Driver)
	assert.Equal(t, "postgres://db/sweetshop", cfg.Database.URL)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Events.KafkaBrokers)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestYAMLLoader_EnvOverrideInvalid(t *testing.T) {
	loader := appconfig.NewWithEnv(envMap(map[string]string{"SWEETSHOP_TOKEN_TTL": "forever"}))

	_, err := loader.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SWEETSHOP_TOKEN_TTL")
}

func TestYAMLLoader_EnvResultIsValidated(t *testing.T) {
	loader := appconfig.NewWithEnv(envMap(map[string]string{"SWEETSHOP_EVENTS_BROKER": "kafka"}))

	_, err := loader.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kafka_brokers")
}

package cli_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appconfig "github.com/sweetshop/sweetshop/internal/adapters/outbound/config"
	"github.com/sweetshop/sweetshop/internal/domain"
)

func noEnv(string) (string, bool) { return "", false }

func TestInitCmd_CreatesLoadableConfig(t *testing.T) {
	tmpDir := t.TempDir()

	out, err := run(t, nil, "init", tmpDir)
	require.NoError(t, err)
	assert.Contains(t, out, "Created sweetshop.yaml")

	path := filepath.Join(tmpDir, appconfig.DefaultFileName)
	cfg, err := appconfig.NewWithEnv(noEnv).Load(path)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultConfig(), cfg)
}

func TestInitCmd_Postgres(t *testing.T) {
	tmpDir := t.TempDir()

	_, err := run(t, nil, "init", tmpDir, "--driver", "postgres", "--broker", "kafka")
	require.NoError(t, err)

	cfg, err := appconfig.NewWithEnv(noEnv).Load(filepath.Join(tmpDir, appconfig.DefaultFileName))
	require.NoError(t, err)
	assert.Equal(t, domain.StorePostgres, cfg.Database.Driver)
	assert.NotEmpty(t, cfg.Database.URL)
	assert.Equal(t, domain.BrokerKafka, cfg.Events.Broker)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Events.KafkaBrokers)
	assert.Error(t, cfg.CheckProduction(), "the default secret is refused with postgres")
}

func TestInitCmd_FailsIfExists(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, appconfig.DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: debug\n"), 0644))

	_, err := run(t, nil, "init", tmpDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = run(t, nil, "init", tmpDir, "--force")
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "driver: memory")
}

func TestInitCmd_RejectsUnknownChoices(t *testing.T) {
	_, err := run(t, nil, "init", t.TempDir(), "--driver", "mysql")
	assert.ErrorContains(t, err, "unknown driver")

	_, err = run(t, nil, "init", t.TempDir(), "--broker", "pigeon")
	assert.ErrorContains(t, err, "unknown broker")
}

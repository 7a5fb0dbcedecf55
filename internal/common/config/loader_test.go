package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, "app:\n  name: bridge-test\n")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "bridge-test", cfg.App.Name)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 30000, cfg.Transport.Timeout)
	assert.Equal(t, int64(DefaultMaxResponseBytes), cfg.Transport.MaxResponseBytes)
	assert.Equal(t, DefaultSheetsBaseURL, cfg.Sheets.SheetsBaseURL)
	assert.Equal(t, DefaultDriveBaseURL, cfg.Sheets.DriveBaseURL)
	assert.Equal(t, ":8080", cfg.Server.Address)
}

func TestLoadFromFile_ExpandsEnvPlaceholders(t *testing.T) {
	t.Setenv("TEST_SHEETS_TOKEN", "ya29.token")
	path := writeConfig(t, "sheets:\n  access_token: ${TEST_SHEETS_TOKEN}\n")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ya29.token", cfg.Sheets.AccessToken)
}

func TestLoadFromFile_EnvOverrideWhenEmpty(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("MONGO_DATABASE", "bridge")
	path := writeConfig(t, "logging:\n  level: debug\n")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URI)
	assert.Equal(t, "bridge", cfg.Mongo.Database)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestValidateConfig(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)
	assert.NoError(t, validateConfig(cfg))

	cfg.Mongo.URI = "mongodb://x"
	cfg.Mongo.Database = ""
	assert.Error(t, validateConfig(cfg))

	cfg.Mongo.Database = "db"
	cfg.Transport.Timeout = -1
	assert.Error(t, validateConfig(cfg))
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, 1500*time.Millisecond, GetDuration(1500))
}

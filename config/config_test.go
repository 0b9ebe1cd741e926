package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig("")
	assert.Equal(t, 1816, cfg.Web.Port)
	assert.Equal(t, "fixtures", cfg.Shop.FixtureDir)
	assert.Equal(t, 7, cfg.Shop.DeliveryDays)
}

func TestLoadConfigFromFile(t *testing.T) {
	yml := `
web:
  host: 127.0.0.1
  port: 9090
shop:
  delivery_days: 3
  store_file: custom.db
`
	path := filepath.Join(t.TempDir(), "shopizen.yml")
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))

	cfg := LoadConfig(path)
	assert.Equal(t, "127.0.0.1", cfg.Web.Host)
	assert.Equal(t, 9090, cfg.Web.Port)
	assert.Equal(t, 3, cfg.Shop.DeliveryDays)
	assert.Equal(t, "custom.db", cfg.Shop.StoreFile)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SHOPIZEN_WEB_PORT", "7070")
	t.Setenv("SHOPIZEN_WEB_SECRET", "env-secret")

	cfg := LoadConfig("")
	assert.Equal(t, 7070, cfg.Web.Port)
	assert.Equal(t, "env-secret", cfg.Web.Secret)
}

func TestStorePath(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.System.Workdir = "/var/shopizen"
	cfg.Shop.StoreFile = "shopizen.db"
	assert.Equal(t, filepath.Join("/var/shopizen", "shopizen.db"), cfg.StorePath())

	cfg.Shop.StoreFile = "/tmp/abs.db"
	assert.Equal(t, "/tmp/abs.db", cfg.StorePath())
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegionBaseURL(t *testing.T) {
	t.Run("Should map each region to its host", func(t *testing.T) {
		assert.Equal(t, "https://isee.icareweb.com", RegionEU.BaseURL())
		assert.Equal(t, "https://isee-us.icareweb.com", RegionUS.BaseURL())
		assert.Equal(t, "https://isee-preview.icareweb.com", RegionPreview.BaseURL())
	})

	t.Run("Should fall back to the EU host for unknown regions", func(t *testing.T) {
		assert.Equal(t, "https://isee.icareweb.com", Region("somewhere").BaseURL())
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := defaultConfig()
		return cfg
	}

	t.Run("Should accept the defaults", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("Should accept regions case-insensitively", func(t *testing.T) {
		cfg := valid()
		cfg.API.Region = "US"
		assert.NoError(t, cfg.Validate())
		assert.Equal(t, RegionUS, cfg.ServerRegion())
	})

	t.Run("Should reject an unknown region", func(t *testing.T) {
		cfg := valid()
		cfg.API.Region = "asia"
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid region")
	})

	t.Run("Should reject a non-positive page size", func(t *testing.T) {
		cfg := valid()
		cfg.API.PageSize = 0
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "page_size")
	})

	t.Run("Should reject non-positive workers", func(t *testing.T) {
		cfg := valid()
		cfg.API.Workers = -1
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "workers")
	})
}

func TestLoad(t *testing.T) {
	t.Run("Should return defaults when no file or environment is set", func(t *testing.T) {
		t.Setenv(ConfigPathEnvVar, "")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, string(RegionEU), cfg.API.Region)
		assert.Equal(t, 1000, cfg.API.PageSize)
		assert.Equal(t, 10, cfg.API.Workers)
		assert.Equal(t, "info", cfg.Logging.Level)
	})

	t.Run("Should layer the config file over the defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "iseesync.yaml")
		content := []byte("api:\n  region: us\n  customer_db: acme\n  page_size: 50\n")
		require.NoError(t, os.WriteFile(path, content, 0o600))
		t.Setenv(ConfigPathEnvVar, path)

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "us", cfg.API.Region)
		assert.Equal(t, "acme", cfg.API.CustomerDB)
		assert.Equal(t, 50, cfg.API.PageSize)
		assert.Equal(t, 10, cfg.API.Workers, "unset keys keep their defaults")
	})

	t.Run("Should let environment variables win over the file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "iseesync.yaml")
		require.NoError(t, os.WriteFile(path, []byte("api:\n  region: us\n"), 0o600))
		t.Setenv(ConfigPathEnvVar, path)
		t.Setenv("ISEE_API_REGION", "preview")
		t.Setenv("ISEE_API_USERNAME", "svc@example.com")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "preview", cfg.API.Region)
		assert.Equal(t, "svc@example.com", cfg.API.Username)
	})

	t.Run("Should reject a config that fails validation", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "iseesync.yaml")
		require.NoError(t, os.WriteFile(path, []byte("api:\n  region: mars\n"), 0o600))
		t.Setenv(ConfigPathEnvVar, path)

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid region")
	})
}

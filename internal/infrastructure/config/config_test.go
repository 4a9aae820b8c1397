package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env vars and restore after tests
	originalEnv := map[string]string{
		"INVOICEGEN_APP_NAME":             os.Getenv("INVOICEGEN_APP_NAME"),
		"INVOICEGEN_APP_ENV":              os.Getenv("INVOICEGEN_APP_ENV"),
		"INVOICEGEN_APP_PORT":             os.Getenv("INVOICEGEN_APP_PORT"),
		"INVOICEGEN_DATABASE_PATH":        os.Getenv("INVOICEGEN_DATABASE_PATH"),
		"INVOICEGEN_BATCH_WORKERS":        os.Getenv("INVOICEGEN_BATCH_WORKERS"),
		"INVOICEGEN_BATCH_FAILURE_POLICY": os.Getenv("INVOICEGEN_BATCH_FAILURE_POLICY"),
		"INVOICEGEN_STORAGE_ENABLED":      os.Getenv("INVOICEGEN_STORAGE_ENABLED"),
		"INVOICEGEN_STORAGE_BUCKET":       os.Getenv("INVOICEGEN_STORAGE_BUCKET"),
		"INVOICEGEN_RENDER_PAGE_SIZE":     os.Getenv("INVOICEGEN_RENDER_PAGE_SIZE"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "invoicegen-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "invoicegen.db", cfg.Database.Path)
		assert.Equal(t, 4, cfg.Batch.Workers)
		assert.Equal(t, 1000, cfg.Batch.MaxRows)
		assert.Equal(t, "abort", cfg.Batch.FailurePolicy)
		assert.Equal(t, "data/archives", cfg.Storage.LocalDir)
		assert.Equal(t, "A4", cfg.Render.PageSize)
		assert.Equal(t, "P", cfg.Render.Orientation)
		assert.Equal(t, "Helvetica", cfg.Render.FontFamily)
		assert.False(t, cfg.Storage.Enabled)
	})

	t.Run("loads values from environment variables with INVOICEGEN prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("INVOICEGEN_APP_NAME", "test-app")
		os.Setenv("INVOICEGEN_APP_PORT", "9000")
		os.Setenv("INVOICEGEN_DATABASE_PATH", ":memory:")
		os.Setenv("INVOICEGEN_BATCH_WORKERS", "8")
		os.Setenv("INVOICEGEN_BATCH_FAILURE_POLICY", "collect")
		os.Setenv("INVOICEGEN_RENDER_PAGE_SIZE", "Letter")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, ":memory:", cfg.Database.Path)
		assert.Equal(t, 8, cfg.Batch.Workers)
		assert.Equal(t, "collect", cfg.Batch.FailurePolicy)
		assert.Equal(t, "Letter", cfg.Render.PageSize)
	})

	t.Run("rejects invalid failure policy", func(t *testing.T) {
		clearEnv()
		os.Setenv("INVOICEGEN_BATCH_FAILURE_POLICY", "retry")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failure_policy")
	})

	t.Run("requires bucket when storage enabled", func(t *testing.T) {
		clearEnv()
		os.Setenv("INVOICEGEN_STORAGE_ENABLED", "true")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage.bucket")
	})

	t.Run("rejects in-memory database in production", func(t *testing.T) {
		clearEnv()
		os.Setenv("INVOICEGEN_APP_ENV", "production")
		os.Setenv("INVOICEGEN_DATABASE_PATH", ":memory:")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.path")
	})
}

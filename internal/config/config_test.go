package config_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hayabusatrip/gateway/internal/config"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("UPSTREAM_API_URL", "https://api.example.com")
	t.Setenv("STORAGE_URL", "https://img.example.com")
	t.Setenv("JWT_SECRET", "secret-secret-secret-secret-1234")
}

// TestLoad_defaults verifies that optional env vars fall back to their
// defaults when only the required variables are provided.
func TestLoad_defaults(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("CORS_ORIGINS", "")
	t.Setenv("PAGE_SIZE", "")

	cfg, err := config.Load()

	require.NoError(t, err)
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, "https://api.example.com", cfg.UpstreamAPIURL)
	require.Equal(t, "https://img.example.com", cfg.StorageURL)
	require.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
	require.Equal(t, 12, cfg.PageSize)
}

// TestLoad_overrides verifies that all values can be overridden via env vars.
func TestLoad_overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CORS_ORIGINS", "https://app.example.com, https://admin.example.com")
	t.Setenv("PAGE_SIZE", "24")

	cfg, err := config.Load()

	require.NoError(t, err)
	require.Equal(t, "9090", cfg.Port)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.CORSOrigins)
	require.Equal(t, 24, cfg.PageSize)
}

// TestLoad_missingRequired verifies that the error message names every
// missing required variable.
func TestLoad_missingRequired(t *testing.T) {
	t.Setenv("UPSTREAM_API_URL", "")
	t.Setenv("STORAGE_URL", "")
	t.Setenv("JWT_SECRET", "")

	_, err := config.Load()

	require.Error(t, err)
	require.ErrorContains(t, err, "UPSTREAM_API_URL")
	require.ErrorContains(t, err, "STORAGE_URL")
	require.ErrorContains(t, err, "JWT_SECRET")
}

func TestLoad_badPageSize(t *testing.T) {
	setRequired(t)
	t.Setenv("PAGE_SIZE", "zero")

	_, err := config.Load()

	require.ErrorContains(t, err, "PAGE_SIZE")
}

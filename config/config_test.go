package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("BACKEND_URL", "http://127.0.0.1:8001/")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, map[string]int{"GET": 5, "POST": 5, "PUT": 5, "DELETE": 5}, cfg.RateLimits)
	assert.Equal(t, time.Minute, cfg.TimeWindow)
	assert.Equal(t, 5, cfg.MaxConcurrentRequests)
	assert.Equal(t, 5*time.Second, cfg.ForwardTimeout)
	assert.Equal(t, 2*time.Second, cfg.ProbeTimeout)
	assert.True(t, cfg.AllowUnknownMethods())
	assert.False(t, cfg.TrustXFF)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestLoad_ParsesRateLimitsMap(t *testing.T) {
	t.Setenv("BACKEND_URL", "http://127.0.0.1:8001/")
	t.Setenv("RATE_LIMITS", "get:10,POST:3")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"GET": 10, "POST": 3}, cfg.RateLimits)
	assert.Equal(t, 10, cfg.MaxRateLimit())
}

func TestLoad_RequiresBackendURL(t *testing.T) {
	t.Setenv("BACKEND_URL", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_RejectsBadPolicy(t *testing.T) {
	t.Setenv("BACKEND_URL", "http://127.0.0.1:8001/")
	t.Setenv("UNKNOWN_METHOD_POLICY", "maybe")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UNKNOWN_METHOD_POLICY")
}

func TestLoad_RejectsNonPositiveLimit(t *testing.T) {
	t.Setenv("BACKEND_URL", "http://127.0.0.1:8001/")
	t.Setenv("RATE_LIMITS", "GET:0")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_RejectsShortWindow(t *testing.T) {
	t.Setenv("BACKEND_URL", "http://127.0.0.1:8001/")
	t.Setenv("TIME_WINDOW", "100ms")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_DenyPolicy(t *testing.T) {
	t.Setenv("BACKEND_URL", "http://127.0.0.1:8001/")
	t.Setenv("UNKNOWN_METHOD_POLICY", "deny")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.AllowUnknownMethods())
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("BACKEND_BASE_URL", "http://localhost:5000")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:5000", cfg.Backend.BaseURL)
	assert.Equal(t, time.Duration(0), cfg.Backend.Timeout)
	assert.False(t, cfg.Backend.WithCredentials)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 12*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 300, cfg.RateLimitPerMinute)
	assert.Equal(t, 30, cfg.RateLimitBurst)
	assert.False(t, cfg.AuthEnabled())
}

func TestLoad_MissingBaseURL(t *testing.T) {
	t.Setenv("BACKEND_BASE_URL", "")

	_, err := Load()
	assert.ErrorContains(t, err, "BACKEND_BASE_URL")
}

func TestLoad_RelativeBaseURL(t *testing.T) {
	t.Setenv("BACKEND_BASE_URL", "localhost:5000")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_Auth0RequiresBothValues(t *testing.T) {
	t.Setenv("BACKEND_BASE_URL", "http://localhost:5000")
	t.Setenv("AUTH0_DOMAIN", "tenant.auth0.com")
	t.Setenv("AUTH0_AUDIENCE", "")

	_, err := Load()
	assert.ErrorContains(t, err, "AUTH0")
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("BACKEND_BASE_URL", "https://finance.example.com")
	t.Setenv("BACKEND_TOKEN", "secret")
	t.Setenv("BACKEND_TIMEOUT", "15s")
	t.Setenv("AUTH0_DOMAIN", "tenant.auth0.com")
	t.Setenv("AUTH0_AUDIENCE", "https://admin")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "60")
	t.Setenv("RATE_LIMIT_BURST", "5")
	t.Setenv("CORS_ORIGINS", "http://a.test,http://b.test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.Backend.Token)
	assert.True(t, cfg.Backend.WithCredentials)
	assert.Equal(t, 15*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 60, cfg.RateLimitPerMinute)
	assert.Equal(t, 5, cfg.RateLimitBurst)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.True(t, cfg.AuthEnabled())
}

func TestLoad_InvalidNumbers(t *testing.T) {
	t.Setenv("BACKEND_BASE_URL", "http://localhost:5000")
	t.Setenv("RATE_LIMIT_BURST", "many")

	_, err := Load()
	assert.ErrorContains(t, err, "RATE_LIMIT_BURST")
}

func TestLoad_WithCredentials(t *testing.T) {
	t.Setenv("BACKEND_BASE_URL", "http://localhost:5000")
	t.Setenv("BACKEND_TOKEN", "secret")
	t.Setenv("BACKEND_WITH_CREDENTIALS", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.Backend.WithCredentials)

	t.Setenv("BACKEND_TOKEN", "")
	t.Setenv("BACKEND_WITH_CREDENTIALS", "true")
	_, err = Load()
	assert.ErrorContains(t, err, "BACKEND_TOKEN")

	t.Setenv("BACKEND_WITH_CREDENTIALS", "sometimes")
	_, err = Load()
	assert.ErrorContains(t, err, "BACKEND_WITH_CREDENTIALS")
}

package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func load(t *testing.T, env map[string]string) (*Config, error) {
	t.Helper()
	var cfg Config
	err := envconfig.ProcessWith(context.Background(), &envconfig.Config{
		Target:   &cfg,
		Lookuper: envconfig.MapLookuper(env),
	})
	require.NoError(t, err)
	return &cfg, cfg.Validate()
}

func TestDefaults(t *testing.T) {
	cfg, err := load(t, map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "redis", cfg.Session.Store)
	assert.Equal(t, 720*time.Hour, cfg.Session.DurableTTL)
	assert.Equal(t, 12*time.Hour, cfg.Session.EphemeralTTL)
	assert.Equal(t, "https://migrate-all-in-one.onrender.com", cfg.Backend.BaseURL())
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.AllowedOrigins)
	assert.NotEmpty(t, cfg.Session.Secret, "development gets a fallback secret")
}

func TestBackendSelection(t *testing.T) {
	cfg, err := load(t, map[string]string{"BACKEND_ENV": "local"})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", cfg.Backend.BaseURL())

	_, err = load(t, map[string]string{"BACKEND_ENV": "ngrok"})
	assert.Error(t, err, "ngrok needs a URL")

	cfg, err = load(t, map[string]string{"BACKEND_ENV": "ngrok", "BACKEND_URL_NGROK": "https://x.ngrok-free.app"})
	require.NoError(t, err)
	assert.Equal(t, "https://x.ngrok-free.app", cfg.Backend.BaseURL())

	_, err = load(t, map[string]string{"BACKEND_ENV": "staging"})
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	_, err := load(t, map[string]string{"ENV": "production"})
	assert.ErrorContains(t, err, "SESSION_SECRET")

	_, err = load(t, map[string]string{"DEMO_MODE": "true"})
	assert.ErrorContains(t, err, "MONGO_URI")

	_, err = load(t, map[string]string{"SESSION_BACKEND": "file"})
	assert.ErrorContains(t, err, "SESSION_BACKEND")
}

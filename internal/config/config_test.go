package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearBackendEnv makes sure the developer's shell does not leak into a test.
func clearBackendEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"ENV", "BACKEND_URL", "REACT_APP_BACKEND_URL", "BACKEND_BASE_URL", "REDIS_ADDRESS", "REDIS_PASSWORD", "LOGGER_LEVEL"} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearBackendEnv(t)
	t.Setenv("BACKEND_URL", "http://localhost:8000/")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000", cfg.Backend.BaseURL)
	assert.Equal(t, 120*time.Second, cfg.Backend.ExtractTimeout)
	assert.Equal(t, 300*time.Second, cfg.Backend.GenerateTimeout)
	assert.Equal(t, 5, cfg.Generation.NumQuestions)
	assert.Equal(t, 8090, cfg.Server.Port)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
	assert.Zero(t, cfg.Cache.QuestionsTTL, "question caching is opt-in")
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Empty(t, cfg.Redis.Address)
	assert.Equal(t, 20*1024*1024, cfg.BodyLimitBytes())
}

func TestLoadConfig_ReactAppFallback(t *testing.T) {
	clearBackendEnv(t)
	t.Setenv("REACT_APP_BACKEND_URL", "http://backend:8000")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://backend:8000", cfg.Backend.BaseURL)

	t.Setenv("BACKEND_URL", "http://preferred:8000")
	cfg, err = LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://preferred:8000", cfg.Backend.BaseURL)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	clearBackendEnv(t)
	t.Setenv("BACKEND_URL", "http://localhost:8000")
	t.Setenv("GENERATION_NUM_QUESTIONS", "10")
	t.Setenv("SESSION_TTL", "5m")
	t.Setenv("REDIS_ADDRESS", "localhost:6379")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Generation.NumQuestions)
	assert.Equal(t, 5*time.Minute, cfg.Session.TTL)
	assert.Equal(t, "localhost:6379", cfg.Redis.Address)
}

func TestLoadConfig_MissingBackendURL(t *testing.T) {
	clearBackendEnv(t)

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Backend.BaseURL")
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Backend:    BackendConfig{BaseURL: "http://localhost:8000", ExtractTimeout: time.Second, GenerateTimeout: time.Second},
			Generation: GenerationConfig{NumQuestions: 5},
			Server:     ServerConfig{Port: 8090, BodyLimitMB: 1},
			Session:    SessionConfig{TTL: time.Minute},
			Logger:     LoggerConfig{Level: "info"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "relative url", mutate: func(c *Config) { c.Backend.BaseURL = "localhost" }, wantErr: "Backend.BaseURL"},
		{name: "zero timeout", mutate: func(c *Config) { c.Backend.ExtractTimeout = 0 }, wantErr: "Backend.ExtractTimeout"},
		{name: "too many questions", mutate: func(c *Config) { c.Generation.NumQuestions = 51 }, wantErr: "Generation.NumQuestions"},
		{name: "bad port", mutate: func(c *Config) { c.Server.Port = 70000 }, wantErr: "Server.Port"},
		{name: "unknown level", mutate: func(c *Config) { c.Logger.Level = "verbose" }, wantErr: "Logger.Level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

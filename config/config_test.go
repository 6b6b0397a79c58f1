package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Server:  ServerConfig{Port: "3000"},
		Backend: BackendConfig{APIBaseURL: "http://localhost:8080/api", TimeoutSeconds: 30},
		Tokens:  TokenStoreConfig{Store: TokenStoreFile, Profile: "default"},
	}
}

func TestConfig_IsDevelopment(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		expected bool
	}{
		{
			name:     "development environment",
			config:   &Config{Server: ServerConfig{AppEnv: "development"}},
			expected: true,
		},
		{
			name:     "debug gin mode",
			config:   &Config{Server: ServerConfig{GinMode: "debug"}},
			expected: true,
		},
		{
			name:     "production environment",
			config:   &Config{Server: ServerConfig{AppEnv: "production"}},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.config.IsDevelopment())
		})
	}
}

func TestConfig_IsProduction(t *testing.T) {
	assert.True(t, (&Config{Server: ServerConfig{AppEnv: "production"}}).IsProduction())
	assert.False(t, (&Config{Server: ServerConfig{AppEnv: "staging"}}).IsProduction())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		expectError bool
		errorMsg    string
	}{
		{
			name:   "valid file store config",
			mutate: func(c *Config) {},
		},
		{
			name: "valid redis store config",
			mutate: func(c *Config) {
				c.Tokens.Store = TokenStoreRedis
				c.Tokens.Redis.Addr = "localhost:6379"
			},
		},
		{
			name:        "missing base URL",
			mutate:      func(c *Config) { c.Backend.APIBaseURL = "" },
			expectError: true,
			errorMsg:    "API_BASE_URL is required",
		},
		{
			name:        "relative base URL",
			mutate:      func(c *Config) { c.Backend.APIBaseURL = "/api" },
			expectError: true,
			errorMsg:    "absolute http(s) URL",
		},
		{
			name:        "redis without address",
			mutate:      func(c *Config) { c.Tokens.Store = TokenStoreRedis },
			expectError: true,
			errorMsg:    "REDIS_ADDR is required",
		},
		{
			name:        "unknown token store",
			mutate:      func(c *Config) { c.Tokens.Store = "keychain" },
			expectError: true,
			errorMsg:    "TOKEN_STORE must be one of",
		},
		{
			name:        "missing port",
			mutate:      func(c *Config) { c.Server.Port = "" },
			expectError: true,
			errorMsg:    "PORT is required",
		},
		{
			name: "profiling without endpoint",
			mutate: func(c *Config) {
				c.Profiling.Enabled = true
			},
			expectError: true,
			errorMsg:    "O11Y_PROFILING_ENDPOINT is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.expectError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoad_WithDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.BindAddr)
	assert.Equal(t, "http://localhost:8080/api", cfg.Backend.APIBaseURL)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout())
	assert.Equal(t, TokenStoreFile, cfg.Tokens.Store)
	assert.Equal(t, 30*time.Second, cfg.Messages.UnreadPollInterval)
	assert.Equal(t, 300, cfg.Avatar.CacheTTLSeconds)
	assert.False(t, cfg.Mentors.ServerSideFilter)
	assert.False(t, cfg.S3Enabled())
	assert.Equal(t, []string{"http://localhost:3000", "http://127.0.0.1:3000"}, cfg.Server.AllowedOrigins)
}

func TestLoad_WithEnvironmentVariables(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "9000")
	t.Setenv("APP_ENV", "development")
	t.Setenv("API_BASE_URL", "https://match.example.com/api/")
	t.Setenv("TOKEN_STORE", "REDIS")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("MENTORS_SERVER_FILTER", "true")
	t.Setenv("UNREAD_POLL_INTERVAL", "1m")
	t.Setenv("AVATAR_S3_ACCESS_KEY_ID", "key")
	t.Setenv("AVATAR_S3_SECRET_ACCESS_KEY", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "https://match.example.com/api", cfg.Backend.APIBaseURL)
	assert.Equal(t, TokenStoreRedis, cfg.Tokens.Store)
	assert.Equal(t, "redis:6379", cfg.Tokens.Redis.Addr)
	assert.True(t, cfg.Mentors.ServerSideFilter)
	assert.Equal(t, time.Minute, cfg.Messages.UnreadPollInterval)
	assert.True(t, cfg.S3Enabled())
}

func TestLoad_ValidationFailure(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TOKEN_STORE", "redis")

	cfg, err := Load()

	assert.Error(t, err)
	assert.Nil(t, cfg)
}

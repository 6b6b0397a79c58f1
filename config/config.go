package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Token store backends
const (
	TokenStoreFile   = "file"
	TokenStoreRedis  = "redis"
	TokenStoreMemory = "memory"
)

// Config holds all application configuration
//
//nolint:govet // Field alignment optimization would reduce readability
type Config struct {
	Server        ServerConfig
	Backend       BackendConfig
	Tokens        TokenStoreConfig
	Mentors       MentorsConfig
	Messages      MessagesConfig
	Avatar        AvatarConfig
	Logging       LoggingConfig
	Observability ObservabilityConfig
	Profiling     ProfilingConfig
}

type ServerConfig struct {
	Port           string
	BindAddr       string
	GinMode        string
	AppEnv         string
	AllowedOrigins []string
}

type BackendConfig struct {
	APIBaseURL     string
	TimeoutSeconds int
}

type TokenStoreConfig struct {
	Store   string
	File    string // empty means $XDG_STATE_HOME/mentor-match/token
	Profile string
	Redis   RedisConfig
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type MentorsConfig struct {
	ServerSideFilter bool // forward skill/order_by to the backend as well
}

type MessagesConfig struct {
	UnreadPollInterval time.Duration // zero disables the poller
}

type AvatarConfig struct {
	CacheTTLSeconds int
	S3              S3Config
}

type S3Config struct {
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string
	Region          string
}

type LoggingConfig struct {
	Level string
	Dir   string
}

type ObservabilityConfig struct {
	ExporterEndpoint  string
	ServiceName       string
	ServiceNamespace  string
	ServiceVersion    string
	ServiceInstanceID string
}

type ProfilingConfig struct {
	Enabled               bool
	Endpoint              string
	AppName               string
	SampleTypes           string
	UploadIntervalSeconds int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("PORT", "3000")
	v.SetDefault("BIND_ADDR", "127.0.0.1")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("ALLOWED_CORS_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000")
	v.SetDefault("API_BASE_URL", "http://localhost:8080/api")
	v.SetDefault("HTTP_CLIENT_TIMEOUT_SECONDS", 30)
	v.SetDefault("TOKEN_STORE", TokenStoreFile)
	v.SetDefault("TOKEN_PROFILE", "default")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("MENTORS_SERVER_FILTER", false)
	v.SetDefault("UNREAD_POLL_INTERVAL", "30s")
	v.SetDefault("AVATAR_CACHE_TTL", 300) // 5 minutes in seconds
	v.SetDefault("AVATAR_S3_REGION", "us-east-1")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_DIR", "")
	v.SetDefault("O11Y_EXPORTER_ENDPOINT", "")
	v.SetDefault("O11Y_SERVICE_NAME", "mentor-match-client")
	v.SetDefault("O11Y_SERVICE_NAMESPACE", "mentor-match")
	v.SetDefault("O11Y_SERVICE_VERSION", "1.0.0")
	v.SetDefault("O11Y_PROFILING_ENABLED", false)
	v.SetDefault("O11Y_PROFILING_APP_NAME", "mentor-match-client")
	v.SetDefault("O11Y_PROFILING_SAMPLE_TYPES", "cpu,alloc_space,goroutines")
	v.SetDefault("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS", 15)

	// Automatically read environment variables
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read from .env file if it exists
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	_ = v.ReadInConfig() //nolint:errcheck // Ignore error if .env file doesn't exist

	cfg := &Config{
		Server: ServerConfig{
			Port:           v.GetString("PORT"),
			BindAddr:       v.GetString("BIND_ADDR"),
			GinMode:        v.GetString("GIN_MODE"),
			AppEnv:         v.GetString("APP_ENV"),
			AllowedOrigins: splitList(v.GetString("ALLOWED_CORS_ORIGINS")),
		},
		Backend: BackendConfig{
			APIBaseURL:     strings.TrimRight(v.GetString("API_BASE_URL"), "/"),
			TimeoutSeconds: v.GetInt("HTTP_CLIENT_TIMEOUT_SECONDS"),
		},
		Tokens: TokenStoreConfig{
			Store:   strings.ToLower(v.GetString("TOKEN_STORE")),
			File:    v.GetString("TOKEN_FILE"),
			Profile: v.GetString("TOKEN_PROFILE"),
			Redis: RedisConfig{
				Addr:     v.GetString("REDIS_ADDR"),
				Password: v.GetString("REDIS_PASSWORD"),
				DB:       v.GetInt("REDIS_DB"),
			},
		},
		Mentors: MentorsConfig{
			ServerSideFilter: v.GetBool("MENTORS_SERVER_FILTER"),
		},
		Messages: MessagesConfig{
			UnreadPollInterval: v.GetDuration("UNREAD_POLL_INTERVAL"),
		},
		Avatar: AvatarConfig{
			CacheTTLSeconds: v.GetInt("AVATAR_CACHE_TTL"),
			S3: S3Config{
				AccessKeyID:     v.GetString("AVATAR_S3_ACCESS_KEY_ID"),
				SecretAccessKey: v.GetString("AVATAR_S3_SECRET_ACCESS_KEY"),
				Endpoint:        v.GetString("AVATAR_S3_ENDPOINT"),
				Region:          v.GetString("AVATAR_S3_REGION"),
			},
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
			Dir:   v.GetString("LOG_DIR"),
		},
		Observability: ObservabilityConfig{
			ExporterEndpoint:  v.GetString("O11Y_EXPORTER_ENDPOINT"),
			ServiceName:       v.GetString("O11Y_SERVICE_NAME"),
			ServiceNamespace:  v.GetString("O11Y_SERVICE_NAMESPACE"),
			ServiceVersion:    v.GetString("O11Y_SERVICE_VERSION"),
			ServiceInstanceID: v.GetString("SERVICE_INSTANCE_ID"),
		},
		Profiling: ProfilingConfig{
			Enabled:               v.GetBool("O11Y_PROFILING_ENABLED"),
			Endpoint:              v.GetString("O11Y_PROFILING_ENDPOINT"),
			AppName:               v.GetString("O11Y_PROFILING_APP_NAME"),
			SampleTypes:           v.GetString("O11Y_PROFILING_SAMPLE_TYPES"),
			UploadIntervalSeconds: v.GetInt("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS"),
		},
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration values are set
func (c *Config) Validate() error {
	// Backend
	if c.Backend.APIBaseURL == "" {
		return fmt.Errorf("API_BASE_URL is required")
	}
	u, err := url.Parse(c.Backend.APIBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("API_BASE_URL must be an absolute http(s) URL, got %q", c.Backend.APIBaseURL)
	}

	// Token store
	switch c.Tokens.Store {
	case TokenStoreFile, TokenStoreMemory:
	case TokenStoreRedis:
		if c.Tokens.Redis.Addr == "" {
			return fmt.Errorf("REDIS_ADDR is required when TOKEN_STORE=redis")
		}
	default:
		return fmt.Errorf("TOKEN_STORE must be one of file, redis, memory; got %q", c.Tokens.Store)
	}
	if c.Tokens.Profile == "" {
		return fmt.Errorf("TOKEN_PROFILE is required")
	}

	// Server configuration
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Messages.UnreadPollInterval < 0 {
		return fmt.Errorf("UNREAD_POLL_INTERVAL must not be negative")
	}

	if c.Profiling.Enabled && c.Profiling.Endpoint == "" {
		return fmt.Errorf("O11Y_PROFILING_ENDPOINT is required when profiling is enabled")
	}

	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.AppEnv == "development" || c.Server.GinMode == "debug"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.AppEnv == "production"
}

// HTTPTimeout returns the backend round-trip timeout
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.Backend.TimeoutSeconds) * time.Second
}

// S3Enabled reports whether avatars may be sourced from object storage
func (c *Config) S3Enabled() bool {
	return c.Avatar.S3.AccessKeyID != "" && c.Avatar.S3.SecretAccessKey != ""
}

// splitList parses a comma-separated list, dropping blanks
func splitList(value string) []string {
	items := []string{}
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

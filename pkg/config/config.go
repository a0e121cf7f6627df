package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/osplatform/permissions-client/pkg/cache"
	"github.com/osplatform/permissions-client/pkg/observability"
	"github.com/osplatform/permissions-client/pkg/token"
)

// Config holds all permissions client configuration
type Config struct {
	// OSCore configuration
	OSCore OSCoreConfig

	// Cache configuration
	Cache CacheConfig

	// Auth configuration
	Auth AuthConfig

	// Observability configuration
	Observability ObservabilityConfig
}

// OSCoreConfig holds the remote permissions API settings
type OSCoreConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
}

// CacheConfig holds the cache backend selection and entry expiry
type CacheConfig struct {
	Store cache.Config
	TTL   time.Duration
}

// AuthConfig holds the token acquisition settings
type AuthConfig struct {
	Settings        token.Settings
	RefreshSchedule string
}

// ObservabilityConfig holds logging and metrics settings
type ObservabilityConfig struct {
	LogLevel       observability.LogLevel
	MetricsEnabled bool

	// ServiceName and Environment become constant labels on every
	// metric series.
	ServiceName string
	Environment string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		OSCore:        loadOSCoreConfig(),
		Cache:         loadCacheConfig(),
		Auth:          loadAuthConfig(),
		Observability: loadObservabilityConfig(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadOSCoreConfig loads remote API configuration from environment
func loadOSCoreConfig() OSCoreConfig {
	return OSCoreConfig{
		BaseURL:        getEnv("PERMCLIENT_OSCORE_URL", ""),
		RequestTimeout: getEnvDuration("PERMCLIENT_REQUEST_TIMEOUT", 30*time.Second),
	}
}

// loadCacheConfig loads cache configuration from environment
func loadCacheConfig() CacheConfig {
	ttl := getEnvDuration("PERMCLIENT_CACHE_TTL", 120*time.Second)

	return CacheConfig{
		Store: cache.Config{
			Backend:       getEnv("PERMCLIENT_CACHE_BACKEND", cache.BackendMemory),
			RedisURL:      getEnv("PERMCLIENT_REDIS_URL", "redis://localhost:6379"),
			RedisPassword: getEnv("PERMCLIENT_REDIS_PASSWORD", ""),
			RedisDB:       getEnvInt("PERMCLIENT_REDIS_DB", 0),
			MemorySize:    getEnvInt("PERMCLIENT_MEMORY_SIZE", cache.DefaultMemorySize),
			MemoryTTL:     ttl,
		},
		TTL: ttl,
	}
}

// loadAuthConfig loads token acquisition configuration from environment
func loadAuthConfig() AuthConfig {
	return AuthConfig{
		Settings: token.Settings{
			Domain:       getEnv("PERMCLIENT_AUTH_DOMAIN", ""),
			ClientID:     getEnv("PERMCLIENT_AUTH_CLIENT_ID", ""),
			ClientSecret: getEnv("PERMCLIENT_AUTH_CLIENT_SECRET", ""),
			Audiences:    parseAudiences(getEnv("PERMCLIENT_AUTH_AUDIENCES", "")),
		},
		RefreshSchedule: getEnv("PERMCLIENT_TOKEN_REFRESH_SCHEDULE", token.DefaultRefreshSchedule),
	}
}

// loadObservabilityConfig loads observability configuration from environment
func loadObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		LogLevel:       observability.ParseLevel(getEnv("PERMCLIENT_LOG_LEVEL", "info")),
		MetricsEnabled: getEnvBool("PERMCLIENT_METRICS_ENABLED", true),
		ServiceName:    getEnv("PERMCLIENT_SERVICE_NAME", ""),
		Environment:    getEnv("PERMCLIENT_ENVIRONMENT", ""),
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.OSCore.BaseURL == "" {
		return fmt.Errorf("PERMCLIENT_OSCORE_URL is required")
	}

	switch c.Cache.Store.Backend {
	case cache.BackendRedis:
		if c.Cache.Store.RedisURL == "" {
			return fmt.Errorf("redis URL is required for the redis cache backend")
		}
	case cache.BackendMemory, cache.BackendDisabled:
	default:
		return fmt.Errorf("invalid cache backend: %s (must be redis, memory, or disabled)", c.Cache.Store.Backend)
	}

	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache TTL must be positive")
	}

	return nil
}

// parseAudiences parses "service=audience" pairs separated by commas,
// e.g. "oscore=https://api.example.com,billing=https://billing.example.com".
func parseAudiences(raw string) map[string]string {
	audiences := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			continue
		}
		audiences[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
	}
	return audiences
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Package config provides application configuration management from environment variables.
//
// # Overview
//
// This package loads and validates configuration from environment variables with
// sensible defaults for all settings.
//
// # Configuration Structure
//
// OS Core settings:
//
//	PERMCLIENT_OSCORE_URL="https://oscore.internal"
//	PERMCLIENT_REQUEST_TIMEOUT="30s"
//
// Cache settings:
//
//	PERMCLIENT_CACHE_BACKEND="redis"  # redis, memory, disabled
//	PERMCLIENT_CACHE_TTL="120s"
//	PERMCLIENT_REDIS_URL="redis://localhost:6379"
//	PERMCLIENT_REDIS_DB="0"
//	PERMCLIENT_MEMORY_SIZE="4096"
//
// Auth settings:
//
//	PERMCLIENT_AUTH_DOMAIN="auth.example.com"
//	PERMCLIENT_AUTH_CLIENT_ID="..."
//	PERMCLIENT_AUTH_CLIENT_SECRET="..."
//	PERMCLIENT_AUTH_AUDIENCES="oscore=https://api.example.com"
//	PERMCLIENT_TOKEN_REFRESH_SCHEDULE="@every 10m"
//
// Observability settings:
//
//	PERMCLIENT_LOG_LEVEL="info"  # debug, info, warn, error
//	PERMCLIENT_METRICS_ENABLED="true"
//	PERMCLIENT_SERVICE_NAME="invoicing"
//	PERMCLIENT_ENVIRONMENT="production"
//
// # Usage Example
//
// Load configuration:
//
//	cfg, err := config.LoadConfig()
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	fmt.Printf("OS Core: %s\n", cfg.OSCore.BaseURL)
//	fmt.Printf("Cache backend: %s\n", cfg.Cache.Store.Backend)
//
// # Related Packages
//
//   - pkg/cache: uses cache configuration
//   - pkg/token: uses auth configuration
//   - pkg/observability: uses observability configuration
package config

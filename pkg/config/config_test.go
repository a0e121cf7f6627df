package config

import (
	"testing"
	"time"

	"github.com/osplatform/permissions-client/pkg/cache"
	"github.com/osplatform/permissions-client/pkg/observability"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("PERMCLIENT_OSCORE_URL", "https://oscore.example.com")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.OSCore.BaseURL != "https://oscore.example.com" {
		t.Errorf("Expected base URL from env, got %s", cfg.OSCore.BaseURL)
	}
	if cfg.OSCore.RequestTimeout != 30*time.Second {
		t.Errorf("Expected default request timeout 30s, got %v", cfg.OSCore.RequestTimeout)
	}
	if cfg.Cache.Store.Backend != cache.BackendMemory {
		t.Errorf("Expected default memory backend, got %s", cfg.Cache.Store.Backend)
	}
	if cfg.Cache.TTL != 120*time.Second {
		t.Errorf("Expected default cache TTL 120s, got %v", cfg.Cache.TTL)
	}
	if cfg.Observability.LogLevel != observability.InfoLevel {
		t.Errorf("Expected default info log level, got %v", cfg.Observability.LogLevel)
	}
	if !cfg.Observability.MetricsEnabled {
		t.Error("Expected metrics enabled by default")
	}
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Setenv("PERMCLIENT_OSCORE_URL", "https://oscore.example.com")
	t.Setenv("PERMCLIENT_REQUEST_TIMEOUT", "5s")
	t.Setenv("PERMCLIENT_CACHE_BACKEND", "redis")
	t.Setenv("PERMCLIENT_REDIS_URL", "redis://cache.internal:6379")
	t.Setenv("PERMCLIENT_REDIS_DB", "3")
	t.Setenv("PERMCLIENT_CACHE_TTL", "1m")
	t.Setenv("PERMCLIENT_AUTH_DOMAIN", "auth.example.com")
	t.Setenv("PERMCLIENT_AUTH_CLIENT_ID", "client-id")
	t.Setenv("PERMCLIENT_AUTH_CLIENT_SECRET", "client-secret")
	t.Setenv("PERMCLIENT_AUTH_AUDIENCES", "oscore=https://api.example.com, billing=https://billing.example.com")
	t.Setenv("PERMCLIENT_LOG_LEVEL", "debug")
	t.Setenv("PERMCLIENT_METRICS_ENABLED", "false")
	t.Setenv("PERMCLIENT_SERVICE_NAME", "invoicing")
	t.Setenv("PERMCLIENT_ENVIRONMENT", "production")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.OSCore.RequestTimeout != 5*time.Second {
		t.Errorf("Expected request timeout 5s, got %v", cfg.OSCore.RequestTimeout)
	}
	if cfg.Cache.Store.Backend != cache.BackendRedis {
		t.Errorf("Expected redis backend, got %s", cfg.Cache.Store.Backend)
	}
	if cfg.Cache.Store.RedisURL != "redis://cache.internal:6379" {
		t.Errorf("Unexpected redis URL: %s", cfg.Cache.Store.RedisURL)
	}
	if cfg.Cache.Store.RedisDB != 3 {
		t.Errorf("Expected redis DB 3, got %d", cfg.Cache.Store.RedisDB)
	}
	if cfg.Cache.TTL != time.Minute {
		t.Errorf("Expected cache TTL 1m, got %v", cfg.Cache.TTL)
	}
	if cfg.Cache.Store.MemoryTTL != time.Minute {
		t.Errorf("Expected memory TTL to follow cache TTL, got %v", cfg.Cache.Store.MemoryTTL)
	}
	if cfg.Auth.Settings.Domain != "auth.example.com" {
		t.Errorf("Unexpected auth domain: %s", cfg.Auth.Settings.Domain)
	}
	if len(cfg.Auth.Settings.Audiences) != 2 {
		t.Fatalf("Expected 2 audiences, got %d", len(cfg.Auth.Settings.Audiences))
	}
	if cfg.Auth.Settings.Audiences["billing"] != "https://billing.example.com" {
		t.Errorf("Unexpected billing audience: %s", cfg.Auth.Settings.Audiences["billing"])
	}
	if cfg.Observability.LogLevel != observability.DebugLevel {
		t.Errorf("Expected debug log level, got %v", cfg.Observability.LogLevel)
	}
	if cfg.Observability.MetricsEnabled {
		t.Error("Expected metrics disabled")
	}
	if cfg.Observability.ServiceName != "invoicing" {
		t.Errorf("Unexpected service name: %s", cfg.Observability.ServiceName)
	}
}

func TestLoadConfig_MissingBaseURL(t *testing.T) {
	t.Setenv("PERMCLIENT_OSCORE_URL", "")

	if _, err := LoadConfig(); err == nil {
		t.Error("Expected error when PERMCLIENT_OSCORE_URL is unset")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			OSCore: OSCoreConfig{BaseURL: "https://oscore.example.com"},
			Cache: CacheConfig{
				Store: cache.Config{Backend: cache.BackendMemory},
				TTL:   time.Minute,
			},
		}
	}

	t.Run("valid config", func(t *testing.T) {
		if err := valid().Validate(); err != nil {
			t.Errorf("Expected valid config, got %v", err)
		}
	})

	t.Run("missing base URL", func(t *testing.T) {
		cfg := valid()
		cfg.OSCore.BaseURL = ""
		if err := cfg.Validate(); err == nil {
			t.Error("Expected error for missing base URL")
		}
	})

	t.Run("redis backend requires URL", func(t *testing.T) {
		cfg := valid()
		cfg.Cache.Store.Backend = cache.BackendRedis
		if err := cfg.Validate(); err == nil {
			t.Error("Expected error for redis backend without URL")
		}

		cfg.Cache.Store.RedisURL = "redis://localhost:6379"
		if err := cfg.Validate(); err != nil {
			t.Errorf("Expected valid config, got %v", err)
		}
	})

	t.Run("disabled backend is valid", func(t *testing.T) {
		cfg := valid()
		cfg.Cache.Store.Backend = cache.BackendDisabled
		if err := cfg.Validate(); err != nil {
			t.Errorf("Expected valid config, got %v", err)
		}
	})

	t.Run("unknown backend", func(t *testing.T) {
		cfg := valid()
		cfg.Cache.Store.Backend = "memcached"
		if err := cfg.Validate(); err == nil {
			t.Error("Expected error for unknown backend")
		}
	})

	t.Run("non-positive TTL", func(t *testing.T) {
		cfg := valid()
		cfg.Cache.TTL = 0
		if err := cfg.Validate(); err == nil {
			t.Error("Expected error for zero TTL")
		}
	})
}

func TestParseAudiences(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want map[string]string
	}{
		{
			name: "empty",
			raw:  "",
			want: map[string]string{},
		},
		{
			name: "single pair",
			raw:  "oscore=https://api.example.com",
			want: map[string]string{"oscore": "https://api.example.com"},
		},
		{
			name: "multiple pairs with spaces",
			raw:  "oscore=https://api.example.com, billing=https://billing.example.com",
			want: map[string]string{
				"oscore":  "https://api.example.com",
				"billing": "https://billing.example.com",
			},
		},
		{
			name: "malformed pairs skipped",
			raw:  "oscore=https://api.example.com,nonsense,=empty,empty=",
			want: map[string]string{"oscore": "https://api.example.com"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseAudiences(tt.raw)
			if len(got) != len(tt.want) {
				t.Fatalf("Expected %d audiences, got %d", len(tt.want), len(got))
			}
			for service, audience := range tt.want {
				if got[service] != audience {
					t.Errorf("Expected %s=%s, got %s", service, audience, got[service])
				}
			}
		})
	}
}

func TestEnvHelpers(t *testing.T) {
	t.Run("getEnv", func(t *testing.T) {
		t.Setenv("PERMCLIENT_TEST_STRING", "custom")
		if got := getEnv("PERMCLIENT_TEST_STRING", "default"); got != "custom" {
			t.Errorf("Expected 'custom', got %s", got)
		}
		if got := getEnv("PERMCLIENT_TEST_STRING_UNSET", "default"); got != "default" {
			t.Errorf("Expected 'default', got %s", got)
		}
	})

	t.Run("getEnvBool", func(t *testing.T) {
		t.Setenv("PERMCLIENT_TEST_BOOL", "true")
		if !getEnvBool("PERMCLIENT_TEST_BOOL", false) {
			t.Error("Expected true for 'true'")
		}
		t.Setenv("PERMCLIENT_TEST_BOOL", "1")
		if !getEnvBool("PERMCLIENT_TEST_BOOL", false) {
			t.Error("Expected true for '1'")
		}
		t.Setenv("PERMCLIENT_TEST_BOOL", "no")
		if getEnvBool("PERMCLIENT_TEST_BOOL", true) {
			t.Error("Expected false for 'no'")
		}
	})

	t.Run("getEnvInt falls back on garbage", func(t *testing.T) {
		t.Setenv("PERMCLIENT_TEST_INT", "not a number")
		if got := getEnvInt("PERMCLIENT_TEST_INT", 7); got != 7 {
			t.Errorf("Expected default 7, got %d", got)
		}
	})

	t.Run("getEnvDuration falls back on garbage", func(t *testing.T) {
		t.Setenv("PERMCLIENT_TEST_DURATION", "soonish")
		if got := getEnvDuration("PERMCLIENT_TEST_DURATION", time.Minute); got != time.Minute {
			t.Errorf("Expected default 1m, got %v", got)
		}
	})
}

package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"APP_ENV", "APP_PORT", "LOG_LEVEL", "BODY_LIMIT", "SHUTDOWN_TIMEOUT"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	if cfg.Env != "dev" || cfg.Port != "8080" || cfg.LogLevel != "info" || cfg.BodyLimit != "1M" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("shutdown timeout = %s", cfg.ShutdownTimeout)
	}
	if cfg.Addr() != ":8080" {
		t.Errorf("addr = %q", cfg.Addr())
	}
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("X_BOOL", "off")
	t.Setenv("X_INT", "nope")
	t.Setenv("X_DUR", "150ms")

	if envBool("X_BOOL", true) {
		t.Error("expected off to parse as false")
	}
	if got := envInt("X_INT", 7); got != 7 {
		t.Errorf("malformed int should fall back, got %d", got)
	}
	if got := envDur("X_DUR", time.Second); got != 150*time.Millisecond {
		t.Errorf("dur = %s", got)
	}
	if got := envStr("X_UNSET_FOR_TEST", "d"); got != "d" {
		t.Errorf("str = %q", got)
	}
}

func TestLoadCacheConfig(t *testing.T) {
	t.Setenv("CACHE_METHODS", " get, head ,")
	t.Setenv("CACHE_TTL", "1m")
	t.Setenv("CACHE_KEY_STRATEGY", "")
	cfg := LoadCacheConfig()

	if !cfg.Methods["GET"] || !cfg.Methods["HEAD"] || len(cfg.Methods) != 2 {
		t.Errorf("methods = %v", cfg.Methods)
	}
	if cfg.TTL != time.Minute {
		t.Errorf("ttl = %s", cfg.TTL)
	}
	if cfg.KeyStrategy != "path_query" {
		t.Errorf("key strategy = %q", cfg.KeyStrategy)
	}
}

func TestLoadRateLimitConfigDisabledByDefault(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "")
	if LoadRateLimitConfig().Enabled {
		t.Error("rate limiting should be opt-in")
	}
	t.Setenv("RATE_LIMIT_ENABLED", "true")
	if !LoadRateLimitConfig().Enabled {
		t.Error("RATE_LIMIT_ENABLED=true should enable it")
	}
}

func TestLoadRateLimitConfigClamps(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want func(RateLimitConfig) bool
	}{
		{
			name: "burst overrides capacity",
			env:  map[string]string{"RATE_LIMIT_CAPACITY": "5", "RATE_LIMIT_BURST": "9"},
			want: func(c RateLimitConfig) bool { return c.Capacity == 9 },
		},
		{
			name: "capacity floor",
			env:  map[string]string{"RATE_LIMIT_CAPACITY": "0"},
			want: func(c RateLimitConfig) bool { return c.Capacity == 1 },
		},
		{
			name: "ttl at least five intervals",
			env:  map[string]string{"RATE_LIMIT_REFILL_EVERY": "1m", "RATE_LIMIT_TTL": "1s"},
			want: func(c RateLimitConfig) bool {
				return c.RefillInterval == time.Minute && c.RefillTokens == 1 && c.TTL == 5*time.Minute
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if cfg := LoadRateLimitConfig(); !tt.want(cfg) {
				t.Errorf("unexpected config: %+v", cfg)
			}
		})
	}
}

func TestLoadEventsConfig(t *testing.T) {
	t.Setenv("RABBITMQ_URL", "")
	t.Setenv("AMQP_URL", "amqp://u:p@broker:5672/")
	cfg := LoadEventsConfig()
	if cfg.Enabled {
		t.Error("events should be disabled by default")
	}
	if cfg.URL != "amqp://u:p@broker:5672/" {
		t.Errorf("url = %q", cfg.URL)
	}
	if cfg.Queue != "question.served" {
		t.Errorf("queue = %q", cfg.Queue)
	}

	t.Setenv("RABBITMQ_URL", "amqp://primary/")
	if got := LoadEventsConfig().URL; got != "amqp://primary/" {
		t.Errorf("RABBITMQ_URL should win, got %q", got)
	}
}

func TestLoadRedisConfig(t *testing.T) {
	t.Setenv("REDIS_ADDR", "cache:6380")
	t.Setenv("REDIS_HOST", "")
	t.Setenv("REDIS_PORT", "")
	if got := LoadRedisConfig().Addr; got != "cache:6380" {
		t.Errorf("addr = %q", got)
	}
	t.Setenv("REDIS_HOST", "redis")
	t.Setenv("REDIS_PORT", "6379")
	if got := LoadRedisConfig().Addr; got != "redis:6379" {
		t.Errorf("host/port should take precedence, got %q", got)
	}
}

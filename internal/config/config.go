package config // package config loads application configuration from environment variables

import (
	"time"
)

// Config holds the launch settings of the HTTP server.  Every field has a
// default so the service starts with an empty environment; the question
// endpoint itself reads nothing from here.
type Config struct {
	Env             string        // application environment (e.g. "dev", "prod")
	Port            string        // HTTP port to listen on
	LogLevel        string        // debug, info, warn or error
	BodyLimit       string        // max request body accepted by the BodyLimit middleware
	ShutdownTimeout time.Duration // grace period for in-flight requests on SIGTERM
}

// Load reads the server configuration from the environment.
func Load() Config {
	cfg := Config{
		Env:             envStr("APP_ENV", "dev"),
		Port:            envStr("APP_PORT", "8080"),
		LogLevel:        envStr("LOG_LEVEL", "info"),
		BodyLimit:       envStr("BODY_LIMIT", "1M"),
		ShutdownTimeout: envDur("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	return cfg
}

// Addr returns the listen address for the configured port.
func (c Config) Addr() string { return ":" + c.Port }

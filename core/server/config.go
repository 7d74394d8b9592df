package server

import (
	"fmt"
	"time"
)

const (
	// DefaultPort is used when no API port is configured.
	DefaultPort = 40020
	// DefaultRequestTimeout bounds every store call made while serving a request.
	DefaultRequestTimeout = 30 * time.Second
	// DefaultShutdownTimeout bounds graceful shutdown of the listeners.
	DefaultShutdownTimeout = 10 * time.Second
	// DefaultBodyLimit is the largest request body accepted, in bytes.
	DefaultBodyLimit = 4 * 1024 * 1024
)

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the API listens on all interfaces.
	Port int `mapstructure:"port" default:"40020"`
	// ApiToken is the secret every request must present in the Authorization header.
	ApiToken string `mapstructure:"api_token" default:""`
	// RequestTimeoutSeconds bounds each storage call made for a request.
	RequestTimeoutSeconds int `mapstructure:"request_timeout_seconds" default:"30"`
	// BodyLimitBytes is the maximum accepted request body size.
	BodyLimitBytes int `mapstructure:"body_limit_bytes" default:"4194304"`
	// ShutdownTimeoutSeconds bounds graceful shutdown.
	ShutdownTimeoutSeconds int `mapstructure:"shutdown_timeout_seconds" default:"10"`
}

// WithDefaults returns a copy of c where unset (zero or negative) values
// are replaced by their defaults.
func (c Config) WithDefaults() Config {
	if c.Port <= 0 {
		c.Port = DefaultPort
	}
	if c.RequestTimeoutSeconds <= 0 {
		c.RequestTimeoutSeconds = int(DefaultRequestTimeout / time.Second)
	}
	if c.BodyLimitBytes <= 0 {
		c.BodyLimitBytes = DefaultBodyLimit
	}
	if c.ShutdownTimeoutSeconds <= 0 {
		c.ShutdownTimeoutSeconds = int(DefaultShutdownTimeout / time.Second)
	}
	return c
}

// ListenAddr is the TCP address the API binds to.
func (c Config) ListenAddr() string {
	return fmt.Sprintf("0.0.0.0:%d", c.Port)
}

// RequestTimeout returns the per-request storage deadline.
func (c Config) RequestTimeout() time.Duration {
	if c.RequestTimeoutSeconds <= 0 {
		return DefaultRequestTimeout
	}
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// ShutdownTimeout returns the graceful shutdown deadline.
func (c Config) ShutdownTimeout() time.Duration {
	if c.ShutdownTimeoutSeconds <= 0 {
		return DefaultShutdownTimeout
	}
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

// Package server holds the HTTP server configuration.
//
// The Config struct defines the API port (default 40020), the static API token,
// the per-request storage deadline, the body size limit and the shutdown deadline.
// WithDefaults fills unset values so callers never have to special-case zero.
package server

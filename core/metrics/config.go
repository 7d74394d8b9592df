package metrics

// Config holds configuration for the Prometheus endpoint.
type Config struct {
	// Enabled turns on the metrics listener.
	Enabled bool `mapstructure:"enabled" default:"false"`
	// Port is the port of the separate metrics listener.
	Port int `mapstructure:"port" default:"9090"`
}

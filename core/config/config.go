package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"propstore/core/logger"
	"propstore/core/metrics"
	"propstore/core/server"
	"propstore/core/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	// ErrMissingAPIToken aborts startup when no API token is configured.
	ErrMissingAPIToken = errors.New("no API token provided (server.api_token)")
	// ErrMissingStoragePath aborts startup when no storage path is configured.
	ErrMissingStoragePath = errors.New("no storage path provided (storage.path)")
)

// Config holds all configuration for the application.
type Config struct {
	// Server holds configuration for the HTTP API.
	Server server.Config `mapstructure:"server"`
	// Storage holds configuration for the property store.
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Metrics holds configuration for the Prometheus endpoint.
	Metrics metrics.Config `mapstructure:"metrics"`
}

// Validate reports the first missing mandatory setting.
func (c *Config) Validate() error {
	if c.Server.ApiToken == "" {
		return ErrMissingAPIToken
	}
	if c.Storage.Path == "" {
		return ErrMissingStoragePath
	}
	return nil
}

// LoadConfig loads configuration from the .env file in path, the environment
// and, when file is not empty, a YAML or JSON config file. Environment
// variables win over the file.
func LoadConfig(path, file string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. SERVER_API_TOKEN -> server.api_token)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, field.Tag.Get("default"))
	}
}

// Package config provides configuration management for propstore.
//
// It utilizes Viper for loading configuration from environment variables,
// a .env file and an optional YAML/JSON config file.
//
// # Configuration Structure
//
//   - Server: API port (default 40020), API token, request/shutdown timeouts
//   - Storage: driver (file, sqlite, mysql, s3), storage path, database and S3 settings
//   - Log: logging level and format
//   - Metrics: optional Prometheus listener
//
// The API token and the storage path have no defaults; Validate reports
// whichever is missing.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".", "")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config

package storage

import (
	"propstore/core/database"
	"propstore/core/storage/s3"
)

const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
	DriverS3     = "s3"
)

// Config holds configuration for the property store.
type Config struct {
	// Driver selects the backend (file, sqlite, mysql, s3).
	Driver string `mapstructure:"driver" default:"file"`
	// Path is the storage directory. For s3 it is the object key prefix.
	Path string `mapstructure:"path" default:""`
	// Database configures the mysql driver.
	Database database.Config `mapstructure:"database"`
	// S3 configures the s3 driver.
	S3 s3.Config `mapstructure:"s3"`
}

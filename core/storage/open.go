package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"propstore/core/database"
	"propstore/core/storage/s3"

	"gorm.io/gorm"
)

// SQLiteFileName is the database file created inside the storage directory
// by the sqlite driver.
const SQLiteFileName = "properties.db"

// Open initializes the backend selected by cfg.Driver against cfg.Path.
// An empty driver selects the file backend.
func Open(cfg Config) (Store, error) {
	if cfg.Path == "" {
		return nil, ErrMissingPath
	}

	switch cfg.Driver {
	case DriverFile, "":
		return OpenFile(cfg.Path)

	case DriverSQLite:
		if err := os.MkdirAll(cfg.Path, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create storage directory: %w", err)
		}
		db, err := database.Connect(database.Config{
			Driver:         database.DriverSQLite,
			Name:           filepath.Join(cfg.Path, SQLiteFileName),
			TimeoutSeconds: cfg.Database.TimeoutSeconds,
		})
		if err != nil {
			return nil, err
		}
		return openSQL(db)

	case DriverMySQL:
		dbCfg := cfg.Database
		dbCfg.Driver = database.DriverMySQL
		db, err := database.Connect(dbCfg)
		if err != nil {
			return nil, err
		}
		return openSQL(db)

	case DriverS3:
		client, err := s3.NewClient(cfg.S3)
		if err != nil {
			return nil, err
		}
		timeout := time.Duration(cfg.S3.TimeoutSeconds) * time.Second
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return NewObjectStore(ctx, client, cfg.S3.Bucket, cfg.Path)

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}

func openSQL(db *gorm.DB) (Store, error) {
	store, err := NewSQLStore(db)
	if err != nil {
		_ = database.Close(db)
		return nil, err
	}
	return store, nil
}

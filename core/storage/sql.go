package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"propstore/core/database"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Property is the row model of the SQL backend. Rows are indexed by the
// SHA-256 of the key so keys of any length fit the primary key.
type Property struct {
	KeyHash   string `gorm:"column:key_hash;primaryKey;size:64"`
	Key       string `gorm:"column:prop_key;type:text;not null"`
	Kind      string `gorm:"column:kind;size:8;not null"`
	Data      string `gorm:"column:data;not null"`
	UpdatedAt time.Time
}

// TableName pins the table name.
func (Property) TableName() string { return "properties" }

// SQLStore persists properties in a single table through gorm.
type SQLStore struct {
	db *gorm.DB
}

// NewSQLStore migrates the properties table and returns a store over db.
func NewSQLStore(db *gorm.DB) (*SQLStore, error) {
	if err := db.AutoMigrate(&Property{}); err != nil {
		return nil, fmt.Errorf("failed to migrate properties table: %w", err)
	}
	return newSQLStore(db), nil
}

func newSQLStore(db *gorm.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Get(ctx context.Context, key string) (Value, bool, error) {
	var row Property
	err := s.db.WithContext(ctx).Where(map[string]any{"key_hash": keyDigest(key)}).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Value{}, false, nil
	}
	if err != nil {
		return Value{}, false, fmt.Errorf("failed to query property: %w", err)
	}
	if row.Key != key {
		return Value{}, false, nil
	}

	switch row.Kind {
	case KindText.String():
		return Text(row.Data), true, nil
	case KindJSON.String():
		v, err := NewJSON([]byte(row.Data))
		if err != nil {
			return Value{}, false, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		return v, true, nil
	default:
		return Value{}, false, fmt.Errorf("%w: unknown kind %q", ErrCorrupt, row.Kind)
	}
}

func (s *SQLStore) Set(ctx context.Context, key string, value Value) error {
	if !value.IsValid() {
		return fmt.Errorf("cannot store value of kind %s", value.Kind())
	}
	row := Property{
		KeyHash:   keyDigest(key),
		Key:       key,
		Kind:      value.Kind().String(),
		Data:      value.String(),
		UpdatedAt: time.Now(),
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to upsert property: %w", err)
	}
	return nil
}

func (s *SQLStore) Close() error {
	return database.Close(s.db)
}

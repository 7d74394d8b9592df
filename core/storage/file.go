package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/gofrs/flock"
	atomicfile "github.com/sdassow/atomic"
)

const lockFileName = ".lock"

// fileRecord is the on-disk form of one property. The key is kept as raw
// bytes so keys that are not valid UTF-8 read back unchanged.
type fileRecord struct {
	Key   []byte          `json:"key"`
	Value json.RawMessage `json:"value"`
}

// FileStore keeps one JSON record per key in a directory. Records are
// replaced atomically, so readers never see a partial write. The directory is locked for the lifetime of the store.
type FileStore struct {
	dir    string
	lock   *flock.Flock
	closed atomic.Bool
}

// OpenFile opens (creating if needed) a file store rooted at dir. It fails
// when another store already holds the directory.
func OpenFile(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, ErrMissingPath
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	lock := flock.New(filepath.Join(dir, lockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to lock storage directory: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("storage directory %s is in use by another store", dir)
	}

	return &FileStore{dir: dir, lock: lock}, nil
}

// Dir returns the storage directory.
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, keyDigest(key))
}

func (s *FileStore) Get(ctx context.Context, key string) (Value, bool, error) {
	if s.closed.Load() {
		return Value{}, false, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return Value{}, false, err
	}

	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return Value{}, false, nil
	}
	if err != nil {
		return Value{}, false, fmt.Errorf("failed to read property: %w", err)
	}

	var rec fileRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return Value{}, false, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if !bytes.Equal(rec.Key, []byte(key)) {
		return Value{}, false, nil
	}
	return decodeValue(rec.Value)
}

func (s *FileStore) Set(ctx context.Context, key string, value Value) error {
	if s.closed.Load() {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	encoded, err := value.MarshalJSON()
	if err != nil {
		return err
	}
	data, err := json.Marshal(fileRecord{Key: []byte(key), Value: encoded})
	if err != nil {
		return fmt.Errorf("failed to encode property: %w", err)
	}

	if err := atomicfile.WriteFile(s.path(key), bytes.NewReader(data), atomicfile.DefaultFileMode(0o644)); err != nil {
		return fmt.Errorf("failed to store property: %w", err)
	}
	return nil
}

// Close releases the directory lock. It is safe to call more than once.
func (s *FileStore) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	return s.lock.Unlock()
}

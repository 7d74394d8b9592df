package mocks

import (
	"context"

	"propstore/core/storage"

	"github.com/stretchr/testify/mock"
)

// Store is a mock implementation of storage.Store
type Store struct {
	mock.Mock
}

func (m *Store) Get(ctx context.Context, key string) (storage.Value, bool, error) {
	args := m.Called(ctx, key)
	v, _ := args.Get(0).(storage.Value)
	return v, args.Bool(1), args.Error(2)
}

func (m *Store) Set(ctx context.Context, key string, value storage.Value) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *Store) Close() error {
	args := m.Called()
	return args.Error(0)
}

package property

import (
	"context"
	"fmt"
	"time"

	"propstore/core/metrics"
	"propstore/core/server"
	"propstore/core/storage"

	"go.uber.org/zap"
)

// Service reads and writes properties through the store, bounding every
// store call with the configured deadline.
type Service struct {
	store   storage.Store
	logger  *zap.Logger
	timeout time.Duration
	metrics *metrics.Metrics
}

// NewService creates a new property service. m may be nil.
func NewService(store storage.Store, logger *zap.Logger, timeout time.Duration, m *metrics.Metrics) *Service {
	if timeout <= 0 {
		timeout = server.DefaultRequestTimeout
	}
	return &Service{
		store:   store,
		logger:  logger,
		timeout: timeout,
		metrics: m,
	}
}

type lookup struct {
	value storage.Value
	found bool
}

// Get returns the value stored under key; found is false for a key that was
// never written.
func (s *Service) Get(ctx context.Context, key string) (storage.Value, bool, error) {
	start := time.Now()
	res, err := withDeadline(ctx, s.timeout, func(ctx context.Context) (lookup, error) {
		v, found, err := s.store.Get(ctx, key)
		return lookup{value: v, found: found}, err
	})
	s.metrics.ObserveStore("get", start, err)
	if err != nil {
		return storage.Value{}, false, fmt.Errorf("failed to get property %q: %w", key, err)
	}
	return res.value, res.found, nil
}

// Set parses body and replaces the value stored under key. A body that looks
// like a JSON object but does not parse fails with storage.ErrInvalidJSON
// before the store is touched.
func (s *Service) Set(ctx context.Context, key, body string) error {
	value, err := storage.ParseBody(body)
	if err != nil {
		return err
	}

	start := time.Now()
	_, err = withDeadline(ctx, s.timeout, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.store.Set(ctx, key, value)
	})
	s.metrics.ObserveStore("set", start, err)
	if err != nil {
		return fmt.Errorf("failed to set property %q: %w", key, err)
	}
	return nil
}

// withDeadline runs fn with a context bounded by timeout and gives up once the
// deadline passes, even if fn ignores its context. fn keeps running in the
// background in that case; its result is discarded.
func withDeadline[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)

	type result struct {
		val T
		err error
	}
	done := make(chan result, 1)
	go func() {
		defer cancel()
		val, err := fn(ctx)
		done <- result{val: val, err: err}
	}()

	select {
	case r := <-done:
		return r.val, r.err
	case <-ctx.Done():
		// fn sends before it cancels, so a finished call is never reported as expired.
		select {
		case r := <-done:
			return r.val, r.err
		default:
		}
		var zero T
		return zero, ctx.Err()
	}
}

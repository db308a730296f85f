// Package storage persists named collection values. Backends only move bytes;
// the typed helpers in this package own encoding and the recovery policy for
// unreadable data.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/kasuboski/reelbox/pkg/logger"
	"github.com/kasuboski/reelbox/pkg/metrics"
)

var (
	ErrNotFound = errors.New("not found in storage")
	ErrCorrupt  = errors.New("stored value is not valid")
)

// Entry is one named value to write.
type Entry struct {
	Name  string
	Value []byte
}

// Store is a durable key value backend. Put writes every entry or none of them,
// and overwrites previous values unconditionally.
type Store interface {
	Get(ctx context.Context, name string) ([]byte, error)
	Put(ctx context.Context, entries ...Entry) error
	Delete(ctx context.Context, name string) error
	List(ctx context.Context) ([]string, error)
	Close() error
}

// Lookup reads and decodes the value stored under name. It returns ErrNotFound
// when nothing is stored and ErrCorrupt when the stored bytes do not decode into a T.
func Lookup[T any](ctx context.Context, s Store, name string) (T, error) {
	var v T

	raw, err := s.Get(ctx, name)
	if err != nil {
		return v, err
	}

	if err := json.Unmarshal(raw, &v); err != nil {
		var zero T
		return zero, fmt.Errorf("%w: %s: %w", ErrCorrupt, name, err)
	}

	return v, nil
}

// Load returns the value stored under name, or def when it is absent, corrupt
// or cannot be read. It never fails; anomalies are logged and counted.
func Load[T any](ctx context.Context, s Store, name string, def T) T {
	log := logger.FromCtx(ctx)

	v, err := Lookup[T](ctx, s, name)
	switch {
	case err == nil:
		return v
	case errors.Is(err, ErrNotFound):
		return def
	case errors.Is(err, ErrCorrupt):
		metrics.StoreFailures.WithLabelValues("corrupt").Inc()
		log.Warnw("discarding unreadable stored value", "name", name, "error", err)
		return def
	default:
		metrics.StoreFailures.WithLabelValues("read").Inc()
		log.Warnw("failed to read stored value, using default", "name", name, "error", err)
		return def
	}
}

// Encode serializes v into an Entry named name.
func Encode(name string, v any) (Entry, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to encode %s: %w", name, err)
	}
	return Entry{Name: name, Value: b}, nil
}

// Save encodes v and writes it under name.
func Save(ctx context.Context, s Store, name string, v any) error {
	e, err := Encode(name, v)
	if err != nil {
		return err
	}

	if err := s.Put(ctx, e); err != nil {
		metrics.StoreFailures.WithLabelValues("write").Inc()
		return fmt.Errorf("failed to save %s: %w", name, err)
	}

	return nil
}

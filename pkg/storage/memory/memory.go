// Package memory is a process local storage.Store, used for tests and for
// running without a data directory.
package memory

import (
	"context"
	"sort"

	"github.com/kasuboski/reelbox/pkg/cache"
	"github.com/kasuboski/reelbox/pkg/storage"
)

type Store struct {
	values *cache.Cache[string, []byte]
}

func New() *Store {
	return &Store{values: cache.New[string, []byte]()}
}

func (s *Store) Get(ctx context.Context, name string) ([]byte, error) {
	v, ok := s.values.Get(name)
	if !ok {
		return nil, storage.ErrNotFound
	}
	return clone(v), nil
}

func (s *Store) Put(ctx context.Context, entries ...storage.Entry) error {
	batch := make(map[string][]byte, len(entries))
	for _, e := range entries {
		batch[e.Name] = clone(e.Value)
	}
	s.values.SetMany(batch)
	return nil
}

func (s *Store) Delete(ctx context.Context, name string) error {
	s.values.Delete(name)
	return nil
}

func (s *Store) List(ctx context.Context) ([]string, error) {
	names := s.values.Keys()
	sort.Strings(names)
	return names, nil
}

func (s *Store) Close() error {
	return nil
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

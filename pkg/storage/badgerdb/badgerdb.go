// Package badgerdb stores collections in an embedded BadgerDB.
package badgerdb

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/kasuboski/reelbox/pkg/storage"
)

const keyPrefix = "collection:"

type Store struct {
	db *badger.DB
}

// Open opens (or creates) a database in dir.
func Open(dir string) (*Store, error) {
	return open(badger.DefaultOptions(dir).WithLogger(nil))
}

// OpenInMemory opens a database that never touches disk.
func OpenInMemory() (*Store, error) {
	return open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
}

func open(opts badger.Options) (*Store, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Get(ctx context.Context, name string) ([]byte, error) {
	var value []byte

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPrefix + name))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return storage.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get %s: %w", name, err)
		}

		value, err = item.ValueCopy(nil)
		return err
	})

	return value, err
}

func (s *Store) Put(ctx context.Context, entries ...storage.Entry) error {
	return s.db.Update(func(txn *badger.Txn) error {
		for _, e := range entries {
			if err := txn.Set([]byte(keyPrefix+e.Name), e.Value); err != nil {
				return fmt.Errorf("set %s: %w", e.Name, err)
			}
		}
		return nil
	})
}

func (s *Store) Delete(ctx context.Context, name string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(keyPrefix + name))
	})
}

func (s *Store) List(ctx context.Context) ([]string, error) {
	var names []string

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(keyPrefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			names = append(names, strings.TrimPrefix(string(it.Item().Key()), keyPrefix))
		}
		return nil
	})

	return names, err
}

func (s *Store) Close() error {
	return s.db.Close()
}

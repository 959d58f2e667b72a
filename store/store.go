// SPDX-License-Identifier: MIT

package store

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"

	"github.com/katalvlaran/gwsur/surrogate"
)

var (
	// ErrNotFound is returned for a name with no stored surrogate.
	ErrNotFound = errors.New("store: surrogate not found")

	// ErrBadName rejects empty names and names containing the key separator.
	ErrBadName = errors.New("store: invalid name")
)

// keyPrefix namespaces surrogate keys inside the database.
const keyPrefix = "surrogate/"

// Store is a named collection of surrogates. Safe for concurrent use.
type Store struct {
	db *badger.DB
}

// Option customizes Open.
type Option func(*badger.Options)

// WithInMemory keeps the database in memory (path is ignored).
func WithInMemory() Option {
	return func(o *badger.Options) {
		*o = o.WithInMemory(true).WithDir("").WithValueDir("")
	}
}

// Open opens (or creates) the database at path.
func Open(path string, opts ...Option) (*Store, error) {
	bo := badger.DefaultOptions(path).
		WithCompression(options.ZSTD).
		WithNumVersionsToKeep(1).
		WithLogger(nil)
	for _, opt := range opts {
		opt(&bo)
	}

	db, err := badger.Open(bo)
	if err != nil {
		slog.Error("store: failed to open database", slog.String("path", path), slog.Any("error", err))
		return nil, fmt.Errorf("store: open %q: %w", path, err)
	}
	slog.Debug("store: opened", slog.String("path", path), slog.Bool("in_memory", bo.InMemory))

	return &Store{db: db}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("store: close: %w", err)
	}
	return nil
}

func key(name string) ([]byte, error) {
	if name == "" || strings.Contains(name, "/") {
		return nil, fmt.Errorf("%q: %w", name, ErrBadName)
	}
	return []byte(keyPrefix + name), nil
}

// Put stores sur under name, replacing any previous value.
func (s *Store) Put(name string, sur *surrogate.Surrogate) error {
	k, err := key(name)
	if err != nil {
		return err
	}
	v, err := sur.MarshalBinary()
	if err != nil {
		return fmt.Errorf("store: encode %q: %w", name, err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(k, v)
	})
	if err != nil {
		return fmt.Errorf("store: put %q: %w", name, err)
	}

	return nil
}

// Get loads the surrogate stored under name.
func (s *Store) Get(name string) (*surrogate.Surrogate, error) {
	k, err := key(name)
	if err != nil {
		return nil, err
	}
	sur := new(surrogate.Surrogate)
	err = s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(k)
		if err != nil {
			return err
		}
		return item.Value(sur.UnmarshalBinary)
	})
	switch {
	case errors.Is(err, badger.ErrKeyNotFound):
		return nil, fmt.Errorf("%q: %w", name, ErrNotFound)
	case err != nil:
		return nil, fmt.Errorf("store: get %q: %w", name, err)
	}

	return sur, nil
}

// Delete removes name. Deleting a missing name returns ErrNotFound.
func (s *Store) Delete(name string) error {
	k, err := key(name)
	if err != nil {
		return err
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(k); err != nil {
			return err
		}
		return txn.Delete(k)
	})
	switch {
	case errors.Is(err, badger.ErrKeyNotFound):
		return fmt.Errorf("%q: %w", name, ErrNotFound)
	case err != nil:
		return fmt.Errorf("store: delete %q: %w", name, err)
	}

	return nil
}

// List returns the stored names in key order.
func (s *Store) List() ([]string, error) {
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
	if err != nil {
		return nil, fmt.Errorf("store: list: %w", err)
	}

	return names, nil
}

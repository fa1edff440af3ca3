package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/sirupsen/logrus"
)

// BadgerStore implements Store on an embedded Badger database.
type BadgerStore struct {
	db *badger.DB
}

// BadgerOptions configures OpenBadger.
type BadgerOptions struct {
	Dir      string
	InMemory bool
}

// OpenBadger opens a Badger database in opts.Dir, or in memory.
func OpenBadger(opts BadgerOptions) (*BadgerStore, error) {
	var bopts badger.Options
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if opts.Dir == "" {
			return nil, fmt.Errorf("badger directory is required")
		}
		bopts = badger.DefaultOptions(opts.Dir)
	}
	bopts = bopts.WithLogger(logrus.WithField("component", "badger"))

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}

	logrus.Infof("opened badger store (dir=%q, in-memory=%v)", opts.Dir, opts.InMemory)
	return &BadgerStore{db: db}, nil
}

// Get retrieves the value stored at key.
func (b *BadgerStore) Get(_ context.Context, key string) ([]byte, error) {
	var value []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		logrus.Errorf("failed to get key %s: %v", key, err)
		return nil, fmt.Errorf("failed to get key: %w", err)
	}
	return value, nil
}

// Set stores value at key.
func (b *BadgerStore) Set(_ context.Context, key string, value []byte) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
	if err != nil {
		logrus.Errorf("failed to set key %s: %v", key, err)
		return fmt.Errorf("failed to set key: %w", err)
	}
	return nil
}

// Delete removes key.
func (b *BadgerStore) Delete(_ context.Context, key string) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		logrus.Errorf("failed to delete key %s: %v", key, err)
		return fmt.Errorf("failed to delete key: %w", err)
	}
	return nil
}

// Ping reports whether the database is open.
func (b *BadgerStore) Ping(_ context.Context) error {
	if b.db.IsClosed() {
		return fmt.Errorf("badger database is closed")
	}
	return nil
}

// Close closes the database.
func (b *BadgerStore) Close() error {
	return b.db.Close()
}

// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package store is the flat key-value persistence layer. Values are opaque
// bytes; repositories in pkg/service encode them as JSON.
package store

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/AccelByte/extend-khetscore-simulation/pkg/errs"
)

// ErrNotFound is returned by Get when the key does not exist.
var ErrNotFound = errors.New("key not found")

// Store is a key-value store. Implementations must be safe for concurrent use.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

// Backend names accepted by the configuration.
const (
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
)

// GetJSON reads key and decodes it into v. A missing key returns
// ErrNotFound unwrapped; any other failure is a PersistenceError.
func GetJSON(ctx context.Context, s Store, key string, v interface{}) error {
	data, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return errs.NewPersistence("get", key, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return errs.NewPersistence("decode", key, err)
	}
	return nil
}

// SetJSON encodes v and writes it to key.
func SetJSON(ctx context.Context, s Store, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errs.NewPersistence("encode", key, err)
	}

	if err := s.Set(ctx, key, data); err != nil {
		return errs.NewPersistence("set", key, err)
	}
	return nil
}

// Delete removes key, reporting failures as a PersistenceError.
// Deleting a missing key is not an error.
func Delete(ctx context.Context, s Store, key string) error {
	if err := s.Delete(ctx, key); err != nil {
		return errs.NewPersistence("delete", key, err)
	}
	return nil
}

// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// DefaultKeyPrefix is the prefix for all keys written to Redis.
const DefaultKeyPrefix = "khetscore:"

// RedisStore implements Store using Redis.
type RedisStore struct {
	client *redis.Client
	cfg    RedisStoreConfig
}

// RedisStoreConfig configures a RedisStore.
type RedisStoreConfig struct {
	// KeyPrefix defaults to DefaultKeyPrefix.
	KeyPrefix string
	// TTL applied on every write. Zero means keys never expire.
	TTL time.Duration
}

// NewRedisStore creates a new Redis-backed store.
func NewRedisStore(client *redis.Client, cfg RedisStoreConfig) *RedisStore {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = DefaultKeyPrefix
	}
	return &RedisStore{
		client: client,
		cfg:    cfg,
	}
}

// makeKey creates the Redis key for a store key
func (r *RedisStore) makeKey(key string) string {
	return fmt.Sprintf("%s%s", r.cfg.KeyPrefix, key)
}

// Get retrieves the value stored at key.
func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, r.makeKey(key)).Bytes()
	if err == redis.Nil {
		logrus.Debugf("no value for key %s", key)
		return nil, ErrNotFound
	}
	if err != nil {
		logrus.Errorf("failed to get key %s: %v", key, err)
		return nil, fmt.Errorf("failed to get key: %w", err)
	}

	return data, nil
}

// Set stores value at key with the configured TTL.
func (r *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, r.makeKey(key), value, r.cfg.TTL).Err(); err != nil {
		logrus.Errorf("failed to set key %s: %v", key, err)
		return fmt.Errorf("failed to set key: %w", err)
	}

	logrus.Debugf("updated key %s (%d bytes)", key, len(value))
	return nil
}

// Delete removes key.
func (r *RedisStore) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.makeKey(key)).Err(); err != nil {
		logrus.Errorf("failed to delete key %s: %v", key, err)
		return fmt.Errorf("failed to delete key: %w", err)
	}

	logrus.Debugf("deleted key %s", key)
	return nil
}

// Ping checks the Redis connection.
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the Redis client.
func (r *RedisStore) Close() error {
	return r.client.Close()
}

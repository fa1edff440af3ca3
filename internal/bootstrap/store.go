// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/AccelByte/extend-khetscore-simulation/internal/config"
	"github.com/AccelByte/extend-khetscore-simulation/pkg/store"
	"github.com/cenkalti/backoff/v4"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// InitStore opens the key-value backend selected by STORE_BACKEND.
//
// ============================================================
// DEVELOPER: Adding a storage backend
// ============================================================
// 1. Implement store.Store in pkg/store/
// 2. Add a Backend* constant and a case below
// 3. Accept the name in config.Validate()
// ============================================================
func InitStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.StoreBackend {
	case store.BackendRedis:
		client, err := InitRedis(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return store.NewRedisStore(client, store.RedisStoreConfig{KeyPrefix: cfg.RedisKeyPrefix}), nil

	case store.BackendSQLite:
		s, err := store.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		logrus.Infof("SQLite store opened at %s", cfg.SQLitePath)
		return s, nil

	case store.BackendBadger:
		s, err := store.OpenBadger(store.BadgerOptions{Dir: cfg.BadgerDir, InMemory: cfg.BadgerInMemory})
		if err != nil {
			return nil, err
		}
		logrus.Infof("Badger store opened (dir: %s, in-memory: %t)", cfg.BadgerDir, cfg.BadgerInMemory)
		return s, nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

// InitRedis connects to Redis, retrying the first ping with exponential backoff.
func InitRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisHost + ":" + cfg.RedisPort,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = time.Duration(cfg.RedisRetryDelayMs) * time.Millisecond
	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(cfg.RedisMaxRetries)), ctx)

	err := backoff.Retry(
		func() error {
			if err := client.Ping(ctx).Err(); err != nil {
				logrus.Warnf("Redis connection failed: %v, retrying...", err)
				return err
			}
			return nil
		},
		policy,
	)
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", client.Options().Addr, err)
	}

	logrus.Info("Redis client initialized")
	return client, nil
}

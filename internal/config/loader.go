// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package config

import (
	"fmt"

	"github.com/AccelByte/extend-khetscore-simulation/pkg/store"
	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const minJWTSecretLength = 16

// Load reads configuration from environment variables.
// It attempts to load from .env file first (for local development),
// then parses environment variables into the Config struct.
func Load() (*Config, error) {
	// In production (Docker/K8s), environment variables are injected directly
	if err := godotenv.Load(); err != nil {
		logrus.Warnf("no .env file found or error loading it: %v (this is normal in production)", err)
	} else {
		logrus.Infof("loaded environment variables from .env file")
	}

	return Parse()
}

// Parse reads configuration from the process environment only.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config from environment: %w", err)
	}

	return cfg, nil
}

// Validate performs custom validation on the configuration.
func (c *Config) Validate() error {
	ports := []struct {
		name string
		port int
	}{
		{"HTTP_PORT", c.HTTPPort},
		{"GRPC_PORT", c.GRPCPort},
		{"METRICS_PORT", c.MetricsPort},
	}
	seen := make(map[int]string, len(ports))
	for _, p := range ports {
		if p.port < 1 || p.port > 65535 {
			return fmt.Errorf("invalid %s: %d (must be 1-65535)", p.name, p.port)
		}
		if other, ok := seen[p.port]; ok {
			return fmt.Errorf("%s and %s both use port %d", other, p.name, p.port)
		}
		seen[p.port] = p.name
	}

	switch c.StoreBackend {
	case store.BackendRedis:
		if c.RedisHost == "" {
			return fmt.Errorf("REDIS_HOST is required for the redis backend")
		}
	case store.BackendSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite backend")
		}
	case store.BackendBadger:
		if c.BadgerDir == "" && !c.BadgerInMemory {
			return fmt.Errorf("BADGER_DIR is required unless BADGER_IN_MEMORY is set")
		}
	default:
		return fmt.Errorf("invalid STORE_BACKEND: %q (must be redis, sqlite or badger)", c.StoreBackend)
	}

	if len(c.JWTSecret) < minJWTSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters", minJWTSecretLength)
	}
	if c.TokenTTLHours < 1 {
		return fmt.Errorf("invalid TOKEN_TTL_HOURS: %d", c.TokenTTLHours)
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("invalid BCRYPT_COST: %d (must be %d-%d)", c.BcryptCost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	if c.FarmerDataPath == "" {
		return fmt.Errorf("FARMER_DATA_PATH is required")
	}

	return nil
}

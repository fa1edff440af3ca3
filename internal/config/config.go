// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package config

// Config holds all application configuration loaded from environment variables.
// This struct uses github.com/caarlos0/env for automatic environment variable parsing.
type Config struct {
	// ============================================================
	// Server configuration
	// ============================================================
	HTTPPort    int    `env:"HTTP_PORT" envDefault:"8000"`
	GRPCPort    int    `env:"GRPC_PORT" envDefault:"6565"`
	MetricsPort int    `env:"METRICS_PORT" envDefault:"8080"`
	Environment string `env:"ENVIRONMENT" envDefault:"dev"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"KhetscoreSimulation"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// ============================================================
	// Persistence configuration
	// ============================================================
	// StoreBackend is one of redis, sqlite or badger.
	StoreBackend string `env:"STORE_BACKEND" envDefault:"redis"`

	RedisHost         string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort         string `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword     string `env:"REDIS_PASSWORD"`
	RedisDB           int    `env:"REDIS_DB" envDefault:"0"`
	RedisKeyPrefix    string `env:"REDIS_KEY_PREFIX" envDefault:"khetscore:"`
	RedisMaxRetries   int    `env:"REDIS_MAX_RETRIES" envDefault:"5"`
	RedisRetryDelayMs int    `env:"REDIS_RETRY_DELAY_MS" envDefault:"1000"`

	SQLitePath     string `env:"SQLITE_PATH" envDefault:"data/khetscore.db"`
	BadgerDir      string `env:"BADGER_DIR" envDefault:"data/badger"`
	BadgerInMemory bool   `env:"BADGER_IN_MEMORY" envDefault:"false"`

	// ============================================================
	// Simulation configuration
	// ============================================================
	FarmerDataPath string `env:"FARMER_DATA_PATH" envDefault:"data/farmerdata_prefill.csv"`
	// CatalogPath is optional; the built-in catalog is used when empty.
	CatalogPath string `env:"CATALOG_PATH"`
	// RandomSeed of 0 seeds from the clock.
	RandomSeed uint64 `env:"RANDOM_SEED" envDefault:"0"`

	// ============================================================
	// HTTP API configuration
	// ============================================================
	JWTSecret          string   `env:"JWT_SECRET,required,notEmpty"`
	TokenTTLHours      int      `env:"TOKEN_TTL_HOURS" envDefault:"24"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
	BcryptCost         int      `env:"BCRYPT_COST" envDefault:"10"`

	// ============================================================
	// Telemetry configuration
	// ============================================================
	OtelEnabled    bool   `env:"OTEL_ENABLED" envDefault:"true"`
	ZipkinEndpoint string `env:"ZIPKIN_ENDPOINT"`
}

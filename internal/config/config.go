// Package config loads process configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Defaults.
const (
	DefaultSolanaRPCURL = "https://api.mainnet-beta.solana.com"
	DefaultRedisHost    = "localhost"
	DefaultRedisPort    = "6379"
	DefaultConcurrency  = 10
	DefaultRateLimit    = 10
	DefaultGatewayAddr  = ":3001"
	DefaultLogLevel     = "info"
)

// Config holds everything the worker and gateway processes read at startup.
type Config struct {
	ProgramID    string
	SolanaRPCURL string

	RedisHost string
	RedisPort string

	// PostgresDSN empty selects the in-memory stores.
	PostgresDSN string

	// ClickhouseDSN empty disables the event archive.
	ClickhouseDSN string

	WorkerConcurrency int
	WorkerRateLimit   int

	// SolUsdRate of zero disables USD prices on ATH updates.
	SolUsdRate float64

	GatewayAddr string
	LogLevel    string
}

// Load reads the environment. A .env file in the working directory is
// applied first when present; real environment variables win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ProgramID:     os.Getenv("PUMP_PROGRAM_ID"),
		SolanaRPCURL:  getEnv("SOLANA_RPC_URL", DefaultSolanaRPCURL),
		RedisHost:     getEnv("REDIS_HOST", DefaultRedisHost),
		RedisPort:     getEnv("REDIS_PORT", DefaultRedisPort),
		PostgresDSN:   os.Getenv("POSTGRES_DSN"),
		ClickhouseDSN: os.Getenv("CLICKHOUSE_DSN"),
		GatewayAddr:   getEnv("GATEWAY_ADDR", DefaultGatewayAddr),
		LogLevel:      getEnv("LOG_LEVEL", DefaultLogLevel),
	}

	if cfg.ProgramID == "" {
		return nil, fmt.Errorf("PUMP_PROGRAM_ID is required")
	}

	var err error
	if cfg.WorkerConcurrency, err = getEnvInt("WORKER_CONCURRENCY", DefaultConcurrency); err != nil {
		return nil, err
	}
	if cfg.WorkerRateLimit, err = getEnvInt("WORKER_RATE_LIMIT", DefaultRateLimit); err != nil {
		return nil, err
	}
	if cfg.SolUsdRate, err = getEnvFloat("SOL_USD_RATE", 0); err != nil {
		return nil, err
	}

	return cfg, nil
}

// RedisAddr returns host:port for the Redis client.
func (c *Config) RedisAddr() string {
	return net.JoinHostPort(c.RedisHost, c.RedisPort)
}

// NewLogger builds a production zap logger at the configured level.
func (c *Config) NewLogger() (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("parse LOG_LEVEL %q: %w", c.LogLevel, err)
	}

	zc := zap.NewProductionConfig()
	zc.Level = level
	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", key, v, err)
	}
	return n, nil
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", key, v, err)
	}
	return f, nil
}

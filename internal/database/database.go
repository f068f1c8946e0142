// Package database manages the PostgreSQL connection pool used for cycle
// history persistence.
package database

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Config holds connection pool settings.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string

	// MaxConns and MinConns bound the pool size.
	MaxConns int
	MinConns int

	// ConnMaxLifetime recycles connections to survive server-side restarts.
	ConnMaxLifetime time.Duration
}

// ConfigFromEnv reads pool settings from DB_* environment variables, with
// local-development defaults.
func ConfigFromEnv() Config {
	port, _ := strconv.Atoi(envOrDefault("DB_PORT", "5432"))
	maxConns, _ := strconv.Atoi(envOrDefault("DB_MAX_CONNS", "10"))
	minConns, _ := strconv.Atoi(envOrDefault("DB_MIN_CONNS", "2"))
	lifetime, _ := time.ParseDuration(envOrDefault("DB_CONN_MAX_LIFETIME", "5m"))

	return Config{
		Host:            envOrDefault("DB_HOST", "localhost"),
		Port:            port,
		User:            envOrDefault("DB_USER", "windlens"),
		Password:        envOrDefault("DB_PASSWORD", "localdev"),
		Database:        envOrDefault("DB_NAME", "windlens"),
		SSLMode:         envOrDefault("DB_SSL_MODE", "disable"),
		MaxConns:        maxConns,
		MinConns:        minConns,
		ConnMaxLifetime: lifetime,
	}
}

// ConnectionString renders the pgx connection URL.
func (c Config) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s&application_name=windlens",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode,
	)
}

// Connect builds the pool and verifies connectivity with a ping before
// returning it.
func Connect(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConns) //nolint:gosec // pool sizes are small operator-set values
	poolConfig.MinConns = int32(cfg.MinConns) //nolint:gosec // pool sizes are small operator-set values
	poolConfig.MaxConnLifetime = cfg.ConnMaxLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return pool, nil
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

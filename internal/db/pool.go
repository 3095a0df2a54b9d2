package db

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Defaults applied when a Config field is left zero. Sizing is modest: the
// API is read-heavy and cache-fronted, so vote transactions rarely queue.
const (
	DefaultMaxConns       = 10
	DefaultMinConns       = 2
	DefaultConnectRetries = 5
	DefaultRetryInterval  = 2 * time.Second
)

// Config carries the database settings resolved from the environment.
type Config struct {
	URL            string
	MaxConns       int32
	MinConns       int32
	ConnectRetries int
	RetryInterval  time.Duration
}

func (c Config) withDefaults() Config {
	if c.MaxConns <= 0 {
		c.MaxConns = DefaultMaxConns
	}
	if c.MinConns <= 0 {
		c.MinConns = DefaultMinConns
	}
	if c.MinConns > c.MaxConns {
		c.MinConns = c.MaxConns
	}
	if c.ConnectRetries <= 0 {
		c.ConnectRetries = DefaultConnectRetries
	}
	if c.RetryInterval <= 0 {
		c.RetryInterval = DefaultRetryInterval
	}
	return c
}

// poolConfig translates our Config into a tuned pgxpool configuration.
func poolConfig(cfg Config) (*pgxpool.Config, error) {
	pc, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	pc.MaxConns = cfg.MaxConns
	pc.MinConns = cfg.MinConns
	pc.MaxConnLifetime = time.Hour
	pc.MaxConnIdleTime = 30 * time.Minute
	pc.HealthCheckPeriod = time.Minute

	return pc, nil
}

// NewPool connects to Postgres with the given settings, retrying on startup
// so the API container can come up before the database is ready.
func NewPool(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	cfg = cfg.withDefaults()

	pc, err := poolConfig(cfg)
	if err != nil {
		return nil, err
	}

	var pool *pgxpool.Pool
	for attempt := 1; attempt <= cfg.ConnectRetries; attempt++ {
		pool, err = pgxpool.NewWithConfig(ctx, pc)
		if err == nil {
			if pingErr := pool.Ping(ctx); pingErr == nil {
				log.Printf("database connected (pool %d-%d conns)", cfg.MinConns, cfg.MaxConns)
				return pool, nil
			} else {
				pool.Close()
				err = pingErr
			}
		}

		log.Printf("database connection attempt %d/%d failed: %v", attempt, cfg.ConnectRetries, err)
		if attempt < cfg.ConnectRetries {
			time.Sleep(cfg.RetryInterval)
		}
	}

	return nil, fmt.Errorf("database connection failed after %d attempts: %w", cfg.ConnectRetries, err)
}

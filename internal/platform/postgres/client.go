package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog"

	"prize-draw-engine/internal/common/config"
)

type Client struct {
	db  *sql.DB
	cfg config.PostgresConfig
	log zerolog.Logger
}

func NewClient(ctx context.Context, cfg config.PostgresConfig, log zerolog.Logger) (*Client, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Настройка пула соединений
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("database", cfg.Database).
		Int("max_open_conns", cfg.MaxOpenConns).
		Msg("PostgreSQL client initialized")

	return &Client{db: db, cfg: cfg, log: log}, nil
}

// DB возвращает пул соединений для репозиториев
func (c *Client) DB() *sql.DB {
	return c.db
}

func (c *Client) Close() error {
	return c.db.Close()
}

// HealthCheck используется пробой /ready
func (c *Client) HealthCheck(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

package db

import (
	"context"
	"fmt"
	"time"

	"bowser_blocks/internal/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect открывает пул соединений и проверяет доступность базы
func Connect(ctx context.Context, url string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.MaxConns = 10
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger.Info("database connected", "max_conns", cfg.MaxConns)
	return pool, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS game_records (
	id             BIGSERIAL PRIMARY KEY,
	session_id     TEXT        NOT NULL UNIQUE,
	player_id      TEXT        NOT NULL,
	level_id       TEXT        NOT NULL,
	dimension      INT         NOT NULL,
	mine_count     INT         NOT NULL,
	result         TEXT        NOT NULL,
	turn_count     INT         NOT NULL,
	revealed_count INT         NOT NULL,
	score          BIGINT      NOT NULL,
	duration_ms    BIGINT      NOT NULL,
	started_at     TIMESTAMPTZ NOT NULL,
	finished_at    TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS game_records_player_idx ON game_records (player_id, finished_at DESC);

CREATE TABLE IF NOT EXISTS audit_logs (
	id         BIGSERIAL PRIMARY KEY,
	player_id  TEXT        NOT NULL,
	session_id TEXT        NOT NULL DEFAULT '',
	action     TEXT        NOT NULL,
	category   TEXT        NOT NULL,
	details    JSONB       NOT NULL DEFAULT '{}',
	ip         TEXT        NOT NULL DEFAULT '',
	user_agent TEXT        NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS audit_logs_player_idx ON audit_logs (player_id, created_at DESC);
`

// Migrate создает таблицы, если их еще нет
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultTimeout = 10 * time.Second

// Config captures the minimal settings required to establish a PostgreSQL
// connection pool.
type Config struct {
	URL     string
	Timeout time.Duration
}

// Connect establishes a pgx connection pool and verifies connectivity with a
// ping. A default timeout is applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("postgres config: %w", err)
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("postgres connect: %w", err)
	}

	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}

	return pool, nil
}

// schema is the single table the service persists. Columns mirror the
// Request entity one to one.
const schema = `
CREATE TABLE IF NOT EXISTS requests (
	id                    BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
	title                 TEXT NOT NULL,
	description           TEXT,
	type                  TEXT NOT NULL,
	status                TEXT NOT NULL,
	created_by_user_id    BIGINT NOT NULL,
	created_by_user_name  TEXT NOT NULL,
	approver_comment      TEXT,
	approved_by_user_id   BIGINT,
	approved_by_user_name TEXT,
	created_at            TIMESTAMPTZ NOT NULL,
	updated_at            TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_requests_creator ON requests (created_by_user_id);
CREATE INDEX IF NOT EXISTS idx_requests_status  ON requests (status);
`

// EnsureSchema creates the requests table and its indexes when missing.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("postgres schema: %w", err)
	}
	return nil
}

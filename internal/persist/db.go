package persist

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wartide/arena/internal/config"
)

// DB wraps the pgx pool. Repos take *DB so tests can swap in a pool
// pointed at a scratch database.
type DB struct {
	Pool *pgxpool.Pool
}

// Open connects and pings. The pool is sized from config; a server that
// cannot reach its database refuses to boot.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*DB, error) {
	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	pc.MaxConns = int32(cfg.MaxOpenConns)
	pc.MinConns = int32(cfg.MaxIdleConns)
	pc.MaxConnLifetime = cfg.ConnMaxLifetime

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return &DB{Pool: pool}, nil
}

func (d *DB) Close() {
	if d.Pool != nil {
		d.Pool.Close()
	}
}

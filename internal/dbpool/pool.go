// Package dbpool implements the connection pool and unit-of-work contract
// from spec §4.10 over github.com/jackc/pgx/v5/pgxpool. The pool's own
// acquire/release semaphore already gives the blocking-until-free and
// never-loses-a-connection guarantees §4.10 asks for; this package exposes
// them behind the vocabulary (ConnectionPool, GetConnection, UnitOfWork)
// the spec names, rather than reimplementing a semaphore by hand.
package dbpool

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"dogpark-server/internal/retirement"
)

// ConnectionPool wraps a pgxpool.Pool sized to capacity connections.
type ConnectionPool struct {
	pool *pgxpool.Pool
}

// NewConnectionPool preallocates a pool of at most capacity connections
// against dsn. capacity must be >= 1 so tick-driven retirement writeback
// never starves outright (spec §5).
func NewConnectionPool(ctx context.Context, dsn string, capacity int32) (*ConnectionPool, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("dbpool: capacity must be >= 1, got %d", capacity)
	}
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("dbpool: parse dsn: %w", err)
	}
	cfg.MaxConns = capacity

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("dbpool: connect: %w", err)
	}
	if err := ensureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return &ConnectionPool{pool: pool}, nil
}

// ensureSchema creates the retired_players table and its leaderboard index
// if they don't already exist, per the schema spec §6 documents. Mirrors
// the original's DatabaseImpl constructor, which runs the same two
// statements once at pool construction time so a fresh deployment never
// hits an undefined-table error on the first retirement insert.
func ensureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS retired_players (
    id UUID PRIMARY KEY,
    name varchar(100) UNIQUE NOT NULL,
    score int NOT NULL,
    play_time_ms int NOT NULL
)`)
	if err != nil {
		return fmt.Errorf("dbpool: create retired_players table: %w", err)
	}

	_, err = pool.Exec(ctx, `
CREATE INDEX IF NOT EXISTS retired_players_idx
    ON retired_players (score DESC, play_time_ms, name)`)
	if err != nil {
		return fmt.Errorf("dbpool: create retired_players index: %w", err)
	}
	return nil
}

// Close releases every connection in the pool.
func (p *ConnectionPool) Close() { p.pool.Close() }

// Begin acquires a connection and starts a transaction, satisfying
// retirement.UnitOfWorkFactory.
func (p *ConnectionPool) Begin(ctx context.Context) (retirement.UnitOfWork, error) {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("dbpool: acquire connection: %w", err)
	}
	tx, err := conn.Begin(ctx)
	if err != nil {
		conn.Release()
		return nil, fmt.Errorf("dbpool: begin transaction: %w", err)
	}
	return &unitOfWork{conn: conn, tx: tx, repo: &repository{tx: tx}}, nil
}

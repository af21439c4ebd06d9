package dbpool

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"dogpark-server/internal/retirement"
)

// uniqueViolation is Postgres's SQLSTATE for a UNIQUE constraint failure.
const uniqueViolation = "23505"

// unitOfWork scopes one transaction over one pooled connection. Rollback is
// idempotent after Commit so callers may unconditionally defer it (spec
// §4.10: "destruction rolls back any open transaction").
type unitOfWork struct {
	conn *pgxpool.Conn
	tx   pgx.Tx
	repo *repository

	done bool
}

func (u *unitOfWork) GetRetiredDogs() retirement.Repository { return u.repo }

// Commit commits the transaction; on failure it rolls back and returns the
// error, per spec §4.10.
func (u *unitOfWork) Commit(ctx context.Context) error {
	if u.done {
		return nil
	}
	u.done = true
	defer u.conn.Release()

	if err := u.tx.Commit(ctx); err != nil {
		_ = u.tx.Rollback(ctx)
		return fmt.Errorf("dbpool: commit: %w", err)
	}
	return nil
}

// Rollback aborts the transaction if it hasn't already been committed.
func (u *unitOfWork) Rollback(ctx context.Context) error {
	if u.done {
		return nil
	}
	u.done = true
	defer u.conn.Release()
	return u.tx.Rollback(ctx)
}

// repository implements retirement.Repository against one transaction.
type repository struct {
	tx pgx.Tx
}

// Save inserts one retired dog row inside a savepoint scoped to this single
// call. A UNIQUE-constraint violation on name is translated to
// retirement.ErrDuplicateName so the listener can retry with a
// disambiguating suffix (spec §9 open question) — the savepoint is what
// makes that retry safe: a 23505 aborts the savepoint, not the whole
// unitOfWork transaction, so u.tx is still usable for the next attempt.
func (r *repository) Save(ctx context.Context, dog retirement.RetiredDog) error {
	sp, err := r.tx.Begin(ctx)
	if err != nil {
		return fmt.Errorf("dbpool: begin savepoint: %w", err)
	}

	_, err = sp.Exec(ctx,
		`INSERT INTO retired_players (id, name, score, play_time_ms) VALUES ($1, $2, $3, $4)`,
		dog.ID, dog.Name, dog.Score, dog.PlayTimeMs,
	)
	if err != nil {
		_ = sp.Rollback(ctx)
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return retirement.ErrDuplicateName
		}
		return fmt.Errorf("dbpool: insert retired dog: %w", err)
	}

	if err := sp.Commit(ctx); err != nil {
		return fmt.Errorf("dbpool: release savepoint: %w", err)
	}
	return nil
}

// FetchRange returns rows ordered by (score desc, play_time asc, name asc),
// per spec §3 and the index in spec §6.
func (r *repository) FetchRange(ctx context.Context, start, maxItems int) ([]retirement.RetiredDog, error) {
	rows, err := r.tx.Query(ctx,
		`SELECT id, name, score, play_time_ms FROM retired_players
		 ORDER BY score DESC, play_time_ms ASC, name ASC
		 OFFSET $1 LIMIT $2`,
		start, maxItems,
	)
	if err != nil {
		return nil, fmt.Errorf("dbpool: fetch retired dogs: %w", err)
	}
	defer rows.Close()

	var out []retirement.RetiredDog
	for rows.Next() {
		var d retirement.RetiredDog
		if err := rows.Scan(&d.ID, &d.Name, &d.Score, &d.PlayTimeMs); err != nil {
			return nil, fmt.Errorf("dbpool: scan retired dog: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("dbpool: iterate retired dogs: %w", err)
	}
	return out, nil
}

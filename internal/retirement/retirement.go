// Package retirement holds the RetiredDog leaderboard row, the repository
// contract for persisting it, and the tick listener that retires idle dogs
// (spec §4.8, §9 "repository contract {Save, FetchRange} behind a
// UnitOfWork{Commit, GetRetiredDogs}").
package retirement

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// RetiredDog is one row of the persistent leaderboard.
type RetiredDog struct {
	ID         uuid.UUID
	Name       string
	Score      int
	PlayTimeMs int64
}

// ErrDuplicateName is returned by Repository.Save when the name UNIQUE
// constraint rejects the insert (spec §9 open question); the listener
// retries once per attempt with a disambiguating suffix.
var ErrDuplicateName = errors.New("retirement: duplicate name")

// Repository is the retirement store's contract, exposed by a UnitOfWork
// for the lifetime of one transaction.
type Repository interface {
	Save(ctx context.Context, dog RetiredDog) error
	FetchRange(ctx context.Context, start, maxItems int) ([]RetiredDog, error)
}

// UnitOfWork scopes one transaction: Commit finalizes it, GetRetiredDogs
// exposes the repository bound to that transaction. Nothing rolls back
// implicitly: callers defer Rollback, which is a no-op after Commit — see
// internal/dbpool.
type UnitOfWork interface {
	GetRetiredDogs() Repository
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// UnitOfWorkFactory begins a new unit of work, acquiring one pooled
// connection for its lifetime (spec §4.10).
type UnitOfWorkFactory interface {
	Begin(ctx context.Context) (UnitOfWork, error)
}

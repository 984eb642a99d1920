package repo

import (
	"context"
	"errors"

	dom "Keeper/internal/domain"
)

// ErrNotFound is returned by any operation addressing an unknown id.
// Backends map their driver-level miss (e.g. pgx.ErrNoRows) to this.
var ErrNotFound = errors.New("todo not found")

// ErrDuplicateID is returned by Create when the id is already taken.
var ErrDuplicateID = errors.New("todo id already exists")

// TodoRepo is an ordered key-value store of todos. Iteration order is
// the insertion order of ids: Update rewrites a record in place without
// moving it, Delete removes it entirely.
type TodoRepo interface {
	Create(ctx context.Context, t dom.Todo) error
	GetByID(ctx context.Context, id string) (dom.Todo, error)
	List(ctx context.Context) ([]dom.Todo, error)
	Count(ctx context.Context) (uint64, error)
	// Window returns the records at positions [start, end) of the full
	// store sequence. Callers are responsible for bounds checks.
	Window(ctx context.Context, start, end uint64) ([]dom.Todo, error)
	// Search returns records whose title or body contains q,
	// case-insensitively, in store order. Empty q matches everything.
	Search(ctx context.Context, q string) ([]dom.Todo, error)
	Update(ctx context.Context, t dom.Todo) (dom.Todo, error)
	Delete(ctx context.Context, id string) (dom.Todo, error)
}

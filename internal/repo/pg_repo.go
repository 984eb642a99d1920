package repo

import (
	"context"
	"errors"
	"strings"

	dom "Keeper/internal/domain"
	"Keeper/internal/utils"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGTodoRepo implements TodoRepo with Postgres. Insertion order is kept
// by an identity column `seq` assigned on insert and never touched by
// updates, so ORDER BY seq reproduces the ordered-map iteration order.
type PGTodoRepo struct {
	db *pgxpool.Pool
}

func NewPGTodoRepo(db *pgxpool.Pool) *PGTodoRepo {
	return &PGTodoRepo{db: db}
}

const todoColumns = `id, title, body, tag, completed, created_at, updated_at`

func (r *PGTodoRepo) Create(ctx context.Context, t dom.Todo) error {
	query := `
		INSERT INTO todos (id, title, body, tag, completed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.Exec(ctx, query,
		t.ID, t.Title, t.Body, t.Tag, t.Completed, t.CreatedAt, t.UpdatedAt)
	if utils.IsPGUniqueViolation(err) {
		return ErrDuplicateID
	}
	return err
}

func (r *PGTodoRepo) GetByID(ctx context.Context, id string) (dom.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE id = $1`
	var t dom.Todo
	err := r.db.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.Title, &t.Body, &t.Tag, &t.Completed, &t.CreatedAt, &t.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return dom.Todo{}, ErrNotFound
	}
	return t, err
}

func (r *PGTodoRepo) List(ctx context.Context) ([]dom.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos ORDER BY seq`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTodos(rows)
}

func (r *PGTodoRepo) Count(ctx context.Context) (uint64, error) {
	var n uint64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM todos`).Scan(&n)
	return n, err
}

func (r *PGTodoRepo) Window(ctx context.Context, start, end uint64) ([]dom.Todo, error) {
	if start >= end {
		return nil, nil
	}
	query := `SELECT ` + todoColumns + ` FROM todos ORDER BY seq OFFSET $1 LIMIT $2`
	rows, err := r.db.Query(ctx, query, start, end-start)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTodos(rows)
}

func (r *PGTodoRepo) Search(ctx context.Context, q string) ([]dom.Todo, error) {
	query := `
		SELECT ` + todoColumns + `
		FROM todos WHERE title ILIKE $1 OR body ILIKE $1
		ORDER BY seq`
	rows, err := r.db.Query(ctx, query, likePattern(q))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTodos(rows)
}

func (r *PGTodoRepo) Update(ctx context.Context, t dom.Todo) (dom.Todo, error) {
	query := `
		UPDATE todos SET title = $2, body = $3, tag = $4, completed = $5, updated_at = $6
		WHERE id = $1
		RETURNING ` + todoColumns
	var out dom.Todo
	err := r.db.QueryRow(ctx, query,
		t.ID, t.Title, t.Body, t.Tag, t.Completed, t.UpdatedAt,
	).Scan(
		&out.ID, &out.Title, &out.Body, &out.Tag, &out.Completed, &out.CreatedAt, &out.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return dom.Todo{}, ErrNotFound
	}
	return out, err
}

func (r *PGTodoRepo) Delete(ctx context.Context, id string) (dom.Todo, error) {
	query := `DELETE FROM todos WHERE id = $1 RETURNING ` + todoColumns
	var t dom.Todo
	err := r.db.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.Title, &t.Body, &t.Tag, &t.Completed, &t.CreatedAt, &t.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return dom.Todo{}, ErrNotFound
	}
	return t, err
}

func scanTodos(rows pgx.Rows) ([]dom.Todo, error) {
	var list []dom.Todo
	for rows.Next() {
		var t dom.Todo
		if err := rows.Scan(&t.ID, &t.Title, &t.Body, &t.Tag, &t.Completed,
			&t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// likePattern wraps q for a substring ILIKE match, escaping the LIKE
// metacharacters so the query text is matched literally.
func likePattern(q string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(q) + "%"
}

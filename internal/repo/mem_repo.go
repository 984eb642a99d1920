package repo

import (
	"context"
	"strings"
	"sync"

	dom "Keeper/internal/domain"
)

// MemTodoRepo implements TodoRepo with an in-process ordered map: a
// map keyed by id plus a slice holding the ids in insertion order.
// The mutex guards against concurrent HTTP handlers; each operation is
// otherwise a single atomic step.
type MemTodoRepo struct {
	mu    sync.RWMutex
	items map[string]dom.Todo
	order []string
}

// NewMemTodoRepo returns an empty MemTodoRepo.
func NewMemTodoRepo() *MemTodoRepo {
	return &MemTodoRepo{items: make(map[string]dom.Todo)}
}

func (r *MemTodoRepo) Create(_ context.Context, t dom.Todo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[t.ID]; ok {
		return ErrDuplicateID
	}
	r.items[t.ID] = t
	r.order = append(r.order, t.ID)
	return nil
}

func (r *MemTodoRepo) GetByID(_ context.Context, id string) (dom.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.items[id]
	if !ok {
		return dom.Todo{}, ErrNotFound
	}
	return t, nil
}

func (r *MemTodoRepo) List(_ context.Context) ([]dom.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot(0, uint64(len(r.order))), nil
}

func (r *MemTodoRepo) Count(_ context.Context) (uint64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return uint64(len(r.order)), nil
}

func (r *MemTodoRepo) Window(_ context.Context, start, end uint64) ([]dom.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if start > end || end > uint64(len(r.order)) {
		return nil, nil
	}
	return r.snapshot(start, end), nil
}

func (r *MemTodoRepo) Search(_ context.Context, q string) ([]dom.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	needle := strings.ToLower(q)
	var out []dom.Todo
	for _, id := range r.order {
		t := r.items[id]
		if strings.Contains(strings.ToLower(t.Title), needle) ||
			strings.Contains(strings.ToLower(t.Body), needle) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *MemTodoRepo) Update(_ context.Context, t dom.Todo) (dom.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[t.ID]; !ok {
		return dom.Todo{}, ErrNotFound
	}
	// Rewrite in place; the id keeps its position in the order slice.
	r.items[t.ID] = t
	return t, nil
}

func (r *MemTodoRepo) Delete(_ context.Context, id string) (dom.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.items[id]
	if !ok {
		return dom.Todo{}, ErrNotFound
	}
	delete(r.items, id)
	for i, key := range r.order {
		if key == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return t, nil
}

// snapshot copies positions [start, end) of the ordered sequence.
// Callers hold at least a read lock.
func (r *MemTodoRepo) snapshot(start, end uint64) []dom.Todo {
	out := make([]dom.Todo, 0, end-start)
	for _, id := range r.order[start:end] {
		out = append(out, r.items[id])
	}
	return out
}

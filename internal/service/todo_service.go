package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	dom "Keeper/internal/domain"
	"Keeper/internal/repo"

	"golang.org/x/sync/singleflight"

	"Keeper/internal/cache"
	"Keeper/internal/clock"
	"Keeper/internal/ident"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrEmptyTitle       = errors.New("title must not be empty")
	ErrEmptyBody        = errors.New("body must not be empty")
	ErrAlreadyCompleted = errors.New("todo is already completed")
	ErrIndexOutOfBounds = errors.New("index out of bounds")
	ErrInvalidRange     = errors.New("start index must not exceed end index")
	ErrRangeTooLarge    = errors.New("page window must not exceed 2")
)

// MaxWindow caps the listByTag page width. Per-call work stays bounded
// no matter how large the store grows.
const MaxWindow = 2

// Sort order values accepted by SortByDate.
const (
	OrderAscending  = "ascending"
	OrderDescending = "descending"
)

// TodoService implements the todo operations on top of a TodoRepo.
// Read results are cached; every mutation invalidates the cache.
type TodoService struct {
	repo  repo.TodoRepo
	ids   ident.Generator
	clock clock.Clock
	cache *cache.TodoCache
	sf    singleflight.Group
}

// NewTodoService creates a TodoService. If c is nil, caching is disabled.
func NewTodoService(r repo.TodoRepo, ids ident.Generator, clk clock.Clock, c *cache.TodoCache) *TodoService {
	return &TodoService{repo: r, ids: ids, clock: clk, cache: c}
}

// validatePayload checks title before body so the reported error is
// deterministic when both are empty. Values are compared as sent, with
// no trimming.
func validatePayload(title, body string) error {
	if title == "" {
		return ErrEmptyTitle
	}
	if body == "" {
		return ErrEmptyBody
	}
	return nil
}

func (s *TodoService) Create(ctx context.Context, title, body, tag string) (dom.Todo, error) {
	if err := validatePayload(title, body); err != nil {
		return dom.Todo{}, err
	}
	t := dom.Todo{
		ID:        s.ids.NewID(),
		Title:     title,
		Body:      body,
		Tag:       tag,
		Completed: false,
		CreatedAt: s.clock.Now(),
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return dom.Todo{}, err
	}
	s.invalidateCache(ctx)
	return t, nil
}

func (s *TodoService) List(ctx context.Context) ([]dom.Todo, error) {
	if s.cache != nil {
		v, err, _ := s.sf.Do("list", func() (interface{}, error) {
			if list, err := s.cache.GetList(ctx); err == nil && list != nil {
				return list, nil
			}
			list, err := s.repo.List(ctx)
			if err != nil {
				return nil, err
			}
			_ = s.cache.SetList(ctx, list)
			return list, nil
		})
		if err != nil {
			return nil, err
		}
		return v.([]dom.Todo), nil
	}
	return s.repo.List(ctx)
}

// ListByTag returns the tag-matching records inside the positional
// window [start, end) of the full store sequence. The indices address
// the unfiltered store, so a valid window may hold fewer matches than
// its width; paging across the whole store is the way to collect every
// match for a tag.
func (s *TodoService) ListByTag(ctx context.Context, tag string, start, end uint64) ([]dom.Todo, error) {
	length, err := s.repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	if start > length || end > length {
		return nil, ErrIndexOutOfBounds
	}
	if start > end {
		return nil, ErrInvalidRange
	}
	if end-start > MaxWindow {
		return nil, ErrRangeTooLarge
	}
	window, err := s.repo.Window(ctx, start, end)
	if err != nil {
		return nil, err
	}
	out := make([]dom.Todo, 0, len(window))
	for _, t := range window {
		if t.Tag == tag {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *TodoService) GetByID(ctx context.Context, id string) (dom.Todo, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return dom.Todo{}, ErrNotFound
		}
		return dom.Todo{}, err
	}
	return t, nil
}

// Search matches q case-insensitively against title or body. The query
// is used as sent: no trimming, and an empty query matches every record.
func (s *TodoService) Search(ctx context.Context, q string) ([]dom.Todo, error) {
	if s.cache != nil {
		key := "search:" + strings.ToLower(q)
		v, err, _ := s.sf.Do(key, func() (interface{}, error) {
			if list, err := s.cache.GetSearch(ctx, q); err == nil && list != nil {
				return list, nil
			}
			list, err := s.repo.Search(ctx, q)
			if err != nil {
				return nil, err
			}
			_ = s.cache.SetSearch(ctx, q, list)
			return list, nil
		})
		if err != nil {
			return nil, err
		}
		return v.([]dom.Todo), nil
	}
	return s.repo.Search(ctx, q)
}

// SortByDate returns every record ordered by creation time. Ascending
// is a stable sort, so ties keep store order; descending is its exact
// reverse rather than an independent stable sort, so ties appear in
// reverse store order.
func (s *TodoService) SortByDate(ctx context.Context, order string) ([]dom.Todo, error) {
	if s.cache != nil {
		key := "sort:" + order
		v, err, _ := s.sf.Do(key, func() (interface{}, error) {
			if list, err := s.cache.GetSorted(ctx, order); err == nil && list != nil {
				return list, nil
			}
			list, err := s.sortByDate(ctx, order)
			if err != nil {
				return nil, err
			}
			_ = s.cache.SetSorted(ctx, order, list)
			return list, nil
		})
		if err != nil {
			return nil, err
		}
		return v.([]dom.Todo), nil
	}
	return s.sortByDate(ctx, order)
}

func (s *TodoService) sortByDate(ctx context.Context, order string) ([]dom.Todo, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
	if order == OrderDescending {
		for i, j := 0, len(list)-1; i < j; i, j = i+1, j-1 {
			list[i], list[j] = list[j], list[i]
		}
	}
	return list, nil
}

// Update replaces title, body and tag with the payload values. The id,
// creation time and completed flag are left as they are.
func (s *TodoService) Update(ctx context.Context, id, title, body, tag string) (dom.Todo, error) {
	if err := validatePayload(title, body); err != nil {
		return dom.Todo{}, err
	}
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return dom.Todo{}, ErrNotFound
		}
		return dom.Todo{}, err
	}
	patch := existing
	patch.Title = title
	patch.Body = body
	patch.Tag = tag
	now := s.clock.Now()
	patch.UpdatedAt = &now
	t, err := s.repo.Update(ctx, patch)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return dom.Todo{}, ErrNotFound
		}
		return dom.Todo{}, err
	}
	s.invalidateCache(ctx)
	return t, nil
}

// Complete marks the todo done. A second call fails without touching
// the record, so updated_at still reflects the first completion.
func (s *TodoService) Complete(ctx context.Context, id string) (dom.Todo, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return dom.Todo{}, ErrNotFound
		}
		return dom.Todo{}, err
	}
	if existing.Completed {
		return dom.Todo{}, ErrAlreadyCompleted
	}
	patch := existing
	patch.Completed = true
	now := s.clock.Now()
	patch.UpdatedAt = &now
	t, err := s.repo.Update(ctx, patch)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return dom.Todo{}, ErrNotFound
		}
		return dom.Todo{}, err
	}
	s.invalidateCache(ctx)
	return t, nil
}

// Delete removes the record and returns its final state.
func (s *TodoService) Delete(ctx context.Context, id string) (dom.Todo, error) {
	t, err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return dom.Todo{}, ErrNotFound
		}
		return dom.Todo{}, err
	}
	s.invalidateCache(ctx)
	return t, nil
}

func (s *TodoService) invalidateCache(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.InvalidateAll(ctx)
	}
}

package repo

import (
	"context"
	"testing"
	"time"

	dom "Keeper/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTodo(id, title, body, tag string) dom.Todo {
	return dom.Todo{
		ID:        id,
		Title:     title,
		Body:      body,
		Tag:       tag,
		CreatedAt: time.Now().UTC(),
	}
}

func seedRepo(t *testing.T, ids ...string) *MemTodoRepo {
	t.Helper()
	r := NewMemTodoRepo()
	for _, id := range ids {
		require.NoError(t, r.Create(context.Background(), newTodo(id, "title "+id, "body "+id, "tag-"+id)))
	}
	return r
}

func TestMemRepo_ListKeepsInsertionOrder(t *testing.T) {
	r := seedRepo(t, "c", "a", "b")

	list, err := r.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "c", list[0].ID)
	assert.Equal(t, "a", list[1].ID)
	assert.Equal(t, "b", list[2].ID)
}

func TestMemRepo_CreateDuplicateID(t *testing.T) {
	r := seedRepo(t, "a")
	err := r.Create(context.Background(), newTodo("a", "t", "b", ""))
	assert.ErrorIs(t, err, ErrDuplicateID)
}

func TestMemRepo_UpdateKeepsPosition(t *testing.T) {
	r := seedRepo(t, "a", "b", "c")

	patch := newTodo("a", "new title", "new body", "new-tag")
	_, err := r.Update(context.Background(), patch)
	require.NoError(t, err)

	list, err := r.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a", list[0].ID)
	assert.Equal(t, "new title", list[0].Title)
}

func TestMemRepo_UpdateUnknownID(t *testing.T) {
	r := NewMemTodoRepo()
	_, err := r.Update(context.Background(), newTodo("ghost", "t", "b", ""))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemRepo_DeleteReturnsRecord(t *testing.T) {
	r := seedRepo(t, "a", "b")

	removed, err := r.Delete(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "a", removed.ID)

	_, err = r.GetByID(context.Background(), "a")
	assert.ErrorIs(t, err, ErrNotFound)

	n, err := r.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(1), n)
}

func TestMemRepo_DeleteUnknownID(t *testing.T) {
	r := NewMemTodoRepo()
	_, err := r.Delete(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemRepo_WindowAddressesFullStore(t *testing.T) {
	r := seedRepo(t, "a", "b", "c", "d")

	window, err := r.Window(context.Background(), 1, 3)
	require.NoError(t, err)
	require.Len(t, window, 2)
	assert.Equal(t, "b", window[0].ID)
	assert.Equal(t, "c", window[1].ID)

	empty, err := r.Window(context.Background(), 2, 2)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestMemRepo_SearchCaseInsensitive(t *testing.T) {
	r := NewMemTodoRepo()
	ctx := context.Background()
	require.NoError(t, r.Create(ctx, newTodo("a", "Buy milk", "from the corner shop", "")))
	require.NoError(t, r.Create(ctx, newTodo("b", "Call mum", "about MILK delivery", "")))
	require.NoError(t, r.Create(ctx, newTodo("c", "Read book", "chapter four", "")))

	hits, err := r.Search(ctx, "MiLk")
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "a", hits[0].ID)
	assert.Equal(t, "b", hits[1].ID)
}

func TestMemRepo_SearchEmptyQueryMatchesAll(t *testing.T) {
	r := seedRepo(t, "a", "b", "c")
	hits, err := r.Search(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, hits, 3)
}

package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"Keeper/internal/clock"
	"Keeper/internal/dto"
	"Keeper/internal/ident"
	"Keeper/internal/repo"
	"Keeper/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	svc := service.NewTodoService(repo.NewMemTodoRepo(), ident.UUID{}, clock.NewSystem(), nil)
	h := NewTodoHandler(svc)
	api := r.Group("/api/v1")
	api.POST("/todos", h.Create)
	api.GET("/todos", h.List)
	api.GET("/todos/bytag", h.ListByTag)
	api.GET("/todos/search", h.Search)
	api.GET("/todos/sorted", h.SortByDate)
	api.GET("/todos/:id", h.GetByID)
	api.PUT("/todos/:id", h.Update)
	api.DELETE("/todos/:id", h.Delete)
	api.POST("/todos/:id/complete", h.Complete)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createTodo(t *testing.T, r *gin.Engine, title, body, tag string) dto.TodoResponse {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/v1/todos", dto.TodoPayload{Title: title, Body: body, Tag: tag})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp dto.TodoResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestCreateTodo(t *testing.T) {
	r := newTestRouter(t)

	created := createTodo(t, r, "A", "B", "x")
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "A", created.Title)
	assert.Equal(t, "B", created.Body)
	assert.Equal(t, "x", created.Tag)
	assert.False(t, created.Completed)
	assert.Nil(t, created.UpdatedAt)

	// updated_at must be absent from the JSON, not null.
	w := doJSON(t, r, http.MethodGet, "/api/v1/todos/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "updated_at")
}

func TestCreateTodo_EmptyTitle(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/todos", dto.TodoPayload{Title: "", Body: "B", Tag: "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "title must not be empty")
}

func TestCreateTodo_EmptyBody(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/todos", dto.TodoPayload{Title: "A", Body: "", Tag: "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "body must not be empty")
}

func TestGetTodo_NotFound(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/v1/todos/ghost", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListTodos(t *testing.T) {
	r := newTestRouter(t)
	first := createTodo(t, r, "A", "B", "x")
	second := createTodo(t, r, "C", "D", "y")

	w := doJSON(t, r, http.MethodGet, "/api/v1/todos", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.ListTodosResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 2)
	assert.Equal(t, first.ID, resp.Items[0].ID)
	assert.Equal(t, second.ID, resp.Items[1].ID)
}

func TestUpdateTodo(t *testing.T) {
	r := newTestRouter(t)
	created := createTodo(t, r, "A", "B", "x")

	w := doJSON(t, r, http.MethodPut, "/api/v1/todos/"+created.ID,
		dto.TodoPayload{Title: "A2", Body: "B2", Tag: "y"})
	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.TodoResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, created.ID, resp.ID)
	assert.Equal(t, "A2", resp.Title)
	assert.Equal(t, "y", resp.Tag)
	assert.Equal(t, created.CreatedAt, resp.CreatedAt)
	require.NotNil(t, resp.UpdatedAt)
}

func TestUpdateTodo_Errors(t *testing.T) {
	r := newTestRouter(t)
	created := createTodo(t, r, "A", "B", "x")

	w := doJSON(t, r, http.MethodPut, "/api/v1/todos/"+created.ID,
		dto.TodoPayload{Title: "", Body: "B", Tag: "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPut, "/api/v1/todos/ghost",
		dto.TodoPayload{Title: "A", Body: "B", Tag: "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteTodo_ReturnsRecord(t *testing.T) {
	r := newTestRouter(t)
	created := createTodo(t, r, "A", "B", "x")

	w := doJSON(t, r, http.MethodDelete, "/api/v1/todos/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.TodoResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, created.ID, resp.ID)

	w = doJSON(t, r, http.MethodGet, "/api/v1/todos/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodDelete, "/api/v1/todos/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCompleteTodo(t *testing.T) {
	r := newTestRouter(t)
	created := createTodo(t, r, "A", "B", "x")

	w := doJSON(t, r, http.MethodPost, "/api/v1/todos/"+created.ID+"/complete", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.TodoResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Completed)

	w = doJSON(t, r, http.MethodPost, "/api/v1/todos/"+created.ID+"/complete", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/todos/ghost/complete", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListByTag(t *testing.T) {
	r := newTestRouter(t)
	first := createTodo(t, r, "A", "B", "x")
	createTodo(t, r, "C", "D", "y")
	createTodo(t, r, "E", "F", "x")

	w := doJSON(t, r, http.MethodGet, "/api/v1/todos/bytag?tag=x&start=0&end=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.ListTodosResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, first.ID, resp.Items[0].ID)
}

func TestListByTag_BadRequests(t *testing.T) {
	r := newTestRouter(t)
	createTodo(t, r, "A", "B", "x")
	createTodo(t, r, "C", "D", "x")
	createTodo(t, r, "E", "F", "x")

	tests := []struct {
		name  string
		query string
	}{
		{"window too large", "tag=x&start=0&end=3"},
		{"inverted range", "tag=x&start=3&end=1"},
		{"end past count", "tag=x&start=0&end=4"},
		{"missing indices", "tag=x"},
		{"negative index", "tag=x&start=-1&end=1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, r, http.MethodGet, "/api/v1/todos/bytag?"+tt.query, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
}

func TestSearchTodos(t *testing.T) {
	r := newTestRouter(t)
	createTodo(t, r, "Groceries", "foo bar", "x")
	createTodo(t, r, "Chores", "mop floors", "x")

	w := doJSON(t, r, http.MethodGet, "/api/v1/todos/search?q=FOO", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.ListTodosResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Groceries", resp.Items[0].Title)

	w = doJSON(t, r, http.MethodGet, "/api/v1/todos/search", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp = dto.ListTodosResponse{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Items, 2)
}

func TestSortTodos(t *testing.T) {
	r := newTestRouter(t)
	first := createTodo(t, r, "A", "B", "x")
	second := createTodo(t, r, "C", "D", "x")

	w := doJSON(t, r, http.MethodGet, "/api/v1/todos/sorted?order=ascending", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.ListTodosResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 2)
	assert.Equal(t, first.ID, resp.Items[0].ID)

	w = doJSON(t, r, http.MethodGet, "/api/v1/todos/sorted?order=descending", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp = dto.ListTodosResponse{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 2)
	assert.Equal(t, second.ID, resp.Items[0].ID)

	w = doJSON(t, r, http.MethodGet, "/api/v1/todos/sorted?order=sideways", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

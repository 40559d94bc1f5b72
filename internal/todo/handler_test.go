package todo

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmonkez12/go-todo-api/internal/apperror"
)

// brokenStore fails every call.
type brokenStore struct{ Store }

var errStoreDown = errors.New("store down")

func (brokenStore) List(context.Context) ([]Todo, error)      { return nil, errStoreDown }
func (brokenStore) Get(context.Context, int64) (*Todo, error) { return nil, errStoreDown }
func (brokenStore) DeleteAll(context.Context) ([]Todo, error) { return nil, errStoreDown }

func newTodoRouter(store Store) http.Handler {
	return newTodoRouterBehindProxy(store, false)
}

func newTodoRouterBehindProxy(store Store, trustProxy bool) http.Handler {
	r := chi.NewRouter()
	r.Route("/todos", NewHandler(NewService(store), trustProxy).Routes)
	return r
}

func serve(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Host = "host"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandler_CreateBuyMilk(t *testing.T) {
	h := newTodoRouter(NewMemoryStore())

	rec := serve(h, http.MethodPost, "/todos", `{"title":"buy milk","order":1}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t,
		`{"id":1,"title":"buy milk","order":1,"completed":false,"url":"http://host/todos/1"}`,
		rec.Body.String())
}

func TestHandler_URLForwardedHeaders(t *testing.T) {
	tests := []struct {
		name       string
		trustProxy bool
		want       string
	}{
		{"trusted proxy", true, "https://api.example.com/todos/1"},
		{"untrusted client", false, "http://host/todos/1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTodoRouterBehindProxy(NewMemoryStore(), tt.trustProxy)

			req := httptest.NewRequest(http.MethodPost, "/todos", strings.NewReader(`{"title":"x"}`))
			req.Host = "host"
			req.Header.Set("X-Forwarded-Proto", "https")
			req.Header.Set("X-Forwarded-Host", "api.example.com")
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			var got Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, tt.want, got.URL)
		})
	}
}

func TestHandler_CRUDFlow(t *testing.T) {
	h := newTodoRouter(NewMemoryStore())

	require.Equal(t, http.StatusOK, serve(h, http.MethodPost, "/todos", `{"title":"b","order":2}`).Code)
	require.Equal(t, http.StatusOK, serve(h, http.MethodPost, "/todos", `{"title":"a","order":1}`).Code)

	rec := serve(h, http.MethodGet, "/todos", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].Title)
	assert.Equal(t, "http://host/todos/2", list[0].URL)

	rec = serve(h, http.MethodPatch, "/todos/1", `{"completed":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var patched Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &patched))
	assert.True(t, patched.Completed)
	assert.Equal(t, "b", patched.Title)
	assert.Equal(t, 2, patched.Order)

	rec = serve(h, http.MethodGet, "/todos/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.True(t, got.Completed)

	rec = serve(h, http.MethodDelete, "/todos/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, http.StatusNotFound, serve(h, http.MethodGet, "/todos/1", "").Code)

	rec = serve(h, http.MethodDelete, "/todos", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "a", list[0].Title)

	rec = serve(h, http.MethodGet, "/todos", "")
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestHandler_NotFound(t *testing.T) {
	h := newTodoRouter(NewMemoryStore())

	for _, tc := range []struct{ method, target, body string }{
		{http.MethodGet, "/todos/7", ""},
		{http.MethodPatch, "/todos/7", `{"title":"x"}`},
		{http.MethodDelete, "/todos/7", ""},
		{http.MethodGet, "/todos/abc", ""},
		{http.MethodGet, "/todos/-1", ""},
	} {
		rec := serve(h, tc.method, tc.target, tc.body)
		assert.Equal(t, http.StatusNotFound, rec.Code, "%s %s", tc.method, tc.target)
		assert.JSONEq(t, `{"message":"Todo not found","code":"NOT_FOUND"}`, rec.Body.String())
	}
}

func TestHandler_MalformedBody(t *testing.T) {
	h := newTodoRouter(NewMemoryStore())
	require.Equal(t, http.StatusOK, serve(h, http.MethodPost, "/todos", `{"title":"x"}`).Code)

	assert.Equal(t, http.StatusBadRequest, serve(h, http.MethodPost, "/todos", `{"title":`).Code)
	assert.Equal(t, http.StatusBadRequest, serve(h, http.MethodPatch, "/todos/1", `[1,2`).Code)
	assert.Equal(t, http.StatusBadRequest, serve(h, http.MethodPost, "/todos", `{"order":"first"}`).Code)
}

func TestHandler_StoreFailureIsGeneric500(t *testing.T) {
	h := newTodoRouter(brokenStore{})

	for _, target := range []string{"/todos", "/todos/1"} {
		rec := serve(h, http.MethodGet, target, "")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "store down")
	}
	rec := serve(h, http.MethodDelete, "/todos", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestService_ClassifiesErrors(t *testing.T) {
	svc := NewService(brokenStore{})

	_, err := svc.Get(context.Background(), 1)
	assert.Equal(t, apperror.KindInternal, apperror.KindOf(err))
	assert.ErrorIs(t, err, errStoreDown)

	svc = NewService(NewMemoryStore())
	_, err = svc.Get(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestPresent(t *testing.T) {
	got := Present(Todo{ID: 12, Title: "t", Order: 3}, "https://x.io")
	assert.Equal(t, Response{ID: 12, Title: "t", Order: 3, URL: "https://x.io/todos/12"}, got)
	assert.Empty(t, PresentAll(nil, "http://h"))
}

package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/redmonkez12/go-todo-api/internal/logging"
	"github.com/redmonkez12/go-todo-api/internal/user"
)

type authFixture struct {
	router http.Handler
	tokens TokenService
}

func newAuthFixture(t *testing.T, tokens TokenService) *authFixture {
	t.Helper()
	hasher, err := NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)
	if tokens == nil {
		tokens, err = NewJWTService([]byte("test-secret"), TokenOptions{
			Issuer: "taskmanager", Audience: "api", TTL: 15 * time.Minute,
		})
		require.NoError(t, err)
	}

	svc := NewService(user.NewMemoryRepository(), hasher, tokens, logging.Discard())
	h := NewHandler(svc)
	mw := NewMiddleware(svc)

	r := chi.NewRouter()
	r.Post("/auth/register", h.Register)
	r.Post("/auth/signin", h.SignIn)
	r.Post("/auth/generate", h.Generate)
	r.With(mw.RequireAuth).Get("/auth/me", h.Me)

	return &authFixture{router: r, tokens: tokens}
}

func (f *authFixture) do(method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHandler_RegisterAndSignIn(t *testing.T) {
	f := newAuthFixture(t, nil)

	rec := f.do(http.MethodPost, "/auth/register", `{"email":"a@b.co","password":"secret"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, float64(1), decodeBody(t, rec)["id"])

	rec = f.do(http.MethodPost, "/auth/signin", `{"email":"a@b.co","password":"secret"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "User signed in successfully", body["message"])

	token, ok := body["token"].(string)
	require.True(t, ok)
	claims, err := f.tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "a@b.co", claims.Email)
}

func TestHandler_RegisterFailures(t *testing.T) {
	f := newAuthFixture(t, nil)
	rec := f.do(http.MethodPost, "/auth/register", `{"email":"a@b.co","password":"secret"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	tests := []struct {
		name    string
		body    string
		status  int
		message string
	}{
		{"duplicate", `{"email":"a@b.co","password":"x"}`, http.StatusConflict, "User already exists"},
		{"bad email", `{"email":"invalid-email","password":"x"}`, http.StatusBadRequest, "Invalid email format"},
		{"missing password", `{"email":"c@d.ef"}`, http.StatusBadRequest, "Email and password are required"},
		{"empty body", ``, http.StatusBadRequest, "Email and password are required"},
		{"malformed json", `{"email":`, http.StatusBadRequest, "Invalid request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(http.MethodPost, "/auth/register", tt.body, nil)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.message, decodeBody(t, rec)["message"])
		})
	}
}

func TestHandler_SignInFailures(t *testing.T) {
	f := newAuthFixture(t, nil)
	rec := f.do(http.MethodPost, "/auth/register", `{"email":"a@b.co","password":"secret"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	tests := []struct {
		name    string
		body    string
		status  int
		message string
	}{
		{"unknown email", `{"email":"x@y.zz","password":"secret"}`, http.StatusNotFound, "User not found"},
		{"missing password", `{"email":"a@b.co"}`, http.StatusBadRequest, "Password is required"},
		{"wrong password", `{"email":"a@b.co","password":"nope"}`, http.StatusUnauthorized, "Invalid credentials"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(http.MethodPost, "/auth/signin", tt.body, nil)
			assert.Equal(t, tt.status, rec.Code)
			body := decodeBody(t, rec)
			assert.Equal(t, tt.message, body["message"])
			assert.NotContains(t, body, "token")
		})
	}
}

func TestHandler_Generate(t *testing.T) {
	f := newAuthFixture(t, nil)

	rec := f.do(http.MethodPost, "/auth/generate", `{"email":"a@b.co","name":"Alice"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	token, ok := decodeBody(t, rec)["token"].(string)
	require.True(t, ok)

	claims, err := f.tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "Alice", claims.Name)

	rec = f.do(http.MethodPost, "/auth/generate", `{"email":"a@b.co"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Email and name are required", decodeBody(t, rec)["error"])
}

func TestHandler_GenerateIssueFailure(t *testing.T) {
	f := newAuthFixture(t, failingTokens{})

	rec := f.do(http.MethodPost, "/auth/generate", `{"email":"a@b.co","name":"Alice"}`, nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Error generating token", body["error"])
	assert.NotContains(t, rec.Body.String(), "signer offline")
}

func TestMiddleware_RequireAuth(t *testing.T) {
	f := newAuthFixture(t, nil)
	good, err := f.tokens.Issue(Claims{Email: "a@b.co", Name: "Alice"})
	require.NoError(t, err)

	rec := f.do(http.MethodGet, "/auth/me", "", map[string]string{"Authorization": "Bearer " + good})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "a@b.co", body["email"])
	assert.Equal(t, "Alice", body["name"])

	tests := []struct {
		name   string
		header string
		code   string
	}{
		{"missing", "", "MISSING_AUTH"},
		{"wrong scheme", "Basic " + good, "INVALID_AUTH_HEADER"},
		{"no token", "Bearer ", "INVALID_AUTH_HEADER"},
		{"garbage", "Bearer not-a-token", "INVALID_TOKEN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{}
			if tt.header != "" {
				headers["Authorization"] = tt.header
			}
			rec := f.do(http.MethodGet, "/auth/me", "", headers)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, tt.code, decodeBody(t, rec)["code"])
		})
	}
}

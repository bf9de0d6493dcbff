package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"complipilot/internal/auth"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	mu    sync.Mutex
	seq   uint64
	users map[string]*auth.User
}

func (m *memStore) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[email]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (m *memStore) Create(_ context.Context, u *auth.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.Email]; ok {
		return auth.ErrDuplicateEmail
	}
	m.seq++
	u.ID = m.seq
	cp := *u
	m.users[u.Email] = &cp
	return nil
}

func newAuthRouter(t *testing.T) http.Handler {
	t.Helper()

	jwtSvc, err := auth.NewJWT("test-secret", "HS256", 15*time.Minute)
	require.NoError(t, err)

	svc := &auth.Service{
		Store:  &memStore{users: map[string]*auth.User{}},
		Tokens: jwtSvc,
	}

	r := chi.NewRouter()
	ah := &AuthHandler{Svc: svc}
	r.Post("/auth/register", ah.Register)
	r.Post("/auth/login", ah.Login)

	me := &MeHandler{}
	r.With(auth.RequireAuth(jwtSvc)).Get("/me", me.Me)

	return r
}

func doRegister(t *testing.T, h http.Handler, email, password string) *httptest.ResponseRecorder {
	t.Helper()
	body := `{"email":"` + email + `","password":"` + password + `"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func doLogin(t *testing.T, h http.Handler, email, password string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{"username": {email}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRegisterLoginMe(t *testing.T) {
	h := newAuthRouter(t)

	// register
	rec := doRegister(t, h, "a@x.com", "secret")
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		ID    uint64 `json:"id"`
		Email string `json:"email"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotZero(t, created.ID)
	assert.Equal(t, "a@x.com", created.Email)
	assert.NotContains(t, rec.Body.String(), "password")

	// login
	rec = doLogin(t, h, "a@x.com", "secret")
	require.Equal(t, http.StatusOK, rec.Code)

	var tokenResp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tokenResp))
	require.NotEmpty(t, tokenResp.AccessToken)
	assert.Equal(t, "bearer", tokenResp.TokenType)

	// /me with the issued token
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+tokenResp.AccessToken)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"email":"a@x.com"}`, rec.Body.String())
}

func TestRegisterDuplicate(t *testing.T) {
	h := newAuthRouter(t)

	rec := doRegister(t, h, "dup@x.com", "pw")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRegister(t, h, "dup@x.com", "pw")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "already registered")
}

func TestLoginWrongCredentials(t *testing.T) {
	h := newAuthRouter(t)

	rec := doRegister(t, h, "user2@x.com", "rightpw")
	require.Equal(t, http.StatusCreated, rec.Code)

	unknown := doLogin(t, h, "nouser@x.com", "pw")
	wrongPw := doLogin(t, h, "user2@x.com", "wrongpw")

	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, http.StatusUnauthorized, wrongPw.Code)

	// responses must not reveal whether the email exists
	assert.Equal(t, unknown.Body.String(), wrongPw.Body.String())
}

func TestMeRequiresAuth(t *testing.T) {
	h := newAuthRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer invalid.token.here")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegisterRejectsEmptyInput(t *testing.T) {
	h := newAuthRouter(t)

	rec := doRegister(t, h, "", "pw")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRegister(t, h, "a@x.com", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

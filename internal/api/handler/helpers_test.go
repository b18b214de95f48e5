package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/quotemate/gateway/internal/api/middleware"
	"github.com/quotemate/gateway/internal/core/domain"
	"github.com/quotemate/gateway/internal/core/service"
	"github.com/quotemate/gateway/internal/infrastructure/cache"
	"github.com/quotemate/gateway/internal/infrastructure/db/memory"
)

var testScope = domain.Scope{
	Client:         "11111111-1111-1111-1111-111111111111",
	BrowserSession: "22222222-2222-2222-2222-222222222222",
}

type testEnv struct {
	store    *memory.SessionStore
	auth     *service.AuthService
	projects *service.ProjectContexts
}

func newTestEnv() *testEnv {
	store := memory.NewSessionStore(time.Hour, time.Hour)
	return &testEnv{
		store:    store,
		auth:     service.NewAuthService(store, service.NewTokenMinter("secret"), zerolog.Nop()),
		projects: service.NewProjectContexts(cache.NewProjectScratch(0, 0)),
	}
}

// signIn stores a session as an earlier login from testScope would have.
func (env *testEnv) signIn(t *testing.T, user *domain.User) {
	t.Helper()
	ac := env.auth.Context(testScope)
	ac.Init(context.Background())
	if _, err := ac.Login(context.Background(), user, false); err != nil {
		t.Fatalf("login: %v", err)
	}
}

// call runs h behind the scope and auth middleware with the test cookies.
func (env *testEnv) call(t *testing.T, h echo.HandlerFunc, method, target, contentType string, body io.Reader) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	req.AddCookie(&http.Cookie{Name: middleware.ClientCookie, Value: testScope.Client})
	req.AddCookie(&http.Cookie{Name: middleware.BrowserSessionCookie, Value: testScope.BrowserSession})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	wrapped := middleware.Scope(false)(middleware.AuthProvider(env.auth)(h))
	return rec, wrapped(c)
}

func (env *testEnv) postJSON(t *testing.T, h echo.HandlerFunc, target string, body io.Reader) (*httptest.ResponseRecorder, error) {
	t.Helper()
	return env.call(t, h, http.MethodPost, target, echo.MIMEApplicationJSON, body)
}

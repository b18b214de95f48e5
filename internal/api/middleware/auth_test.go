package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/quotemate/gateway/internal/core/domain"
	"github.com/quotemate/gateway/internal/core/service"
	"github.com/quotemate/gateway/internal/infrastructure/db/memory"
)

var testScope = domain.Scope{Client: "11111111-1111-1111-1111-111111111111", BrowserSession: "22222222-2222-2222-2222-222222222222"}

func newTestAuthService() *service.AuthService {
	store := memory.NewSessionStore(time.Hour, time.Hour)
	return service.NewAuthService(store, service.NewTokenMinter("secret"), zerolog.Nop())
}

// signIn stores a session for testScope as a previous request would have.
func signIn(t *testing.T, svc *service.AuthService, user *domain.User) {
	t.Helper()
	ac := svc.Context(testScope)
	ac.Init(context.Background())
	if _, err := ac.Login(context.Background(), user, true); err != nil {
		t.Fatalf("login: %v", err)
	}
}

// serve runs mws around an OK handler with the test scope cookies set.
func serve(t *testing.T, mws []echo.MiddlewareFunc) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: ClientCookie, Value: testScope.Client})
	req.AddCookie(&http.Cookie{Name: BrowserSessionCookie, Value: testScope.BrowserSession})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	h := echo.HandlerFunc(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec, called
}

func TestScope_IssuesCookies(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	var got domain.Scope
	h := Scope(false)(func(c echo.Context) error {
		got = ScopeFrom(c)
		return nil
	})
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !got.Valid() {
		t.Fatalf("expected a valid scope, got %+v", got)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 2 {
		t.Fatalf("expected 2 cookies, got %d", len(cookies))
	}
	for _, ck := range cookies {
		switch ck.Name {
		case ClientCookie:
			if ck.MaxAge <= 0 {
				t.Fatalf("client cookie must be persistent")
			}
		case BrowserSessionCookie:
			if ck.MaxAge != 0 || !ck.Expires.IsZero() {
				t.Fatalf("browser session cookie must not expire explicitly")
			}
		}
	}
}

func TestScope_KeepsExistingCookies(t *testing.T) {
	rec, called := serve(t, []echo.MiddlewareFunc{Scope(false)})
	if !called {
		t.Fatalf("next handler not called")
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatalf("expected no new cookies")
	}
}

func TestRequireAuth_Anonymous(t *testing.T) {
	svc := newTestAuthService()
	rec, called := serve(t, []echo.MiddlewareFunc{Scope(false), AuthProvider(svc), RequireAuth()})

	if called {
		t.Fatalf("should not reach next handler")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	var body map[string]string
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body["redirect"] != domain.PathLogin {
		t.Fatalf("expected redirect to login, got %q", body["redirect"])
	}
}

func TestRequireAuth_Authenticated(t *testing.T) {
	svc := newTestAuthService()
	signIn(t, svc, &domain.User{ID: "u1", Role: domain.RoleSubcontractor})

	rec, called := serve(t, []echo.MiddlewareFunc{Scope(false), AuthProvider(svc), RequireAuth()})
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("expected pass-through, got %d", rec.Code)
	}
}

func TestEnforce_Pending(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	err := enforce(c, "auth", domain.Pending(), func(echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusServiceUnavailable || rec.Header().Get("Retry-After") != "1" {
		t.Fatalf("expected 503 with Retry-After, got %d", rec.Code)
	}
}

func TestMustAuth_PanicsOutsideProvider(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	MustAuth(c)
}

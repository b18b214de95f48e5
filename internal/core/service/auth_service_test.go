package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/quotemate/gateway/internal/core/domain"
)

// stubStore models the two storage areas of one device. Changing
// BrowserSession on the scope drops the session area, like a browser restart.
type stubStore struct {
	durable map[string]string
	session map[string]map[string]string

	failSet map[string]bool
	failGet bool
}

func newStubStore() *stubStore {
	return &stubStore{
		durable: map[string]string{},
		session: map[string]map[string]string{},
		failSet: map[string]bool{},
	}
}

func (s *stubStore) area(scope domain.Scope) map[string]string {
	a, ok := s.session[scope.BrowserSession]
	if !ok {
		a = map[string]string{}
		s.session[scope.BrowserSession] = a
	}
	return a
}

func (s *stubStore) SetItem(_ context.Context, scope domain.Scope, key, value string, remember bool) error {
	if s.failSet[key] {
		return errors.New("store unavailable")
	}
	if remember {
		s.durable[key] = value
	} else {
		s.area(scope)[key] = value
	}
	return nil
}

func (s *stubStore) GetItem(_ context.Context, scope domain.Scope, key string) (string, bool, error) {
	if s.failGet {
		return "", false, errors.New("store unavailable")
	}
	if v, ok := s.durable[key]; ok {
		return v, true, nil
	}
	v, ok := s.area(scope)[key]
	return v, ok, nil
}

func (s *stubStore) RemoveItem(_ context.Context, scope domain.Scope, key string) error {
	delete(s.durable, key)
	delete(s.area(scope), key)
	return nil
}

func (s *stubStore) empty(scope domain.Scope) bool {
	return len(s.durable) == 0 && len(s.area(scope)) == 0
}

var (
	tab1       = domain.Scope{Client: "device-1", BrowserSession: "bs-1"}
	restart    = domain.Scope{Client: "device-1", BrowserSession: "bs-2"}
	alice      = &domain.User{ID: "u1", Email: "alice@example.com", Name: "Alice", Role: domain.RoleBuilder}
	testSecret = "test-secret"
)

func newTestAuthService(store *stubStore) *AuthService {
	return NewAuthService(store, NewTokenMinter(testSecret), zerolog.Nop())
}

func TestAuthContext_StartsLoading(t *testing.T) {
	svc := newTestAuthService(newStubStore())
	ac := svc.Context(tab1)

	st := ac.State()
	if !st.IsLoading {
		t.Fatalf("expected loading before Init")
	}
	if st.User != nil {
		t.Fatalf("expected no user before Init")
	}
	if d := domain.RequireAuth(st); d.Kind != domain.DecisionPending {
		t.Fatalf("expected pending decision while loading, got %s", d.Kind)
	}
}

func TestAuthContext_InitAnonymous(t *testing.T) {
	svc := newTestAuthService(newStubStore())
	ac := svc.Context(tab1)
	ac.Init(context.Background())

	if ac.State().IsLoading {
		t.Fatalf("expected loading to be false after Init")
	}
	if ac.IsAuthenticated() {
		t.Fatalf("expected anonymous context")
	}
	if ac.Outcome() != domain.RestoreAnonymous {
		t.Fatalf("unexpected outcome: %s", ac.Outcome())
	}
}

func TestAuthContext_LoginThenRestore(t *testing.T) {
	store := newStubStore()
	svc := newTestAuthService(store)
	ctx := context.Background()

	ac := svc.Context(tab1)
	ac.Init(ctx)
	token, err := ac.Login(ctx, alice, false)
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token")
	}
	if !ac.IsAuthenticated() || ac.User().ID != "u1" {
		t.Fatalf("expected alice to be current user")
	}

	// Same browser session: restored.
	again := svc.Context(tab1)
	again.Init(ctx)
	if again.Outcome() != domain.RestoreRestored {
		t.Fatalf("expected restored, got %s", again.Outcome())
	}
	if *again.User() != *alice {
		t.Fatalf("restored user mismatch: %+v", again.User())
	}

	// Browser restart without remember: gone.
	after := svc.Context(restart)
	after.Init(ctx)
	if after.IsAuthenticated() {
		t.Fatalf("expected session-only login to be forgotten after restart")
	}
}

func TestAuthContext_RememberSurvivesRestart(t *testing.T) {
	store := newStubStore()
	svc := newTestAuthService(store)
	ctx := context.Background()

	ac := svc.Context(tab1)
	ac.Init(ctx)
	if _, err := ac.Login(ctx, alice, true); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	after := svc.Context(restart)
	after.Init(ctx)
	if !after.IsAuthenticated() {
		t.Fatalf("expected remembered login to survive restart")
	}
}

func TestAuthContext_LoginReplacesOtherArea(t *testing.T) {
	store := newStubStore()
	svc := newTestAuthService(store)
	ctx := context.Background()

	ac := svc.Context(tab1)
	ac.Init(ctx)
	if _, err := ac.Login(ctx, alice, true); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	bob := &domain.User{ID: "u2", Email: "bob@example.com", Name: "Bob", Role: domain.RoleSubcontractor}
	if _, err := ac.Login(ctx, bob, false); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if len(store.durable) != 0 {
		t.Fatalf("expected durable area to be cleared, got %v", store.durable)
	}

	again := svc.Context(tab1)
	again.Init(ctx)
	if again.User() == nil || again.User().ID != "u2" {
		t.Fatalf("expected bob to be restored, got %+v", again.User())
	}
}

func TestAuthContext_TokenClaims(t *testing.T) {
	svc := newTestAuthService(newStubStore())
	ac := svc.Context(tab1)
	ac.Init(context.Background())

	token, err := ac.Login(context.Background(), alice, false)
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	parsed, err := jwt.Parse(token, func(*jwt.Token) (interface{}, error) { return []byte(testSecret), nil })
	if err != nil || !parsed.Valid {
		t.Fatalf("token did not verify: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if claims["sub"] != "u1" || claims["role"] != "builder" {
		t.Fatalf("unexpected claims: %v", claims)
	}
}

func TestAuthContext_LoginRejectsInvalidUser(t *testing.T) {
	store := newStubStore()
	svc := newTestAuthService(store)
	ac := svc.Context(tab1)
	ac.Init(context.Background())

	for _, u := range []*domain.User{nil, {ID: "", Role: domain.RoleBuilder}, {ID: "x", Role: "owner"}} {
		if _, err := ac.Login(context.Background(), u, false); !errors.Is(err, domain.ErrInvalidUser) {
			t.Fatalf("expected ErrInvalidUser for %+v, got %v", u, err)
		}
	}
	if !store.empty(tab1) {
		t.Fatalf("expected nothing stored")
	}
}

func TestAuthContext_LoginUserWriteFailureLeavesNoToken(t *testing.T) {
	store := newStubStore()
	store.failSet[domain.UserKey] = true
	svc := newTestAuthService(store)
	ac := svc.Context(tab1)
	ac.Init(context.Background())

	if _, err := ac.Login(context.Background(), alice, false); err == nil {
		t.Fatalf("expected error")
	}
	if !store.empty(tab1) {
		t.Fatalf("expected half-written record to be removed")
	}
	if ac.IsAuthenticated() {
		t.Fatalf("expected context to stay anonymous")
	}
}

func TestAuthContext_Logout(t *testing.T) {
	store := newStubStore()
	svc := newTestAuthService(store)
	ctx := context.Background()

	ac := svc.Context(tab1)
	ac.Init(ctx)
	if _, err := ac.Login(ctx, alice, true); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	// A stale session-area record from an older login must go too.
	store.area(tab1)[domain.TokenKey] = "stale"

	if next := ac.Logout(ctx); next != domain.PathLogin {
		t.Fatalf("expected redirect to login, got %q", next)
	}
	if ac.IsAuthenticated() {
		t.Fatalf("expected signed out context")
	}
	if !store.empty(tab1) {
		t.Fatalf("expected both areas to be cleared")
	}

	// Idempotent.
	if next := ac.Logout(ctx); next != domain.PathLogin {
		t.Fatalf("second logout: %q", next)
	}
}

func TestAuthContext_RestoreHealsCorruptRecords(t *testing.T) {
	cases := []struct {
		name string
		seed map[string]string
	}{
		{"token only", map[string]string{domain.TokenKey: "tok"}},
		{"user only", map[string]string{domain.UserKey: `{"id":"u1","role":"builder"}`}},
		{"bad json", map[string]string{domain.TokenKey: "tok", domain.UserKey: "{not json"}},
		{"unknown role", map[string]string{domain.TokenKey: "tok", domain.UserKey: `{"id":"u1","role":"owner"}`}},
		{"missing id", map[string]string{domain.TokenKey: "tok", domain.UserKey: `{"role":"admin"}`}},
		{"empty token", map[string]string{domain.TokenKey: "", domain.UserKey: `{"id":"u1","role":"builder"}`}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newStubStore()
			for k, v := range tc.seed {
				store.durable[k] = v
			}
			ac := newTestAuthService(store).Context(tab1)
			ac.Init(context.Background())

			if ac.IsAuthenticated() {
				t.Fatalf("expected anonymous after corrupt record")
			}
			if ac.State().IsLoading {
				t.Fatalf("expected loading to finish")
			}
			if ac.Outcome() != domain.RestoreCorrupted {
				t.Fatalf("unexpected outcome: %s", ac.Outcome())
			}
			if !store.empty(tab1) {
				t.Fatalf("expected storage to be cleaned up")
			}
		})
	}
}

func TestAuthContext_RestoreReadFailure(t *testing.T) {
	store := newStubStore()
	store.failGet = true
	ac := newTestAuthService(store).Context(tab1)
	ac.Init(context.Background())

	if ac.IsAuthenticated() || ac.State().IsLoading {
		t.Fatalf("expected anonymous, settled context")
	}
}

func TestAuthContext_InitRunsOnce(t *testing.T) {
	store := newStubStore()
	svc := newTestAuthService(store)
	ctx := context.Background()

	ac := svc.Context(tab1)
	ac.Init(ctx)

	raw, _ := json.Marshal(alice)
	store.durable[domain.TokenKey] = "tok"
	store.durable[domain.UserKey] = string(raw)

	ac.Init(ctx)
	if ac.IsAuthenticated() {
		t.Fatalf("second Init must not re-read storage")
	}
}

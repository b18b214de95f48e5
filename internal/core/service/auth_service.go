package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/quotemate/gateway/internal/core/domain"
	"github.com/quotemate/gateway/internal/core/ports"
)

// AuthService creates AuthContexts bound to a client scope.
type AuthService struct {
	store  ports.SessionStore
	tokens *TokenMinter
	log    zerolog.Logger
}

func NewAuthService(store ports.SessionStore, tokens *TokenMinter, log zerolog.Logger) *AuthService {
	return &AuthService{store: store, tokens: tokens, log: log}
}

// Context returns a fresh AuthContext for scope. It starts in the loading
// state; call Init before reading it.
func (s *AuthService) Context(scope domain.Scope) *AuthContext {
	return &AuthContext{svc: s, scope: scope, loading: true}
}

// AuthContext is the single source of truth for who is signed in within one
// scope. It is created per request and must not be shared between goroutines
// that outlive the request.
type AuthContext struct {
	svc   *AuthService
	scope domain.Scope

	once    sync.Once
	mu      sync.RWMutex
	user    *domain.User
	loading bool
	outcome domain.RestoreOutcome
}

// Init restores the session from storage. Only the first call has any
// effect. Unreadable or half-written records are removed and leave the
// context signed out; Init never fails.
func (c *AuthContext) Init(ctx context.Context) {
	c.once.Do(func() {
		user, outcome := c.restore(ctx)

		c.mu.Lock()
		c.user = user
		c.outcome = outcome
		c.loading = false
		c.mu.Unlock()
	})
}

func (c *AuthContext) restore(ctx context.Context) (user *domain.User, outcome domain.RestoreOutcome) {
	log := c.svc.log.With().Str("client", c.scope.Client).Logger()

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("auth restore panicked, clearing session")
			c.clear(ctx)
			user, outcome = nil, domain.RestoreCorrupted
		}
	}()

	token, hasToken, err := c.svc.store.GetItem(ctx, c.scope, domain.TokenKey)
	if err != nil {
		log.Warn().Err(err).Msg("failed to read session token, clearing session")
		c.clear(ctx)
		return nil, domain.RestoreCorrupted
	}
	raw, hasUser, err := c.svc.store.GetItem(ctx, c.scope, domain.UserKey)
	if err != nil {
		log.Warn().Err(err).Msg("failed to read session user, clearing session")
		c.clear(ctx)
		return nil, domain.RestoreCorrupted
	}

	if !hasToken && !hasUser {
		return nil, domain.RestoreAnonymous
	}
	if !hasToken || !hasUser || token == "" || raw == "" {
		log.Warn().Bool("token", hasToken).Bool("user", hasUser).Msg("partial session record, clearing session")
		c.clear(ctx)
		return nil, domain.RestoreCorrupted
	}

	var u domain.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		log.Warn().Err(err).Msg("unparseable session user, clearing session")
		c.clear(ctx)
		return nil, domain.RestoreCorrupted
	}
	if err := u.Validate(); err != nil {
		log.Warn().Err(err).Msg("invalid session user, clearing session")
		c.clear(ctx)
		return nil, domain.RestoreCorrupted
	}
	return &u, domain.RestoreRestored
}

// Login stores a new session record for user and makes it current. It does
// not talk to the backend; the caller must already hold the authoritative
// user. Any previous record in either area is dropped first so the two keys
// always describe the same session.
func (c *AuthContext) Login(ctx context.Context, user *domain.User, remember bool) (string, error) {
	if err := user.Validate(); err != nil {
		return "", err
	}

	token, err := c.svc.tokens.Mint(user)
	if err != nil {
		return "", fmt.Errorf("mint session token: %w", err)
	}
	payload, err := json.Marshal(user)
	if err != nil {
		return "", fmt.Errorf("encode session user: %w", err)
	}

	if err := c.removeKeys(ctx); err != nil {
		return "", fmt.Errorf("reset session: %w", err)
	}
	if err := c.svc.store.SetItem(ctx, c.scope, domain.TokenKey, token, remember); err != nil {
		return "", fmt.Errorf("store session token: %w", err)
	}
	if err := c.svc.store.SetItem(ctx, c.scope, domain.UserKey, string(payload), remember); err != nil {
		c.clear(ctx)
		return "", fmt.Errorf("store session user: %w", err)
	}

	u := *user
	c.once.Do(func() {})
	c.mu.Lock()
	c.user = &u
	c.loading = false
	c.mu.Unlock()

	c.svc.log.Info().
		Str("client", c.scope.Client).
		Str("user_id", u.ID).
		Str("role", string(u.Role)).
		Bool("remember", remember).
		Msg("session started")
	return token, nil
}

// Logout removes the session record from both areas, clears the current
// user and returns the path of the login view. It cannot fail; storage
// errors are logged.
func (c *AuthContext) Logout(ctx context.Context) string {
	c.clear(ctx)

	c.once.Do(func() {})
	c.mu.Lock()
	prev := c.user
	c.user = nil
	c.loading = false
	c.mu.Unlock()

	ev := c.svc.log.Info().Str("client", c.scope.Client)
	if prev != nil {
		ev = ev.Str("user_id", prev.ID)
	}
	ev.Msg("session ended")
	return domain.PathLogin
}

// State returns a snapshot of the context.
func (c *AuthContext) State() domain.AuthState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var u *domain.User
	if c.user != nil {
		cp := *c.user
		u = &cp
	}
	return domain.AuthState{User: u, IsLoading: c.loading}
}

// User returns the current user or nil.
func (c *AuthContext) User() *domain.User {
	return c.State().User
}

func (c *AuthContext) IsAuthenticated() bool {
	return c.State().IsAuthenticated()
}

// Outcome reports what Init found. It is empty before Init has run.
func (c *AuthContext) Outcome() domain.RestoreOutcome {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.outcome
}

// Scope returns the storage scope the context is bound to.
func (c *AuthContext) Scope() domain.Scope {
	return c.scope
}

func (c *AuthContext) removeKeys(ctx context.Context) error {
	if err := c.svc.store.RemoveItem(ctx, c.scope, domain.TokenKey); err != nil {
		return err
	}
	return c.svc.store.RemoveItem(ctx, c.scope, domain.UserKey)
}

// clear removes both keys and only logs failures.
func (c *AuthContext) clear(ctx context.Context) {
	for _, key := range []string{domain.TokenKey, domain.UserKey} {
		if err := c.svc.store.RemoveItem(ctx, c.scope, key); err != nil {
			c.svc.log.Error().Err(err).Str("client", c.scope.Client).Str("key", key).Msg("failed to remove session key")
		}
	}
}

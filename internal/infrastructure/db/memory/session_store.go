package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/quotemate/gateway/internal/core/domain"
)

const maxEntries = 100_000

// SessionStore is an in-process session store for local development and
// tests. Contents are lost on restart.
type SessionStore struct {
	durable   *expirable.LRU[string, string]
	ephemeral *expirable.LRU[string, string]
}

func NewSessionStore(durableTTL, ephemeralTTL time.Duration) *SessionStore {
	return &SessionStore{
		durable:   expirable.NewLRU[string, string](maxEntries, nil, durableTTL),
		ephemeral: expirable.NewLRU[string, string](maxEntries, nil, ephemeralTTL),
	}
}

func (s *SessionStore) SetItem(_ context.Context, scope domain.Scope, key, value string, remember bool) error {
	if !scope.Valid() {
		return fmt.Errorf("session set %s: invalid scope", key)
	}
	if remember {
		s.durable.Add(durableKey(scope, key), value)
	} else {
		s.ephemeral.Add(sessionKey(scope, key), value)
	}
	return nil
}

func (s *SessionStore) GetItem(_ context.Context, scope domain.Scope, key string) (string, bool, error) {
	if !scope.Valid() {
		return "", false, nil
	}
	if v, ok := s.durable.Get(durableKey(scope, key)); ok {
		return v, true, nil
	}
	v, ok := s.ephemeral.Get(sessionKey(scope, key))
	return v, ok, nil
}

func (s *SessionStore) RemoveItem(_ context.Context, scope domain.Scope, key string) error {
	s.durable.Remove(durableKey(scope, key))
	s.ephemeral.Remove(sessionKey(scope, key))
	return nil
}

func durableKey(scope domain.Scope, key string) string {
	return scope.Client + "|" + key
}

func sessionKey(scope domain.Scope, key string) string {
	return scope.Client + "|" + scope.BrowserSession + "|" + key
}

// InFlightGuard is the in-process counterpart of the Redis guard.
type InFlightGuard struct {
	mu    sync.Mutex
	locks *expirable.LRU[string, struct{}]
}

func NewInFlightGuard(ttl time.Duration) *InFlightGuard {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &InFlightGuard{locks: expirable.NewLRU[string, struct{}](maxEntries, nil, ttl)}
}

func (g *InFlightGuard) Acquire(_ context.Context, client, form string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	k := client + "|" + form
	if _, held := g.locks.Get(k); held {
		return false, nil
	}
	g.locks.Add(k, struct{}{})
	return true, nil
}

func (g *InFlightGuard) Release(_ context.Context, client, form string) error {
	g.locks.Remove(client + "|" + form)
	return nil
}

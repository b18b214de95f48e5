package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/quotemate/gateway/internal/core/domain"
)

const (
	DefaultDurableTTL   = 30 * 24 * time.Hour
	DefaultEphemeralTTL = 12 * time.Hour
)

// SessionStore keeps the two storage areas of each client in Redis.
// Key format:
//
//	qm:local:<client>:<key>           durable area
//	qm:session:<client>:<bsid>:<key>  browser-session area
type SessionStore struct {
	client       *redis.Client
	durableTTL   time.Duration
	ephemeralTTL time.Duration
}

// NewSessionStore creates a SessionStore. Non-positive TTLs fall back to the
// defaults.
func NewSessionStore(client *redis.Client, durableTTL, ephemeralTTL time.Duration) *SessionStore {
	if durableTTL <= 0 {
		durableTTL = DefaultDurableTTL
	}
	if ephemeralTTL <= 0 {
		ephemeralTTL = DefaultEphemeralTTL
	}
	return &SessionStore{client: client, durableTTL: durableTTL, ephemeralTTL: ephemeralTTL}
}

func (s *SessionStore) SetItem(ctx context.Context, scope domain.Scope, key, value string, remember bool) error {
	if !scope.Valid() {
		return fmt.Errorf("session set %s: invalid scope", key)
	}
	k, ttl := s.sessionKey(scope, key), s.ephemeralTTL
	if remember {
		k, ttl = s.durableKey(scope, key), s.durableTTL
	}
	if err := s.client.Set(ctx, k, value, ttl).Err(); err != nil {
		return fmt.Errorf("session set %s: %w", key, err)
	}
	return nil
}

func (s *SessionStore) GetItem(ctx context.Context, scope domain.Scope, key string) (string, bool, error) {
	if !scope.Valid() {
		return "", false, nil
	}
	for _, k := range []string{s.durableKey(scope, key), s.sessionKey(scope, key)} {
		v, err := s.client.Get(ctx, k).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return "", false, fmt.Errorf("session get %s: %w", key, err)
		}
		return v, true, nil
	}
	return "", false, nil
}

func (s *SessionStore) RemoveItem(ctx context.Context, scope domain.Scope, key string) error {
	if !scope.Valid() {
		return nil
	}
	if err := s.client.Del(ctx, s.durableKey(scope, key), s.sessionKey(scope, key)).Err(); err != nil {
		return fmt.Errorf("session remove %s: %w", key, err)
	}
	return nil
}

func (s *SessionStore) durableKey(scope domain.Scope, key string) string {
	return fmt.Sprintf("qm:local:%s:%s", scope.Client, key)
}

func (s *SessionStore) sessionKey(scope domain.Scope, key string) string {
	return fmt.Sprintf("qm:session:%s:%s:%s", scope.Client, scope.BrowserSession, key)
}

package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultInFlightTTL = 2 * time.Minute

// InFlightGuard allows one submission per form and client at a time.
// Key format: qm:inflight:<client>:<form>
// The TTL releases locks left behind by requests that never finished.
type InFlightGuard struct {
	client *redis.Client
	ttl    time.Duration
}

func NewInFlightGuard(client *redis.Client, ttl time.Duration) *InFlightGuard {
	if ttl <= 0 {
		ttl = defaultInFlightTTL
	}
	return &InFlightGuard{client: client, ttl: ttl}
}

// Acquire reports whether the caller now holds the lock.
func (g *InFlightGuard) Acquire(ctx context.Context, client, form string) (bool, error) {
	ok, err := g.client.SetNX(ctx, g.key(client, form), "1", g.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("inflight acquire: %w", err)
	}
	return ok, nil
}

func (g *InFlightGuard) Release(ctx context.Context, client, form string) error {
	return g.client.Del(ctx, g.key(client, form)).Err()
}

func (g *InFlightGuard) key(client, form string) string {
	return fmt.Sprintf("qm:inflight:%s:%s", client, form)
}

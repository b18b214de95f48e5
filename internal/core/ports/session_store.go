package ports

import (
	"context"

	"github.com/quotemate/gateway/internal/core/domain"
)

// SessionStore persists small string values in one of two areas: a durable
// one that survives browser restarts and a session-scoped one that does not.
type SessionStore interface {
	// SetItem writes to the durable area when remember is true, otherwise to
	// the session-scoped area.
	SetItem(ctx context.Context, scope domain.Scope, key, value string, remember bool) error
	// GetItem reads the durable area first and falls back to the session area.
	GetItem(ctx context.Context, scope domain.Scope, key string) (string, bool, error)
	// RemoveItem deletes key from both areas.
	RemoveItem(ctx context.Context, scope domain.Scope, key string) error
}

// SubmissionGuard ensures at most one in-flight submission per form and client.
type SubmissionGuard interface {
	Acquire(ctx context.Context, client, form string) (bool, error)
	Release(ctx context.Context, client, form string) error
}

package ports

import (
	"context"

	"github.com/quotemate/gateway/internal/core/domain"
)

// AccountRepository stores demo accounts.
type AccountRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.DemoAccount, error)
	Upsert(ctx context.Context, account *domain.DemoAccount) error
}

// CallRepository persists the outbound call log.
type CallRepository interface {
	Insert(ctx context.Context, record *domain.CallRecord) error
	// ListByBuilder returns the most recent calls first. An empty builderID
	// lists every builder's calls.
	ListByBuilder(ctx context.Context, builderID string, limit int) ([]domain.CallRecord, error)
}

// CallRecorder accepts call records for asynchronous persistence.
type CallRecorder interface {
	Record(record domain.CallRecord)
}

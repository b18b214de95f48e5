package ports

import (
	"context"
	"encoding/json"

	"github.com/quotemate/gateway/internal/core/domain"
)

// AuthBackend covers the backend's account endpoints.
type AuthBackend interface {
	Login(ctx context.Context, email, password string) (*domain.User, error)
	Signup(ctx context.Context, email, password, userType string) (string, error)
}

// MatchBackend covers the matching endpoints.
type MatchBackend interface {
	MatchSubcontractors(ctx context.Context, filter domain.MatchFilter) (*domain.MatchSet, error)
	MatchSubcontractorsFromFile(ctx context.Context, filter domain.MatchFilter) (*domain.MatchSet, error)
	MatchProjects(ctx context.Context, filter domain.MatchFilter) ([]domain.ProjectMatch, error)
}

// RetellBackend covers detail lookups and outbound call triggers.
type RetellBackend interface {
	Subcontractor(ctx context.Context, id string) (json.RawMessage, error)
	Project(ctx context.Context, id string) (json.RawMessage, error)
	ContactedSubcontractors(ctx context.Context, builderID string) (json.RawMessage, error)
	StartCall(ctx context.Context, req domain.CallRequest) error
	TriggerWebhook(ctx context.Context, call domain.WebhookCall) error
}

// FileBackend covers document extraction.
type FileBackend interface {
	ProcessFiles(ctx context.Context, userID string, files []domain.UploadFile) (*domain.ProcessResult, error)
}

// Backend is the full remote QuoteMate API.
type Backend interface {
	AuthBackend
	MatchBackend
	RetellBackend
	FileBackend
}

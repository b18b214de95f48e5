package ports

import (
	"context"
	"io"

	"github.com/quotemate/gateway/internal/core/domain"
)

// Authenticator verifies credentials and creates accounts.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
	Register(ctx context.Context, email, password, userType string) (string, error)
}

// MatchService runs subcontractor and project searches.
type MatchService interface {
	SearchSubcontractors(ctx context.Context, filter domain.MatchFilter) (*domain.MatchSet, error)
	SearchSubcontractorsFromFile(ctx context.Context, filter domain.MatchFilter) (*domain.MatchSet, error)
	SearchProjects(ctx context.Context, filter domain.MatchFilter) ([]domain.ProjectMatch, error)
}

// StartCallInput carries everything needed to start an RFQ call.
type StartCallInput struct {
	Builder         *domain.User
	Project         domain.ProjectInfo
	PhoneNumber     string
	RFQ             string
	SubcontractorID string
}

// CallOutcome reports what happened to a call request. The SPA shows the
// in-progress popup either way; BackendOK tells it whether the call started.
type CallOutcome struct {
	Record    domain.CallRecord
	BackendOK bool
	Message   string
}

// CallService starts outbound calls and reads the call log.
type CallService interface {
	StartCall(ctx context.Context, in StartCallInput) (*CallOutcome, error)
	History(ctx context.Context, user *domain.User, limit int) ([]domain.CallRecord, error)
	TriggerWebhook(ctx context.Context, call domain.WebhookCall) error
}

// UploadService validates and forwards project documents.
type UploadService interface {
	Process(ctx context.Context, userID string, files []domain.UploadFile) (*domain.ProcessResult, error)
}

// DirectoryService parses a builder's subcontractor spreadsheet.
type DirectoryService interface {
	Import(fileName string, r io.Reader) (*domain.DirectoryImport, error)
}

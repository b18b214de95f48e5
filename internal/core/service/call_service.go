package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/quotemate/gateway/internal/core/domain"
	"github.com/quotemate/gateway/internal/core/ports"
)

// DefaultRFQ is sent when the builder did not write one.
const DefaultRFQ = "RFQ details to be discussed"

type callService struct {
	backend  ports.RetellBackend
	recorder ports.CallRecorder
	calls    ports.CallRepository
	log      zerolog.Logger
	now      func() time.Time
}

// NewCallService returns a CallService. recorder and calls may be nil when no
// call log is configured.
func NewCallService(backend ports.RetellBackend, recorder ports.CallRecorder, calls ports.CallRepository, log zerolog.Logger) ports.CallService {
	return &callService{backend: backend, recorder: recorder, calls: calls, log: log, now: time.Now}
}

// StartCall asks the backend to phone a subcontractor. A backend failure is
// not an error: the outcome carries BackendOK=false and the message to show.
func (s *callService) StartCall(ctx context.Context, in ports.StartCallInput) (*ports.CallOutcome, error) {
	if in.Builder == nil {
		return nil, domain.ErrNotAuthenticated
	}
	rfq := strings.TrimSpace(in.RFQ)
	if rfq == "" {
		rfq = DefaultRFQ
	}

	req := domain.CallRequest{
		PhoneNumber:     strings.TrimSpace(in.PhoneNumber),
		BuilderName:     in.Builder.DisplayName(),
		RFQ:             rfq,
		ProjectID:       in.Project.ProjectID,
		SubcontractorID: in.SubcontractorID,
		BuilderID:       in.Builder.ID,
	}

	rec := domain.CallRecord{
		ID:              uuid.NewString(),
		BuilderID:       req.BuilderID,
		BuilderName:     req.BuilderName,
		SubcontractorID: req.SubcontractorID,
		ProjectID:       req.ProjectID,
		PhoneNumber:     req.PhoneNumber,
		Status:          domain.CallStatusStarted,
		CreatedAt:       s.now().UTC(),
	}
	out := &ports.CallOutcome{BackendOK: true}

	log := s.log.With().
		Str("builder_id", req.BuilderID).
		Str("subcontractor_id", req.SubcontractorID).
		Str("call_id", rec.ID).
		Logger()

	if err := s.backend.StartCall(ctx, req); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		rec.Status = domain.CallStatusFailed
		rec.Error = err.Error()
		out.BackendOK = false
		out.Message = domain.BackendMessage(err, "Failed to start the call. Please try again.")
		log.Warn().Err(err).Msg("call start failed")
	} else {
		log.Info().Msg("call started")
	}

	out.Record = rec
	if s.recorder != nil {
		s.recorder.Record(rec)
	}
	return out, nil
}

func (s *callService) History(ctx context.Context, user *domain.User, limit int) ([]domain.CallRecord, error) {
	if user == nil {
		return nil, domain.ErrNotAuthenticated
	}
	if s.calls == nil {
		return []domain.CallRecord{}, nil
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	builderID := user.ID
	if user.Role == domain.RoleAdmin {
		builderID = ""
	}
	return s.calls.ListByBuilder(ctx, builderID, limit)
}

func (s *callService) TriggerWebhook(ctx context.Context, call domain.WebhookCall) error {
	call.Name = strings.TrimSpace(call.Name)
	call.Phone = strings.TrimSpace(call.Phone)
	return s.backend.TriggerWebhook(ctx, call)
}

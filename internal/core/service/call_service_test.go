package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/quotemate/gateway/internal/core/domain"
	"github.com/quotemate/gateway/internal/core/ports"
)

type stubRetell struct {
	err     error
	req     domain.CallRequest
	webhook domain.WebhookCall
}

func (s *stubRetell) Subcontractor(context.Context, string) (json.RawMessage, error) { return nil, nil }
func (s *stubRetell) Project(context.Context, string) (json.RawMessage, error)       { return nil, nil }
func (s *stubRetell) ContactedSubcontractors(context.Context, string) (json.RawMessage, error) {
	return nil, nil
}

func (s *stubRetell) StartCall(_ context.Context, req domain.CallRequest) error {
	s.req = req
	return s.err
}

func (s *stubRetell) TriggerWebhook(_ context.Context, call domain.WebhookCall) error {
	s.webhook = call
	return s.err
}

type sliceRecorder struct{ records []domain.CallRecord }

func (r *sliceRecorder) Record(rec domain.CallRecord) { r.records = append(r.records, rec) }

type stubCalls struct {
	builderID string
	limit     int
}

func (s *stubCalls) Insert(context.Context, *domain.CallRecord) error { return nil }
func (s *stubCalls) ListByBuilder(_ context.Context, builderID string, limit int) ([]domain.CallRecord, error) {
	s.builderID, s.limit = builderID, limit
	return []domain.CallRecord{}, nil
}

func TestCallService_StartCall(t *testing.T) {
	backend := &stubRetell{}
	rec := &sliceRecorder{}
	svc := NewCallService(backend, rec, nil, zerolog.Nop())

	out, err := svc.StartCall(context.Background(), ports.StartCallInput{
		Builder:         &domain.User{ID: "b1", Role: domain.RoleBuilder},
		Project:         domain.ProjectInfo{ProjectID: "p9"},
		PhoneNumber:     " +15550001 ",
		SubcontractorID: "s3",
	})
	if err != nil {
		t.Fatalf("StartCall returned error: %v", err)
	}
	if !out.BackendOK {
		t.Fatalf("expected backend ok")
	}
	if backend.req.RFQ != DefaultRFQ {
		t.Fatalf("expected default rfq, got %q", backend.req.RFQ)
	}
	if backend.req.BuilderName != "Unknown Builder" || backend.req.ProjectID != "p9" || backend.req.PhoneNumber != "+15550001" {
		t.Fatalf("unexpected request: %+v", backend.req)
	}
	if len(rec.records) != 1 || rec.records[0].Status != domain.CallStatusStarted || rec.records[0].ID == "" {
		t.Fatalf("unexpected records: %+v", rec.records)
	}
}

func TestCallService_BackendFailureIsNotAnError(t *testing.T) {
	backend := &stubRetell{err: domain.ErrBackendUnavailable}
	rec := &sliceRecorder{}
	svc := NewCallService(backend, rec, nil, zerolog.Nop())

	out, err := svc.StartCall(context.Background(), ports.StartCallInput{
		Builder: &domain.User{ID: "b1", Name: "Acme", Role: domain.RoleBuilder},
		RFQ:     "Quote for wiring",
	})
	if err != nil {
		t.Fatalf("StartCall returned error: %v", err)
	}
	if out.BackendOK {
		t.Fatalf("expected backend failure to be reported")
	}
	if out.Message != domain.NetworkErrorMessage {
		t.Fatalf("unexpected message %q", out.Message)
	}
	if rec.records[0].Status != domain.CallStatusFailed {
		t.Fatalf("expected failed record")
	}
}

func TestCallService_RequiresBuilder(t *testing.T) {
	svc := NewCallService(&stubRetell{}, nil, nil, zerolog.Nop())
	if _, err := svc.StartCall(context.Background(), ports.StartCallInput{}); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestCallService_History(t *testing.T) {
	calls := &stubCalls{}
	svc := NewCallService(&stubRetell{}, nil, calls, zerolog.Nop())

	if _, err := svc.History(context.Background(), &domain.User{ID: "b1", Role: domain.RoleBuilder}, 0); err != nil {
		t.Fatalf("History returned error: %v", err)
	}
	if calls.builderID != "b1" || calls.limit != 50 {
		t.Fatalf("unexpected query: %+v", calls)
	}

	if _, err := svc.History(context.Background(), &domain.User{ID: "a1", Role: domain.RoleAdmin}, 10); err != nil {
		t.Fatalf("History returned error: %v", err)
	}
	if calls.builderID != "" || calls.limit != 10 {
		t.Fatalf("admin should list all builders: %+v", calls)
	}
}

func TestCallService_TriggerWebhook(t *testing.T) {
	backend := &stubRetell{}
	svc := NewCallService(backend, nil, nil, zerolog.Nop())
	if err := svc.TriggerWebhook(context.Background(), domain.WebhookCall{Name: " Ann ", Phone: "+1 "}); err != nil {
		t.Fatalf("TriggerWebhook returned error: %v", err)
	}
	if backend.webhook.Name != "Ann" || backend.webhook.Phone != "+1" {
		t.Fatalf("unexpected webhook payload: %+v", backend.webhook)
	}
}

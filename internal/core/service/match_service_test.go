package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/quotemate/gateway/internal/core/domain"
)

type stubMatchBackend struct {
	got domain.MatchFilter
	set *domain.MatchSet
}

func (b *stubMatchBackend) MatchSubcontractors(_ context.Context, f domain.MatchFilter) (*domain.MatchSet, error) {
	b.got = f
	return b.set, nil
}

func (b *stubMatchBackend) MatchSubcontractorsFromFile(_ context.Context, f domain.MatchFilter) (*domain.MatchSet, error) {
	b.got = f
	return b.set, nil
}

func (b *stubMatchBackend) MatchProjects(_ context.Context, f domain.MatchFilter) ([]domain.ProjectMatch, error) {
	b.got = f
	return []domain.ProjectMatch{}, nil
}

func strp(s string) *string { return &s }

func TestMatchService_DropsBlankFilterFields(t *testing.T) {
	backend := &stubMatchBackend{set: &domain.MatchSet{Results: []domain.SubcontractorMatch{}}}
	svc := NewMatchService(backend, zerolog.Nop())

	_, err := svc.SearchSubcontractors(context.Background(), domain.MatchFilter{
		Trade:    strp("  electrical "),
		Location: strp("   "),
		Budget:   strp(""),
	})
	if err != nil {
		t.Fatalf("SearchSubcontractors returned error: %v", err)
	}
	if backend.got.Trade == nil || *backend.got.Trade != "electrical" {
		t.Fatalf("expected trimmed trade, got %v", backend.got.Trade)
	}
	if backend.got.Location != nil || backend.got.Budget != nil {
		t.Fatalf("expected blank fields to be dropped")
	}
}

func TestMatchService_FromFileNeedsProject(t *testing.T) {
	svc := NewMatchService(&stubMatchBackend{}, zerolog.Nop())
	if _, err := svc.SearchSubcontractorsFromFile(context.Background(), domain.MatchFilter{ProjectID: strp(" ")}); !errors.Is(err, domain.ErrProjectRequired) {
		t.Fatalf("expected error for missing project id, got %v", err)
	}
}

func TestWriteMatchesCSV(t *testing.T) {
	var buf bytes.Buffer
	err := WriteMatchesCSV(&buf, []domain.SubcontractorMatch{
		{SubcontractorID: "7", CompanyName: "Sparks, Inc", MatchedTrade: "electrical", SimilarityScore: 0.91234, Priority: 1, ContactPhone: "+1555"},
	})
	if err != nil {
		t.Fatalf("WriteMatchesCSV returned error: %v", err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid csv: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header and one row, got %d rows", len(rows))
	}
	if rows[1][1] != "Sparks, Inc" || rows[1][3] != "0.9123" || rows[1][6] != "+1555" {
		t.Fatalf("unexpected row: %v", rows[1])
	}
}

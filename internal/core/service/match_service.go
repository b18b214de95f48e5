package service

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/quotemate/gateway/internal/core/domain"
	"github.com/quotemate/gateway/internal/core/ports"
)

type matchService struct {
	backend ports.MatchBackend
	log     zerolog.Logger
}

func NewMatchService(backend ports.MatchBackend, log zerolog.Logger) ports.MatchService {
	return &matchService{backend: backend, log: log}
}

func (s *matchService) SearchSubcontractors(ctx context.Context, filter domain.MatchFilter) (*domain.MatchSet, error) {
	set, err := s.backend.MatchSubcontractors(ctx, normalizeFilter(filter))
	if err != nil {
		return nil, err
	}
	s.log.Debug().Int("results", len(set.Results)).Msg("subcontractor search done")
	return set, nil
}

func (s *matchService) SearchSubcontractorsFromFile(ctx context.Context, filter domain.MatchFilter) (*domain.MatchSet, error) {
	f := normalizeFilter(filter)
	if f.ProjectID == nil {
		return nil, domain.ErrProjectRequired
	}
	set, err := s.backend.MatchSubcontractorsFromFile(ctx, f)
	if err != nil {
		return nil, err
	}
	s.log.Debug().
		Str("project_id", *f.ProjectID).
		Int("results", len(set.Results)).
		Int("rfqs", len(set.RFQs)).
		Msg("file-based subcontractor search done")
	return set, nil
}

func (s *matchService) SearchProjects(ctx context.Context, filter domain.MatchFilter) ([]domain.ProjectMatch, error) {
	return s.backend.MatchProjects(ctx, normalizeFilter(filter))
}

// normalizeFilter trims every field and drops the ones that end up empty.
func normalizeFilter(f domain.MatchFilter) domain.MatchFilter {
	trim := func(p *string) *string {
		if p == nil {
			return nil
		}
		v := strings.TrimSpace(*p)
		if v == "" {
			return nil
		}
		return &v
	}
	return domain.MatchFilter{
		ProjectID:   trim(f.ProjectID),
		ProjectName: trim(f.ProjectName),
		Budget:      trim(f.Budget),
		Trade:       trim(f.Trade),
		Location:    trim(f.Location),
		Deadline:    trim(f.Deadline),
		Description: trim(f.Description),
	}
}

var matchCSVHeader = []string{
	"subcontractor_id", "company_name", "matched_trade", "similarity_score",
	"priority", "contact_email", "contact_phone",
}

// WriteMatchesCSV writes matches as a CSV sheet with a header row.
func WriteMatchesCSV(w io.Writer, matches []domain.SubcontractorMatch) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(matchCSVHeader); err != nil {
		return err
	}
	for _, m := range matches {
		row := []string{
			m.SubcontractorID.String(),
			m.CompanyName,
			m.MatchedTrade,
			strconv.FormatFloat(m.SimilarityScore, 'f', 4, 64),
			strconv.FormatFloat(m.Priority, 'f', -1, 64),
			m.ContactEmail,
			m.ContactPhone,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

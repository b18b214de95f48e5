package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MatchFilter is the sparse search payload shared by every match endpoint.
// Nil fields are left out of the request body.
type MatchFilter struct {
	ProjectID   *string `json:"project_id,omitempty"`
	ProjectName *string `json:"project_name,omitempty"`
	Budget      *string `json:"budget,omitempty"`
	Trade       *string `json:"trade,omitempty"`
	Location    *string `json:"location,omitempty"`
	Deadline    *string `json:"deadline,omitempty"`
	Description *string `json:"description,omitempty"`
}

// SubcontractorMatch is one ranked subcontractor returned by the backend.
type SubcontractorMatch struct {
	SubcontractorID    FlexString `json:"subcontractor_id"`
	CompanyName        string     `json:"company_name"`
	MatchedTrade       string     `json:"matched_trade"`
	SimilarityScore    float64    `json:"similarity_score"`
	Priority           float64    `json:"priority"`
	ContactEmail       string     `json:"contact_email,omitempty"`
	ContactPhone       string     `json:"contact_phone,omitempty"`
	AIGeneratedContent string     `json:"ai_generated_content,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

var subcontractorMatchFields = []string{
	"subcontractor_id", "company_name", "matched_trade", "similarity_score",
	"priority", "contact_email", "contact_phone", "ai_generated_content",
}

func (m *SubcontractorMatch) UnmarshalJSON(data []byte) error {
	type plain SubcontractorMatch
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	extra, err := splitExtra(data, subcontractorMatchFields...)
	if err != nil {
		return err
	}
	v.Extra = extra
	*m = SubcontractorMatch(v)
	return nil
}

func (m SubcontractorMatch) MarshalJSON() ([]byte, error) {
	type plain SubcontractorMatch
	return mergeExtra(plain(m), m.Extra)
}

// GeneratedRFQ is an AI-written request for quotation addressed to one
// subcontractor.
type GeneratedRFQ struct {
	SubcontractorID FlexString `json:"subcontractor_id"`
	Content         string     `json:"content"`
}

// rfqContentKeys lists the member names the backend has used for the body.
var rfqContentKeys = []string{"ai_generated_content", "rfq_content", "content", "rfq"}

func (r *GeneratedRFQ) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var out GeneratedRFQ
	if id, ok := raw["subcontractor_id"]; ok {
		if err := json.Unmarshal(id, &out.SubcontractorID); err != nil {
			return fmt.Errorf("rfq subcontractor_id: %w", err)
		}
	}
	for _, k := range rfqContentKeys {
		body, ok := raw[k]
		if !ok || bytes.Equal(bytes.TrimSpace(body), []byte("null")) {
			continue
		}
		if err := json.Unmarshal(body, &out.Content); err != nil {
			return fmt.Errorf("rfq %s: %w", k, err)
		}
		break
	}
	*r = out
	return nil
}

// MatchSet is the normalised result of a subcontractor search.
type MatchSet struct {
	Results []SubcontractorMatch `json:"results"`
	RFQs    []GeneratedRFQ       `json:"ai_generated_rfqs,omitempty"`
}

// DecodeMatchSet accepts the three response shapes the backend produces:
// a bare array, {"results": [...]}, or
// {"matched_subcontractors": [...], "ai_generated_rfqs": [...]}.
// RFQ bodies are copied onto matches that have no content of their own.
func DecodeMatchSet(data []byte) (*MatchSet, error) {
	data = bytes.TrimSpace(data)
	set := &MatchSet{}
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		set.Results = []SubcontractorMatch{}
		return set, nil
	}

	if data[0] == '[' {
		if err := json.Unmarshal(data, &set.Results); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBackendContract, err)
		}
		return set, nil
	}

	var envelope struct {
		Results               []SubcontractorMatch `json:"results"`
		MatchedSubcontractors []SubcontractorMatch `json:"matched_subcontractors"`
		AIGeneratedRFQs       []GeneratedRFQ       `json:"ai_generated_rfqs"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendContract, err)
	}

	switch {
	case envelope.Results != nil:
		set.Results = envelope.Results
	case envelope.MatchedSubcontractors != nil:
		set.Results = envelope.MatchedSubcontractors
	default:
		set.Results = []SubcontractorMatch{}
	}
	set.RFQs = envelope.AIGeneratedRFQs
	set.attachRFQs()
	return set, nil
}

func (s *MatchSet) attachRFQs() {
	if len(s.RFQs) == 0 {
		return
	}
	byID := make(map[FlexString]string, len(s.RFQs))
	for _, r := range s.RFQs {
		if r.SubcontractorID != "" && r.Content != "" {
			byID[r.SubcontractorID] = r.Content
		}
	}
	for i := range s.Results {
		m := &s.Results[i]
		if m.AIGeneratedContent != "" {
			continue
		}
		if body, ok := byID[m.SubcontractorID]; ok {
			m.AIGeneratedContent = body
		}
	}
}

// ProjectMatch is a project opportunity offered to a subcontractor.
type ProjectMatch struct {
	ProjectID       FlexString `json:"project_id"`
	ProjectName     string     `json:"project_name"`
	Location        string     `json:"location,omitempty"`
	Budget          FlexString `json:"budget,omitempty"`
	Deadline        string     `json:"deadline,omitempty"`
	Trade           string     `json:"trade,omitempty"`
	Description     string     `json:"description,omitempty"`
	SimilarityScore float64    `json:"similarity_score"`

	Extra map[string]json.RawMessage `json:"-"`
}

var projectMatchFields = []string{
	"project_id", "project_name", "location", "budget", "deadline", "trade", "description", "similarity_score",
}

func (m *ProjectMatch) UnmarshalJSON(data []byte) error {
	type plain ProjectMatch
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	extra, err := splitExtra(data, projectMatchFields...)
	if err != nil {
		return err
	}
	v.Extra = extra
	*m = ProjectMatch(v)
	return nil
}

func (m ProjectMatch) MarshalJSON() ([]byte, error) {
	type plain ProjectMatch
	return mergeExtra(plain(m), m.Extra)
}

// DecodeProjectMatches accepts a bare array or {"results": [...]}.
func DecodeProjectMatches(data []byte) ([]ProjectMatch, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return []ProjectMatch{}, nil
	}
	var out []ProjectMatch
	if data[0] == '[' {
		if err := json.Unmarshal(data, &out); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBackendContract, err)
		}
		return out, nil
	}
	var envelope struct {
		Results []ProjectMatch `json:"results"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendContract, err)
	}
	if envelope.Results == nil {
		return []ProjectMatch{}, nil
	}
	return envelope.Results, nil
}

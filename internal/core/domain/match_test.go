package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestDecodeMatchSet_Shapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		ids  []string
	}{
		{"bare array", `[{"subcontractor_id": 7, "company_name": "Acme"}]`, []string{"7"}},
		{"results envelope", `{"results": [{"subcontractor_id": "a"}, {"subcontractor_id": "b"}]}`, []string{"a", "b"}},
		{"matched envelope", `{"matched_subcontractors": [{"subcontractor_id": "x"}]}`, []string{"x"}},
		{"empty object", `{}`, nil},
		{"null", `null`, nil},
		{"empty body", ``, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := DecodeMatchSet([]byte(tt.body))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if set.Results == nil {
				t.Fatal("results must never be nil")
			}
			if len(set.Results) != len(tt.ids) {
				t.Fatalf("got %d results, want %d", len(set.Results), len(tt.ids))
			}
			for i, id := range tt.ids {
				if set.Results[i].SubcontractorID.String() != id {
					t.Errorf("result %d id = %q, want %q", i, set.Results[i].SubcontractorID, id)
				}
			}
		})
	}
}

func TestDecodeMatchSet_AttachesRFQs(t *testing.T) {
	body := `{
		"matched_subcontractors": [
			{"subcontractor_id": 1, "company_name": "One"},
			{"subcontractor_id": 2, "company_name": "Two", "ai_generated_content": "own"}
		],
		"ai_generated_rfqs": [
			{"subcontractor_id": "1", "rfq_content": "Dear One"},
			{"subcontractor_id": 2, "content": "Dear Two"}
		]
	}`
	set, err := DecodeMatchSet([]byte(body))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := set.Results[0].AIGeneratedContent; got != "Dear One" {
		t.Errorf("first match content = %q", got)
	}
	if got := set.Results[1].AIGeneratedContent; got != "own" {
		t.Errorf("existing content must win, got %q", got)
	}
}

func TestDecodeMatchSet_WrongTypeIsContractError(t *testing.T) {
	_, err := DecodeMatchSet([]byte(`[{"subcontractor_id": "1", "similarity_score": "high"}]`))
	if !errors.Is(err, ErrBackendContract) {
		t.Fatalf("expected ErrBackendContract, got %v", err)
	}
	_, err = DecodeMatchSet([]byte(`[{"subcontractor_id": {"nested": true}}]`))
	if !errors.Is(err, ErrBackendContract) {
		t.Fatalf("expected ErrBackendContract for object id, got %v", err)
	}
}

func TestSubcontractorMatch_KeepsUnknownFields(t *testing.T) {
	var m SubcontractorMatch
	in := `{"subcontractor_id": "9", "company_name": "Nine", "years_in_business": 12}`
	if err := json.Unmarshal([]byte(in), &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := m.Extra["years_in_business"]; !ok {
		t.Fatalf("unknown field dropped: %+v", m.Extra)
	}
	out, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(out), `"years_in_business":12`) {
		t.Fatalf("unknown field not written back: %s", out)
	}
}

func TestFlexString(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{`"abc"`, "abc", true},
		{`42`, "42", true},
		{`1.5e3`, "1.5e3", true},
		{`null`, "", true},
		{`["plumbing", "electrical"]`, "plumbing, electrical", true},
		{`true`, "", false},
		{`{"a": 1}`, "", false},
	}
	for _, tt := range tests {
		var f FlexString
		err := json.Unmarshal([]byte(tt.in), &f)
		if (err == nil) != tt.ok {
			t.Errorf("%s: error = %v, want ok=%v", tt.in, err, tt.ok)
			continue
		}
		if tt.ok && f.String() != tt.want {
			t.Errorf("%s: got %q, want %q", tt.in, f, tt.want)
		}
	}
}

func TestPersistedProject(t *testing.T) {
	saved := &ProcessResult{Success: true, ProjectExtraction: &ProjectExtraction{
		Success:       true,
		SupabaseSaved: true,
		SupabaseID:    "p-1",
		ProjectData:   &ProjectData{ProjectName: "Tower"},
	}}
	info, ok := saved.PersistedProject()
	if !ok || info.ProjectID != "p-1" || info.ProjectData.ProjectName != "Tower" {
		t.Fatalf("unexpected project: %+v, %v", info, ok)
	}

	notSaved := &ProcessResult{Success: true, ProjectExtraction: &ProjectExtraction{Success: true}}
	if _, ok := notSaved.PersistedProject(); ok {
		t.Fatal("unsaved extraction must not select a project")
	}
	var none *ProcessResult
	if _, ok := none.PersistedProject(); ok {
		t.Fatal("nil result must not select a project")
	}
}

func TestBackendMessage(t *testing.T) {
	rejected := fmt.Errorf("login: %w", &BackendError{Endpoint: "/auth/login", Status: 401, Message: "Invalid email or password."})
	if got := BackendMessage(rejected, "fallback"); got != "Invalid email or password." {
		t.Errorf("got %q", got)
	}
	if !errors.Is(rejected, ErrBackendRejected) {
		t.Error("BackendError must match ErrBackendRejected")
	}
	down := fmt.Errorf("/auth/login: %w: dial tcp", ErrBackendUnavailable)
	if got := BackendMessage(down, "fallback"); got != NetworkErrorMessage {
		t.Errorf("got %q", got)
	}
	if got := BackendMessage(errors.New("boom"), "fallback"); got != "fallback" {
		t.Errorf("got %q", got)
	}
}

package domain

import "encoding/json"

// ProjectData is what the extraction service pulled out of uploaded
// documents. Unknown members are kept in Extra and written back unchanged.
type ProjectData struct {
	ProjectName    string     `json:"project_name,omitempty"`
	Location       string     `json:"location,omitempty"`
	Budget         FlexString `json:"budget,omitempty"`
	AllTrades      FlexString `json:"all_trades,omitempty"`
	ProjectDueDate string     `json:"project_due_date,omitempty"`
	Description    string     `json:"description,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

var projectDataFields = []string{"project_name", "location", "budget", "all_trades", "project_due_date", "description"}

func (p *ProjectData) UnmarshalJSON(data []byte) error {
	type plain ProjectData
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	extra, err := splitExtra(data, projectDataFields...)
	if err != nil {
		return err
	}
	v.Extra = extra
	*p = ProjectData(v)
	return nil
}

func (p ProjectData) MarshalJSON() ([]byte, error) {
	type plain ProjectData
	return mergeExtra(plain(p), p.Extra)
}

// ProjectInfo is the scratch reference shared between the upload flow and
// the RFQ flow.
type ProjectInfo struct {
	ProjectID   string       `json:"project_id"`
	ProjectData *ProjectData `json:"project_data"`
}

// Empty reports whether no project is selected.
func (p ProjectInfo) Empty() bool {
	return p.ProjectID == "" && p.ProjectData == nil
}

// ProjectExtraction is the nested extraction block of /file/process.
type ProjectExtraction struct {
	Success         bool         `json:"success"`
	ProjectData     *ProjectData `json:"project_data,omitempty"`
	ConfidenceScore float64      `json:"confidence_score,omitempty"`
	SupabaseSaved   bool         `json:"supabase_saved"`
	SupabaseID      FlexString   `json:"supabase_id,omitempty"`
	SupabaseError   string       `json:"supabase_error,omitempty"`
}

// ProcessResult is the response of /file/process.
type ProcessResult struct {
	Success           bool               `json:"success"`
	Message           string             `json:"message,omitempty"`
	ProjectExtraction *ProjectExtraction `json:"project_extraction,omitempty"`
}

// PersistedProject returns the project reference the backend saved, if any.
func (r *ProcessResult) PersistedProject() (ProjectInfo, bool) {
	if r == nil || !r.Success || r.ProjectExtraction == nil {
		return ProjectInfo{}, false
	}
	ex := r.ProjectExtraction
	if !ex.Success || !ex.SupabaseSaved || ex.SupabaseID == "" {
		return ProjectInfo{}, false
	}
	return ProjectInfo{ProjectID: ex.SupabaseID.String(), ProjectData: ex.ProjectData}, true
}

// UploadFile is one file of a multipart upload after it has been read.
type UploadFile struct {
	Name        string
	ContentType string
	Data        []byte
}

package domain

// DirectoryEntry is one subcontractor row from a builder's own database
// export (CSV or Excel).
type DirectoryEntry struct {
	CompanyName string `json:"company_name"`
	Trade       string `json:"trade"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Location    string `json:"location,omitempty"`
}

// DirectoryRowError reports a row that could not be imported. Row is
// 1-based and counts the header row.
type DirectoryRowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// DirectoryImport summarises a parsed subcontractor database.
type DirectoryImport struct {
	FileName string              `json:"file_name"`
	Entries  []DirectoryEntry    `json:"entries"`
	Trades   map[string]int      `json:"trades"`
	Errors   []DirectoryRowError `json:"errors,omitempty"`
}

package types

// Export wire format ---------------------------------------------------------------

// FileSelection describes what to export from one file.
// A nil method list in Classes means the whole class; it encodes as JSON null.
type FileSelection struct {
	Functions []string            `json:"functions"`
	Classes   map[string][]string `json:"classes"`
}

// ExportRequest is the body of POST /export.
type ExportRequest struct {
	Root      string                   `json:"root"`
	Selection map[string]FileSelection `json:"selection"`
}

type ExportResponse struct {
	OK      bool   `json:"ok"`
	OutPath string `json:"out_path,omitempty"`
	Files   int    `json:"files,omitempty"`
	Tokens  int    `json:"tokens,omitempty"`
	Error   string `json:"error,omitempty"`
}

type TreeRequest struct {
	Root string `json:"root"`
}

// ExportEvent is pushed to websocket subscribers after each export attempt.
type ExportEvent struct {
	ID        string `json:"id"`
	Root      string `json:"root"`
	OK        bool   `json:"ok"`
	OutPath   string `json:"out_path,omitempty"`
	Files     int    `json:"files"`
	Tokens    int    `json:"tokens"`
	Error     string `json:"error,omitempty"`
	CreatedAt string `json:"created_at"`
}

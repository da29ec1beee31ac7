package tracker

// StatusID is the tracker's closed status vocabulary for a test result.
type StatusID int

// Status IDs as defined by the TestRail API.
const (
	StatusPassed   StatusID = 1
	StatusBlocked  StatusID = 2
	StatusUntested StatusID = 3
	StatusRetest   StatusID = 4
	StatusFailed   StatusID = 5
)

// Project represents a tracker project.
type Project struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	IsCompleted bool   `json:"is_completed"`
	URL         string `json:"url,omitempty"`
}

// Run represents a test run grouping entity.
type Run struct {
	ID          int    `json:"id"`
	SuiteID     int    `json:"suite_id,omitempty"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	IsCompleted bool   `json:"is_completed"`
	URL         string `json:"url,omitempty"`
}

// AddRunRequest is the payload for creating a run. When IncludeAll is false
// the run contains exactly the listed case IDs.
type AddRunRequest struct {
	SuiteID     int    `json:"suite_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IncludeAll  bool   `json:"include_all"`
	CaseIDs     []int  `json:"case_ids"`
}

// ResultRequest is the payload for pushing one result for a case within a
// run. Elapsed uses the tracker's duration syntax, e.g. "1.2s" or "2m 30s".
type ResultRequest struct {
	StatusID StatusID `json:"status_id"`
	Comment  string   `json:"comment,omitempty"`
	Elapsed  string   `json:"elapsed,omitempty"`
}

// Result represents a stored test result.
type Result struct {
	ID       int      `json:"id"`
	TestID   int      `json:"test_id,omitempty"`
	StatusID StatusID `json:"status_id"`
	Comment  string   `json:"comment,omitempty"`
	Elapsed  string   `json:"elapsed,omitempty"`
}

// ErrorResponse is the standard tracker error response shape.
type ErrorResponse struct {
	Error string `json:"error"`
}

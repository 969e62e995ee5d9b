package models

// CandidateLevel is the seniority the review is calibrated to.
type CandidateLevel string

const (
	LevelJunior CandidateLevel = "Junior"
	LevelMid    CandidateLevel = "Mid"
	LevelSenior CandidateLevel = "Senior"
)

// Valid reports whether the level is one of the supported values.
func (l CandidateLevel) Valid() bool {
	switch l {
	case LevelJunior, LevelMid, LevelSenior:
		return true
	default:
		return false
	}
}

// ReviewRequest is the input of a single review run.
type ReviewRequest struct {
	AssignmentDescription string         `json:"assignment_description"`
	RepositoryURL         string         `json:"github_repo_url"`
	CandidateLevel        CandidateLevel `json:"candidate_level"`
}

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Finding is one issue reported by the reviewer.
type Finding struct {
	File       *string  `json:"file"`
	Line       *int     `json:"line"`
	Severity   Severity `json:"severity"`
	Issue      string   `json:"issue"`
	Suggestion string   `json:"suggestion"`
}

// ReviewResult is the structured outcome returned to callers. RawText is only
// set when the model reply could not be decoded.
type ReviewResult struct {
	FilesFound    []string  `json:"files_found"`
	Rating        int       `json:"rating_out_of_5"`
	Summary       string    `json:"summary"`
	Findings      []Finding `json:"findings"`
	Conclusion    string    `json:"conclusion"`
	Truncated     bool      `json:"truncated"`
	IncludedFiles int       `json:"included_files"`
	TotalBytes    int       `json:"total_bytes"`
	RawText       *string   `json:"raw_text"`

	// Usage is reported to terminal users only; it is not part of the API body.
	Usage *TokenUsage `json:"-"`
}

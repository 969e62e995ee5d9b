package models

// Tier is the priority class of a candidate file.
type Tier int

const (
	// TierPrimary holds source code.
	TierPrimary Tier = iota
	// TierSecondary holds documentation and configuration.
	TierSecondary
)

func (t Tier) String() string {
	switch t {
	case TierPrimary:
		return "primary"
	case TierSecondary:
		return "secondary"
	default:
		return "unknown"
	}
}

// CandidateFile is a tree entry that passed the eligibility filter.
type CandidateFile struct {
	TreeEntry
	Tier Tier `json:"tier"`
}

// FileEntry is one file included in a rendered document.
type FileEntry struct {
	Path       string `json:"path"`
	ByteLength int    `json:"byte_length"`
	Preview    string `json:"preview"`
}

// RenderedDocument is the bounded set of file previews handed to the prompt.
type RenderedDocument struct {
	Repository    RepositoryReference `json:"repository"`
	Entries       []FileEntry         `json:"entries"`
	TotalBytes    int                 `json:"total_bytes"`
	FilesIncluded int                 `json:"files_included"`
	Truncated     bool                `json:"truncated"`
	// Dependencies are read from root manifests, apart from the file budget.
	Dependencies []Dependency `json:"dependencies,omitempty"`
}

// Paths lists the included file paths in document order.
func (d RenderedDocument) Paths() []string {
	paths := make([]string, len(d.Entries))
	for i, e := range d.Entries {
		paths[i] = e.Path
	}
	return paths
}

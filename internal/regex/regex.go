package regex

import "regexp"

var (
	// Repository references
	RepoSegment = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

	// HTTP
	RequestID = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)

	// AI and JSON parsing
	MarkdownFence = regexp.MustCompile("(?s)^```[A-Za-z0-9_+-]*[ \t]*\r?\n?(.*?)\r?\n?```$")
	JSONString    = regexp.MustCompile(`"(?:\\.|[^"\\])*"`)
	LeadingNumber = regexp.MustCompile(`^\s*(-?\d+(?:\.\d+)?)`)

	// Dependency manifests
	RequirementLine = regexp.MustCompile(`^([A-Za-z0-9][A-Za-z0-9._-]*)(?:\[[^\]]*\])?\s*(.*)$`)
)

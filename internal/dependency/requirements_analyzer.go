package dependency

import (
	"strings"

	"github.com/thomas-vilte/matereview/internal/models"
	"github.com/thomas-vilte/matereview/internal/regex"
)

var _ Analyzer = (*RequirementsAnalyzer)(nil)

type RequirementsAnalyzer struct{}

func NewRequirementsAnalyzer() *RequirementsAnalyzer {
	return &RequirementsAnalyzer{}
}

func (r *RequirementsAnalyzer) Name() string {
	return "pip"
}

func (r *RequirementsAnalyzer) Manifest() string {
	return "requirements.txt"
}

// Parse keeps file order. Options (-r, -e, --index-url), URLs and
// environment markers are skipped.
func (r *RequirementsAnalyzer) Parse(content []byte) ([]models.Dependency, error) {
	var deps []models.Dependency

	for _, line := range strings.Split(string(content), "\n") {
		if idx := strings.Index(line, "#"); idx != -1 {
			line = line[:idx]
		}
		if idx := strings.Index(line, ";"); idx != -1 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "-") || strings.Contains(line, "://") {
			continue
		}

		matches := regex.RequirementLine.FindStringSubmatch(line)
		if len(matches) < 3 {
			continue
		}
		deps = append(deps, models.Dependency{
			Name:    matches[1],
			Version: strings.ReplaceAll(matches[2], " ", ""),
			Manager: r.Name(),
		})
	}

	return deps, nil
}

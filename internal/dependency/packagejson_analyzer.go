package dependency

import (
	"encoding/json"
	"sort"

	domainErrors "github.com/thomas-vilte/matereview/internal/errors"
	"github.com/thomas-vilte/matereview/internal/models"
)

var _ Analyzer = (*PackageJsonAnalyzer)(nil)

type PackageJsonAnalyzer struct{}

func NewPackageJsonAnalyzer() *PackageJsonAnalyzer {
	return &PackageJsonAnalyzer{}
}

type packageJSON struct {
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

func (p *PackageJsonAnalyzer) Name() string {
	return "npm"
}

func (p *PackageJsonAnalyzer) Manifest() string {
	return "package.json"
}

// Parse lists runtime dependencies first, then dev dependencies, each sorted
// by name.
func (p *PackageJsonAnalyzer) Parse(content []byte) ([]models.Dependency, error) {
	var pkg packageJSON
	if err := json.Unmarshal(content, &pkg); err != nil {
		return nil, domainErrors.NewAppError(domainErrors.TypeInternal, "failed to parse package.json", err)
	}

	deps := p.collect(pkg.Dependencies, false)
	return append(deps, p.collect(pkg.DevDependencies, true)...), nil
}

func (p *PackageJsonAnalyzer) collect(entries map[string]string, dev bool) []models.Dependency {
	deps := make([]models.Dependency, 0, len(entries))
	for name, version := range entries {
		deps = append(deps, models.Dependency{
			Name:    name,
			Version: version,
			Manager: p.Name(),
			Dev:     dev,
		})
	}
	sort.Slice(deps, func(i, j int) bool { return deps[i].Name < deps[j].Name })
	return deps
}

package dependency

import (
	"sort"

	domainErrors "github.com/thomas-vilte/matereview/internal/errors"
	"github.com/thomas-vilte/matereview/internal/models"
	"golang.org/x/mod/modfile"
)

var _ Analyzer = (*GoModAnalyzer)(nil)

type GoModAnalyzer struct{}

func NewGoModAnalyzer() *GoModAnalyzer {
	return &GoModAnalyzer{}
}

func (g *GoModAnalyzer) Name() string {
	return "go.mod"
}

func (g *GoModAnalyzer) Manifest() string {
	return "go.mod"
}

// Parse lists the direct requirements; indirect ones are left out.
func (g *GoModAnalyzer) Parse(content []byte) ([]models.Dependency, error) {
	f, err := modfile.ParseLax("go.mod", content, nil)
	if err != nil {
		return nil, domainErrors.NewAppError(domainErrors.TypeInternal, "failed to parse go.mod", err)
	}

	deps := make([]models.Dependency, 0, len(f.Require))
	for _, r := range f.Require {
		if r.Indirect {
			continue
		}
		deps = append(deps, models.Dependency{
			Name:    r.Mod.Path,
			Version: r.Mod.Version,
			Manager: g.Name(),
		})
	}

	sort.Slice(deps, func(i, j int) bool { return deps[i].Name < deps[j].Name })
	return deps, nil
}

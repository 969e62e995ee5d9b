package dependency

import (
	"context"
	"errors"

	"github.com/thomas-vilte/matereview/internal/logger"
	"github.com/thomas-vilte/matereview/internal/models"
	"github.com/thomas-vilte/matereview/internal/vcs"
)

const (
	maxManifestBytes = 256 << 10
	maxDependencies  = 100
)

type AnalyzerRegistry struct {
	analyzers []Analyzer
}

func NewAnalyzerRegistry() *AnalyzerRegistry {
	return &AnalyzerRegistry{
		analyzers: []Analyzer{
			NewGoModAnalyzer(),
			NewPackageJsonAnalyzer(),
			NewRequirementsAnalyzer(),
		},
	}
}

// Analyze runs every analyzer whose manifest sits at the root of the tree and
// combines the results, at most maxDependencies of them. Manifests that are
// unavailable or do not parse are skipped; any other fetch error, cancellation
// included, is returned.
func (r *AnalyzerRegistry) Analyze(ctx context.Context, entries []models.TreeEntry, fetcher Fetcher) ([]models.Dependency, error) {
	var all []models.Dependency

	for _, analyzer := range r.analyzers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !r.hasManifest(entries, analyzer.Manifest()) {
			continue
		}

		content, err := fetcher.Fetch(ctx, analyzer.Manifest())
		if err != nil {
			if !errors.Is(err, vcs.ErrFileUnavailable) {
				return nil, err
			}
			logger.Debug(ctx, "skipping manifest", "manifest", analyzer.Manifest(), "error", err)
			continue
		}

		deps, err := analyzer.Parse(content)
		if err != nil {
			logger.Debug(ctx, "skipping manifest", "manifest", analyzer.Manifest(), "error", err)
			continue
		}
		all = append(all, deps...)
	}

	if len(all) > maxDependencies {
		all = all[:maxDependencies]
	}
	return all, nil
}

// GetSupportedAnalyzers returns the names of the analyzers that apply to the tree
func (r *AnalyzerRegistry) GetSupportedAnalyzers(entries []models.TreeEntry) []string {
	var supported []string

	for _, analyzer := range r.analyzers {
		if r.hasManifest(entries, analyzer.Manifest()) {
			supported = append(supported, analyzer.Name())
		}
	}
	return supported
}

func (r *AnalyzerRegistry) hasManifest(entries []models.TreeEntry, manifest string) bool {
	for _, e := range entries {
		if e.Path != manifest || e.Kind != models.EntryBlob {
			continue
		}
		return e.Size == nil || *e.Size <= maxManifestBytes
	}
	return false
}

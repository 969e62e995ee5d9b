package dependency

import (
	"context"

	"github.com/thomas-vilte/matereview/internal/models"
)

// Analyzer reads the direct dependencies out of one kind of manifest.
type Analyzer interface {
	// Name returns the name of the dependency manager
	Name() string
	// Manifest is the manifest path, relative to the repository root.
	Manifest() string
	Parse(content []byte) ([]models.Dependency, error)
}

// Fetcher returns the content of a repository file.
type Fetcher interface {
	Fetch(ctx context.Context, path string) ([]byte, error)
}

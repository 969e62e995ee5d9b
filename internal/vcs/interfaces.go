package vcs

import (
	"context"

	"github.com/thomas-vilte/matereview/internal/models"
)

// RepositoryHost is the read-only view of a hosting service the review
// pipeline needs.
type RepositoryHost interface {
	// ListTree checks that the repository exists and returns its recursive
	// file listing at ref.Ref.
	ListTree(ctx context.Context, ref models.RepositoryReference) ([]models.TreeEntry, error)
	// FetchFile returns the raw content of one file at ref.Ref. Files that
	// are missing or not readable fail with ErrFileUnavailable.
	FetchFile(ctx context.Context, ref models.RepositoryReference, path string) ([]byte, error)
}

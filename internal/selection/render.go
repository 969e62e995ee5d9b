package selection

import (
	"context"
	"errors"
	"strings"

	"github.com/thomas-vilte/matereview/internal/config"
	"github.com/thomas-vilte/matereview/internal/logger"
	"github.com/thomas-vilte/matereview/internal/models"
	"github.com/thomas-vilte/matereview/internal/vcs"
)

// Fetcher returns the content of one file of the repository being rendered.
type Fetcher interface {
	Fetch(ctx context.Context, path string) ([]byte, error)
}

type FetcherFunc func(ctx context.Context, path string) ([]byte, error)

func (f FetcherFunc) Fetch(ctx context.Context, path string) ([]byte, error) {
	return f(ctx, path)
}

// HostFetcher binds a repository host to one reference.
func HostFetcher(host vcs.RepositoryHost, ref models.RepositoryReference) Fetcher {
	return FetcherFunc(func(ctx context.Context, path string) ([]byte, error) {
		return host.FetchFile(ctx, ref, path)
	})
}

type Budget struct {
	MaxFiles      int
	MaxTotalBytes int
	MaxFileBytes  int
	PreviewLines  int
}

func BudgetFromConfig(cfg config.SelectionConfig) Budget {
	return Budget{
		MaxFiles:      cfg.MaxFiles,
		MaxTotalBytes: cfg.MaxTotalBytes,
		MaxFileBytes:  cfg.MaxFileBytes,
		PreviewLines:  cfg.PreviewLines,
	}
}

// Render fetches candidates in order until they run out or a budget is
// reached. Budgets are checked before every fetch, so the last included file
// may push the byte total past MaxTotalBytes. Missing, forbidden and oversize
// files are skipped; any other fetch error aborts the whole render.
func Render(ctx context.Context, ordered []models.CandidateFile, fetcher Fetcher, budget Budget) (models.RenderedDocument, error) {
	log := logger.FromContext(ctx)

	var (
		entries    = make([]models.FileEntry, 0, min(len(ordered), max(budget.MaxFiles, 0)))
		totalBytes int
		truncated  bool
	)

	for _, candidate := range ordered {
		if len(entries) >= budget.MaxFiles || totalBytes >= budget.MaxTotalBytes {
			truncated = true
			break
		}

		if err := ctx.Err(); err != nil {
			return models.RenderedDocument{}, err
		}

		content, err := fetcher.Fetch(ctx, candidate.Path)
		if err != nil {
			if errors.Is(err, vcs.ErrFileUnavailable) {
				log.Debug("skipping unavailable file", "path", candidate.Path, "error", err)
				continue
			}
			return models.RenderedDocument{}, err
		}

		if len(content) > budget.MaxFileBytes {
			log.Debug("skipping oversize file",
				"path", candidate.Path,
				"size", len(content),
				"max_file_bytes", budget.MaxFileBytes)
			continue
		}

		totalBytes += len(content)
		entries = append(entries, models.FileEntry{
			Path:       candidate.Path,
			ByteLength: len(content),
			Preview:    Preview(string(content), budget.PreviewLines),
		})
	}

	if truncated {
		log.Info("selection budget reached",
			"files_included", len(entries),
			"total_bytes", totalBytes,
			"candidates", len(ordered))
	}

	return models.RenderedDocument{
		Entries:       entries,
		TotalBytes:    totalBytes,
		FilesIncluded: len(entries),
		Truncated:     truncated,
	}, nil
}

// Preview keeps the first n lines of content. A trailing line break does not
// start a new line and no padding is added.
func Preview(content string, n int) string {
	lines := SplitLines(content)
	if len(lines) > n {
		lines = lines[:n]
	}
	return strings.Join(lines, "\n")
}

// SplitLines splits on \n, drops a trailing \r from each line and ignores the
// empty element after a final line break.
func SplitLines(content string) []string {
	if content == "" {
		return nil
	}
	lines := strings.Split(content, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

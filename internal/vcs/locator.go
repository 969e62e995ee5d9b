package vcs

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	domainErrors "github.com/thomas-vilte/matereview/internal/errors"
	"github.com/thomas-vilte/matereview/internal/models"
	"github.com/thomas-vilte/matereview/internal/regex"
)

const githubHost = "github.com"

// ErrFileUnavailable marks a per-file miss (not found, forbidden, not a
// regular file). Callers skip such files instead of failing the run.
var ErrFileUnavailable = errors.New("file unavailable")

// ErrFileTooLarge is an ErrFileUnavailable for files over the download limit.
var ErrFileTooLarge = fmt.Errorf("file too large: %w", ErrFileUnavailable)

// ParseRepositoryURL turns https://github.com/<owner>/<name>[/tree/<ref>]
// into a reference. defaultRef is used when the URL names no ref. A URL that
// points at a directory inside a ref is read as a ref with slashes.
func ParseRepositoryURL(raw string, defaultRef string) (models.RepositoryReference, error) {
	invalid := func(reason string) (models.RepositoryReference, error) {
		return models.RepositoryReference{}, domainErrors.ErrInvalidReference.
			WithContext("reason", reason).
			WithContext("url", raw)
	}

	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return invalid("malformed URL")
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return invalid("scheme must be http or https")
	}
	if !strings.EqualFold(u.Hostname(), githubHost) {
		return invalid("host must be " + githubHost)
	}

	segments := splitPath(u.Path)
	if len(segments) < 2 {
		return invalid("path must contain owner and repository name")
	}

	owner := segments[0]
	name := strings.TrimSuffix(segments[1], ".git")
	if !regex.RepoSegment.MatchString(owner) || !regex.RepoSegment.MatchString(name) || name == "." || name == ".." {
		return invalid("owner or repository name contains invalid characters")
	}

	ref := defaultRef
	if len(segments) >= 4 && segments[2] == "tree" {
		// Branch names may contain slashes, so everything after tree is the ref.
		ref = strings.Join(segments[3:], "/")
	} else if len(segments) == 3 && segments[2] == "tree" {
		return invalid("tree segment without a ref")
	}

	return models.RepositoryReference{
		Owner: owner,
		Name:  name,
		Ref:   ref,
	}, nil
}

func splitPath(p string) []string {
	parts := strings.Split(p, "/")
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" {
			segments = append(segments, part)
		}
	}
	return segments
}

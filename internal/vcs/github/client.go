package github

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/go-github/v80/github"
	domainErrors "github.com/thomas-vilte/matereview/internal/errors"
	"github.com/thomas-vilte/matereview/internal/httpclient"
	"github.com/thomas-vilte/matereview/internal/logger"
	"github.com/thomas-vilte/matereview/internal/models"
	"github.com/thomas-vilte/matereview/internal/vcs"
	"golang.org/x/oauth2"
)

var _ vcs.RepositoryHost = (*GitHubClient)(nil)

const defaultMaxDownloadBytes = 10 << 20

type RepositoriesService interface {
	Get(ctx context.Context, owner, repo string) (*github.Repository, *github.Response, error)
	GetContents(ctx context.Context, owner, repo, path string, opts *github.RepositoryContentGetOptions) (*github.RepositoryContent, []*github.RepositoryContent, *github.Response, error)
}

type GitService interface {
	GetTree(ctx context.Context, owner, repo, sha string, recursive bool) (*github.Tree, *github.Response, error)
}

type GitHubClient struct {
	repoService RepositoriesService
	gitService  GitService
	httpClient  httpclient.HTTPClient
	timeout     time.Duration

	maxDownloadBytes int64
}

// NewGitHubClient builds a client against api.github.com, or baseURL when set
// (GitHub Enterprise). An empty token means anonymous access.
func NewGitHubClient(token, baseURL string, timeout time.Duration) (*GitHubClient, error) {
	httpClient := httpclient.New(0)
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(context.Background(), ts)
	}

	client := github.NewClient(httpClient)
	if baseURL != "" {
		var err error
		client, err = client.WithEnterpriseURLs(baseURL, baseURL)
		if err != nil {
			return nil, domainErrors.ErrConfigInvalid.
				WithError(err).
				WithContext("reason", "invalid github base_url")
		}
	}

	return &GitHubClient{
		repoService: client.Repositories,
		gitService:  client.Git,
		httpClient:  httpClient,
		timeout:     timeout,

		maxDownloadBytes: defaultMaxDownloadBytes,
	}, nil
}

func NewGitHubClientWithServices(
	repoService RepositoriesService,
	gitService GitService,
	httpClient httpclient.HTTPClient,
	timeout time.Duration,
) *GitHubClient {
	return &GitHubClient{
		repoService: repoService,
		gitService:  gitService,
		httpClient:  httpClient,
		timeout:     timeout,

		maxDownloadBytes: defaultMaxDownloadBytes,
	}
}

// SetMaxDownloadBytes bounds how much of a raw download is read. Larger
// files fail with vcs.ErrFileTooLarge.
func (ghc *GitHubClient) SetMaxDownloadBytes(n int64) {
	if n > 0 {
		ghc.maxDownloadBytes = n
	}
}

// ListTree confirms the repository exists before listing, so a missing
// repository never costs a tree call.
func (ghc *GitHubClient) ListTree(ctx context.Context, ref models.RepositoryReference) ([]models.TreeEntry, error) {
	log := logger.FromContext(ctx)

	log.Debug("checking github repository",
		"owner", ref.Owner,
		"repo", ref.Name,
		"ref", ref.Ref)

	callCtx, cancel := ghc.withTimeout(ctx)
	_, resp, err := ghc.repoService.Get(callCtx, ref.Owner, ref.Name)
	cancel()
	if err != nil {
		return nil, ghc.mapError(ctx, err, resp, ref, "get repository")
	}

	callCtx, cancel = ghc.withTimeout(ctx)
	tree, resp, err := ghc.gitService.GetTree(callCtx, ref.Owner, ref.Name, ref.Ref, true)
	cancel()
	if err != nil {
		// 409 is what the API answers for a repository without commits.
		if statusOf(resp) == http.StatusConflict {
			return nil, domainErrors.ErrRepositoryEmpty.
				WithContext("repo", ref.FullName())
		}
		return nil, ghc.mapError(ctx, err, resp, ref, "get tree")
	}

	if tree == nil || len(tree.Entries) == 0 {
		return nil, domainErrors.ErrRepositoryEmpty.
			WithContext("repo", ref.FullName())
	}

	if tree.GetTruncated() {
		log.Warn("github tree listing truncated",
			"repo", ref.FullName(),
			"entries", len(tree.Entries))
	}

	entries := make([]models.TreeEntry, 0, len(tree.Entries))
	for _, e := range tree.Entries {
		entry := models.TreeEntry{
			Path: e.GetPath(),
			Kind: models.EntryKind(e.GetType()),
		}
		if e.Size != nil {
			size := e.GetSize()
			entry.Size = &size
		}
		entries = append(entries, entry)
	}

	log.Debug("github tree listed",
		"repo", ref.FullName(),
		"entries", len(entries))

	return entries, nil
}

func (ghc *GitHubClient) FetchFile(ctx context.Context, ref models.RepositoryReference, path string) ([]byte, error) {
	log := logger.FromContext(ctx)

	callCtx, cancel := ghc.withTimeout(ctx)
	defer cancel()

	opts := &github.RepositoryContentGetOptions{Ref: ref.Ref}
	file, _, resp, err := ghc.repoService.GetContents(callCtx, ref.Owner, ref.Name, path, opts)
	if err != nil {
		if isSoftMiss(err, resp) {
			log.Debug("file not readable, skipping",
				"path", path,
				"status", statusOf(resp))
			return nil, fmt.Errorf("%s: %w", path, vcs.ErrFileUnavailable)
		}
		return nil, ghc.mapError(ctx, err, resp, ref, "get contents")
	}

	if file == nil || file.GetType() != "file" {
		return nil, fmt.Errorf("%s is not a regular file: %w", path, vcs.ErrFileUnavailable)
	}

	// Large files come back without inline content (encoding "none") but
	// with a download URL.
	content, err := file.GetContent()
	if err != nil || (content == "" && file.GetSize() > 0) {
		if file.GetDownloadURL() != "" {
			log.Debug("file content not inlined, downloading",
				"path", path,
				"size", file.GetSize())
			return ghc.download(ctx, callCtx, file.GetDownloadURL(), ref, path)
		}
		if err != nil {
			return nil, domainErrors.ErrUpstreamUnavailable.
				WithError(err).
				WithContext("reason", "undecodable file content").
				WithContext("path", path)
		}
	}

	return []byte(content), nil
}

func (ghc *GitHubClient) download(parent, callCtx context.Context, rawURL string, ref models.RepositoryReference, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(callCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, vcs.ErrFileUnavailable)
	}

	resp, err := ghc.httpClient.Do(req)
	if err != nil {
		return nil, ghc.mapError(parent, err, nil, ref, "download file")
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%s: %w", path, vcs.ErrFileUnavailable)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, domainErrors.ErrGitHubRateLimit.
			WithContext("retry_after", resp.Header.Get("Retry-After")).
			WithContext("operation", "download file")
	case resp.StatusCode >= 300:
		return nil, domainErrors.ErrUpstreamUnavailable.
			WithContext("operation", "download file").
			WithContext("status", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, ghc.maxDownloadBytes+1))
	if err != nil {
		return nil, ghc.mapError(parent, err, nil, ref, "download file")
	}
	if int64(len(body)) > ghc.maxDownloadBytes {
		return nil, fmt.Errorf("%s: %w", path, vcs.ErrFileTooLarge)
	}
	return body, nil
}

func (ghc *GitHubClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if ghc.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, ghc.timeout)
}

// mapError translates API failures into domain errors. parent is the caller's
// context: its cancellation is returned as is, while a per-call deadline
// surfaces as an unavailable upstream.
func (ghc *GitHubClient) mapError(parent context.Context, err error, resp *github.Response, ref models.RepositoryReference, operation string) error {
	if parent.Err() != nil {
		return parent.Err()
	}

	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return domainErrors.ErrGitHubRateLimit.
			WithError(err).
			WithContext("operation", operation).
			WithContext("reset", rateErr.Rate.Reset.Time.Format(time.RFC3339))
	}

	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		retryAfter := ""
		if abuseErr.RetryAfter != nil {
			retryAfter = strconv.Itoa(int(abuseErr.RetryAfter.Seconds()))
		}
		return domainErrors.ErrGitHubRateLimit.
			WithError(err).
			WithContext("operation", operation).
			WithContext("retry_after", retryAfter)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return domainErrors.ErrUpstreamUnavailable.
			WithError(err).
			WithContext("operation", operation).
			WithContext("reason", "request timed out")
	}

	if resp != nil {
		switch statusOf(resp) {
		case http.StatusTooManyRequests:
			return domainErrors.ErrGitHubRateLimit.
				WithError(err).
				WithContext("retry_after", resp.Header.Get("Retry-After")).
				WithContext("operation", operation)
		case http.StatusNotFound:
			return domainErrors.ErrRepositoryNotFound.
				WithError(err).
				WithContext("operation", operation).
				WithContext("repo", ref.FullName())
		case http.StatusForbidden, http.StatusUnauthorized:
			// Private repositories answer 404 to anonymous callers and 403
			// to tokens without access; both mean we cannot see it.
			return domainErrors.ErrRepositoryNotFound.
				WithError(err).
				WithContext("operation", operation).
				WithContext("repo", ref.FullName()).
				WithContext("status", resp.StatusCode)
		case http.StatusUnprocessableEntity:
			// Unknown ref on the tree endpoint.
			return domainErrors.ErrRepositoryNotFound.
				WithError(err).
				WithContext("operation", operation).
				WithContext("reason", "ref "+ref.Ref+" not found")
		}
	}

	logger.FromContext(parent).Error("github request failed",
		"error", err,
		"operation", operation,
		"repo", ref.FullName(),
		"status", statusOf(resp))

	return domainErrors.ErrUpstreamUnavailable.
		WithError(err).
		WithContext("operation", operation).
		WithContext("repo", ref.FullName())
}

func isSoftMiss(err error, resp *github.Response) bool {
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return false
	}
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return false
	}
	status := statusOf(resp)
	return status == http.StatusNotFound || status == http.StatusForbidden
}

func statusOf(resp *github.Response) int {
	if resp == nil || resp.Response == nil {
		return 0
	}
	return resp.StatusCode
}

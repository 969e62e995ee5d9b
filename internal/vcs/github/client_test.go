package github

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/go-github/v80/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	domainErrors "github.com/thomas-vilte/matereview/internal/errors"
	"github.com/thomas-vilte/matereview/internal/models"
	"github.com/thomas-vilte/matereview/internal/vcs"
)

var testRef = models.RepositoryReference{Owner: "test-owner", Name: "test-repo", Ref: "HEAD"}

func newTestClient() (*GitHubClient, *MockRepoService, *MockGitService, *MockHTTPClient) {
	repo := &MockRepoService{}
	git := &MockGitService{}
	httpClient := &MockHTTPClient{}
	return NewGitHubClientWithServices(repo, git, httpClient, time.Second), repo, git, httpClient
}

type countingReader struct {
	r io.Reader
	n int
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += n
	return n, err
}

func responseWithStatus(status int) *github.Response {
	return &github.Response{Response: &http.Response{StatusCode: status, Header: http.Header{}}}
}

func apiError(status int) error {
	return &github.ErrorResponse{
		Response: &http.Response{StatusCode: status, Request: &http.Request{Method: http.MethodGet}},
		Message:  http.StatusText(status),
	}
}

func TestGitHubClient_ListTree(t *testing.T) {
	t.Run("should list tree entries with sizes", func(t *testing.T) {
		client, repo, git, _ := newTestClient()

		repo.On("Get", mock.Anything, "test-owner", "test-repo").
			Return(&github.Repository{}, responseWithStatus(http.StatusOK), nil)
		git.On("GetTree", mock.Anything, "test-owner", "test-repo", "HEAD", true).
			Return(&github.Tree{
				Entries: []*github.TreeEntry{
					{Path: github.Ptr("src"), Type: github.Ptr("tree")},
					{Path: github.Ptr("src/main.py"), Type: github.Ptr("blob"), Size: github.Ptr(120)},
					{Path: github.Ptr("vendor/lib"), Type: github.Ptr("commit")},
				},
			}, responseWithStatus(http.StatusOK), nil)

		entries, err := client.ListTree(context.Background(), testRef)

		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, models.EntryTree, entries[0].Kind)
		assert.False(t, entries[0].SizeKnown())
		assert.Equal(t, "src/main.py", entries[1].Path)
		assert.Equal(t, models.EntryBlob, entries[1].Kind)
		require.True(t, entries[1].SizeKnown())
		assert.Equal(t, 120, *entries[1].Size)
		assert.Equal(t, models.EntryCommit, entries[2].Kind)
		repo.AssertExpectations(t)
		git.AssertExpectations(t)
	})

	t.Run("should not list tree when repository is missing", func(t *testing.T) {
		client, repo, git, _ := newTestClient()

		repo.On("Get", mock.Anything, "test-owner", "test-repo").
			Return(nil, responseWithStatus(http.StatusNotFound), apiError(http.StatusNotFound))

		_, err := client.ListTree(context.Background(), testRef)

		require.Error(t, err)
		assert.True(t, errors.Is(err, domainErrors.ErrRepositoryNotFound))
		git.AssertNotCalled(t, "GetTree", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("should report empty repository on conflict", func(t *testing.T) {
		client, repo, git, _ := newTestClient()

		repo.On("Get", mock.Anything, "test-owner", "test-repo").
			Return(&github.Repository{}, responseWithStatus(http.StatusOK), nil)
		git.On("GetTree", mock.Anything, "test-owner", "test-repo", "HEAD", true).
			Return(nil, responseWithStatus(http.StatusConflict), apiError(http.StatusConflict))

		_, err := client.ListTree(context.Background(), testRef)

		assert.True(t, errors.Is(err, domainErrors.ErrRepositoryEmpty))
	})

	t.Run("should report empty repository on empty listing", func(t *testing.T) {
		client, repo, git, _ := newTestClient()

		repo.On("Get", mock.Anything, "test-owner", "test-repo").
			Return(&github.Repository{}, responseWithStatus(http.StatusOK), nil)
		git.On("GetTree", mock.Anything, "test-owner", "test-repo", "HEAD", true).
			Return(&github.Tree{}, responseWithStatus(http.StatusOK), nil)

		_, err := client.ListTree(context.Background(), testRef)

		assert.True(t, errors.Is(err, domainErrors.ErrRepositoryEmpty))
	})

	t.Run("should map rate limit errors", func(t *testing.T) {
		client, repo, _, _ := newTestClient()

		rateErr := &github.RateLimitError{
			Rate:     github.Rate{Reset: github.Timestamp{Time: time.Now().Add(time.Minute)}},
			Response: &http.Response{StatusCode: http.StatusForbidden, Request: &http.Request{Method: http.MethodGet}},
			Message:  "API rate limit exceeded",
		}
		repo.On("Get", mock.Anything, "test-owner", "test-repo").
			Return(nil, responseWithStatus(http.StatusForbidden), rateErr)

		_, err := client.ListTree(context.Background(), testRef)

		assert.True(t, errors.Is(err, domainErrors.ErrGitHubRateLimit))
	})

	t.Run("should map 429 to rate limit", func(t *testing.T) {
		client, repo, _, _ := newTestClient()

		resp := responseWithStatus(http.StatusTooManyRequests)
		resp.Header.Set("Retry-After", "30")
		repo.On("Get", mock.Anything, "test-owner", "test-repo").
			Return(nil, resp, apiError(http.StatusTooManyRequests))

		_, err := client.ListTree(context.Background(), testRef)

		var appErr *domainErrors.AppError
		require.True(t, errors.As(err, &appErr))
		assert.True(t, errors.Is(err, domainErrors.ErrGitHubRateLimit))
		assert.Equal(t, "30", appErr.Context["retry_after"])
	})

	t.Run("should map server errors to unavailable upstream", func(t *testing.T) {
		client, repo, _, _ := newTestClient()

		repo.On("Get", mock.Anything, "test-owner", "test-repo").
			Return(nil, responseWithStatus(http.StatusBadGateway), apiError(http.StatusBadGateway))

		_, err := client.ListTree(context.Background(), testRef)

		assert.True(t, errors.Is(err, domainErrors.ErrUpstreamUnavailable))
	})

	t.Run("should map transport deadline to unavailable upstream", func(t *testing.T) {
		client, repo, _, _ := newTestClient()

		repo.On("Get", mock.Anything, "test-owner", "test-repo").
			Return(nil, nil, fmt.Errorf("dial: %w", context.DeadlineExceeded))

		_, err := client.ListTree(context.Background(), testRef)

		assert.True(t, errors.Is(err, domainErrors.ErrUpstreamUnavailable))
	})

	t.Run("should return caller cancellation as is", func(t *testing.T) {
		client, repo, _, _ := newTestClient()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		repo.On("Get", mock.Anything, "test-owner", "test-repo").
			Return(nil, nil, context.Canceled)

		_, err := client.ListTree(ctx, testRef)

		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestGitHubClient_FetchFile(t *testing.T) {
	t.Run("should return decoded content", func(t *testing.T) {
		client, repo, _, _ := newTestClient()

		repo.On("GetContents", mock.Anything, "test-owner", "test-repo", "src/main.py",
			&github.RepositoryContentGetOptions{Ref: "HEAD"}).
			Return(&github.RepositoryContent{
				Type:     github.Ptr("file"),
				Encoding: github.Ptr("base64"),
				Content:  github.Ptr("cHJpbnQoImhpIikK"),
				Size:     github.Ptr(12),
			}, nil, responseWithStatus(http.StatusOK), nil)

		content, err := client.FetchFile(context.Background(), testRef, "src/main.py")

		require.NoError(t, err)
		assert.Equal(t, "print(\"hi\")\n", string(content))
	})

	t.Run("should return empty content for zero-byte file", func(t *testing.T) {
		client, repo, _, _ := newTestClient()

		repo.On("GetContents", mock.Anything, "test-owner", "test-repo", "empty.py", mock.Anything).
			Return(&github.RepositoryContent{
				Type:     github.Ptr("file"),
				Encoding: github.Ptr("base64"),
				Content:  github.Ptr(""),
				Size:     github.Ptr(0),
			}, nil, responseWithStatus(http.StatusOK), nil)

		content, err := client.FetchFile(context.Background(), testRef, "empty.py")

		require.NoError(t, err)
		assert.Empty(t, content)
	})

	t.Run("should treat not found as a soft miss", func(t *testing.T) {
		client, repo, _, _ := newTestClient()

		repo.On("GetContents", mock.Anything, "test-owner", "test-repo", "gone.py", mock.Anything).
			Return(nil, nil, responseWithStatus(http.StatusNotFound), apiError(http.StatusNotFound))

		_, err := client.FetchFile(context.Background(), testRef, "gone.py")

		assert.ErrorIs(t, err, vcs.ErrFileUnavailable)
	})

	t.Run("should treat forbidden as a soft miss", func(t *testing.T) {
		client, repo, _, _ := newTestClient()

		repo.On("GetContents", mock.Anything, "test-owner", "test-repo", "secret.py", mock.Anything).
			Return(nil, nil, responseWithStatus(http.StatusForbidden), apiError(http.StatusForbidden))

		_, err := client.FetchFile(context.Background(), testRef, "secret.py")

		assert.ErrorIs(t, err, vcs.ErrFileUnavailable)
	})

	t.Run("should treat a directory listing as a soft miss", func(t *testing.T) {
		client, repo, _, _ := newTestClient()

		repo.On("GetContents", mock.Anything, "test-owner", "test-repo", "pkg", mock.Anything).
			Return(nil, []*github.RepositoryContent{{Name: github.Ptr("a.go")}}, responseWithStatus(http.StatusOK), nil)

		_, err := client.FetchFile(context.Background(), testRef, "pkg")

		assert.ErrorIs(t, err, vcs.ErrFileUnavailable)
	})

	t.Run("should not treat rate limiting as a soft miss", func(t *testing.T) {
		client, repo, _, _ := newTestClient()

		rateErr := &github.RateLimitError{
			Response: &http.Response{StatusCode: http.StatusForbidden, Request: &http.Request{Method: http.MethodGet}},
			Message:  "API rate limit exceeded",
		}
		repo.On("GetContents", mock.Anything, "test-owner", "test-repo", "a.py", mock.Anything).
			Return(nil, nil, responseWithStatus(http.StatusForbidden), rateErr)

		_, err := client.FetchFile(context.Background(), testRef, "a.py")

		assert.True(t, errors.Is(err, domainErrors.ErrGitHubRateLimit))
		assert.False(t, errors.Is(err, vcs.ErrFileUnavailable))
	})

	t.Run("should download large files through download url", func(t *testing.T) {
		client, repo, _, httpClient := newTestClient()

		repo.On("GetContents", mock.Anything, "test-owner", "test-repo", "big.json", mock.Anything).
			Return(&github.RepositoryContent{
				Type:        github.Ptr("file"),
				Encoding:    github.Ptr("none"),
				Size:        github.Ptr(2_000_000),
				DownloadURL: github.Ptr("https://raw.githubusercontent.com/test-owner/test-repo/HEAD/big.json"),
			}, nil, responseWithStatus(http.StatusOK), nil)
		httpClient.On("Do", mock.MatchedBy(func(req *http.Request) bool {
			return req.URL.Host == "raw.githubusercontent.com" && req.Method == http.MethodGet
		})).Return(&http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(`{"big": true}`)),
		}, nil)

		content, err := client.FetchFile(context.Background(), testRef, "big.json")

		require.NoError(t, err)
		assert.Equal(t, `{"big": true}`, string(content))
		httpClient.AssertExpectations(t)
	})

	t.Run("should stop reading downloads past the limit", func(t *testing.T) {
		client, repo, _, httpClient := newTestClient()
		client.SetMaxDownloadBytes(8)

		repo.On("GetContents", mock.Anything, "test-owner", "test-repo", "big.json", mock.Anything).
			Return(&github.RepositoryContent{
				Type:        github.Ptr("file"),
				Encoding:    github.Ptr("none"),
				DownloadURL: github.Ptr("https://raw.githubusercontent.com/test-owner/test-repo/HEAD/big.json"),
			}, nil, responseWithStatus(http.StatusOK), nil)
		body := &countingReader{r: strings.NewReader(strings.Repeat("x", 4096))}
		httpClient.On("Do", mock.Anything).Return(&http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(body),
		}, nil)

		_, err := client.FetchFile(context.Background(), testRef, "big.json")

		assert.ErrorIs(t, err, vcs.ErrFileTooLarge)
		assert.ErrorIs(t, err, vcs.ErrFileUnavailable)
		assert.LessOrEqual(t, body.n, 9)
	})

	t.Run("should accept downloads at the limit", func(t *testing.T) {
		client, repo, _, httpClient := newTestClient()
		client.SetMaxDownloadBytes(8)

		repo.On("GetContents", mock.Anything, "test-owner", "test-repo", "big.json", mock.Anything).
			Return(&github.RepositoryContent{
				Type:        github.Ptr("file"),
				Encoding:    github.Ptr("none"),
				DownloadURL: github.Ptr("https://raw.githubusercontent.com/test-owner/test-repo/HEAD/big.json"),
			}, nil, responseWithStatus(http.StatusOK), nil)
		httpClient.On("Do", mock.Anything).Return(&http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader("12345678")),
		}, nil)

		content, err := client.FetchFile(context.Background(), testRef, "big.json")

		require.NoError(t, err)
		assert.Equal(t, "12345678", string(content))
	})

	t.Run("should treat missing download as a soft miss", func(t *testing.T) {
		client, repo, _, httpClient := newTestClient()

		repo.On("GetContents", mock.Anything, "test-owner", "test-repo", "big.json", mock.Anything).
			Return(&github.RepositoryContent{
				Type:        github.Ptr("file"),
				Encoding:    github.Ptr("none"),
				Size:        github.Ptr(2_000_000),
				DownloadURL: github.Ptr("https://raw.githubusercontent.com/test-owner/test-repo/HEAD/big.json"),
			}, nil, responseWithStatus(http.StatusOK), nil)
		httpClient.On("Do", mock.Anything).Return(&http.Response{
			StatusCode: http.StatusNotFound,
			Body:       io.NopCloser(strings.NewReader("")),
		}, nil)

		_, err := client.FetchFile(context.Background(), testRef, "big.json")

		assert.ErrorIs(t, err, vcs.ErrFileUnavailable)
	})

	t.Run("should abort on server errors", func(t *testing.T) {
		client, repo, _, _ := newTestClient()

		repo.On("GetContents", mock.Anything, "test-owner", "test-repo", "a.py", mock.Anything).
			Return(nil, nil, responseWithStatus(http.StatusInternalServerError), apiError(http.StatusInternalServerError))

		_, err := client.FetchFile(context.Background(), testRef, "a.py")

		assert.True(t, errors.Is(err, domainErrors.ErrUpstreamUnavailable))
	})
}

func TestNewGitHubClient(t *testing.T) {
	t.Run("should build anonymous client", func(t *testing.T) {
		client, err := NewGitHubClient("", "", time.Second)

		require.NoError(t, err)
		assert.NotNil(t, client.repoService)
		assert.NotNil(t, client.gitService)
	})

	t.Run("should accept enterprise base url", func(t *testing.T) {
		client, err := NewGitHubClient("token", "https://ghe.example.com/api/v3/", time.Second)

		require.NoError(t, err)
		assert.NotNil(t, client)
	})
}

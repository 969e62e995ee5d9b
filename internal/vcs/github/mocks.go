package github

import (
	"context"
	"net/http"

	"github.com/google/go-github/v80/github"
	"github.com/stretchr/testify/mock"
)

type MockRepoService struct {
	mock.Mock
}

func (m *MockRepoService) Get(ctx context.Context, owner, repo string) (*github.Repository, *github.Response, error) {
	args := m.Called(ctx, owner, repo)
	var r *github.Repository
	if args.Get(0) != nil {
		r = args.Get(0).(*github.Repository)
	}
	var resp *github.Response
	if args.Get(1) != nil {
		resp = args.Get(1).(*github.Response)
	}
	return r, resp, args.Error(2)
}

func (m *MockRepoService) GetContents(ctx context.Context, owner, repo, path string, opts *github.RepositoryContentGetOptions) (*github.RepositoryContent, []*github.RepositoryContent, *github.Response, error) {
	args := m.Called(ctx, owner, repo, path, opts)
	var file *github.RepositoryContent
	if args.Get(0) != nil {
		file = args.Get(0).(*github.RepositoryContent)
	}
	var dir []*github.RepositoryContent
	if args.Get(1) != nil {
		dir = args.Get(1).([]*github.RepositoryContent)
	}
	var resp *github.Response
	if args.Get(2) != nil {
		resp = args.Get(2).(*github.Response)
	}
	return file, dir, resp, args.Error(3)
}

type MockGitService struct {
	mock.Mock
}

func (m *MockGitService) GetTree(ctx context.Context, owner, repo, sha string, recursive bool) (*github.Tree, *github.Response, error) {
	args := m.Called(ctx, owner, repo, sha, recursive)
	var tree *github.Tree
	if args.Get(0) != nil {
		tree = args.Get(0).(*github.Tree)
	}
	var resp *github.Response
	if args.Get(1) != nil {
		resp = args.Get(1).(*github.Response)
	}
	return tree, resp, args.Error(2)
}

type MockHTTPClient struct {
	mock.Mock
}

func (m *MockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	args := m.Called(req)
	var resp *http.Response
	if args.Get(0) != nil {
		resp = args.Get(0).(*http.Response)
	}
	return resp, args.Error(1)
}

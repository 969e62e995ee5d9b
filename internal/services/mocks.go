package services

import (
	"context"

	"github.com/google/go-github/v80/github"
	"github.com/stretchr/testify/mock"
	"github.com/thomas-vilte/matereview/internal/models"
)

type (
	MockReviewHost struct {
		mock.Mock
	}

	MockCompleter struct {
		mock.Mock
	}

	MockReleaseService struct {
		mock.Mock
	}
)

func (m *MockReviewHost) ListTree(ctx context.Context, ref models.RepositoryReference) ([]models.TreeEntry, error) {
	args := m.Called(ctx, ref)
	var entries []models.TreeEntry
	if args.Get(0) != nil {
		entries = args.Get(0).([]models.TreeEntry)
	}
	return entries, args.Error(1)
}

func (m *MockReviewHost) FetchFile(ctx context.Context, ref models.RepositoryReference, path string) ([]byte, error) {
	args := m.Called(ctx, ref, path)
	var data []byte
	if args.Get(0) != nil {
		data = args.Get(0).([]byte)
	}
	return data, args.Error(1)
}

func (m *MockCompleter) Complete(ctx context.Context, req models.CompletionRequest) (models.Completion, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(models.Completion), args.Error(1)
}

func (m *MockReleaseService) GetLatestRelease(ctx context.Context, owner, repo string) (*github.RepositoryRelease, *github.Response, error) {
	args := m.Called(ctx, owner, repo)
	var release *github.RepositoryRelease
	if args.Get(0) != nil {
		release = args.Get(0).(*github.RepositoryRelease)
	}
	var resp *github.Response
	if args.Get(1) != nil {
		resp = args.Get(1).(*github.Response)
	}
	return release, resp, args.Error(2)
}

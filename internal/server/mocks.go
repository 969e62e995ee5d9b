package server

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/thomas-vilte/matereview/internal/models"
)

type MockReviewer struct {
	mock.Mock
}

func (m *MockReviewer) Review(ctx context.Context, req models.ReviewRequest) (models.ReviewResult, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(models.ReviewResult), args.Error(1)
}

package ai

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/thomas-vilte/matereview/internal/models"
)

type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Complete(ctx context.Context, req models.CompletionRequest) (models.Completion, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(models.Completion), args.Error(1)
}

func (m *MockProvider) GetModelName() string {
	return m.Called().String(0)
}

func (m *MockProvider) GetProviderName() string {
	return m.Called().String(0)
}

package gemini

import (
	"context"

	"github.com/stretchr/testify/mock"
	"google.golang.org/genai"
)

type MockModelsService struct {
	mock.Mock
}

func (m *MockModelsService) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	args := m.Called(ctx, model, contents, config)
	var resp *genai.GenerateContentResponse
	if args.Get(0) != nil {
		resp = args.Get(0).(*genai.GenerateContentResponse)
	}
	return resp, args.Error(1)
}

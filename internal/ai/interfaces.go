package ai

import (
	"context"

	"github.com/thomas-vilte/matereview/internal/models"
)

// Completer sends one system instruction plus user prompt to a chat model and
// returns its text reply.
type Completer interface {
	Complete(ctx context.Context, req models.CompletionRequest) (models.Completion, error)
}

// Provider is a Completer that can describe itself. Model and provider names
// take part in the reply cache key.
type Provider interface {
	Completer

	// GetModelName returns the name of the current model (e.g.: "gemini-2.5-flash")
	GetModelName() string

	// GetProviderName returns the name of the provider (e.g.: "gemini")
	GetProviderName() string
}


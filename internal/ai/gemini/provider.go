package gemini

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/thomas-vilte/matereview/internal/ai"
	"github.com/thomas-vilte/matereview/internal/config"
	domainErrors "github.com/thomas-vilte/matereview/internal/errors"
	"github.com/thomas-vilte/matereview/internal/logger"
	"github.com/thomas-vilte/matereview/internal/models"
	"google.golang.org/genai"
)

var _ ai.Provider = (*GeminiProvider)(nil)

// ModelsService is the subset of genai.Models the provider calls.
type ModelsService interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type GeminiProvider struct {
	models          ModelsService
	model           string
	temperature     float32
	maxOutputTokens int32
	timeout         time.Duration
}

func NewGeminiProvider(ctx context.Context, cfg config.AIConfig) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, domainErrors.ErrAPIKeyMissing
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		if looksLikeAuthError(err) {
			return nil, domainErrors.ErrAIKeyInvalid.WithError(err)
		}
		return nil, domainErrors.NewAppError(domainErrors.TypeAI, "error creating AI client", err)
	}

	return NewGeminiProviderWithService(client.Models, cfg), nil
}

func NewGeminiProviderWithService(svc ModelsService, cfg config.AIConfig) *GeminiProvider {
	model := string(cfg.Model)
	if model == "" {
		model = string(config.DefaultModelForAI(config.AIGemini))
	}
	return &GeminiProvider{
		models:          svc,
		model:           model,
		temperature:     cfg.Temperature,
		maxOutputTokens: cfg.MaxOutputTokens,
		timeout:         cfg.Timeout.Duration,
	}
}

func (g *GeminiProvider) GetModelName() string {
	return g.model
}

func (g *GeminiProvider) GetProviderName() string {
	return string(config.AIGemini)
}

func (g *GeminiProvider) Complete(ctx context.Context, req models.CompletionRequest) (models.Completion, error) {
	log := logger.FromContext(ctx)

	callCtx := ctx
	if g.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	log.Debug("calling gemini API",
		"model", g.model,
		"prompt_length", len(req.Prompt))

	genConfig := GetGenerateConfig(g.temperature, g.maxOutputTokens, req.SystemInstruction)
	resp, err := g.models.GenerateContent(callCtx, g.model, genai.Text(req.Prompt), genConfig)
	if err != nil {
		if ctx.Err() != nil {
			return models.Completion{}, ctx.Err()
		}

		log.Error("gemini API call failed",
			"error", err,
			"model", g.model)

		return models.Completion{}, classifyError(err)
	}

	text := formatResponse(resp)
	if text == "" {
		appErr := domainErrors.ErrAIGeneration.
			WithContext("reason", "empty response from AI").
			WithContext("model", g.model)
		if reason := blockReason(resp); reason != "" {
			appErr = appErr.WithContext("block_reason", reason)
		}
		return models.Completion{}, appErr
	}

	return models.Completion{
		Text:  text,
		Usage: extractUsage(resp),
	}, nil
}

func classifyError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return domainErrors.ErrAIGeneration.
			WithError(err).
			WithContext("reason", "request timed out")
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "quota") ||
		strings.Contains(errMsg, "rate limit") ||
		strings.Contains(errMsg, "resource exhausted") ||
		strings.Contains(errMsg, "resource_exhausted") {
		return domainErrors.ErrAIQuotaExceeded.WithError(err)
	}

	if looksLikeAuthError(err) {
		return domainErrors.ErrAIKeyInvalid.WithError(err)
	}

	return domainErrors.ErrAIGeneration.WithError(err)
}

func looksLikeAuthError(err error) bool {
	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "api key") ||
		strings.Contains(errMsg, "api_key") ||
		strings.Contains(errMsg, "unauthorized") ||
		strings.Contains(errMsg, "unauthenticated") ||
		strings.Contains(errMsg, "permission denied")
}

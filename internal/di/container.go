package di

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/thomas-vilte/matereview/internal/ai"
	"github.com/thomas-vilte/matereview/internal/ai/gemini"
	"github.com/thomas-vilte/matereview/internal/cache"
	"github.com/thomas-vilte/matereview/internal/config"
	domainErrors "github.com/thomas-vilte/matereview/internal/errors"
	"github.com/thomas-vilte/matereview/internal/i18n"
	"github.com/thomas-vilte/matereview/internal/logger"
	"github.com/thomas-vilte/matereview/internal/models"
	"github.com/thomas-vilte/matereview/internal/services"
	"github.com/thomas-vilte/matereview/internal/vcs/github"
)

// ProviderFactory builds the AI provider from configuration.
type ProviderFactory func(ctx context.Context, cfg config.AIConfig) (ai.Provider, error)

// Container manages the application dependencies. Services are built on
// first use and shared afterwards.
type Container struct {
	config          *config.Config
	translations    *i18n.Translations
	providerFactory ProviderFactory

	mu            sync.Mutex
	reviewService *services.ReviewService
}

func NewContainer(cfg *config.Config, trans *i18n.Translations) *Container {
	return &Container{
		config:       cfg,
		translations: trans,
		providerFactory: func(ctx context.Context, cfg config.AIConfig) (ai.Provider, error) {
			return gemini.NewGeminiProvider(ctx, cfg)
		},
	}
}

// SetProviderFactory replaces how the AI provider is built.
func (c *Container) SetProviderFactory(factory ProviderFactory) {
	c.providerFactory = factory
}

// GetReviewService returns the review service. A missing API key is not an
// error here: the service can still preview repositories and Review reports
// the missing key.
func (c *Container) GetReviewService(ctx context.Context) (*services.ReviewService, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.reviewService != nil {
		return c.reviewService, nil
	}

	host, err := github.NewGitHubClient(c.config.GitHub.Token, c.config.GitHub.BaseURL, c.config.GitHub.RequestTimeout.Duration)
	if err != nil {
		return nil, fmt.Errorf("error creating GitHub client: %w", err)
	}
	host.SetMaxDownloadBytes(int64(c.config.Selection.MaxFileBytes))

	opts := []services.ReviewOption{
		services.WithReviewHost(host),
		services.WithReviewConfig(c.config),
		services.WithReviewTranslations(c.translations),
	}

	completer, err := c.buildCompleter(ctx)
	switch {
	case err == nil:
		opts = append(opts, services.WithReviewCompleter(completer))
	case errors.Is(err, domainErrors.ErrAPIKeyMissing):
		logger.Warn(ctx, "AI API key not configured, reviews are disabled")
	default:
		return nil, err
	}

	c.reviewService = services.NewReviewService(opts...)
	return c.reviewService, nil
}

func (c *Container) buildCompleter(ctx context.Context) (ai.Completer, error) {
	provider, err := c.providerFactory(ctx, c.config.AI)
	if err != nil {
		return nil, err
	}

	if c.config.AI.CacheSize == 0 {
		return provider, nil
	}

	replies := cache.New[models.Completion](c.config.AI.CacheSize, c.config.AI.CacheTTL.Duration)
	return ai.NewCachingCompleter(provider, replies), nil
}


package ai

import (
	"context"
	"time"

	"github.com/thomas-vilte/matereview/internal/cache"
	"github.com/thomas-vilte/matereview/internal/logger"
	"github.com/thomas-vilte/matereview/internal/models"
)

var _ Completer = (*CachingCompleter)(nil)

// CachingCompleter reuses replies for identical requests against the same
// provider and model.
type CachingCompleter struct {
	provider Provider
	cache    *cache.Cache[models.Completion]
}

func NewCachingCompleter(provider Provider, replies *cache.Cache[models.Completion]) *CachingCompleter {
	return &CachingCompleter{
		provider: provider,
		cache:    replies,
	}
}

func (w *CachingCompleter) Complete(ctx context.Context, req models.CompletionRequest) (models.Completion, error) {
	log := logger.FromContext(ctx)
	startTime := time.Now()

	providerName := w.provider.GetProviderName()
	modelName := w.provider.GetModelName()
	key := cache.GenerateHash(providerName + "\x00" + modelName + "\x00" + req.SystemInstruction + "\x00" + req.Prompt)

	if cached, hit := w.cache.Get(key); hit {
		log.Info("cache hit",
			"model", modelName,
			"cache_key_hash", key)

		return models.Completion{
			Text: cached.Text,
			Usage: &models.TokenUsage{
				CacheHit:   true,
				Model:      modelName,
				DurationMs: time.Since(startTime).Milliseconds(),
			},
		}, nil
	}

	log.Debug("cache miss, generating new content",
		"model", modelName,
		"cache_key_hash", key)

	completion, err := w.provider.Complete(ctx, req)
	if err != nil {
		return models.Completion{}, err
	}

	if completion.Usage == nil {
		completion.Usage = &models.TokenUsage{}
	}
	completion.Usage.Model = modelName
	completion.Usage.DurationMs = time.Since(startTime).Milliseconds()
	completion.Usage.CacheHit = false

	stored := completion
	usage := *completion.Usage
	stored.Usage = &usage
	w.cache.Set(key, stored)

	return completion, nil
}

func (w *CachingCompleter) GetModelName() string {
	return w.provider.GetModelName()
}

func (w *CachingCompleter) GetProviderName() string {
	return w.provider.GetProviderName()
}

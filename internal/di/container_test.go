package di

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thomas-vilte/matereview/internal/ai"
	"github.com/thomas-vilte/matereview/internal/config"
	domainErrors "github.com/thomas-vilte/matereview/internal/errors"
	"github.com/thomas-vilte/matereview/internal/i18n"
	"github.com/thomas-vilte/matereview/internal/models"
)

func newTestContainer(t *testing.T, cfg *config.Config) *Container {
	t.Helper()
	trans, err := i18n.NewTranslations("en", "")
	require.NoError(t, err)
	return NewContainer(cfg, trans)
}

func TestContainer_GetReviewService(t *testing.T) {
	t.Run("without API key the service exists but cannot review", func(t *testing.T) {
		c := newTestContainer(t, config.Default())

		svc, err := c.GetReviewService(context.Background())

		require.NoError(t, err)
		require.NotNil(t, svc)
		_, err = svc.Review(context.Background(), models.ReviewRequest{
			AssignmentDescription: "Build a small TODO API",
			RepositoryURL:         "https://github.com/octo/todo",
			CandidateLevel:        models.LevelJunior,
		})
		assert.ErrorIs(t, err, domainErrors.ErrAPIKeyMissing)
	})

	t.Run("provider errors other than a missing key are returned", func(t *testing.T) {
		c := newTestContainer(t, config.Default())
		c.SetProviderFactory(func(ctx context.Context, cfg config.AIConfig) (ai.Provider, error) {
			return nil, domainErrors.ErrAIKeyInvalid
		})

		svc, err := c.GetReviewService(context.Background())

		assert.ErrorIs(t, err, domainErrors.ErrAIKeyInvalid)
		assert.Nil(t, svc)
	})

	t.Run("the service is built once", func(t *testing.T) {
		calls := 0
		c := newTestContainer(t, config.Default())
		c.SetProviderFactory(func(ctx context.Context, cfg config.AIConfig) (ai.Provider, error) {
			calls++
			return new(ai.MockProvider), nil
		})

		first, err := c.GetReviewService(context.Background())
		require.NoError(t, err)
		second, err := c.GetReviewService(context.Background())
		require.NoError(t, err)

		assert.Same(t, first, second)
		assert.Equal(t, 1, calls)
	})
}

func TestContainer_BuildCompleter(t *testing.T) {
	provider := new(ai.MockProvider)
	factory := func(ctx context.Context, cfg config.AIConfig) (ai.Provider, error) {
		return provider, nil
	}

	t.Run("wraps the provider in a cache", func(t *testing.T) {
		c := newTestContainer(t, config.Default())
		c.SetProviderFactory(factory)

		completer, err := c.buildCompleter(context.Background())

		require.NoError(t, err)
		assert.IsType(t, &ai.CachingCompleter{}, completer)
	})

	t.Run("cache size zero disables the cache", func(t *testing.T) {
		cfg := config.Default()
		cfg.AI.CacheSize = 0
		c := newTestContainer(t, cfg)
		c.SetProviderFactory(factory)

		completer, err := c.buildCompleter(context.Background())

		require.NoError(t, err)
		assert.Same(t, provider, completer)
	})

	t.Run("propagates factory errors", func(t *testing.T) {
		c := newTestContainer(t, config.Default())
		c.SetProviderFactory(func(ctx context.Context, cfg config.AIConfig) (ai.Provider, error) {
			return nil, errors.New("boom")
		})

		_, err := c.buildCompleter(context.Background())

		assert.EqualError(t, err, "boom")
	})
}

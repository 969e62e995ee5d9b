package serve

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thomas-vilte/matereview/internal/config"
	"github.com/thomas-vilte/matereview/internal/i18n"
	"github.com/thomas-vilte/matereview/internal/models"
	"github.com/urfave/cli/v3"
)

type stubReviewer struct{}

func (stubReviewer) Review(context.Context, models.ReviewRequest) (models.ReviewResult, error) {
	return models.ReviewResult{}, nil
}

func newApp(t *testing.T, provider ReviewerProvider, stderr *bytes.Buffer) *cli.Command {
	t.Helper()
	color.NoColor = true
	trans, err := i18n.NewTranslations("en", "")
	require.NoError(t, err)

	return &cli.Command{
		Name:      "matereview",
		Writer:    &bytes.Buffer{},
		ErrWriter: stderr,
		Commands:  []*cli.Command{NewServeCommandFactory(provider).CreateCommand(trans, config.Default())},
	}
}

func TestServeCommand_StopsWhenContextEnds(t *testing.T) {
	var stderr bytes.Buffer
	app := newApp(t, func(context.Context) (Reviewer, error) { return stubReviewer{}, nil }, &stderr)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	err := app.Run(ctx, []string{"matereview", "serve", "--addr", "127.0.0.1:0"})

	require.NoError(t, err)
	assert.Contains(t, stderr.String(), "Listening on 127.0.0.1:0")
	assert.Contains(t, stderr.String(), "Server stopped")
}

func TestServeCommand_ProviderError(t *testing.T) {
	want := errors.New("bad config")
	app := newApp(t, func(context.Context) (Reviewer, error) { return nil, want }, &bytes.Buffer{})

	err := app.Run(context.Background(), []string{"matereview", "serve"})

	assert.ErrorIs(t, err, want)
}

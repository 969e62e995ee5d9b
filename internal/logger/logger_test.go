package logger

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestFromContext_FallsBackToDefault(t *testing.T) {
	assert.Equal(t, slog.Default(), FromContext(context.Background()))
}

func TestWith_AttachesAttributes(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ctx := WithLogger(context.Background(), base)
	ctx = With(ctx, "request_id", "abc123")

	Info(ctx, "review started")

	assert.Contains(t, buf.String(), "review started")
	assert.Contains(t, buf.String(), "request_id=abc123")
}

func TestError_AppendsErrorAttribute(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithLogger(context.Background(), slog.New(slog.NewTextHandler(&buf, nil)))

	Error(ctx, "fetch failed", assert.AnError)

	assert.Contains(t, buf.String(), "fetch failed")
	assert.Contains(t, buf.String(), assert.AnError.Error())
}

func TestPrettyHandler(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	t.Run("filters below configured level", func(t *testing.T) {
		var buf bytes.Buffer
		h := NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})
		l := slog.New(h)

		l.Debug("hidden")
		l.Info("shown", "files_included", 3)

		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "[INFO]  shown files_included=3")
	})

	t.Run("defaults to warn", func(t *testing.T) {
		var buf bytes.Buffer
		l := slog.New(NewPrettyHandler(&buf, nil))

		l.Info("quiet")
		l.Warn("loud")

		assert.NotContains(t, buf.String(), "quiet")
		assert.Contains(t, buf.String(), "[WARN]  loud")
	})

	t.Run("prefixes grouped attributes", func(t *testing.T) {
		var buf bytes.Buffer
		l := slog.New(NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

		l.WithGroup("github").With("owner", "octocat").Debug("tree listed")

		assert.Contains(t, buf.String(), "github.owner=octocat")
	})
}

func TestInitialize_SelectsLevel(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var buf bytes.Buffer
	l := Initialize(Options{Verbose: true, Output: &buf})

	assert.True(t, l.Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, l.Enabled(context.Background(), slog.LevelDebug))

	l = Initialize(Options{Debug: true, Output: &buf})
	assert.True(t, l.Enabled(context.Background(), slog.LevelDebug))
}

package ui

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainErrors "github.com/thomas-vilte/matereview/internal/errors"
	"github.com/thomas-vilte/matereview/internal/i18n"
	"github.com/thomas-vilte/matereview/internal/models"
)

func newTranslations(t *testing.T) *i18n.Translations {
	t.Helper()
	color.NoColor = true
	trans, err := i18n.NewTranslations("en", "")
	require.NoError(t, err)
	return trans
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestPrintReview(t *testing.T) {
	trans := newTranslations(t)

	t.Run("renders a parsed review", func(t *testing.T) {
		var buf bytes.Buffer
		result := models.ReviewResult{
			FilesFound: []string{"main.go"},
			Rating:     3,
			Summary:    "Decent structure.",
			Findings: []models.Finding{
				{File: strPtr("main.go"), Line: intPtr(12), Severity: models.SeverityHigh, Issue: "Ignored error", Suggestion: "Handle it"},
				{Severity: models.SeverityLow, Issue: "Missing README"},
			},
			Conclusion:    "Borderline.",
			IncludedFiles: 1,
			TotalBytes:    300,
		}

		PrintReview(&buf, "octo/api@HEAD", result, trans)

		out := buf.String()
		assert.Contains(t, out, "Review of octo/api@HEAD")
		assert.Contains(t, out, "★★★☆☆ (3/5)")
		assert.Contains(t, out, "[HIGH] main.go:12 Ignored error")
		assert.Contains(t, out, "→ Handle it")
		assert.Contains(t, out, "[LOW] Missing README")
		assert.Contains(t, out, "Borderline.")
		assert.Contains(t, out, "1 file included (300 bytes)")
		assert.NotContains(t, out, "Selection stopped early")
		assert.NotContains(t, out, "Translation missing")
	})

	t.Run("renders the raw reply when the model output was not parsed", func(t *testing.T) {
		var buf bytes.Buffer
		raw := "free text answer"

		PrintReview(&buf, "octo/api@HEAD", models.ReviewResult{RawText: &raw, Truncated: true, IncludedFiles: 2}, trans)

		out := buf.String()
		assert.Contains(t, out, "Raw model reply")
		assert.Contains(t, out, raw)
		assert.Contains(t, out, "Selection stopped early")
		assert.Contains(t, out, "2 files included")
		assert.NotContains(t, out, "Rating")
	})

	t.Run("reports no findings", func(t *testing.T) {
		var buf bytes.Buffer

		PrintReview(&buf, "octo/api@HEAD", models.ReviewResult{Findings: []models.Finding{}}, trans)

		assert.Contains(t, buf.String(), "No findings reported")
		assert.Contains(t, buf.String(), "☆☆☆☆☆ (0/5)")
	})
}

func TestStars_Clamps(t *testing.T) {
	color.NoColor = true

	assert.Equal(t, "★★★★★ (5/5)", stars(9))
	assert.Equal(t, "☆☆☆☆☆ (0/5)", stars(-1))
}

func TestShowFilesTree(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer

	ShowFilesTree(&buf, []models.FileEntry{
		{Path: "src/app.py", ByteLength: 120},
		{Path: "README.md", ByteLength: 40},
		{Path: "src/lib/util.py", ByteLength: 10},
	}, "Selected files")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 6)
	assert.Contains(t, lines[0], "Selected files")
	assert.Equal(t, "├── src/", lines[1])
	assert.Equal(t, "│   ├── lib/", lines[2])
	assert.Equal(t, "│   │   └── util.py (10 bytes)", lines[3])
	assert.Equal(t, "│   └── app.py (120 bytes)", lines[4])
	assert.Equal(t, "└── README.md (40 bytes)", lines[5])
}

func TestShowFilesTree_Empty(t *testing.T) {
	var buf bytes.Buffer

	ShowFilesTree(&buf, nil, "Selected files")

	assert.Empty(t, buf.String())
}

func TestHandleAppError(t *testing.T) {
	trans := newTranslations(t)

	t.Run("app error shows type, reason and suggestion", func(t *testing.T) {
		var buf bytes.Buffer
		err := fmt.Errorf("wrap: %w", domainErrors.ErrInvalidReference.WithContext("reason", "missing repository name"))

		HandleAppError(&buf, err, trans)

		out := buf.String()
		assert.Contains(t, out, "INPUT: invalid repository reference")
		assert.Contains(t, out, "missing repository name")
		assert.Contains(t, out, "Try: Use a URL like")
	})

	t.Run("plain error prints its message", func(t *testing.T) {
		var buf bytes.Buffer

		HandleAppError(&buf, errors.New("boom"), nil)

		assert.Contains(t, buf.String(), "boom")
	})

	t.Run("nil error prints nothing", func(t *testing.T) {
		var buf bytes.Buffer

		HandleAppError(&buf, nil, trans)

		assert.Empty(t, buf.String())
	})
}

func TestPrintTokenUsage(t *testing.T) {
	trans := newTranslations(t)

	t.Run("prints tokens and cost", func(t *testing.T) {
		var buf bytes.Buffer

		PrintTokenUsage(&buf, &models.TokenUsage{InputTokens: 100, OutputTokens: 20, TotalTokens: 120, CostUSD: 0.0123, DurationMs: 950}, trans)

		out := buf.String()
		assert.Contains(t, out, "Input 100 | Output 20 | Total 120")
		assert.Contains(t, out, "$0.0123 USD")
		assert.Contains(t, out, "950ms")
		assert.NotContains(t, out, "Served from cache")
	})

	t.Run("prints cache hits", func(t *testing.T) {
		var buf bytes.Buffer

		PrintTokenUsage(&buf, &models.TokenUsage{CacheHit: true}, trans)

		assert.Contains(t, buf.String(), "Served from cache")
		assert.NotContains(t, buf.String(), "USD")
	})

	t.Run("nil usage prints nothing", func(t *testing.T) {
		var buf bytes.Buffer

		PrintTokenUsage(&buf, nil, trans)

		assert.Empty(t, buf.String())
	})
}

func TestWithSpinnerAndDuration(t *testing.T) {
	color.NoColor = true

	t.Run("prints the done message on success", func(t *testing.T) {
		var buf bytes.Buffer

		err := WithSpinnerAndDuration(&buf, "working", "finished", func() error { return nil })

		require.NoError(t, err)
		assert.Contains(t, buf.String(), "finished")
	})

	t.Run("returns the error without the done message", func(t *testing.T) {
		var buf bytes.Buffer
		want := errors.New("failed")

		err := WithSpinnerAndDuration(&buf, "working", "finished", func() error { return want })

		assert.ErrorIs(t, err, want)
		assert.NotContains(t, buf.String(), "finished")
	})
}

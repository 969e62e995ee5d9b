package ai

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thomas-vilte/matereview/internal/models"
	"github.com/thomas-vilte/matereview/internal/selection"
)

func sampleDocument() models.RenderedDocument {
	return models.RenderedDocument{
		Entries: []models.FileEntry{
			{Path: "src/app.py", ByteLength: 14, Preview: "print('hello')"},
		},
		FilesIncluded: 1,
		TotalBytes:    14,
	}
}

func TestRenderPrompt(t *testing.T) {
	t.Run("Success - Render review prompt", func(t *testing.T) {
		result, err := RenderPrompt("review_test", reviewPromptTemplate, PromptData{
			Assignment: "Build a todo API",
			Level:      models.LevelMid,
			Contents:   "# Repository Files",
		})

		require.NoError(t, err)
		assert.Contains(t, result, "Mid-level candidate")
		assert.Contains(t, result, "Build a todo API")
		assert.Contains(t, result, "# Repository Files")
	})

	t.Run("Error - Invalid template", func(t *testing.T) {
		_, err := RenderPrompt("broken", "{{.Missing", PromptData{})

		assert.Error(t, err)
	})
}

func TestBuildPrompt(t *testing.T) {
	t.Run("includes assignment, level, schema and files", func(t *testing.T) {
		req, err := BuildPrompt("Build a CLI that counts words", models.LevelJunior, sampleDocument(), 20000)

		require.NoError(t, err)
		assert.NotEmpty(t, req.SystemInstruction)
		assert.Contains(t, req.Prompt, "Build a CLI that counts words")
		assert.Contains(t, req.Prompt, "calibrated to a Junior-level candidate")
		assert.Contains(t, req.Prompt, `"rating_out_of_5"`)
		assert.Contains(t, req.Prompt, `"findings"`)
		assert.Contains(t, req.Prompt, "## `src/app.py` (14 bytes)")
		assert.Contains(t, req.Prompt, "print('hello')")
		assert.NotContains(t, req.Prompt, TruncationMarker)
		assert.False(t, req.ContentTruncated)
	})

	t.Run("marker text inside a file is not a cut", func(t *testing.T) {
		doc := sampleDocument()
		doc.Entries[0].Preview = "log(\"" + TruncationMarker + "\")"

		req, err := BuildPrompt("Build a CLI that counts words", models.LevelJunior, doc, 20000)

		require.NoError(t, err)
		assert.Contains(t, req.Prompt, TruncationMarker)
		assert.False(t, req.ContentTruncated)
	})

	t.Run("template syntax in the assignment is kept as text", func(t *testing.T) {
		req, err := BuildPrompt("Render {{.Level}} literally", models.LevelSenior, sampleDocument(), 20000)

		require.NoError(t, err)
		assert.Contains(t, req.Prompt, "Render {{.Level}} literally")
	})

	t.Run("cuts long repository contents", func(t *testing.T) {
		doc := sampleDocument()
		doc.Entries[0].Preview = strings.Repeat("x", 500)

		req, err := BuildPrompt("Build a CLI that counts words", models.LevelJunior, doc, 100)

		require.NoError(t, err)
		full := selection.FormatDocument(doc)
		assert.Contains(t, req.Prompt, full[:100]+"\n"+TruncationMarker)
		assert.NotContains(t, req.Prompt, full)
		assert.True(t, req.ContentTruncated)
	})

	t.Run("lists declared dependencies", func(t *testing.T) {
		doc := sampleDocument()
		doc.Dependencies = []models.Dependency{
			{Name: "flask", Version: "==3.0", Manager: "pip"},
			{Name: "jest", Version: "^29.0.0", Manager: "npm", Dev: true},
			{Name: "pytest", Manager: "pip"},
		}

		req, err := BuildPrompt("Build a CLI that counts words", models.LevelJunior, doc, 20000)

		require.NoError(t, err)
		assert.Contains(t, req.Prompt, "## Declared dependencies\n- flask ==3.0 (pip)\n- jest ^29.0.0 (npm, dev)\n- pytest (pip)\n")
	})

	t.Run("omits the dependency section when there are none", func(t *testing.T) {
		req, err := BuildPrompt("Build a CLI that counts words", models.LevelJunior, sampleDocument(), 20000)

		require.NoError(t, err)
		assert.NotContains(t, req.Prompt, "Declared dependencies")
	})

	t.Run("empty document keeps the no files marker", func(t *testing.T) {
		req, err := BuildPrompt("Build a CLI that counts words", models.LevelJunior, models.RenderedDocument{}, 20000)

		require.NoError(t, err)
		assert.Contains(t, req.Prompt, selection.NoFilesMarker)
	})
}

func TestTruncateContent(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		maxChars int
		want     string
		wantCut  bool
	}{
		{"shorter than the limit", "short", 10, "short", false},
		{"exactly the limit", "exact", 5, "exact", false},
		{"longer than the limit", "abcdef", 2, "ab\n" + TruncationMarker, true},
		{"cuts on rune boundaries", "ñáé", 2, "ñá\n" + TruncationMarker, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, cut := TruncateContent(tt.text, tt.maxChars)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantCut, cut)
		})
	}
}

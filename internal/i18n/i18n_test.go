package i18n

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTranslations(t *testing.T) {
	t.Run("loads built-in locales without a directory", func(t *testing.T) {
		trans, err := NewTranslations("en", "")

		require.NoError(t, err)
		assert.Equal(t, "Repository not found", trans.GetMessage("detail_repository_not_found", 0, nil))
	})

	t.Run("fails with empty language", func(t *testing.T) {
		trans, err := NewTranslations("", "")

		assert.Error(t, err)
		assert.Nil(t, trans)
	})

	t.Run("directory files override built-in messages", func(t *testing.T) {
		dir := t.TempDir()
		writeLocale(t, dir, "active.en.toml", `
		[detail_repository_not_found]
		other = "No such repo"`)

		trans, err := NewTranslations("en", dir)

		require.NoError(t, err)
		assert.Equal(t, "No such repo", trans.GetMessage("detail_repository_not_found", 0, nil))
	})

	t.Run("malformed locale file is reported", func(t *testing.T) {
		dir := t.TempDir()
		writeLocale(t, dir, "active.en.toml", `[broken`)

		_, err := NewTranslations("en", dir)

		assert.Error(t, err)
	})
}

func TestSetLanguage(t *testing.T) {
	trans, err := NewTranslations("en", "")
	require.NoError(t, err)

	t.Run("switches to spanish", func(t *testing.T) {
		require.NoError(t, trans.SetLanguage("es"))
		assert.Equal(t, "Repositorio no encontrado", trans.GetMessage("detail_repository_not_found", 0, nil))
	})

	t.Run("rejects unsupported language", func(t *testing.T) {
		assert.Error(t, trans.SetLanguage("fr"))
	})
}

func TestGetMessage(t *testing.T) {
	trans, err := NewTranslations("en", "")
	require.NoError(t, err)

	t.Run("plural forms", func(t *testing.T) {
		one := trans.GetMessage("files_included", 1, map[string]interface{}{"Count": 1, "Bytes": 10})
		many := trans.GetMessage("files_included", 3, map[string]interface{}{"Count": 3, "Bytes": 30})

		assert.Equal(t, "1 file included (10 bytes)", one)
		assert.Equal(t, "3 files included (30 bytes)", many)
	})

	t.Run("template data", func(t *testing.T) {
		msg := trans.GetMessage("detail_invalid_request", 0, map[string]interface{}{"Reason": "candidate_level"})
		assert.Equal(t, "Invalid request: candidate_level", msg)
	})

	t.Run("missing message", func(t *testing.T) {
		assert.Equal(t, "Translation missing: NonExistent", trans.GetMessage("NonExistent", 0, nil))
	})
}

func writeLocale(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

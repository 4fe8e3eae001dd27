package main

import (
	"os"
	"path/filepath"
	"testing"

	"trivia-gen/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadUpload(t *testing.T) {
	t.Run("NoPath", func(t *testing.T) {
		upload, err := loadUpload("")
		assert.Nil(t, upload)
		assert.True(t, domain.HasCode(err, domain.ErrMissingInput))
		assert.Equal(t, "Please upload a PDF file!", userMessage(err))
	})

	t.Run("Unreadable", func(t *testing.T) {
		_, err := loadUpload(filepath.Join(t.TempDir(), "missing.pdf"))
		require.Error(t, err)
		assert.False(t, domain.HasCode(err, domain.ErrMissingInput))
	})

	t.Run("File", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "lecture.pdf")
		require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o600))

		upload, err := loadUpload(path)
		require.NoError(t, err)
		assert.Equal(t, "lecture.pdf", upload.FileName)
		assert.Equal(t, "application/pdf", upload.ContentType)
		assert.Equal(t, []byte("%PDF-1.4"), upload.Data)
	})
}

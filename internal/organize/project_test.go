package organize_test

import (
	"testing"

	"autosort/internal/organize"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectDetector(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/home/u/Desktop/website/package.json", 2, march15)
	writeFile(t, fs, "/home/u/Desktop/website/assets/logo.png", 2, march15)
	writeFile(t, fs, "/home/u/Desktop/loose.txt", 2, march15)
	writeFile(t, fs, "/home/u/.git/HEAD", 2, march15)

	d := organize.NewProjectDetector(fs)

	t.Run("nearest marker wins", func(t *testing.T) {
		name, ok := d.Detect("/home/u/Desktop/website/assets/logo.png", "/home/u/Desktop")
		require.True(t, ok)
		assert.Equal(t, "website", name)
	})

	t.Run("walk stops at the boundary", func(t *testing.T) {
		_, ok := d.Detect("/home/u/Desktop/loose.txt", "/home/u/Desktop")
		assert.False(t, ok)
	})

	t.Run("unbounded walk reaches distant ancestors", func(t *testing.T) {
		name, ok := d.Detect("/home/u/Desktop/loose.txt", "")
		require.True(t, ok)
		assert.Equal(t, "u", name)
	})

	t.Run("boundary elsewhere does not bound", func(t *testing.T) {
		name, ok := d.Detect("/home/u/Desktop/loose.txt", "/srv")
		require.True(t, ok)
		assert.Equal(t, "u", name)
	})

	t.Run("keyword in file name", func(t *testing.T) {
		name, ok := d.Detect("/home/u/Desktop/Client-invoice.pdf", "/home/u/Desktop")
		require.True(t, ok)
		assert.Equal(t, "Client", name)

		name, ok = d.Detect("/home/u/Desktop/mi_proyecto_final.docx", "/home/u/Desktop")
		require.True(t, ok)
		assert.Equal(t, "Proyecto", name)
	})
}

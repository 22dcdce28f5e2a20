package organize_test

import (
	"fmt"
	"testing"

	"autosort/internal/organize"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniquePath(t *testing.T) {
	fs := afero.NewMemMapFs()

	t.Run("free path is returned unchanged", func(t *testing.T) {
		got, err := organize.UniquePath(fs, "/d/notes.txt")
		require.NoError(t, err)
		assert.Equal(t, "/d/notes.txt", got)
	})

	t.Run("counts up until free", func(t *testing.T) {
		writeFile(t, fs, "/d/notes.txt", 1, march15)
		got, err := organize.UniquePath(fs, "/d/notes.txt")
		require.NoError(t, err)
		assert.Equal(t, "/d/notes (1).txt", got)

		for i := 1; i <= 5; i++ {
			writeFile(t, fs, fmt.Sprintf("/d/notes (%d).txt", i), 1, march15)
		}
		got, err = organize.UniquePath(fs, "/d/notes.txt")
		require.NoError(t, err)
		assert.Equal(t, "/d/notes (6).txt", got)
		requireMissing(t, fs, got)
	})

	t.Run("idempotent", func(t *testing.T) {
		first, err := organize.UniquePath(fs, "/d/notes.txt")
		require.NoError(t, err)
		second, err := organize.UniquePath(fs, first)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("no extension", func(t *testing.T) {
		writeFile(t, fs, "/d/Makefile", 1, march15)
		got, err := organize.UniquePath(fs, "/d/Makefile")
		require.NoError(t, err)
		assert.Equal(t, "/d/Makefile (1)", got)
	})
}

package organize_test

import (
	"testing"

	"autosort/internal/config"
	"autosort/internal/errors"
	"autosort/internal/organize"
	"autosort/pkg/types"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "2024-03", organize.FormatDate(march15, config.DateYearMonth))
	assert.Equal(t, "2024/03", organize.FormatDate(march15, config.DateYearThenMonth))
	assert.Equal(t, "2024/03/15", organize.FormatDate(march15, config.DateYearMonthDay))
	assert.Equal(t, "2024/03/15", organize.FormatDate(march15, "AAAA/MM/DD"))
}

func TestLayoutSegments(t *testing.T) {
	class := organize.Classification{Category: "Documentos", Date: "2024/03/15", Project: "Website"}

	tests := []struct {
		name   string
		layout organize.Layout
		want   []string
	}{
		{"type only", organize.Layout{ByType: true}, []string{"Documentos"}},
		{"type and date", organize.Layout{ByType: true, ByDate: true}, []string{"Documentos", "2024", "03", "15"}},
		{"all", organize.Layout{ByType: true, ByDate: true, ByProject: true}, []string{"Documentos", "2024", "03", "15", "Website"}},
		{"nothing", organize.Layout{}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.layout.Segments(class))
		})
	}

	t.Run("missing project", func(t *testing.T) {
		got := organize.Layout{ByProject: true}.Segments(organize.Classification{})
		assert.Equal(t, []string{organize.NoProject}, got)
	})

	t.Run("by date without a date", func(t *testing.T) {
		got := organize.Layout{ByType: true, ByDate: true}.Segments(organize.Classification{Category: "Audio"})
		assert.Equal(t, []string{"Audio"}, got)
	})
}

func TestClassifier(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/home/Website/.git", 0o755))
	file := types.FileDescriptor{Path: "/home/Website/logo.PNG", Ext: ".PNG", ModTime: march15}

	cfg := config.NewTestConfig()
	cfg.Settings.OrganizeByProject = true
	c := organize.NewClassifier(fs, cfg)
	assert.Equal(t, organize.Classification{Category: "Imágenes", Date: "2024-03", Project: "Website"}, c.Classify(file, "/home"))
	assert.Equal(t, []string{"Imágenes", "2024-03", "Website"}, c.Segments(file, "/home"))

	cfg.Settings.OrganizeByType = false
	cfg.Settings.OrganizeByDate = false
	c = organize.NewClassifier(fs, cfg)
	assert.Equal(t, "Imágenes", c.Category(file), "category is known even when not used as a folder")
	assert.Equal(t, []string{"Website"}, c.Segments(file, "/home"))
}

func TestEnsureDir(t *testing.T) {
	t.Run("counts only new directories", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, fs.MkdirAll("/root/Organized/Documentos", 0o755))

		dir, created, err := organize.EnsureDir(fs, "/root/Organized", []string{"Documentos", "2024-03"}, true)
		require.NoError(t, err)
		assert.Equal(t, "/root/Organized/Documentos/2024-03", dir)
		assert.Equal(t, 1, created)

		_, created, err = organize.EnsureDir(fs, "/root/Organized", []string{"Documentos", "2024-03"}, true)
		require.NoError(t, err)
		assert.Zero(t, created)
	})

	t.Run("creates the base too", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, fs.MkdirAll("/root", 0o755))

		_, created, err := organize.EnsureDir(fs, "/root/Organized", []string{"Imágenes", "2024", "03"}, true)
		require.NoError(t, err)
		assert.Equal(t, 4, created)
		requireExists(t, fs, "/root/Organized/Imágenes/2024/03")
	})

	t.Run("missing directory without create", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, fs.MkdirAll("/root", 0o755))

		_, created, err := organize.EnsureDir(fs, "/root/Organized", []string{"Audio"}, false)
		require.Error(t, err)
		assert.Zero(t, created)
		assert.Equal(t, errors.InvalidPath, errors.KindOf(err))
		requireMissing(t, fs, "/root/Organized")
	})

	t.Run("file in the way", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		writeFile(t, fs, "/root/Organized", 1, march15)

		_, _, err := organize.EnsureDir(fs, "/root/Organized", []string{"Audio"}, true)
		require.Error(t, err)
		assert.Equal(t, errors.InvalidPath, errors.KindOf(err))
	})
}

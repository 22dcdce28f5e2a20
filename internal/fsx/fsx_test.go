package fsx

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMove_SameDevice(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/src/a.txt", []byte("hello"), 0o644))
	require.NoError(t, fs.MkdirAll("/dst", 0o755))

	require.NoError(t, Move(fs, "/src/a.txt", "/dst/a.txt"))

	exists, err := afero.Exists(fs, "/src/a.txt")
	require.NoError(t, err)
	assert.False(t, exists, "source should be gone after a move")

	data, err := afero.ReadFile(fs, "/dst/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestMove_PermissionErrorIsReturned(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/a.txt", []byte("x"), 0o644))

	old := renameFunc
	renameFunc = func(afero.Fs, string, string) error { return os.ErrPermission }
	defer func() { renameFunc = old }()

	err := Move(fs, "/a.txt", "/b.txt")
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrPermission)
	assert.False(t, IsCrossDevice(err))

	exists, _ := afero.Exists(fs, "/a.txt")
	assert.True(t, exists, "source must stay when the move fails")
}

func TestCopy_PreservesModTimeAndRefusesOverwrite(t *testing.T) {
	fs := afero.NewMemMapFs()
	mtime := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	require.NoError(t, afero.WriteFile(fs, "/a.txt", []byte("copy me"), 0o644))
	require.NoError(t, fs.Chtimes("/a.txt", mtime, mtime))

	require.NoError(t, Copy(fs, "/a.txt", "/b.txt"))

	info, err := fs.Stat("/b.txt")
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(mtime))

	data, err := afero.ReadFile(fs, "/b.txt")
	require.NoError(t, err)
	assert.Equal(t, "copy me", string(data))

	// The source is untouched by a copy.
	exists, _ := afero.Exists(fs, "/a.txt")
	assert.True(t, exists)

	assert.Error(t, Copy(fs, "/a.txt", "/b.txt"), "copy must not overwrite an existing file")
}

func TestWriteFileAtomic_ReplacesAndLeavesNoTemp(t *testing.T) {
	dir := t.TempDir()
	fs := afero.NewOsFs()

	require.NoError(t, WriteFileAtomic(fs, dir, "config.yaml", []byte("one"), 0o644))
	require.NoError(t, WriteFileAtomic(fs, dir, "config.yaml", []byte("two"), 0o644))

	b, err := os.ReadFile(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "two", string(b))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), ".config.yaml.tmp-"), "temp file left behind: %s", e.Name())
	}
}

func TestWriteFileAtomic_RenameFailCleansTemp(t *testing.T) {
	dir := t.TempDir()
	fs := afero.NewOsFs()

	old := renameFunc
	renameFunc = func(afero.Fs, string, string) error { return os.ErrPermission }
	defer func() { renameFunc = old }()

	require.Error(t, WriteFileAtomic(fs, dir, "config.yaml", []byte("x"), 0o644))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestResolveDir(t *testing.T) {
	target := EvalDir(t.TempDir())
	link := filepath.Join(t.TempDir(), "link")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	assert.Equal(t, target, ResolveDir(afero.NewOsFs(), link))
	assert.Equal(t, link, ResolveDir(afero.NewMemMapFs(), link+"/"), "only the OS filesystem is resolved")
	assert.Equal(t, "/does/not/exist", ResolveDir(afero.NewOsFs(), "/does/not/exist/"))
}

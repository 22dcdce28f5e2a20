//go:build unix

package fsx

import (
	"os"
	"testing"

	"autosort/internal/errors"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

// stuckSourceFs refuses to remove one path.
type stuckSourceFs struct {
	afero.Fs
	stuck string
}

func (s *stuckSourceFs) Remove(name string) error {
	if name == s.stuck {
		return &os.PathError{Op: "remove", Path: name, Err: os.ErrPermission}
	}
	return s.Fs.Remove(name)
}

func crossDevice(t *testing.T) {
	t.Helper()
	old := renameFunc
	renameFunc = func(_ afero.Fs, oldpath, newpath string) error {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: unix.EXDEV}
	}
	t.Cleanup(func() { renameFunc = old })
}

func TestMove_CrossDeviceFallsBackToCopy(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/mnt/a/photo.jpg", []byte("jpeg"), 0o644))
	require.NoError(t, fs.MkdirAll("/mnt/b", 0o755))

	crossDevice(t)

	err := Rename(fs, "/mnt/a/photo.jpg", "/mnt/b/photo.jpg")
	require.Error(t, err)
	assert.True(t, IsCrossDevice(err))

	require.NoError(t, Move(fs, "/mnt/a/photo.jpg", "/mnt/b/photo.jpg"))

	exists, _ := afero.Exists(fs, "/mnt/a/photo.jpg")
	assert.False(t, exists)
	data, err := afero.ReadFile(fs, "/mnt/b/photo.jpg")
	require.NoError(t, err)
	assert.Equal(t, "jpeg", string(data))
}

func TestMove_CrossDeviceKeepsSingleCopyWhenSourceStays(t *testing.T) {
	fs := &stuckSourceFs{Fs: afero.NewMemMapFs(), stuck: "/mnt/a/photo.jpg"}
	require.NoError(t, afero.WriteFile(fs, "/mnt/a/photo.jpg", []byte("jpeg"), 0o644))
	require.NoError(t, fs.MkdirAll("/mnt/b", 0o755))
	crossDevice(t)

	err := Move(fs, "/mnt/a/photo.jpg", "/mnt/b/photo.jpg")
	require.Error(t, err)
	assert.True(t, errors.IsFileAccessDenied(err))

	exists, _ := afero.Exists(fs, "/mnt/a/photo.jpg")
	assert.True(t, exists, "source is untouched")
	exists, _ = afero.Exists(fs, "/mnt/b/photo.jpg")
	assert.False(t, exists, "the copy is rolled back")
}

// Package fsx holds the filesystem primitives the organizer relies on:
// moving with a copy fallback across devices, copying with the original
// modification time, and atomic whole-file writes.
package fsx

import (
	"io"
	"os"
	"path/filepath"

	"autosort/internal/errors"
	"autosort/internal/log"

	"github.com/spf13/afero"
)

// Swappable so tests can simulate EXDEV and permission failures.
var renameFunc = func(fs afero.Fs, oldpath, newpath string) error {
	return fs.Rename(oldpath, newpath)
}

// IsCrossDevice reports whether err is a rename failure between devices.
func IsCrossDevice(err error) bool {
	return errors.KindOf(err) == errors.CrossDevice || isEXDEV(err)
}

// Rename renames src to dst and tags cross-device failures with the
// CrossDevice kind.
func Rename(fs afero.Fs, src, dst string) error {
	if err := renameFunc(fs, src, dst); err != nil {
		if isEXDEV(err) {
			return errors.NewFileError("cross-device rename", src, errors.CrossDevice, err)
		}
		return err
	}
	return nil
}

// Move relocates src to dst. A rename that fails because the two paths
// live on different devices falls back to copy followed by removal of src.
func Move(fs afero.Fs, src, dst string) error {
	err := Rename(fs, src, dst)
	if err == nil || !IsCrossDevice(err) {
		return err
	}
	if err := Copy(fs, src, dst); err != nil {
		return err
	}
	if err := fs.Remove(src); err != nil {
		if rmErr := fs.Remove(dst); rmErr != nil {
			log.LogWithError(rmErr).With(log.F("copy", dst)).Warn("Could not remove copy after failed move")
		}
		return errors.NewPathError("could not remove source after copying", src, err)
	}
	return nil
}

// Copy copies the content of src to a new file dst, keeping the permission
// bits and modification time of src. dst must not exist.
func Copy(fs afero.Fs, src, dst string) error {
	in, err := fs.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := fs.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = fs.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		_ = fs.Remove(dst)
		return err
	}
	return fs.Chtimes(dst, info.ModTime(), info.ModTime())
}

// ResolveDir returns dir with symlinks evaluated when fs is the operating
// system filesystem, so a walk starting at a linked folder enters it. Other
// filesystems and unresolvable paths return dir cleaned.
func ResolveDir(fs afero.Fs, dir string) string {
	dir = filepath.Clean(dir)
	if _, ok := fs.(*afero.OsFs); !ok {
		return dir
	}
	return EvalDir(dir)
}

// EvalDir is ResolveDir for paths on the operating system filesystem.
func EvalDir(dir string) string {
	dir = filepath.Clean(dir)
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return dir
	}
	return resolved
}

// WriteFileAtomic writes data to dir/name through a temporary file in the
// same directory followed by a rename, replacing any previous file.
func WriteFileAtomic(fs afero.Fs, dir, name string, data []byte, perm os.FileMode) error {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := afero.TempFile(fs, dir, "."+name+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = fs.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := fs.Chmod(tmpName, perm); err != nil {
		return err
	}

	return Rename(fs, tmpName, filepath.Join(dir, name))
}

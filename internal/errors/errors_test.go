package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	// Test creating a new error
	err := New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())

	// Test creating a new formatted error
	err = Newf("formatted %s", "error")
	assert.NotNil(t, err)
	assert.Equal(t, "formatted error", err.Error())

	// Check that the error is an ApplicationError
	var appErr *ApplicationError
	assert.True(t, As(err, &appErr))
	assert.Equal(t, "formatted error", appErr.Error())
	assert.Equal(t, Unknown, appErr.Kind())
}

func TestWrapping(t *testing.T) {
	// Test wrapping an error
	origErr := New("original error")
	wrappedErr := Wrap(origErr, "wrapped")
	assert.NotNil(t, wrappedErr)
	assert.Equal(t, "wrapped: original error", wrappedErr.Error())

	// Test unwrapping
	unwrappedErr := errors.Unwrap(wrappedErr)
	assert.Equal(t, origErr, unwrappedErr)

	// Test wrapped formatted error
	wrappedFormatted := Wrapf(origErr, "formatted %s", "wrapper")
	assert.NotNil(t, wrappedFormatted)
	assert.Equal(t, "formatted wrapper: original error", wrappedFormatted.Error())

	// Test wrapping nil returns nil
	assert.Nil(t, Wrap(nil, "wrapper"))
	assert.Nil(t, Wrapf(nil, "formatted %s", "wrapper"))

	// Test deeper wrapping
	deepWrapped := Wrap(wrappedErr, "deeper")
	assert.Equal(t, "deeper: wrapped: original error", deepWrapped.Error())

	// Test Is function
	assert.True(t, Is(wrappedErr, origErr))
	assert.True(t, Is(deepWrapped, origErr))
}

func TestFileError(t *testing.T) {
	// Test creating a file error
	fileErr := NewFileError("cannot access", "/path/to/file", FileAccessDenied, nil)
	assert.NotNil(t, fileErr)
	assert.Equal(t, "cannot access: /path/to/file", fileErr.Error())
	assert.Equal(t, "/path/to/file", fileErr.Path())
	assert.Equal(t, FileAccessDenied, fileErr.Kind())

	// Test with wrapped error
	origErr := fmt.Errorf("permission denied")
	fileErr = NewFileError("cannot access", "/path/to/file", FileAccessDenied, origErr)
	assert.Equal(t, "cannot access: /path/to/file: permission denied", fileErr.Error())
	assert.Equal(t, origErr, errors.Unwrap(fileErr))

	// Test IsFileNotFound predicate
	notFoundErr := NewFileError("file not found", "/missing/file", FileNotFound, nil)
	assert.True(t, IsFileNotFound(notFoundErr))
	assert.False(t, IsFileNotFound(fileErr)) // This is FileAccessDenied

	// Test IsFileAccessDenied predicate
	assert.True(t, IsFileAccessDenied(fileErr))
	assert.False(t, IsFileAccessDenied(notFoundErr))

	// Test As for FileError
	var fe *FileError
	assert.True(t, As(fileErr, &fe))
	assert.Equal(t, "/path/to/file", fe.Path())
}

func TestConfigError(t *testing.T) {
	// Test creating a config error
	configErr := NewConfigError("invalid value", "timeout", InvalidConfig, nil)
	assert.NotNil(t, configErr)
	assert.Equal(t, "invalid value: timeout", configErr.Error())
	assert.Equal(t, "timeout", configErr.Param())
	assert.Equal(t, InvalidConfig, configErr.Kind())

	// Test with wrapped error
	origErr := fmt.Errorf("value out of range")
	configErr = NewConfigError("invalid value", "timeout", InvalidConfig, origErr)
	assert.Equal(t, "invalid value: timeout: value out of range", configErr.Error())
	assert.Equal(t, origErr, errors.Unwrap(configErr))

	// Test IsInvalidConfig predicate
	assert.True(t, IsInvalidConfig(configErr))
	assert.False(t, IsInvalidConfig(New("some other error")))

	// Test As for ConfigError
	var ce *ConfigError
	assert.True(t, As(configErr, &ce))
	assert.Equal(t, "timeout", ce.Param())
}

func TestRunError(t *testing.T) {
	runErr := NewRunError("an organize run is already in progress", RunInProgress, nil)
	assert.Equal(t, "an organize run is already in progress", runErr.Error())
	assert.Equal(t, RunInProgress, runErr.Kind())
	assert.True(t, IsRunInProgress(runErr))
	assert.True(t, IsRunInProgress(ErrRunInProgress))

	failed := NewRunError("organize run failed", RunFailed, fmt.Errorf("boom"))
	assert.Equal(t, "organize run failed: boom", failed.Error())
	assert.False(t, IsRunInProgress(failed))
	assert.Equal(t, RunFailed, KindOf(failed))
}

func TestErrorChains(t *testing.T) {
	// Create a chain of errors
	baseErr := errors.New("base error")
	fileErr := NewFileError("file error", "/path/to/file", FileNotFound, baseErr)
	configErr := NewConfigError("config error", "categories", InvalidConfig, fileErr)
	runErr := NewRunError("run error", RunFailed, configErr)

	// Test complete error message
	assert.Equal(t, "run error: config error: categories: file error: /path/to/file: base error", runErr.Error())

	// Test Is function through the chain
	assert.True(t, Is(runErr, baseErr))
	assert.True(t, Is(runErr, fileErr))
	assert.True(t, Is(runErr, configErr))

	// Test As function through the chain
	var fe *FileError
	assert.True(t, As(runErr, &fe))
	assert.Equal(t, "/path/to/file", fe.Path())

	var ce *ConfigError
	assert.True(t, As(runErr, &ce))
	assert.Equal(t, "categories", ce.Param())

	// Test error predicates through the chain
	assert.True(t, IsFileNotFound(runErr))
	assert.True(t, IsInvalidConfig(runErr))
	assert.Equal(t, FileNotFound, KindOf(fileErr))
	assert.Equal(t, Unknown, KindOf(baseErr))
}

func TestNewPathError(t *testing.T) {
	missing := NewPathError("cannot read", "/gone", fs.ErrNotExist)
	assert.True(t, IsFileNotFound(missing))
	assert.Equal(t, "cannot read: /gone: file does not exist", missing.Error())

	denied := NewPathError("cannot read", "/locked", &fs.PathError{Op: "open", Path: "/locked", Err: fs.ErrPermission})
	assert.True(t, IsFileAccessDenied(denied))

	other := NewPathError("cannot read", "/dev/odd", fmt.Errorf("i/o error"))
	assert.Equal(t, FileOperationFailed, other.Kind())
}

func TestErrorKindString(t *testing.T) {
	assert.Equal(t, "file_access_denied", FileAccessDenied.String())
	assert.Equal(t, "cross_device", CrossDevice.String())
	assert.Equal(t, "unknown", Unknown.String())
}

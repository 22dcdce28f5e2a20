package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"autosort/internal/config"
	"autosort/internal/errors"
	"autosort/internal/log"
	"autosort/internal/organize"
	"autosort/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the CLI against a private configuration file.
func execute(t *testing.T, configPath string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", configPath}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func writeDated(t *testing.T, path string, mtime time.Time) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("content"), 0o644))
	require.NoError(t, os.Chtimes(path, mtime, mtime))
}

func TestAnalyzeCommand(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	root := t.TempDir()
	writeDated(t, filepath.Join(root, "report.pdf"), time.Date(2024, 3, 15, 12, 0, 0, 0, time.Local))
	writeDated(t, filepath.Join(root, ".DS_Store"), time.Date(2024, 3, 15, 12, 0, 0, 0, time.Local))

	out, err := execute(t, configPath, "analyze", root, "--detailed")
	require.NoError(t, err)
	assert.Contains(t, out, "Documentos")
	assert.Contains(t, out, filepath.Join("Organized", "Documentos", "2024-03", "report.pdf"))
	assert.Contains(t, out, "Ignored: 1")
	assert.FileExists(t, filepath.Join(root, "report.pdf"), "analyze moves nothing")
}

func TestOrganizeCommand(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	root := t.TempDir()
	march := time.Date(2024, 3, 15, 12, 0, 0, 0, time.Local)
	writeDated(t, filepath.Join(root, "report.pdf"), march)
	writeDated(t, filepath.Join(root, "photo.png"), march)
	writeDated(t, filepath.Join(root, "notes.unknownext"), march)

	out, err := execute(t, configPath, "organize", root, "--plain")
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(root, "Organized", "Documentos", "2024-03", "report.pdf"))
	assert.FileExists(t, filepath.Join(root, "Organized", "Imágenes", "2024-03", "photo.png"))
	assert.FileExists(t, filepath.Join(root, "Organized", "Other", "2024-03", "notes.unknownext"))
	assert.NoFileExists(t, filepath.Join(root, "report.pdf"))
	assert.Contains(t, out, "Organizing "+root)
	assert.Contains(t, out, "[1/3]")
	assert.Contains(t, out, "Organization completed")
	assert.Contains(t, out, "Processed")

	t.Run("history", func(t *testing.T) {
		out, err := execute(t, configPath, "history")
		require.NoError(t, err)
		assert.Contains(t, out, root)
		assert.Contains(t, out, "completed")
	})

	t.Run("stats", func(t *testing.T) {
		out, err := execute(t, configPath, "stats")
		require.NoError(t, err)
		assert.Contains(t, out, "Files organized")
		assert.Contains(t, out, "3")
		assert.NotContains(t, out, "never")
	})
}

func TestOrganizeFlags(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	root := t.TempDir()
	writeDated(t, filepath.Join(root, "report.pdf"), time.Date(2024, 3, 15, 12, 0, 0, 0, time.Local))

	_, err := execute(t, configPath, "organize", root, "--plain", "--copy", "--by-date=false", "--output-dir", "Sorted")
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(root, "report.pdf"), "copy leaves the source")
	assert.FileExists(t, filepath.Join(root, "Sorted", "Documentos", "report.pdf"))

	// Overrides are not saved
	out, err := execute(t, configPath, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "output_dir: Organized")
	assert.Contains(t, out, "move_files: true")
}

func TestOrganizeErrors(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	_, err := execute(t, configPath, "organize", t.TempDir(), "--plain", "--date-format", "MM/YYYY")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid date format")

	out, err := execute(t, configPath, "organize", filepath.Join(t.TempDir(), "missing"), "--plain")
	require.Error(t, err)
	assert.Contains(t, out, "Organization failed")

	out, err = execute(t, configPath, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No runs recorded yet.", "failed runs are not recorded")
}

func TestConfigCommands(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "config.yaml")

	out, err := execute(t, configPath, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, configPath+"\n", out)

	out, err = execute(t, configPath, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+configPath)
	assert.FileExists(t, configPath)

	_, err = execute(t, configPath, "config", "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = execute(t, configPath, "config", "init", "--force")
	require.NoError(t, err)
}

func TestInvalidConfigFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("settings:\n  output_dir: \"a/b\"\n"), 0o644))

	_, err := execute(t, configPath, "stats")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
	assert.Contains(t, err.Error(), "config init --force")
	assert.True(t, errors.IsInvalidConfig(err))

	_, err = execute(t, configPath, "config", "init", "--force")
	require.NoError(t, err)
	_, err = execute(t, configPath, "stats")
	require.NoError(t, err)
}

// busyRunner rejects every run as if another one were active.
type busyRunner struct{}

func (busyRunner) Run(_ context.Context, root string, events chan<- types.ProgressEvent) types.RunResult {
	if events != nil {
		close(events)
	}
	return types.RunResult{Root: root, Status: types.StatusFailed, Err: errors.ErrRunInProgress}
}

func (busyRunner) Cancel() {}

func (busyRunner) State() organize.State { return organize.StateRunning }

func (busyRunner) Reconfigure(*config.Config) error { return errors.ErrRunInProgress }

func TestOrganizeReportsBusyRunner(t *testing.T) {
	organize.SetRunnerFactory(func(*config.Config, ...organize.Option) organize.Runner { return busyRunner{} })
	defer organize.ResetRunnerFactory()

	out, err := execute(t, filepath.Join(t.TempDir(), "config.yaml"), "organize", t.TempDir(), "--plain")
	require.Error(t, err)
	assert.True(t, errors.IsRunInProgress(err))
	assert.Contains(t, out, "Another organize run is still active")
	assert.NotContains(t, out, "Error:")
}

func TestDetachLogs(t *testing.T) {
	logFile = filepath.Join(t.TempDir(), "autosort.log")
	defer func() {
		logFile = ""
		configureLogging(os.Stderr)
	}()

	var terminal bytes.Buffer
	configureLogging(&terminal)
	restore := detachLogs(&terminal)
	log.Info("while the progress screen is up")
	restore()
	log.Info("back on the terminal")

	assert.NotContains(t, terminal.String(), "while the progress screen is up")
	assert.Contains(t, terminal.String(), "back on the terminal")

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "while the progress screen is up")
	assert.Contains(t, string(data), "back on the terminal")
}

func TestFavoritesCommand(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	dir := t.TempDir()

	out, err := execute(t, configPath, "favorites")
	require.NoError(t, err)
	assert.Contains(t, out, "No favorite folders.")

	_, err = execute(t, configPath, "favorites", "add", dir)
	require.NoError(t, err)
	_, err = execute(t, configPath, "favorites", "add", dir)
	require.NoError(t, err)

	out, err = execute(t, configPath, "favorites")
	require.NoError(t, err)
	assert.Equal(t, dir+"\n", out)
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", formatBytes(512))
	assert.Equal(t, "1.5 KiB", formatBytes(1536))
	assert.Equal(t, "3.0 MiB", formatBytes(3*1024*1024))
}

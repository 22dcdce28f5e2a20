package config

import (
	"context"
	"path/filepath"
	"time"

	"autosort/internal/errors"
	"autosort/internal/fsx"
	"autosort/internal/log"
	"autosort/pkg/types"

	"github.com/gofrs/flock"
	"github.com/spf13/afero"
)

// lockTimeout bounds how long a writer waits for another process that is
// saving the same configuration file.
const lockTimeout = 5 * time.Second

// Store reads and writes the configuration file. Writers are serialised
// across processes with a lock file next to the configuration, and every
// write replaces the file atomically.
type Store struct {
	path string
	fs   afero.Fs
	lock *flock.Flock
}

// NewStore returns a store for path. An empty path uses DefaultPath, or
// "config.yaml" in the working directory when no user config directory
// can be determined.
func NewStore(path string) *Store {
	if path == "" {
		if p, err := DefaultPath(); err == nil {
			path = p
		} else {
			path = "config.yaml"
		}
	}
	return &Store{
		path: path,
		fs:   afero.NewOsFs(),
		lock: flock.New(path + ".lock"),
	}
}

// Path returns the configuration file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the configuration, falling back to defaults when the file
// does not exist yet.
func (s *Store) Load() (*Config, error) {
	return LoadConfigFile(s.path)
}

// Save writes cfg, stamping UpdatedAt.
func (s *Store) Save(cfg *Config) error {
	if err := s.acquire(); err != nil {
		return err
	}
	defer s.release()
	return s.write(cfg)
}

// Record adds a finished run to the persisted statistics and history. It
// re-reads the file under the lock so concurrent writers do not lose
// entries, then writes it back.
func (s *Store) Record(entry types.HistoryEntry) error {
	if err := s.acquire(); err != nil {
		return err
	}
	defer s.release()

	cfg, err := s.Load()
	if err != nil {
		return errors.Wrap(err, "cannot load configuration to record run")
	}
	cfg.RecordRun(entry)
	return s.write(cfg)
}

func (s *Store) write(cfg *Config) error {
	cfg.Version = CurrentVersion
	cfg.UpdatedAt = time.Now()

	data, err := cfg.Marshal()
	if err != nil {
		return errors.NewConfigError("failed to marshal config", "", errors.InvalidConfig, err)
	}
	dir, name := filepath.Split(s.path)
	if dir == "" {
		dir = "."
	}
	if err := fsx.WriteFileAtomic(s.fs, dir, name, data, 0o644); err != nil {
		return errors.NewFileError("failed to write config file", s.path, errors.FileOperationFailed, err)
	}
	log.LogWithFields(log.F("path", s.path)).Debug("Configuration saved")
	return nil
}

func (s *Store) acquire() error {
	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return errors.NewFileError("failed to create config directory", filepath.Dir(s.path), errors.FileOperationFailed, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), lockTimeout)
	defer cancel()
	ok, err := s.lock.TryLockContext(ctx, 50*time.Millisecond)
	if err != nil || !ok {
		return errors.NewConfigError("configuration is locked by another process", s.path, errors.ConfigLocked, err)
	}
	return nil
}

func (s *Store) release() {
	if err := s.lock.Unlock(); err != nil {
		log.LogWithError(err).Warn("Failed to release config lock")
	}
}

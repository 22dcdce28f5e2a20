package organize

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"autosort/internal/config"
	"autosort/internal/errors"
	"autosort/internal/fsx"
	"autosort/internal/log"
	"autosort/pkg/types"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// State is where an Organizer is in its lifecycle. After a run it reports
// how that run ended until the next one starts.
type State string

const (
	StateIdle      State = "idle"
	StateRunning   State = "running"
	StateCompleted State = State(types.StatusCompleted)
	StateCancelled State = State(types.StatusCancelled)
	StateFailed    State = State(types.StatusFailed)
)

// Recorder persists finished runs.
type Recorder interface {
	Record(entry types.HistoryEntry) error
}

// RecorderFunc adapts a function to Recorder.
type RecorderFunc func(entry types.HistoryEntry) error

// Record calls f(entry).
func (f RecorderFunc) Record(entry types.HistoryEntry) error { return f(entry) }

// Option configures an Organizer.
type Option func(*Organizer)

// WithFs runs the organizer on fs instead of the operating system.
func WithFs(fs afero.Fs) Option {
	return func(o *Organizer) { o.fs = fs }
}

// WithRecorder stores a history entry after every completed or cancelled run.
func WithRecorder(r Recorder) Option {
	return func(o *Organizer) { o.recorder = r }
}

// WithClock replaces time.Now for run timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *Organizer) { o.now = now }
}

// Organizer runs batches over a directory tree. Only one run can be active
// at a time; a second Run fails immediately without touching the tree.
type Organizer struct {
	cfg      *config.Config
	fs       afero.Fs
	recorder Recorder
	now      func() time.Time

	running atomic.Bool
	last    atomic.Value // State of the previous run

	mu     sync.Mutex
	cancel context.CancelFunc
}

// New creates an organizer working from a private copy of cfg. A nil cfg
// uses the defaults.
func New(cfg *config.Config, opts ...Option) *Organizer {
	if cfg == nil {
		cfg = config.New()
	}
	o := &Organizer{
		cfg: cfg.Clone(),
		fs:  afero.NewOsFs(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// State returns the current lifecycle state.
func (o *Organizer) State() State {
	if o.running.Load() {
		return StateRunning
	}
	if s, ok := o.last.Load().(State); ok {
		return s
	}
	return StateIdle
}

// Cancel stops the active run before its next file. It does nothing when
// no run is active.
func (o *Organizer) Cancel() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.cancel != nil {
		o.cancel()
	}
}

// Reconfigure replaces the settings used by later runs with a copy of cfg.
// It fails with ErrRunInProgress while a run is active.
func (o *Organizer) Reconfigure(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.running.Load() {
		return errors.ErrRunInProgress
	}
	o.cfg = cfg.Clone()
	return nil
}

// Run organizes every regular file below root into root/<output_dir>.
//
// When events is not nil a progress event is sent after each file, in
// processing order, followed by one event with Done set that carries the
// result; the channel is closed before Run returns. Sends block, so the
// caller must drain events until it is closed.
func (o *Organizer) Run(ctx context.Context, root string, events chan<- types.ProgressEvent) types.RunResult {
	result := types.RunResult{
		ID:        uuid.NewString(),
		Root:      root,
		StartedAt: o.now(),
		Conflicts: []string{},
	}

	if !o.running.CompareAndSwap(false, true) {
		result.Status = types.StatusFailed
		result.Err = errors.ErrRunInProgress
		result.FinishedAt = o.now()
		log.LogWithFields(log.F("root", root)).Warn("Organize run rejected, another run is active")
		o.done(events, result)
		return result
	}

	ctx, cancel := context.WithCancel(ctx)
	o.mu.Lock()
	o.cancel = cancel
	cfg := o.cfg
	o.mu.Unlock()

	log.LogWithFields(log.F("run_id", result.ID), log.F("root", root)).Info("Organize run started")
	result = o.run(ctx, cfg, result, events)

	if result.Status != types.StatusFailed && o.recorder != nil {
		if err := o.recorder.Record(types.NewHistoryEntry(result)); err != nil {
			log.LogWithError(err).Warn("Failed to record organize run")
		}
	}

	logger := log.LogWithFields(
		log.F("run_id", result.ID),
		log.F("status", string(result.Status)),
		log.F("processed", result.Stats.Processed),
		log.F("skipped", result.Stats.Skipped),
		log.F("errors", result.Stats.Errors),
	)
	if result.Err != nil {
		logger.WithError(result.Err).Error("Organize run failed")
	} else {
		logger.Info("Organize run finished")
	}

	o.mu.Lock()
	o.cancel = nil
	o.mu.Unlock()
	cancel()
	o.last.Store(State(result.Status))
	o.running.Store(false)

	o.done(events, result)
	return result
}

func (o *Organizer) run(ctx context.Context, cfg *config.Config, result types.RunResult, events chan<- types.ProgressEvent) (res types.RunResult) {
	res = result
	defer func() {
		if r := recover(); r != nil {
			res.Status = types.StatusFailed
			res.Err = errors.NewRunError(fmt.Sprintf("organize run aborted: %v", r), errors.RunFailed, nil)
			res.FinishedAt = o.now()
		}
	}()

	root := fsx.ResolveDir(o.fs, res.Root)
	info, err := o.fs.Stat(root)
	if err != nil || !info.IsDir() {
		return o.failed(res, errors.NewFileError("folder to organize is not a directory", res.Root, errors.InvalidPath, err))
	}

	processor, err := NewProcessor(o.fs, cfg)
	if err != nil {
		return o.failed(res, err)
	}
	processor.SetBoundary(root)

	destRoot := filepath.Join(root, cfg.Settings.OutputDir)
	files, err := o.collect(root, destRoot)
	if err != nil {
		return o.failed(res, err)
	}

	total := len(files)
	for i, path := range files {
		if ctx.Err() != nil {
			res.Status = types.StatusCancelled
			res.FinishedAt = o.now()
			return res
		}

		fr := processor.Process(path, destRoot)
		res.Stats.Record(fr)
		if fr.Outcome == types.OutcomeConflict {
			res.Conflicts = append(res.Conflicts, path)
		}

		if events != nil {
			event := types.ProgressEvent{
				Percent: float64(i+1) / float64(total) * 100,
				Index:   i + 1,
				Total:   total,
				File:    path,
				Result:  fr,
			}
			select {
			case events <- event:
			case <-ctx.Done():
			}
		}
	}

	res.Status = types.StatusCompleted
	res.FinishedAt = o.now()
	return res
}

// collect lists regular files below root in lexical order, skipping the
// output folder and anything that is not a regular file.
func (o *Organizer) collect(root, destRoot string) ([]string, error) {
	var files []string
	err := afero.Walk(o.fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			log.LogWithError(err).With(log.F("path", path)).Warn("Skipping unreadable path")
			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() {
			if path == destRoot {
				return filepath.SkipDir
			}
			return nil
		}
		if info.Mode().IsRegular() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.NewPathError("cannot list folder", root, err)
	}
	return files, nil
}

func (o *Organizer) failed(res types.RunResult, err error) types.RunResult {
	res.Status = types.StatusFailed
	res.Err = err
	res.FinishedAt = o.now()
	return res
}

func (o *Organizer) done(events chan<- types.ProgressEvent, result types.RunResult) {
	if events == nil {
		return
	}
	final := result
	events <- types.ProgressEvent{Percent: 100, Done: true, RunResult: &final}
	close(events)
}

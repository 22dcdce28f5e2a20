// Package watch re-runs the organizer whenever files appear in a folder.
package watch

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"autosort/internal/errors"
	"autosort/internal/fsx"
	"autosort/internal/log"
	"autosort/internal/organize"
	"autosort/pkg/types"
)

// DaemonStatus represents the current status of the daemon
type DaemonStatus struct {
	Running          bool      // Whether the daemon is currently active
	Root             string    // Folder being organized
	WatchDirectories []string  // Directories being watched
	LastActivity     time.Time // Time of last file activity
	Runs             int       // Organize runs started by the daemon
	FilesProcessed   int       // Files relocated over all runs
}

// Daemon organizes a folder once at start and again every time the folder
// has been quiet for the configured interval after a change.
type Daemon struct {
	root    string
	outDir  string
	quiet   time.Duration
	runner  organize.Runner
	watcher *Watcher

	// Statistics
	runs         int
	processed    int
	lastActivity time.Time

	// Callback for every finished run
	callback func(types.RunResult)

	// Lock for statistics and callback
	mutex sync.RWMutex

	running bool
}

// NewDaemon creates a daemon organizing root into root/outputDir with
// runner. Changes inside the output folder are not watched.
func NewDaemon(root, outputDir string, quiet time.Duration, runner organize.Runner) (*Daemon, error) {
	if quiet <= 0 {
		return nil, errors.Newf("quiet interval must be positive, got %s", quiet)
	}
	root = fsx.EvalDir(root)
	outDir := filepath.Join(root, outputDir)

	watcher, err := New(outDir)
	if err != nil {
		return nil, err
	}

	return &Daemon{
		root:    root,
		outDir:  outDir,
		quiet:   quiet,
		runner:  runner,
		watcher: watcher,
	}, nil
}

// SetCallback sets a function to be called after every run
func (d *Daemon) SetCallback(cb func(types.RunResult)) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.callback = cb
}

// Status returns the current status of the daemon
func (d *Daemon) Status() DaemonStatus {
	d.mutex.RLock()
	defer d.mutex.RUnlock()

	return DaemonStatus{
		Running:          d.running,
		Root:             d.root,
		WatchDirectories: d.watcher.GetDirectories(),
		LastActivity:     d.lastActivity,
		Runs:             d.runs,
		FilesProcessed:   d.processed,
	}
}

// Run watches the folder until ctx is done. It organizes once before it
// starts waiting for changes.
func (d *Daemon) Run(ctx context.Context) error {
	d.mutex.Lock()
	if d.running {
		d.mutex.Unlock()
		return errors.New("daemon is already running")
	}
	d.running = true
	d.mutex.Unlock()
	defer func() {
		d.mutex.Lock()
		d.running = false
		d.mutex.Unlock()
	}()

	if err := d.watcher.AddTree(d.root); err != nil {
		return errors.Wrapf(err, "error adding watch directory %s", d.root)
	}
	if err := d.watcher.Start(); err != nil {
		return errors.Wrap(err, "error starting watcher")
	}
	defer d.watcher.Stop()

	log.LogWithFields(log.F("root", d.root), log.F("quiet", d.quiet.String())).Info("Watching folder")
	timer := time.NewTimer(d.quiet)
	timer.Stop()
	if !d.organize(ctx) {
		timer.Reset(d.quiet)
	}

	for {
		select {
		case <-ctx.Done():
			log.Info("Stopping watch")
			return nil

		case mod, ok := <-d.watcher.FileChannel():
			if !ok {
				return nil
			}
			d.mutex.Lock()
			d.lastActivity = mod.Timestamp
			d.mutex.Unlock()
			log.LogWithFields(log.F("file", mod.Path)).Debug("Change detected")
			timer.Reset(d.quiet)

		case <-timer.C:
			if !d.organize(ctx) {
				timer.Reset(d.quiet)
			}
		}
	}
}

// organize performs one run, discarding its per-file progress. It returns
// false when the runner was busy with another run and nothing was done.
func (d *Daemon) organize(ctx context.Context) bool {
	events := make(chan types.ProgressEvent)
	go func() {
		for range events {
		}
	}()

	result := d.runner.Run(ctx, d.root, events)
	if errors.IsRunInProgress(result.Err) {
		log.LogWithFields(log.F("root", d.root)).Debugf("Runner busy, retrying in %s", d.quiet)
		return false
	}

	d.mutex.Lock()
	d.runs++
	d.processed += result.Stats.Moved
	cb := d.callback
	d.mutex.Unlock()

	if result.Err != nil {
		log.LogWithError(result.Err).Warn("Watch run failed")
	} else if result.Stats.Moved > 0 {
		log.LogWithFields(log.F("moved", result.Stats.Moved), log.F("skipped", result.Stats.Skipped)).Info("Organized new files")
	}
	if cb != nil {
		cb(result)
	}
	return true
}

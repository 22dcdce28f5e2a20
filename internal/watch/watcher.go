package watch

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"autosort/internal/errors"
	"autosort/internal/fsx"
	"autosort/internal/log"

	"github.com/fsnotify/fsnotify"
)

// FileModification represents a file event detected by the watcher
type FileModification struct {
	Path      string
	Info      os.FileInfo
	Timestamp time.Time
	Op        fsnotify.Op
}

// Watcher monitors a directory tree for new or changed files using fsnotify.
// Directories created after AddTree are watched as they appear.
type Watcher struct {
	// Directories being watched
	directories map[string]bool

	// Directories never watched, with everything below them
	excluded []string

	// Channel to receive file modifications
	fileModChan chan FileModification

	// Channel to signal stop
	stopChan chan struct{}

	// Closed when the event loop has exited
	loopDone chan struct{}

	// fsnotify watcher instance
	fsWatcher *fsnotify.Watcher

	// Lock for running state and the directory set
	mutex sync.RWMutex

	// Whether the watcher is running
	running bool
}

// New creates a new directory watcher using fsnotify. Paths in exclude and
// below them are never watched.
func New(exclude ...string) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}

	excluded := make([]string, 0, len(exclude))
	for _, dir := range exclude {
		excluded = append(excluded, filepath.Clean(dir))
	}

	return &Watcher{
		directories: make(map[string]bool),
		excluded:    excluded,
		fileModChan: make(chan FileModification, 64),
		fsWatcher:   fsWatcher,
	}, nil
}

// AddTree watches root and every directory below it.
func (w *Watcher) AddTree(root string) error {
	root = fsx.EvalDir(root)
	info, err := os.Stat(root)
	if err != nil {
		return errors.NewPathError("error accessing directory", root, err)
	}
	if !info.IsDir() {
		return errors.NewFileError("not a directory", root, errors.InvalidPath, nil)
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			log.LogWithError(err).With(log.F("directory", path)).Warn("Cannot watch directory")
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if w.isExcluded(path) {
			return filepath.SkipDir
		}
		return w.addDirectory(path)
	})
}

func (w *Watcher) addDirectory(dir string) error {
	dir = filepath.Clean(dir)
	if err := w.fsWatcher.Add(dir); err != nil {
		return errors.Wrapf(err, "failed to add directory %s to watcher", dir)
	}

	w.mutex.Lock()
	w.directories[dir] = true
	w.mutex.Unlock()
	log.LogWithFields(log.F("directory", dir)).Debug("Watching directory")
	return nil
}

func (w *Watcher) isExcluded(path string) bool {
	path = filepath.Clean(path)
	for _, ex := range w.excluded {
		rel, err := filepath.Rel(ex, path)
		if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// FileChannel returns the channel that delivers file modification events
func (w *Watcher) FileChannel() <-chan FileModification {
	return w.fileModChan
}

// Start begins the file watching process using fsnotify
func (w *Watcher) Start() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if w.running {
		return errors.New("watcher already running")
	}
	w.running = true
	w.stopChan = make(chan struct{})
	w.loopDone = make(chan struct{})

	go w.loop(w.stopChan, w.loopDone)

	log.Debug("Watcher started")
	return nil
}

func (w *Watcher) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handle(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.LogWithError(err).Error("fsnotify watcher error")

		case <-stop:
			return
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
		return
	}
	if w.isExcluded(event.Name) {
		return
	}

	// The file may already be gone again
	info, err := os.Stat(event.Name)
	if err != nil {
		if !os.IsNotExist(err) {
			log.LogWithError(err).With(log.F("file", event.Name)).Warn("Error stating file")
		}
		return
	}

	if info.IsDir() {
		if event.Op.Has(fsnotify.Create) {
			if err := w.AddTree(event.Name); err != nil {
				log.LogWithError(err).Warn("Cannot watch new directory")
			}
		}
		return
	}

	mod := FileModification{
		Path:      event.Name,
		Info:      info,
		Timestamp: time.Now(),
		Op:        event.Op,
	}

	// A full channel means a run is already pending; dropping is harmless
	select {
	case w.fileModChan <- mod:
	default:
		log.LogWithFields(log.F("file", event.Name)).Debug("Event channel is full, dropped event")
	}
}

// Stop halts the file watching process and closes the file channel.
func (w *Watcher) Stop() {
	w.mutex.Lock()
	if !w.running {
		w.mutex.Unlock()
		return
	}
	w.running = false
	close(w.stopChan)
	done := w.loopDone
	w.mutex.Unlock()

	<-done
	if err := w.fsWatcher.Close(); err != nil {
		log.LogWithError(err).Error("Error closing fsnotify watcher")
	}
	close(w.fileModChan)
	log.Debug("Watcher stopped")
}

// IsRunning returns whether the watcher is currently active
func (w *Watcher) IsRunning() bool {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	return w.running
}

// GetDirectories returns the directories being watched, sorted.
func (w *Watcher) GetDirectories() []string {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	dirs := make([]string, 0, len(w.directories))
	for dir := range w.directories {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	return dirs
}

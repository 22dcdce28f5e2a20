//go:build !nogui

// Package gui is the desktop window of autosort: pick a folder, organize
// it with live progress, tune the settings and browse past runs.
package gui

import (
	"context"
	"sync"

	"autosort/internal/config"
	"autosort/internal/errors"
	"autosort/internal/log"
	"autosort/internal/organize"
	"autosort/internal/watch"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// App is the GUI application
type App struct {
	fyneApp    fyne.App
	mainWindow fyne.Window
	store      *config.Store

	// cfg is edited by the settings tab; runs work on a clone
	mu  sync.Mutex
	cfg *config.Config

	// One runner for manual and watch runs, so they never overlap.
	// Saved settings reach it once it is idle.
	runner        organize.Runner
	pendingConfig *config.Config

	// Organize tab
	folderEntry  *widget.Entry
	favorites    *widget.Select
	organizeBtn  *widget.Button
	cancelBtn    *widget.Button
	progressBar  *widget.ProgressBar
	statusLabel  *widget.Label
	summaryLabel *widget.Label
	watchCheck   *widget.Check

	// History tab
	historyList *widget.List
	statsLabel  *widget.Label

	// Watch mode
	watchCancel context.CancelFunc
	watchDaemon *watch.Daemon
}

// Ensure App implements the Interface
var _ Interface = (*App)(nil)

// IsGUIAvailable returns whether the GUI is available in this build
func IsGUIAvailable() bool {
	return true
}

// StartGUI opens the main window and blocks until it is closed.
func StartGUI(store *config.Store, cfg *config.Config) error {
	a := NewApp(app.NewWithID("io.github.autosort"), store, cfg)
	a.Run()
	return nil
}

// NewApp creates a new GUI application on fyneApp.
func NewApp(fyneApp fyne.App, store *config.Store, cfg *config.Config) *App {
	a := &App{
		fyneApp: fyneApp,
		store:   store,
		cfg:     cfg,
		runner:  organize.NewRunner(cfg, organize.WithRecorder(store)),
	}
	a.mainWindow = fyneApp.NewWindow("autosort")
	a.setupMainWindow()
	return a
}

// GetMainWindow returns the main window instance
func (a *App) GetMainWindow() fyne.Window {
	return a.mainWindow
}

// Run starts the GUI application
func (a *App) Run() {
	a.mainWindow.ShowAndRun()
	a.stopWatchMode()
}

func (a *App) setupMainWindow() {
	a.mainWindow.Resize(fyne.NewSize(820, 560))

	tabs := container.NewAppTabs(
		container.NewTabItem("Organize", a.createOrganizeTab()),
		container.NewTabItem("Settings", a.createSettingsTab()),
		container.NewTabItem("History", a.createHistoryTab()),
	)
	tabs.SetTabLocation(container.TabLocationTop)
	tabs.OnSelected = func(item *container.TabItem) {
		if item.Text == "History" {
			a.refreshHistory()
		}
	}

	a.mainWindow.SetContent(tabs)

	a.mainWindow.Canvas().SetOnTypedKey(func(ke *fyne.KeyEvent) {
		if ke.Name == fyne.KeyEscape {
			a.cancelRun()
		}
	})
}

// snapshot returns a copy of the current settings.
func (a *App) snapshot() *config.Config {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cfg.Clone()
}

// editConfig applies fn to the live configuration.
func (a *App) editConfig(fn func(cfg *config.Config)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	fn(a.cfg)
}

func (a *App) saveConfig() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.cfg.Validate(); err != nil {
		return err
	}
	if err := a.store.Save(a.cfg); err != nil {
		return err
	}
	log.LogWithFields(log.F("path", a.store.Path())).Info("Configuration saved from GUI")
	return nil
}

// SaveSettings persists the edited settings and hands them to the runner.
// While a run is active they are applied as soon as it ends.
func (a *App) SaveSettings() error {
	if err := a.saveConfig(); err != nil {
		return err
	}
	a.mu.Lock()
	a.pendingConfig = a.cfg.Clone()
	a.mu.Unlock()
	a.applyPendingConfig()
	return nil
}

func (a *App) applyPendingConfig() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.pendingConfig == nil {
		return
	}
	err := a.runner.Reconfigure(a.pendingConfig)
	switch {
	case err == nil:
		a.pendingConfig = nil
	case errors.IsRunInProgress(err):
		log.Debug("Settings will apply after the current run")
	default:
		a.pendingConfig = nil
		log.LogWithError(err).Warn("Settings rejected by the organizer")
	}
}

// IsRunning reports whether a manual or watch run is active.
func (a *App) IsRunning() bool {
	return a.runner.State() == organize.StateRunning
}

// reloadConfig picks up statistics and history written by finished runs
// while keeping unsaved edits to the settings.
func (a *App) reloadConfig() {
	fresh, err := a.store.Load()
	if err != nil {
		log.LogWithError(err).Warn("Cannot reload configuration")
		return
	}
	a.editConfig(func(cfg *config.Config) {
		cfg.Statistics = fresh.Statistics
		cfg.History = fresh.History
	})
}

// ShowError shows an error dialog
func (a *App) ShowError(title string, err error) {
	log.LogWithError(err).Error(title)
	dialog.ShowError(err, a.mainWindow)
}

// ShowInfo shows an information dialog
func (a *App) ShowInfo(message string) {
	dialog.ShowInformation("autosort", message, a.mainWindow)
}

//go:build !nogui

package gui

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"autosort/internal/config"
	"autosort/internal/errors"
	"autosort/internal/log"
	"autosort/internal/watch"
	"autosort/pkg/types"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

func (a *App) createOrganizeTab() fyne.CanvasObject {
	a.folderEntry = widget.NewEntry()
	a.folderEntry.SetPlaceHolder("Folder to organize")

	browseBtn := widget.NewButton("Browse...", func() {
		dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
			if err != nil {
				a.ShowError("Cannot open folder", err)
				return
			}
			if uri != nil {
				a.folderEntry.SetText(uri.Path())
			}
		}, a.mainWindow)
	})

	a.favorites = widget.NewSelect(a.snapshot().Favorites, func(dir string) {
		a.folderEntry.SetText(dir)
	})
	a.favorites.PlaceHolder = "Favorites"

	addFavoriteBtn := widget.NewButton("★", func() {
		dir := a.folderEntry.Text
		if dir == "" {
			return
		}
		a.editConfig(func(cfg *config.Config) { cfg.AddFavorite(dir) })
		a.favorites.Options = a.snapshot().Favorites
		a.favorites.Refresh()
		if err := a.saveConfig(); err != nil {
			a.ShowError("Cannot save favorites", err)
		}
	})

	a.progressBar = widget.NewProgressBar()
	a.statusLabel = widget.NewLabel("Ready")
	a.statusLabel.Truncation = fyne.TextTruncateEllipsis
	a.summaryLabel = widget.NewLabel("")

	a.organizeBtn = widget.NewButton("Organize", func() {
		dir := a.folderEntry.Text
		if dir == "" {
			a.ShowInfo("Choose a folder first")
			return
		}
		a.organizeBtn.Disable()
		go a.Organize(dir)
	})
	a.organizeBtn.Importance = widget.HighImportance

	a.cancelBtn = widget.NewButton("Cancel", a.cancelRun)
	a.cancelBtn.Disable()

	a.watchCheck = widget.NewCheck("Keep watching this folder", func(on bool) {
		if on {
			if err := a.startWatchMode(a.folderEntry.Text); err != nil {
				a.ShowError("Cannot watch folder", err)
				a.watchCheck.SetChecked(false)
			}
			return
		}
		a.stopWatchMode()
	})

	folderRow := container.NewBorder(nil, nil, nil, container.NewHBox(browseBtn, a.favorites, addFavoriteBtn), a.folderEntry)

	return container.NewVBox(
		widget.NewCard("Folder", "", folderRow),
		container.NewHBox(a.organizeBtn, a.cancelBtn, a.watchCheck),
		a.progressBar,
		a.statusLabel,
		a.summaryLabel,
	)
}

// Organize runs the organizer on dir, updating the progress widgets, and
// returns the result. It blocks until the run ends.
func (a *App) Organize(dir string) types.RunResult {
	a.organizeBtn.Disable()
	a.cancelBtn.Enable()
	a.progressBar.SetValue(0)
	a.summaryLabel.SetText("")

	events := make(chan types.ProgressEvent)
	go a.runner.Run(context.Background(), dir, events)

	var result types.RunResult
	for ev := range events {
		if ev.Done {
			result = *ev.RunResult
			continue
		}
		a.progressBar.SetValue(ev.Percent / 100)
		a.statusLabel.SetText(fmt.Sprintf("%s (%d/%d)", ev.Description(), ev.Index, ev.Total))
	}

	a.organizeBtn.Enable()
	a.cancelBtn.Disable()

	a.showResult(result)
	a.applyPendingConfig()
	a.reloadConfig()
	a.refreshHistory()
	return result
}

func (a *App) showResult(result types.RunResult) {
	switch result.Status {
	case types.StatusCompleted:
		a.progressBar.SetValue(1)
		a.statusLabel.SetText("Organization completed")
	case types.StatusCancelled:
		a.statusLabel.SetText("Organization cancelled")
	default:
		if errors.IsRunInProgress(result.Err) {
			a.statusLabel.SetText("Another run is in progress, try again when it ends")
			return
		}
		a.statusLabel.SetText("Organization failed: " + result.ErrorMessage())
	}
	a.summaryLabel.SetText(summaryText(result))
}

func summaryText(result types.RunResult) string {
	text := fmt.Sprintf("Processed %d · Skipped %d · Errors %d · Folders created %d",
		result.Stats.Processed, result.Stats.Skipped, result.Stats.Errors, result.Stats.FoldersCreated)
	if n := len(result.Conflicts); n > 0 {
		text += fmt.Sprintf(" · Conflicts %d", n)
	}
	return text
}

func (a *App) cancelRun() {
	a.runner.Cancel()
}

func (a *App) startWatchMode(dir string) error {
	if dir == "" {
		return errors.New("choose a folder to watch")
	}
	a.stopWatchMode()

	cfg := a.snapshot()
	d, err := watch.NewDaemon(filepath.Clean(dir), cfg.Settings.OutputDir, time.Duration(cfg.Watch.IntervalSeconds)*time.Second, a.runner)
	if err != nil {
		return err
	}
	d.SetCallback(func(result types.RunResult) {
		if result.Stats.Moved > 0 || !result.OK() {
			a.showResult(result)
		}
		a.applyPendingConfig()
		a.reloadConfig()
	})

	ctx, cancel := context.WithCancel(context.Background())
	a.mu.Lock()
	a.watchDaemon = d
	a.watchCancel = cancel
	a.mu.Unlock()

	go func() {
		if err := d.Run(ctx); err != nil {
			log.LogWithError(err).Error("Watch mode stopped")
		}
	}()
	a.statusLabel.SetText("Watching " + dir)
	return nil
}

func (a *App) stopWatchMode() {
	a.mu.Lock()
	cancel := a.watchCancel
	a.watchCancel = nil
	a.watchDaemon = nil
	a.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// IsWatching reports whether watch mode is active.
func (a *App) IsWatching() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.watchDaemon != nil
}

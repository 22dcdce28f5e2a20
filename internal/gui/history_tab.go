//go:build !nogui

package gui

import (
	"fmt"

	"autosort/pkg/types"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

func (a *App) createHistoryTab() fyne.CanvasObject {
	a.statsLabel = widget.NewLabel("")
	a.historyList = widget.NewList(
		func() int {
			return len(a.snapshot().History)
		},
		func() fyne.CanvasObject {
			return widget.NewLabel("Template")
		},
		func(i widget.ListItemID, o fyne.CanvasObject) {
			history := a.snapshot().History
			if i >= len(history) {
				return
			}
			// Newest first
			o.(*widget.Label).SetText(historyLine(history[len(history)-1-i]))
		},
	)
	a.refreshHistory()

	return container.NewBorder(a.statsLabel, nil, nil, nil, a.historyList)
}

func (a *App) refreshHistory() {
	if a.historyList == nil {
		return
	}
	stats := a.snapshot().Statistics
	text := fmt.Sprintf("Total files: %d · Organized: %d · Folders created: %d · %.1f MB",
		stats.TotalFiles, stats.OrganizedFiles, stats.FoldersCreated, float64(stats.BytesOrganized)/types.BytesPerMB)
	if stats.LastRun != nil {
		text += " · Last run " + stats.LastRun.Format("2006-01-02 15:04")
	}
	a.statsLabel.SetText(text)
	a.historyList.Refresh()
}

func historyLine(e types.HistoryEntry) string {
	return fmt.Sprintf("%s  %-9s  %s  (%d moved, %d skipped, %d errors)",
		e.Timestamp.Format("2006-01-02 15:04"), e.Status, e.Root, e.Stats.Moved, e.Stats.Skipped, e.Stats.Errors)
}

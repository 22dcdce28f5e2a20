//go:build !nogui

package gui

import (
	"strconv"
	"strings"

	"autosort/internal/config"
	"autosort/internal/errors"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// createSettingsTab creates the settings tab
func (a *App) createSettingsTab() fyne.CanvasObject {
	cfg := a.snapshot()
	set := func(fn func(s *config.Settings)) {
		a.editConfig(func(c *config.Config) { fn(&c.Settings) })
	}

	check := func(label string, value bool, apply func(s *config.Settings, v bool)) *widget.Check {
		c := widget.NewCheck(label, func(v bool) {
			set(func(s *config.Settings) { apply(s, v) })
		})
		c.SetChecked(value)
		return c
	}

	// --- Layout ---
	byType := check("Group by file type", cfg.Settings.OrganizeByType, func(s *config.Settings, v bool) { s.OrganizeByType = v })
	byDate := check("Group by modification date", cfg.Settings.OrganizeByDate, func(s *config.Settings, v bool) { s.OrganizeByDate = v })
	byProject := check("Group by project", cfg.Settings.OrganizeByProject, func(s *config.Settings, v bool) { s.OrganizeByProject = v })

	formats := make([]string, 0, len(config.DateFormats()))
	for _, f := range config.DateFormats() {
		formats = append(formats, string(f))
	}
	dateFormat := widget.NewSelect(formats, func(v string) {
		set(func(s *config.Settings) { s.DateFormat = config.DateFormat(v) })
	})
	dateFormat.SetSelected(string(cfg.Settings.DateFormat))

	outputDir := widget.NewEntry()
	outputDir.SetText(cfg.Settings.OutputDir)
	outputDir.OnChanged = func(v string) {
		set(func(s *config.Settings) { s.OutputDir = strings.TrimSpace(v) })
	}

	layoutCard := widget.NewCard("Layout", "", container.NewVBox(
		byType, byDate,
		container.NewHBox(widget.NewLabel("Date folders:"), dateFormat),
		byProject,
		container.NewBorder(nil, nil, widget.NewLabel("Output folder:"), nil, outputDir),
	))

	// --- Behaviour ---
	move := check("Move files (copy when off)", cfg.Settings.MoveFiles, func(s *config.Settings, v bool) { s.MoveFiles = v })
	safe := check("Safe mode: never rename on collision", cfg.Settings.SafeMode, func(s *config.Settings, v bool) { s.SafeMode = v })
	subfolders := check("Create missing folders", cfg.Settings.CreateSubfolders, func(s *config.Settings, v bool) { s.CreateSubfolders = v })
	hidden := check("Ignore hidden files", cfg.Settings.IgnoreHidden, func(s *config.Settings, v bool) { s.IgnoreHidden = v })
	system := check("Ignore system files", cfg.Settings.IgnoreSystem, func(s *config.Settings, v bool) { s.IgnoreSystem = v })
	preserve := check("Keep single files next to their folder", cfg.Settings.PreserveStructure, func(s *config.Settings, v bool) { s.PreserveStructure = v })

	maxSize := widget.NewEntry()
	maxSize.SetText(strconv.FormatInt(cfg.Settings.MaxSizeMB, 10))
	maxSize.Validator = func(v string) error {
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil || n < 0 {
			return errors.New("enter a size in MB, 0 for no limit")
		}
		return nil
	}
	maxSize.OnChanged = func(v string) {
		if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil && n >= 0 {
			set(func(s *config.Settings) { s.MaxSizeMB = n })
		}
	}

	patterns := widget.NewEntry()
	patterns.SetPlaceHolder("*.bak, ~$*")
	patterns.SetText(strings.Join(cfg.Settings.IgnorePatterns, ", "))
	patterns.OnChanged = func(v string) {
		set(func(s *config.Settings) { s.IgnorePatterns = splitPatterns(v) })
	}

	behaviourCard := widget.NewCard("Behaviour", "", container.NewVBox(
		move, safe, subfolders, hidden, system, preserve,
		container.NewBorder(nil, nil, widget.NewLabel("Max size (MB):"), nil, maxSize),
		container.NewBorder(nil, nil, widget.NewLabel("Ignore patterns:"), nil, patterns),
	))

	saveBtn := widget.NewButton("Save Settings", func() {
		if err := a.SaveSettings(); err != nil {
			a.ShowError("Cannot save settings", err)
			return
		}
		a.ShowInfo("Settings saved")
	})
	saveBtn.Importance = widget.HighImportance

	return container.NewVScroll(container.NewVBox(layoutCard, behaviourCard, saveBtn))
}

func splitPatterns(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

package organize

import (
	"context"

	"autosort/internal/config"
	"autosort/pkg/types"
)

// Runner is the part of Organizer the command line, the watcher and the GUI
// depend on. It lets them be tested with a fake.
type Runner interface {
	// Run organizes root, reporting progress on events until it is closed
	Run(ctx context.Context, root string, events chan<- types.ProgressEvent) types.RunResult

	// Cancel stops the active run before its next file
	Cancel()

	// State returns the lifecycle state
	State() State

	// Reconfigure swaps the settings for later runs; it fails while running
	Reconfigure(cfg *config.Config) error
}

// Ensure Organizer implements the Runner interface
var _ Runner = (*Organizer)(nil)

package tui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	// Frame around the whole progress view
	App = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Padding(0, 1)

	// Title style for the header line
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#4F4FB7")).
			Padding(0, 1)

	// Status style for the current file and hints
	StatusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#959595"))

	// Error style for failed files and runs
	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000"))

	// Success style for the final summary
	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00"))

	// Warning style for skipped files and cancellation
	WarnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#D08770"))
)

// Gradient ends of the progress bar
const (
	barStart = "#4F4FB7"
	barEnd   = "#73F59F"
)

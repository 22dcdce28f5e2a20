package types

import "time"

// HistoryEntry records one completed or cancelled run. Entries are
// appended to the persisted history and never modified afterwards.
type HistoryEntry struct {
	ID        string    `yaml:"id"`
	Timestamp time.Time `yaml:"timestamp"`
	Root      string    `yaml:"root"`
	Status    RunStatus `yaml:"status"`
	Stats     RunStats  `yaml:"stats"`
	Conflicts []string  `yaml:"conflicts,omitempty"`
}

// NewHistoryEntry snapshots a run result. The conflict list is copied so
// later changes to the result cannot leak into history.
func NewHistoryEntry(r RunResult) HistoryEntry {
	conflicts := make([]string, len(r.Conflicts))
	copy(conflicts, r.Conflicts)
	return HistoryEntry{
		ID:        r.ID,
		Timestamp: r.FinishedAt,
		Root:      r.Root,
		Status:    r.Status,
		Stats:     r.Stats,
		Conflicts: conflicts,
	}
}

package types

import "time"

// Outcome is what happened to a single file.
type Outcome string

const (
	OutcomeMoved            Outcome = "moved"
	OutcomeCopied           Outcome = "copied"
	OutcomeIgnored          Outcome = "ignored"
	OutcomeSizeExceeded     Outcome = "size_exceeded"
	OutcomeConflict         Outcome = "conflict"
	OutcomePermissionDenied Outcome = "permission_denied"
	OutcomeError            Outcome = "error"
)

// Relocated reports whether the file now has a copy at its destination.
func (o Outcome) Relocated() bool {
	return o == OutcomeMoved || o == OutcomeCopied
}

// Skipped reports whether the file was deliberately left in place.
func (o Outcome) Skipped() bool {
	return o == OutcomeIgnored || o == OutcomeSizeExceeded || o == OutcomeConflict
}

// Failed reports whether the outcome counts as an error.
func (o Outcome) Failed() bool {
	return o == OutcomePermissionDenied || o == OutcomeError
}

// FileResult holds the outcome of an organization attempt for a single file
type FileResult struct {
	SourcePath      string  `json:"source_path"`
	DestinationPath string  `json:"destination_path,omitempty"`
	Outcome         Outcome `json:"outcome"`
	Bytes           int64   `json:"bytes,omitempty"`
	FoldersCreated  int     `json:"folders_created,omitempty"`
	Error           error   `json:"-"`
}

// RunStats are the counters of one batch run.
type RunStats struct {
	Processed      int   `yaml:"processed" json:"processed"`
	Moved          int   `yaml:"moved" json:"moved"`
	Skipped        int   `yaml:"skipped" json:"skipped"`
	Errors         int   `yaml:"errors" json:"errors"`
	FoldersCreated int   `yaml:"folders_created" json:"folders_created"`
	Bytes          int64 `yaml:"bytes" json:"bytes"`
}

// Record folds a single file result into the counters.
func (s *RunStats) Record(r FileResult) {
	s.FoldersCreated += r.FoldersCreated
	switch {
	case r.Outcome.Relocated():
		s.Processed++
		s.Moved++
		s.Bytes += r.Bytes
	case r.Outcome.Skipped():
		s.Skipped++
	case r.Outcome.Failed():
		s.Errors++
	}
}

// RunStatus is the terminal state of a batch run.
type RunStatus string

const (
	StatusCompleted RunStatus = "completed"
	StatusCancelled RunStatus = "cancelled"
	StatusFailed    RunStatus = "failed"
)

// RunResult is handed back to the caller when a batch run ends.
type RunResult struct {
	ID         string    `json:"id,omitempty"`
	Status     RunStatus `json:"status"`
	Root       string    `json:"root"`
	Stats      RunStats  `json:"stats"`
	Conflicts  []string  `json:"conflicts"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Err        error     `json:"-"`
}

// OK reports whether the run finished without a batch-level failure.
func (r RunResult) OK() bool {
	return r.Status != StatusFailed
}

// ErrorMessage returns the failure text, or "" for successful runs.
func (r RunResult) ErrorMessage() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

package types

// ProgressEvent is sent from a running batch to whoever presents it.
// Progress events arrive in file-processing order; the single event with
// Done set always comes last and carries the final result.
type ProgressEvent struct {
	Percent float64
	Index   int
	Total   int
	File    string
	Result  FileResult

	Done      bool
	RunResult *RunResult
}

// Description is the one-line text shown next to a progress bar.
func (e ProgressEvent) Description() string {
	if e.Done {
		return "Finished"
	}
	return "Processing: " + e.File
}

package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"autosort/internal/config"
	"autosort/internal/errors"
	"autosort/internal/organize"
	"autosort/internal/tui"
	"autosort/pkg/types"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// NewOrganizeCmd creates the organize command
func NewOrganizeCmd() *cobra.Command {
	var (
		copyFiles  bool
		safe       bool
		byType     bool
		byDate     bool
		byProject  bool
		dateFormat string
		maxSize    int64
		outputDir  string
		plain      bool
	)

	cmd := &cobra.Command{
		Use:   "organize [directory]",
		Short: "Organize the files of a directory",
		Long: `Organize every file below a directory into <directory>/Organized.
Flags override the saved settings for this run only.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := targetDir(args)
			if err != nil {
				return err
			}

			runCfg := cfg.Clone()
			flags := cmd.Flags()
			if flags.Changed("copy") {
				runCfg.Settings.MoveFiles = !copyFiles
			}
			if flags.Changed("safe") {
				runCfg.Settings.SafeMode = safe
			}
			if flags.Changed("by-type") {
				runCfg.Settings.OrganizeByType = byType
			}
			if flags.Changed("by-date") {
				runCfg.Settings.OrganizeByDate = byDate
			}
			if flags.Changed("by-project") {
				runCfg.Settings.OrganizeByProject = byProject
			}
			if flags.Changed("date-format") {
				runCfg.Settings.DateFormat = config.DateFormat(dateFormat)
			}
			if flags.Changed("max-size") {
				runCfg.Settings.MaxSizeMB = maxSize
			}
			if flags.Changed("output-dir") {
				runCfg.Settings.OutputDir = outputDir
			}
			runCfg.Normalize()
			if err := runCfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			runner := organize.NewRunner(runCfg, organize.WithRecorder(store))
			out := cmd.OutOrStdout()

			var result types.RunResult
			if !plain && isTerminal(out) {
				restore := detachLogs(os.Stderr)
				result, err = tui.Run(ctx, runner, root)
				restore()
				if err != nil {
					return err
				}
			} else {
				fmt.Fprintf(out, "Organizing %s\n", root)
				events := make(chan types.ProgressEvent, 16)
				done := make(chan types.RunResult, 1)
				go func() { done <- runner.Run(ctx, root, events) }()
				for event := range events {
					if !event.Done {
						printEvent(out, event)
					}
				}
				result = <-done
			}

			printSummary(out, result)
			if !result.OK() {
				return result.Err
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&copyFiles, "copy", false, "copy files instead of moving them")
	cmd.Flags().BoolVar(&safe, "safe", false, "leave files whose destination exists in place instead of renaming")
	cmd.Flags().BoolVar(&byType, "by-type", true, "group files into category folders")
	cmd.Flags().BoolVar(&byDate, "by-date", true, "group files into modification date folders")
	cmd.Flags().BoolVar(&byProject, "by-project", false, "group files into detected project folders")
	cmd.Flags().StringVar(&dateFormat, "date-format", string(config.DateYearMonth), "date folder layout: YYYY-MM, YYYY/MM or YYYY/MM/DD")
	cmd.Flags().Int64Var(&maxSize, "max-size", 500, "skip files larger than this many MB (0 = no limit)")
	cmd.Flags().StringVar(&outputDir, "output-dir", "Organized", "name of the organized folder")
	cmd.Flags().BoolVar(&plain, "plain", false, "print one line per file instead of the progress screen")

	return cmd
}

// targetDir returns the absolute directory named by args, or the working
// directory.
func targetDir(args []string) (string, error) {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", errors.Wrapf(err, "error resolving %s", dir)
	}
	return abs, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func printEvent(w io.Writer, event types.ProgressEvent) {
	r := event.Result
	switch {
	case r.Outcome.Relocated():
		fmt.Fprintf(w, "[%d/%d] %-8s %s -> %s\n", event.Index, event.Total, r.Outcome, r.SourcePath, r.DestinationPath)
	case r.Error != nil:
		fmt.Fprintf(w, "[%d/%d] %-8s %s: %v\n", event.Index, event.Total, r.Outcome, r.SourcePath, r.Error)
	default:
		fmt.Fprintf(w, "[%d/%d] %-8s %s\n", event.Index, event.Total, r.Outcome, r.SourcePath)
	}
}

func printSummary(w io.Writer, result types.RunResult) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle("Organization " + string(result.Status))
	t.AppendRows([]table.Row{
		{"Processed", result.Stats.Processed},
		{"Skipped", result.Stats.Skipped},
		{"Errors", result.Stats.Errors},
		{"Folders created", result.Stats.FoldersCreated},
		{"Size", formatBytes(result.Stats.Bytes)},
		{"Duration", result.FinishedAt.Sub(result.StartedAt).Round(time.Millisecond).String()},
	})
	t.Render()

	for _, path := range result.Conflicts {
		fmt.Fprintf(w, "Left in place, destination exists: %s\n", path)
	}
	switch {
	case errors.IsRunInProgress(result.Err):
		fmt.Fprintln(w, "Another organize run is still active, try again when it finishes.")
	case result.Err != nil:
		fmt.Fprintf(w, "Error: %v\n", result.Err)
	}
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

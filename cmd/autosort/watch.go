package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"autosort/internal/errors"
	"autosort/internal/organize"
	"autosort/internal/watch"
	"autosort/pkg/types"

	"github.com/spf13/cobra"
)

// NewWatchCmd creates the watch command
func NewWatchCmd() *cobra.Command {
	var interval int

	cmd := &cobra.Command{
		Use:   "watch [directory]",
		Short: "Organize a directory whenever files appear in it",
		Long: `Organize the directory once, then again every time new files have
settled for the quiet interval. Press Ctrl+C to stop.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := targetDir(args)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("interval") {
				interval = cfg.Watch.IntervalSeconds
			}
			if interval < 1 {
				return errors.Newf("interval must be at least 1 second, got %d", interval)
			}

			runner := organize.NewRunner(cfg, organize.WithRecorder(store))
			daemon, err := watch.NewDaemon(root, cfg.Settings.OutputDir, time.Duration(interval)*time.Second, runner)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			daemon.SetCallback(func(result types.RunResult) {
				if !result.OK() {
					fmt.Fprintf(out, "%s run failed: %v\n", time.Now().Format(time.TimeOnly), result.Err)
					return
				}
				if result.Stats.Processed > 0 || result.Stats.Errors > 0 {
					fmt.Fprintf(out, "%s organized %d files (%d skipped, %d errors)\n",
						time.Now().Format(time.TimeOnly), result.Stats.Processed, result.Stats.Skipped, result.Stats.Errors)
				}
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(out, "Watching %s every %ds. Press Ctrl+C to stop.\n", root, interval)
			if err := daemon.Run(ctx); err != nil {
				return err
			}
			status := daemon.Status()
			fmt.Fprintf(out, "Stopped after %d runs, %d files organized.\n", status.Runs, status.FilesProcessed)
			return nil
		},
	}

	cmd.Flags().IntVarP(&interval, "interval", "i", 5, "seconds without changes before organizing")
	return cmd
}

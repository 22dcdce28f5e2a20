package main

import (
	"fmt"
	"path/filepath"

	"autosort/internal/analysis"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// NewAnalyzeCmd creates the analyze command
func NewAnalyzeCmd() *cobra.Command {
	var detailed bool

	cmd := &cobra.Command{
		Use:   "analyze [directory]",
		Short: "Preview an organize run without changing anything",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := targetDir(args)
			if err != nil {
				return err
			}
			engine, err := analysis.New(cfg, nil)
			if err != nil {
				return err
			}
			report, err := engine.ScanDirectory(root)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "== Analysis for %s ==\n", report.Root)

			t := table.NewWriter()
			t.SetOutputMirror(out)
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Category", "Files", "Size"})
			for _, c := range report.Categories {
				t.AppendRow(table.Row{c.Name, c.Files, formatBytes(c.Bytes)})
			}
			t.AppendFooter(table.Row{"Total", len(report.Files) - report.Ignored - report.Oversized, formatBytes(report.Bytes)})
			t.Render()

			fmt.Fprintf(out, "Ignored: %d, over size limit: %d\n", report.Ignored, report.Oversized)

			if detailed {
				fmt.Fprintln(out, "\nDetailed listing:")
				for _, p := range report.Files {
					switch {
					case p.SkipReason != "":
						fmt.Fprintf(out, "  %s (skipped: %s)\n", p.Path, p.SkipReason)
					case p.ContentType != "":
						fmt.Fprintf(out, "  %s -> %s [%s]\n", p.Path, filepath.Join(cfg.Settings.OutputDir, p.Destination), p.ContentType)
					default:
						fmt.Fprintf(out, "  %s -> %s\n", p.Path, filepath.Join(cfg.Settings.OutputDir, p.Destination))
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&detailed, "detailed", "v", false, "list every file with its destination")
	return cmd
}

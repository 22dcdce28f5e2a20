package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// NewHistoryCmd creates the history command
func NewHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded organize runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(cfg.History) == 0 {
				fmt.Fprintln(out, "No runs recorded yet.")
				return nil
			}

			t := table.NewWriter()
			t.SetOutputMirror(out)
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"When", "Status", "Folder", "Processed", "Skipped", "Errors", "Folders", "Conflicts"})

			shown := 0
			for i := len(cfg.History) - 1; i >= 0; i-- {
				if limit > 0 && shown == limit {
					break
				}
				e := cfg.History[i]
				t.AppendRow(table.Row{
					e.Timestamp.Local().Format(time.DateTime),
					string(e.Status),
					e.Root,
					e.Stats.Processed,
					e.Stats.Skipped,
					e.Stats.Errors,
					e.Stats.FoldersCreated,
					len(e.Conflicts),
				})
				shown++
			}
			t.Render()
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "number of runs to show (0 = all)")
	return cmd
}

// NewStatsCmd creates the stats command
func NewStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show totals over every recorded run",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			s := cfg.Statistics
			last := "never"
			if s.LastRun != nil {
				last = s.LastRun.Local().Format(time.DateTime)
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.SetTitle("Statistics")
			t.AppendRows([]table.Row{
				{"Files seen", s.TotalFiles},
				{"Files organized", s.OrganizedFiles},
				{"Folders created", s.FoldersCreated},
				{"Size organized", formatBytes(s.BytesOrganized)},
				{"Last run", last},
				{"Runs kept", len(cfg.History)},
			})
			t.Render()
		},
	}
}

// NewFavoritesCmd creates the favorites command
func NewFavoritesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "favorites",
		Short: "List remembered folders",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			if len(cfg.Favorites) == 0 {
				fmt.Fprintln(out, "No favorite folders.")
				return
			}
			fmt.Fprintln(out, strings.Join(cfg.Favorites, "\n"))
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add [directory]",
		Short: "Remember a folder",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := targetDir(args)
			if err != nil {
				return err
			}
			cfg.AddFavorite(dir)
			if err := store.Save(cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", dir)
			return nil
		},
	})
	return cmd
}

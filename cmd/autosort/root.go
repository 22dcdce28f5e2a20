package main

import (
	"io"
	"os"

	"autosort/internal/config"
	"autosort/internal/errors"
	"autosort/internal/gui"
	"autosort/internal/log"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	debug   bool
	logJSON bool
	logFile string

	store *config.Store
	cfg   *config.Config
)

// NewRootCmd creates the root command. Without a subcommand it opens the
// desktop window, or prints help when the binary was built without one.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "autosort",
		Short:   "Sort a folder into category and date subfolders",
		Long:    `Autosort moves the files of a folder into <folder>/Organized, grouped by type, modification date and project.`,
		Version: version,
		Args:    cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			configureLogging(os.Stderr)
			log.SetDebug(debug)

			store = config.NewStore(cfgFile)
			loaded, err := store.Load()
			if errors.IsInvalidConfig(err) && cmd.Name() == "init" {
				log.LogWithError(err).Warn("Ignoring unusable configuration file")
				loaded, err = config.New(), nil
			}
			if errors.IsInvalidConfig(err) {
				return errors.Wrapf(err, "%s is not usable, fix it or run 'autosort config init --force'", store.Path())
			}
			if err != nil {
				return err
			}
			cfg = loaded
			log.LogWithFields(log.F("config", store.Path())).Debug("Configuration loaded")
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if !gui.IsGUIAvailable() {
				return cmd.Help()
			}
			return gui.StartGUI(store, cfg)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is <user config dir>/autosort/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "log debug messages")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "log one JSON object per line")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "also append log lines to this file")

	rootCmd.AddCommand(NewOrganizeCmd())
	rootCmd.AddCommand(NewAnalyzeCmd())
	rootCmd.AddCommand(NewWatchCmd())
	rootCmd.AddCommand(NewHistoryCmd())
	rootCmd.AddCommand(NewStatsCmd())
	rootCmd.AddCommand(NewConfigCmd())
	rootCmd.AddCommand(NewFavoritesCmd())
	rootCmd.AddCommand(NewGUICmd())

	return rootCmd
}

// configureLogging sends log lines to w and, with --log-file, to that file.
func configureLogging(w io.Writer) {
	opts := []log.Option{log.WithOutput(w)}
	if logJSON {
		opts = append(opts, log.WithJSON())
	}
	if logFile != "" {
		opts = append(opts, log.WithFile(logFile))
	}
	log.Configure(opts...)
}

// detachLogs keeps log lines off the terminal while the progress screen
// owns it. They still reach --log-file. The returned func sends them back
// to w.
func detachLogs(w io.Writer) (restore func()) {
	configureLogging(io.Discard)
	return func() { configureLogging(w) }
}

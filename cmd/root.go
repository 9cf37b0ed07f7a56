package cmd

import (
	"fmt"
	"os"

	"github.com/iksnae/water-eject/internal"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string
	dataDir    string
	groupDir   string
	premium    bool
	version    string = "dev"
	commit     string = "unknown"
	date       string = "unknown"

	cfg internal.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "water-eject",
	Short: "Clear water from speakers with tuned tones and track every run",
	Long: `A CLI for playing speaker water-ejection tones and tracking each session.

Each device type and intensity maps to a fixed tone frequency and duration.
Sessions are recorded locally, and an aggregate stats snapshot is published to a
shared group store that widget and companion readers poll or watch.

Features:
  • Frequency policy table for six device types and five intensities
  • Session history with filters and export (JSONL, Markdown, YAML, JSON)
  • Atomic stats snapshot shared across processes
  • Widget timeline built from the shared snapshot
  • WAV rendering of any policy

Quick Start:
  water-eject run --device phone --intensity high   # Run a full session
  water-eject history                               # List past sessions
  water-eject widget                                # Show what the widget displays`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		internal.SetVerbose(verbose)

		loaded, err := internal.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if dataDir != "" {
			loaded.DataDir = dataDir
		}
		if groupDir != "" {
			loaded.GroupDir = groupDir
		}
		if cmd.Flags().Changed("premium") {
			loaded.Premium = premium
		}
		cfg = loaded
		internal.LogDebug("Data dir %s, group dir %s", cfg.DataDir, cfg.GroupDir)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		internal.SyncLogger()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (yaml or toml, default ~/.config/water-eject/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Directory holding the session history database")
	rootCmd.PersistentFlags().StringVar(&groupDir, "group-dir", "", "Shared group directory holding the stats snapshot")
	rootCmd.PersistentFlags().BoolVar(&premium, "premium", false, "Publish the premium flag as set")

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}

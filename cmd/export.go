package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/iksnae/water-eject/internal"
	"github.com/iksnae/water-eject/internal/export"
	"github.com/spf13/cobra"
)

var (
	format  string
	outPath string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export session history to a file",
	Long: `Export session history to jsonl, md, yaml or json.

Filters match those of 'water-eject history'. Without --out the export is
written to stdout.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		exporter, err := export.NewExporter(format)
		if err != nil {
			return err
		}
		filter, err := historyFilterFromFlags(time.Now())
		if err != nil {
			return err
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		history, err := a.recorder.History(cmd.Context(), filter)
		if err != nil {
			return fmt.Errorf("failed to load history: %w", err)
		}
		sessions := make([]*internal.EjectionSession, len(history))
		for i := range history {
			sessions[i] = &history[i]
		}

		if outPath == "" || outPath == "-" {
			if err := exporter.Export(sessions, cmd.OutOrStdout()); err != nil {
				return &internal.ExportError{Format: format, Path: "stdout", Err: err}
			}
			return nil
		}

		path := outPath
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			path = filepath.Join(path, "sessions."+exporter.Extension())
		}

		err = internal.ShowProgress(cmd.Context(), fmt.Sprintf("Exporting %d session(s) to %s", len(sessions), path), func() error {
			return writeExport(path, exporter, sessions)
		})
		if err != nil {
			return &internal.ExportError{Format: format, Path: path, Err: err}
		}

		internal.PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Export complete: %d session(s) exported to %s", len(sessions), path))
		return nil
	},
}

func writeExport(path string, exporter export.Exporter, sessions []*internal.EjectionSession) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := exporter.Export(sessions, file); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

func init() {
	rootCmd.AddCommand(exportCmd)
	addHistoryFilterFlags(exportCmd)
	exportCmd.Flags().StringVarP(&format, "format", "f", "jsonl", "Export format (jsonl, md, yaml, json)")
	exportCmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file or directory (default stdout)")
}

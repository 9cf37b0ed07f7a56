package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/iksnae/water-eject/internal"
	"github.com/spf13/cobra"
)

var (
	statsJSON      bool
	statsPublished bool
)

type statsOutput struct {
	internal.Snapshot
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate session statistics",
	Long: `Show aggregate statistics computed from the full session history.

With --published, show the snapshot currently in the shared group store
instead, exactly as widget and companion readers see it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			snap      internal.Snapshot
			updatedAt *time.Time
		)

		if statsPublished {
			s, at, found, err := sharedStore().ReadSnapshot(cmd.Context())
			if err != nil {
				return err
			}
			if !found {
				internal.PrintWarning(cmd.ErrOrStderr(), "No snapshot published yet (run 'water-eject publish')")
			}
			snap = s
			if !at.IsZero() {
				updatedAt = &at
			}
		} else {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			sessions, err := a.recorder.History(cmd.Context(), internal.HistoryFilter{})
			if err != nil {
				return fmt.Errorf("failed to load history: %w", err)
			}
			snap = internal.ComputeStats(sessions, time.Now(), cfg.Premium)
		}

		out := cmd.OutOrStdout()
		if statsJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(statsOutput{Snapshot: snap, UpdatedAt: updatedAt})
		}
		displaySnapshot(out, snap, time.Now())
		if updatedAt != nil {
			fmt.Fprintf(out, "%s %s\n", labelStyle.Render("Published"), dateStyle.Render(formatWhen(*updatedAt, time.Now())))
		}
		return nil
	},
}

func displaySnapshot(out io.Writer, snap internal.Snapshot, now time.Time) {
	fmt.Fprintln(out, headerStyle.Render("📊 Session Stats"))
	row := func(label, value string) {
		fmt.Fprintf(out, "%s %s\n", labelStyle.Render(label), value)
	}
	row("Total", countStyle.Render(fmt.Sprintf("%d", snap.TotalSessions)))
	row("This week", countStyle.Render(fmt.Sprintf("%d", snap.WeeklySessions)))
	row("Completion", fmt.Sprintf("%.1f%%", snap.CompletionPercent()))
	row("Avg duration", formatSeconds(snap.AverageDuration))
	row("Last session", dateStyle.Render(formatWhen(snap.LastSessionDate, now)))
	if snap.IsPremium {
		row("Plan", titleStyle.Render("premium"))
	}
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Print stats as JSON")
	statsCmd.Flags().BoolVar(&statsPublished, "published", false, "Read the snapshot from the shared store")
}

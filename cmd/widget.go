package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/iksnae/water-eject/internal"
	"github.com/spf13/cobra"
)

var (
	widgetJSON     bool
	widgetEntries  int
	widgetInterval time.Duration
)

type timelineOutput struct {
	Entries   []internal.Entry `json:"entries"`
	RefreshAt time.Time        `json:"refreshAt"`
}

var widgetCmd = &cobra.Command{
	Use:   "widget",
	Short: "Print the widget timeline built from the shared snapshot",
	Long: `Read the shared snapshot once and print the widget timeline: a run of
entries spaced by the configured interval plus the time the host should ask
for the next timeline.

A store that was never written shows zero stats dated now.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		provider := newProvider()
		timeline := provider.Timeline(cmd.Context())

		out := cmd.OutOrStdout()
		if widgetJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(timelineOutput{
				Entries:   slices.Collect(timeline.Entries()),
				RefreshAt: timeline.RefreshAt,
			})
		}
		displayTimeline(out, timeline)
		return nil
	},
}

func newProvider() *internal.Provider {
	count := cfg.Timeline.Entries
	if widgetEntries > 0 {
		count = widgetEntries
	}
	interval := time.Duration(cfg.Timeline.Interval)
	if widgetInterval > 0 {
		interval = widgetInterval
	}
	return internal.NewProvider(sharedStore(), count, interval)
}

func displayTimeline(out io.Writer, timeline internal.Timeline) {
	// Every entry carries the same snapshot; only the first is rendered.
	for e := range timeline.Entries() {
		displaySnapshot(out, e.Snapshot, e.Date)
		if e.Placeholder {
			fmt.Fprintln(out, openStyle.Render("(placeholder: nothing published yet)"))
		}
		fmt.Fprintln(out)
		fmt.Fprintf(out, "%s %d\n", labelStyle.Render("Entries"), timeline.Len())
		fmt.Fprintf(out, "%s %s\n", labelStyle.Render("From"), dateStyle.Render(e.Date.Local().Format(time.RFC3339)))
		break
	}
	fmt.Fprintf(out, "%s %s\n", labelStyle.Render("Refresh at"), dateStyle.Render(timeline.RefreshAt.Local().Format(time.RFC3339)))
}

func init() {
	rootCmd.AddCommand(widgetCmd)
	widgetCmd.Flags().BoolVar(&widgetJSON, "json", false, "Print the full timeline as JSON")
	widgetCmd.Flags().IntVar(&widgetEntries, "entries", 0, "Number of timeline entries (default from config)")
	widgetCmd.Flags().DurationVar(&widgetInterval, "interval", 0, "Spacing between entries (default from config)")
}

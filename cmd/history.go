package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/water-eject/internal"
	"github.com/spf13/cobra"
)

var (
	historyStatus    string
	historySince     string
	historyUntil     string
	historyDevice    string
	historyIntensity string
	historyLimit     int
	historyJSON      bool
)

var (
	// Styles
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	openStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true)
)

var historyCmd = &cobra.Command{
	Use:     "history",
	Aliases: []string{"list"},
	Short:   "List recorded sessions, newest first",
	Long: `List recorded sessions, newest first.

Times for --since and --until accept a date (2006-01-02), an RFC 3339
timestamp, or a duration meaning "that long ago" (e.g. 168h).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, err := historyFilterFromFlags(time.Now())
		if err != nil {
			return err
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		sessions, err := a.recorder.History(cmd.Context(), filter)
		if err != nil {
			return fmt.Errorf("failed to load history: %w", err)
		}

		out := cmd.OutOrStdout()
		if historyJSON {
			if sessions == nil {
				sessions = []internal.EjectionSession{}
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(sessions)
		}
		displaySessions(out, sessions, time.Now())
		return nil
	},
}

// historyFilterFromFlags builds the filter shared by history and export
func historyFilterFromFlags(now time.Time) (internal.HistoryFilter, error) {
	var f internal.HistoryFilter

	switch internal.HistoryStatus(strings.ToLower(historyStatus)) {
	case "", internal.StatusAll:
		f.Status = internal.StatusAll
	case internal.StatusCompleted:
		f.Status = internal.StatusCompleted
	case internal.StatusIncomplete:
		f.Status = internal.StatusIncomplete
	default:
		return f, fmt.Errorf("invalid status %q (valid: all, completed, incomplete)", historyStatus)
	}

	var err error
	if f.Since, err = parseTimeFlag(historySince, now); err != nil {
		return f, fmt.Errorf("invalid --since: %w", err)
	}
	if f.Until, err = parseTimeFlag(historyUntil, now); err != nil {
		return f, fmt.Errorf("invalid --until: %w", err)
	}
	if historyDevice != "" {
		if f.Device, err = internal.ParseDeviceType(historyDevice); err != nil {
			return f, err
		}
	}
	if historyIntensity != "" {
		if f.Intensity, err = internal.ParseIntensityLevel(historyIntensity); err != nil {
			return f, err
		}
	}
	if historyLimit < 0 {
		return f, fmt.Errorf("invalid --limit %d", historyLimit)
	}
	f.Limit = historyLimit
	return f, nil
}

func parseTimeFlag(value string, now time.Time) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", value, time.Local); err == nil {
		return t, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q is not a date, timestamp or duration", value)
	}
	return now.Add(-d), nil
}

func displaySessions(out io.Writer, sessions []internal.EjectionSession, now time.Time) {
	if len(sessions) == 0 {
		fmt.Fprintln(out, headerStyle.Render("📋 No sessions found"))
		return
	}

	fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("📋 Found %d session(s)", len(sessions))))
	fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	_, _ = fmt.Fprintln(w, titleStyle.Render("ID")+"\t"+titleStyle.Render("Device")+"\t"+titleStyle.Render("Intensity")+"\t"+titleStyle.Render("Duration")+"\t"+titleStyle.Render("Started")+"\t")
	_, _ = fmt.Fprintln(w, strings.Repeat("─", 80))

	for _, s := range sessions {
		shortID := s.ID
		if len(shortID) > 8 {
			shortID = shortID[:8]
		}

		duration := openStyle.Render("open")
		if s.Completed {
			duration = countStyle.Render(formatSeconds(s.ActualDuration))
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t\n",
			idStyle.Render(shortID),
			string(s.DeviceType),
			string(s.IntensityLevel),
			duration,
			dateStyle.Render(formatWhen(s.StartedAt, now)),
		)
	}
	_ = w.Flush()

	fmt.Fprintln(out)
	fmt.Fprintln(out, idStyle.Render("💡 Tip: Use the full ID (e.g., ")+
		lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Render(sessions[0].ID)+
		idStyle.Render(") with `water-eject show <id>`"))
}

func addHistoryFilterFlags(c *cobra.Command) {
	c.Flags().StringVar(&historyStatus, "status", "all", "Filter by status (all, completed, incomplete)")
	c.Flags().StringVar(&historySince, "since", "", "Only sessions started at or after this time")
	c.Flags().StringVar(&historyUntil, "until", "", "Only sessions started before this time")
	c.Flags().StringVar(&historyDevice, "device", "", "Filter by device type")
	c.Flags().StringVar(&historyIntensity, "intensity", "", "Filter by intensity")
	c.Flags().IntVarP(&historyLimit, "limit", "n", 0, "Maximum number of sessions (0 for all)")
}

func init() {
	rootCmd.AddCommand(historyCmd)
	addHistoryFilterFlags(historyCmd)
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "Print sessions as JSON")
}

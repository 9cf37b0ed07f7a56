package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/water-eject/internal"
	"github.com/spf13/cobra"
)

var (
	sessionHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("212")).
				Padding(0, 1).
				MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			Width(14)

	timestampStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

var showCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Show one session with its playback policy",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		s, err := a.recorder.Get(cmd.Context(), args[0])
		if errors.Is(err, internal.ErrUnknownSession) {
			return fmt.Errorf("session not found: %s (use 'water-eject history' to see available sessions)", args[0])
		}
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		now := time.Now()
		policy := internal.PolicyFor(s.DeviceType, s.IntensityLevel)

		fmt.Fprintln(out, sessionHeaderStyle.Render("💧 Session "+s.ID))
		row := func(label, value string) {
			fmt.Fprintf(out, "%s %s\n", labelStyle.Render(label), value)
		}
		row("Device", string(s.DeviceType))
		row("Intensity", string(s.IntensityLevel))
		row("Frequency", fmt.Sprintf("%.0f Hz", policy.Frequency))
		row("Nominal", policy.Duration.String())
		row("Started", timestampStyle.Render(s.StartedAt.Local().Format(time.RFC3339)))
		if s.Completed {
			row("Status", countStyle.Render("completed"))
			row("Duration", formatSeconds(s.ActualDuration))
			row("Completed", timestampStyle.Render(s.CompletedAt.Local().Format(time.RFC3339)))
		} else {
			row("Status", openStyle.Render("open"))
			row("Elapsed", s.Elapsed(now).Round(time.Second).String())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}

package cmd

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/iksnae/water-eject/internal"
	"github.com/spf13/cobra"
)

var completeCmd = &cobra.Command{
	Use:   "complete <session-id> <seconds>",
	Short: "Mark a session completed after it ran for the given seconds",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		actual, err := parseSeconds(args[1])
		if err != nil {
			return err
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.recorder.Complete(cmd.Context(), args[0], actual); err != nil {
			return err
		}
		internal.PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Completed session %s", args[0]))
		a.warnIfUnpublished(cmd.OutOrStdout())
		return nil
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop <session-id>",
	Short: "End a session early, recording the time elapsed since it started",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.recorder.Stop(cmd.Context(), args[0]); err != nil {
			return err
		}
		internal.PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Stopped session %s", args[0]))
		a.warnIfUnpublished(cmd.OutOrStdout())
		return nil
	},
}

// parseSeconds converts a seconds argument to a duration. Values that are
// not finite or do not fit a time.Duration are rejected; negative values are
// left to the recorder.
func parseSeconds(s string) (time.Duration, error) {
	seconds, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return 0, fmt.Errorf("%w: %q", internal.ErrInvalidDuration, s)
	}
	nanos := seconds * float64(time.Second)
	if math.Abs(nanos) >= math.MaxInt64 {
		return 0, fmt.Errorf("%w: %q out of range", internal.ErrInvalidDuration, s)
	}
	return time.Duration(nanos), nil
}

func init() {
	rootCmd.AddCommand(completeCmd)
	rootCmd.AddCommand(stopCmd)
}

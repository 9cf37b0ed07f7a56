package cmd

import (
	"fmt"
	"time"

	"github.com/iksnae/water-eject/internal"
	"github.com/spf13/cobra"
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Recompute stats and write the shared snapshot",
	Long: `Recompute statistics from the full history and write them to the shared
group store in one atomic update.

Publishing normally happens after every completed session; run this to retry
after the group store was unavailable or to pick up a premium change.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		err = internal.ShowProgress(cmd.Context(), "Publishing snapshot to "+a.shared.Path(), func() error {
			return a.publisher.Publish(cmd.Context())
		})
		if err != nil {
			return err
		}

		snap, _ := a.publisher.Last()
		out := cmd.OutOrStdout()
		displaySnapshot(out, snap, time.Now())
		internal.PrintSuccess(out, fmt.Sprintf("Published to %s", a.shared.Path()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(publishCmd)
}

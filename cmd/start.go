package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iksnae/water-eject/internal"
	"github.com/spf13/cobra"
)

var (
	startDevice    string
	startIntensity string
	startJSON      bool
	runToneOut     string
)

type startResult struct {
	ID     string          `json:"id"`
	Policy internal.Policy `json:"policy"`
}

// parseDeviceIntensity validates the --device and --intensity pair
func parseDeviceIntensity(device, intensity string) (internal.DeviceType, internal.IntensityLevel, error) {
	d, err := internal.ParseDeviceType(device)
	if err != nil {
		return "", "", err
	}
	l, err := internal.ParseIntensityLevel(intensity)
	if err != nil {
		return "", "", err
	}
	return d, l, nil
}

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a session and print its id",
	Long: `Start a new ejection session for a device and intensity.

The session stays open until 'complete' or 'stop' is called with its id.
Starting a session never cancels another open one.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		device, intensity, err := parseDeviceIntensity(startDevice, startIntensity)
		if err != nil {
			return err
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		id, err := a.recorder.Start(cmd.Context(), device, intensity)
		if err != nil {
			return fmt.Errorf("failed to start session: %w", err)
		}

		out := cmd.OutOrStdout()
		policy := internal.PolicyFor(device, intensity)
		if startJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(startResult{ID: id, Policy: policy})
		}
		fmt.Fprintln(out, id)
		internal.LogInfo("Play %.0f Hz for %v", policy.Frequency, policy.Duration)
		return nil
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a full session in real time",
	Long: `Start a session, wait out the policy duration, and complete it.

Interrupting with Ctrl-C stops the session early and records the elapsed time.
Use --tone to also render the tone to a WAV file for playback.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		device, intensity, err := parseDeviceIntensity(startDevice, startIntensity)
		if err != nil {
			return err
		}
		policy := internal.PolicyFor(device, intensity)

		if runToneOut != "" {
			if err := writeToneFile(runToneOut, policy, internal.DefaultSampleRate, 0); err != nil {
				return err
			}
			internal.LogInfo("Wrote tone to %s", runToneOut)
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		id, err := a.recorder.Start(ctx, device, intensity)
		if err != nil {
			return fmt.Errorf("failed to start session: %w", err)
		}

		out := cmd.OutOrStdout()
		internal.PrintInfo(out, fmt.Sprintf("Session %s: %.0f Hz for %v", id, policy.Frequency, policy.Duration))

		started := time.Now()
		timer := time.NewTimer(policy.Duration)
		defer timer.Stop()

		select {
		case <-timer.C:
			if err := a.recorder.Complete(context.WithoutCancel(ctx), id, time.Since(started)); err != nil {
				return err
			}
			internal.PrintSuccess(out, fmt.Sprintf("Completed session %s", id))
		case <-ctx.Done():
			if err := a.recorder.Stop(context.WithoutCancel(ctx), id); err != nil {
				return err
			}
			internal.PrintWarning(out, fmt.Sprintf("Stopped session %s after %v", id, time.Since(started).Round(time.Second)))
		}
		a.warnIfUnpublished(out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(runCmd)

	for _, c := range []*cobra.Command{startCmd, runCmd} {
		c.Flags().StringVarP(&startDevice, "device", "d", string(internal.DevicePhone), "Device type (phone, tablet, laptop, watch, earbuds, other)")
		c.Flags().StringVarP(&startIntensity, "intensity", "i", string(internal.IntensityMedium), "Intensity (low, medium, high, emergency, realtime)")
	}
	startCmd.Flags().BoolVar(&startJSON, "json", false, "Print the id and policy as JSON")
	runCmd.Flags().StringVar(&runToneOut, "tone", "", "Also render the tone to this WAV file")
}

package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/iksnae/water-eject/internal"
	"github.com/spf13/cobra"
)

var (
	toneDevice     string
	toneIntensity  string
	toneOut        string
	toneSampleRate int
	toneLength     time.Duration
)

var toneCmd = &cobra.Command{
	Use:   "tone",
	Short: "Render a policy's tone to a WAV file",
	Long: `Render the tone for a device and intensity as 16-bit mono PCM WAV.

The full policy duration is rendered unless --length is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		device, intensity, err := parseDeviceIntensity(toneDevice, toneIntensity)
		if err != nil {
			return err
		}
		policy := internal.PolicyFor(device, intensity)

		path := toneOut
		if path == "" {
			path = fmt.Sprintf("%s_%s.wav", device, intensity)
		}

		err = internal.ShowProgress(cmd.Context(), fmt.Sprintf("Rendering %.0f Hz tone to %s", policy.Frequency, path), func() error {
			return writeToneFile(path, policy, toneSampleRate, toneLength)
		})
		if err != nil {
			return err
		}
		internal.PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Wrote %s", path))
		return nil
	},
}

func writeToneFile(path string, policy internal.Policy, sampleRate int, length time.Duration) error {
	if sampleRate == 0 {
		sampleRate = internal.DefaultSampleRate
	}
	samples, err := internal.RenderTone(policy, sampleRate, length)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", path, err)
	}

	buf := bufio.NewWriter(file)
	if err := internal.WriteWAV(buf, samples, sampleRate); err != nil {
		_ = file.Close()
		return err
	}
	if err := buf.Flush(); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return file.Close()
}

func init() {
	rootCmd.AddCommand(toneCmd)
	toneCmd.Flags().StringVarP(&toneDevice, "device", "d", string(internal.DevicePhone), "Device type")
	toneCmd.Flags().StringVarP(&toneIntensity, "intensity", "i", string(internal.IntensityMedium), "Intensity")
	toneCmd.Flags().StringVarP(&toneOut, "out", "o", "", "Output WAV path (default <device>_<intensity>.wav)")
	toneCmd.Flags().IntVar(&toneSampleRate, "sample-rate", internal.DefaultSampleRate, "Sample rate in Hz")
	toneCmd.Flags().DurationVar(&toneLength, "length", 0, "Render only this much of the tone")
}

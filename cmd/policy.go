package cmd

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/iksnae/water-eject/internal"
	"github.com/spf13/cobra"
)

var policyJSON bool

var policyCmd = &cobra.Command{
	Use:   "policy [device] [intensity]",
	Short: "Print the frequency policy table or a single entry",
	Long: `Print the tone frequency, duration and envelope for each device type and
intensity. With a device (and optionally an intensity), print only the matching
entries.`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		policies := internal.Policies()
		if len(args) > 0 {
			device, err := internal.ParseDeviceType(args[0])
			if err != nil {
				return err
			}
			var intensity internal.IntensityLevel
			if len(args) > 1 {
				if intensity, err = internal.ParseIntensityLevel(args[1]); err != nil {
					return err
				}
			}
			filtered := policies[:0]
			for _, p := range policies {
				if p.Device == device && (intensity == "" || p.Intensity == intensity) {
					filtered = append(filtered, p)
				}
			}
			policies = filtered
		}

		out := cmd.OutOrStdout()
		if policyJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(policies)
		}

		w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
		_, _ = fmt.Fprintln(w, titleStyle.Render("Device")+"\t"+titleStyle.Render("Intensity")+"\t"+titleStyle.Render("Hz")+"\t"+titleStyle.Render("Duration")+"\t"+titleStyle.Render("Envelope")+"\t")
		_, _ = fmt.Fprintln(w, strings.Repeat("─", 72))
		for _, p := range policies {
			env := fmt.Sprintf("attack %.2fs release %.2fs peak %.2f", p.Envelope.AttackSeconds, p.Envelope.ReleaseSeconds, p.Envelope.Peak)
			if p.Envelope.PulseHz > 0 {
				env += fmt.Sprintf(" pulse %.1fHz", p.Envelope.PulseHz)
			}
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t\n",
				string(p.Device),
				string(p.Intensity),
				countStyle.Render(fmt.Sprintf("%.0f", p.Frequency)),
				p.Duration,
				dateStyle.Render(env),
			)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(policyCmd)
	policyCmd.Flags().BoolVar(&policyJSON, "json", false, "Print policies as JSON")
}

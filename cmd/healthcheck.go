package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/water-eject/internal"
	"github.com/spf13/cobra"
)

var (
	healthcheckDetails bool
)

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Underline(true)
)

// healthReport collects the outcome of each check
type healthReport struct {
	historyOK     bool
	sessionCount  int
	groupWritable bool
	snapshotFound bool
	snapshotAge   time.Duration
}

// healthcheckCmd represents the healthcheck command
var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Check that session history and the shared store are usable",
	Long: `Check the health of water-eject by verifying:
  • Storage path resolution
  • Session history database access
  • Shared group directory writability
  • Published snapshot readability

This command is useful for debugging widgets that show only placeholder data.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		report := runHealthcheck(cmd.Context(), out, cfg.Paths())

		fmt.Fprintln(out, sectionStyle.Render("📊 Summary"))
		fmt.Fprintln(out)
		switch {
		case report.historyOK && report.groupWritable && report.snapshotFound:
			fmt.Fprintln(out, successStyle.Render("✅ Health check passed!"))
			fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("   • Sessions: %d recorded", report.sessionCount)))
			fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("   • Snapshot: published %s ago", report.snapshotAge.Round(time.Second))))
			return nil
		case report.historyOK && report.groupWritable:
			fmt.Fprintln(out, warningStyle.Render("⚠️  Storage available but no snapshot published"))
			fmt.Fprintln(out, "   • Widgets will show placeholder data")
			fmt.Fprintln(out, "   • Run 'water-eject publish' to write one")
			return nil
		default:
			fmt.Fprintln(out, errorStyle.Render("❌ Health check failed"))
			if !report.historyOK {
				fmt.Fprintln(out, "   • Cannot access session history")
			}
			if !report.groupWritable {
				fmt.Fprintln(out, "   • Shared group directory is not writable")
			}
			return fmt.Errorf("health check failed")
		}
	},
}

func runHealthcheck(ctx context.Context, out io.Writer, paths internal.StoragePaths) healthReport {
	var report healthReport

	fmt.Fprintln(out, sectionStyle.Render("🔍 Water Eject Health Check"))
	fmt.Fprintln(out)

	// Step 1: Storage paths
	fmt.Fprintln(out, infoStyle.Render("Step 1: Resolving storage paths..."))
	fmt.Fprintln(out, successStyle.Render("✅ Storage paths resolved"))
	if healthcheckDetails {
		fmt.Fprintf(out, "   Data dir: %s\n", paths.DataDir)
		fmt.Fprintf(out, "   Group dir: %s\n", paths.GroupDir)
	}
	fmt.Fprintln(out)

	// Step 2: Session history
	fmt.Fprintln(out, infoStyle.Render("Step 2: Checking session history..."))
	if !paths.SessionDBExists() {
		fmt.Fprintln(out, warningStyle.Render("⚠️  No session history yet (created on first start)"))
		if healthcheckDetails {
			fmt.Fprintf(out, "   Expected: %s\n", paths.SessionDBPath())
		}
	}
	a, err := openApp()
	if err != nil {
		fmt.Fprintln(out, errorStyle.Render("❌ Failed to open session history:"), err)
	} else {
		sessions, err := a.recorder.History(ctx, internal.HistoryFilter{})
		_ = a.Close()
		if err != nil {
			fmt.Fprintln(out, errorStyle.Render("❌ Failed to query session history:"), err)
		} else {
			report.historyOK = true
			report.sessionCount = len(sessions)
			fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ Found %d session(s)", len(sessions))))
		}
	}
	fmt.Fprintln(out)

	// Step 3: Group directory
	fmt.Fprintln(out, infoStyle.Render("Step 3: Checking shared group directory..."))
	if err := paths.GroupDirWritable(); err != nil {
		fmt.Fprintln(out, errorStyle.Render("❌ Group directory not writable:"), err)
	} else {
		report.groupWritable = true
		fmt.Fprintln(out, successStyle.Render("✅ Group directory writable"))
	}
	fmt.Fprintln(out)

	// Step 4: Published snapshot
	fmt.Fprintln(out, infoStyle.Render("Step 4: Reading published snapshot..."))
	store := internal.NewSharedStore(paths.SharedDBPath())
	snap, updatedAt, found, err := store.ReadSnapshot(ctx)
	switch {
	case err != nil:
		fmt.Fprintln(out, errorStyle.Render("❌ Snapshot unreadable:"), err)
	case !found:
		fmt.Fprintln(out, warningStyle.Render("⚠️  No snapshot published"))
	default:
		report.snapshotFound = true
		report.snapshotAge = time.Since(updatedAt)
		fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ Snapshot has %d session(s)", snap.TotalSessions)))
		if healthcheckDetails {
			fmt.Fprintf(out, "   Store: %s\n", store.Path())
			fmt.Fprintf(out, "   Updated: %s\n", updatedAt.Local().Format(time.RFC3339))
		}
		if report.historyOK && snap.TotalSessions != report.sessionCount {
			fmt.Fprintln(out, warningStyle.Render(fmt.Sprintf("⚠️  Snapshot is stale (%d in history)", report.sessionCount)))
		}
	}
	fmt.Fprintln(out)

	return report
}

func init() {
	rootCmd.AddCommand(healthcheckCmd)
	healthcheckCmd.Flags().BoolVar(&healthcheckDetails, "details", false, "Show detailed diagnostic information")
}

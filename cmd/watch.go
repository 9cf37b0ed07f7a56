package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/iksnae/water-eject/internal"
	"github.com/iksnae/water-eject/internal/watch"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	watchJSON     bool
	watchDebounce time.Duration

	// watcher callbacks and timeline refreshes print from different goroutines
	watchOutMu sync.Mutex
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow the shared snapshot as a read-only consumer",
	Long: `Watch the shared group store and print the snapshot every time the
writer publishes a new one. The widget timeline is also rebuilt whenever it
reaches its refresh time.

This command never writes to either store. Stop it with Ctrl-C.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		out := cmd.OutOrStdout()
		store := sharedStore()
		debounce := time.Duration(cfg.Watch.Debounce)
		if watchDebounce > 0 {
			debounce = watchDebounce
		}

		w, err := watch.New(store, debounce, func(snap internal.Snapshot, updatedAt time.Time) {
			printWatchUpdate(out, snap, updatedAt)
		})
		if err != nil {
			return fmt.Errorf("failed to create watcher: %w", err)
		}

		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return w.Run(ctx)
		})
		g.Go(func() error {
			return refreshTimeline(ctx, out, newProvider())
		})

		err = g.Wait()
		s := w.Stats()
		internal.LogInfo("Watcher stopped: %d events, %d updates, %d read errors", s.Events, s.Notifications, s.ReadErrors)
		return err
	},
}

// refreshTimeline prints the current entry, then rebuilds the timeline each
// time it reaches RefreshAt.
func refreshTimeline(ctx context.Context, out io.Writer, provider *internal.Provider) error {
	for {
		timeline := provider.Timeline(ctx)
		for e := range timeline.Entries() {
			printWatchUpdate(out, e.Snapshot, e.UpdatedAt)
			break
		}

		timer := time.NewTimer(time.Until(timeline.RefreshAt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
	}
}

func printWatchUpdate(out io.Writer, snap internal.Snapshot, updatedAt time.Time) {
	watchOutMu.Lock()
	defer watchOutMu.Unlock()
	if watchJSON {
		_ = json.NewEncoder(out).Encode(statsOutput{Snapshot: snap, UpdatedAt: &updatedAt})
		return
	}
	fmt.Fprintf(out, "%s total=%d weekly=%d completion=%.1f%% avg=%s\n",
		dateStyle.Render(time.Now().Format("15:04:05")),
		snap.TotalSessions,
		snap.WeeklySessions,
		snap.CompletionPercent(),
		formatSeconds(snap.AverageDuration),
	)
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().BoolVar(&watchJSON, "json", false, "Print one JSON object per update")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 0, "Quiet period before re-reading (default from config)")
}

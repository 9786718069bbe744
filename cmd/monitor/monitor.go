// Package monitor provides the realtime stress monitoring command.
package monitor

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/calmtrack/calmtrack-go/internal/bridge"
	"github.com/calmtrack/calmtrack-go/internal/conf"
	"github.com/calmtrack/calmtrack-go/internal/datastore"
	"github.com/calmtrack/calmtrack-go/internal/health"
	"github.com/calmtrack/calmtrack-go/internal/refresh"
	"github.com/calmtrack/calmtrack-go/internal/wellness"
)

// Command creates the monitor command.
func Command(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "monitor",
		Short: "Run the realtime stress monitoring loop",
		Long: `Monitor reads HRV from the health provider, classifies stress, tracks
the trend, mirrors the latest snapshot for widget surfaces, and persists
readings until interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMonitor(settings)
		},
	}
}

func runMonitor(settings *conf.Settings) error {
	store := datastore.New(settings)
	if err := store.Open(); err != nil {
		return fmt.Errorf("opening datastore: %w", err)
	}
	defer store.Close()

	provider := health.NewCachedProvider(
		health.NewSimulatedProvider(time.Now().UnixNano()),
		time.Duration(settings.Provider.CacheTTLSeconds)*time.Second,
		settings.Provider.RatePerMinute,
	)

	coordinator := refresh.NewCoordinator(
		provider, store, wellness.New(provider), bridge.New(settings), settings)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := coordinator.Start(ctx); err != nil {
		return fmt.Errorf("starting refresh coordinator: %w", err)
	}
	coordinator.RequestRefresh(refresh.TriggerManual)

	fmt.Println("Monitoring stress levels, press Ctrl+C to stop")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	var lastShown time.Time
	for {
		select {
		case <-sigCh:
			fmt.Println("\nStopping monitor")
			cancel()
			coordinator.Wait()
			return nil
		case <-ticker.C:
			snap := coordinator.Current()
			if snap == nil || !snap.UpdatedAt.After(lastShown) {
				continue
			}
			lastShown = snap.UpdatedAt
			fmt.Printf("[%s] HRV %.1f ms  %s %s  trend %s\n",
				snap.UpdatedAt.Format("15:04:05"),
				snap.HRV,
				snap.StressLevel.Emoji(),
				snap.StressLevel,
				snap.Trend.Symbol(),
			)
		}
	}
}

// Package insights provides the insights report command.
package insights

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/calmtrack/calmtrack-go/internal/conf"
	"github.com/calmtrack/calmtrack-go/internal/datastore"
	"github.com/calmtrack/calmtrack-go/internal/health"
	"github.com/calmtrack/calmtrack-go/internal/insights"
	"github.com/calmtrack/calmtrack-go/internal/model"
	"github.com/calmtrack/calmtrack-go/internal/wellness"
)

// Command creates the insights command.
func Command(settings *conf.Settings) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "insights",
		Short: "Print the wellness insights report",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInsights(settings, days)
		},
	}
	cmd.Flags().IntVar(&days, "days", 0, "Window length in days, defaults to the configured window")

	return cmd
}

func runInsights(settings *conf.Settings, days int) error {
	if days <= 0 {
		days = settings.Insights.WindowDays
	}

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

	ctx := context.Background()

	engine := insights.NewEngine(store, provider, settings.Goals)
	report, err := engine.Compute(ctx, days)
	if err != nil {
		return err
	}

	metrics, sleep := wellness.New(provider).Snapshot(ctx, time.Now())

	renderReport(os.Stdout, report, metrics, sleep)
	return nil
}

func renderReport(w io.Writer, report *insights.Report, metrics model.WellnessMetrics, sleep *model.SleepData) {
	fmt.Fprintf(w, "Insights for the last %d days\n\n", report.WindowDays)

	if len(report.DailyHRV) > 0 {
		fmt.Fprintln(w, "Daily HRV averages:")
		for _, p := range report.DailyHRV {
			fmt.Fprintf(w, "  %s  %.1f ms\n", p.Time.Format("Mon Jan 2"), p.Average)
		}
		fmt.Fprintln(w)
	}

	if len(report.KeyActions) > 0 {
		fmt.Fprintln(w, "Key actions:")
		for _, a := range report.KeyActions {
			marker := "!"
			if a.Positive {
				marker = "+"
			}
			fmt.Fprintf(w, "  [%s] %s", marker, a.Title)
			if a.Subtitle != "" {
				fmt.Fprintf(w, " (%s)", a.Subtitle)
			}
			fmt.Fprintf(w, " impact: %s\n", a.Impact)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "Today:")
	fmt.Fprintf(w, "  steps %d, active %.0f kcal, exercise %.0f min, stand %d hrs\n",
		metrics.StepCount, metrics.ActiveCalories, metrics.ExerciseMinutes, metrics.StandHours)
	fmt.Fprintf(w, "  mindful %.0f min, daylight %.0f min, noise %s\n",
		metrics.MindfulnessMinutes, metrics.DaylightMinutes, metrics.NoiseLevelCategory())
	fmt.Fprintf(w, "  heart rate %.0f bpm, resting %.0f bpm\n",
		metrics.HeartRate, metrics.RestingHeartRate)
	if sleep.HasData() {
		fmt.Fprintf(w, "  sleep %s (%s), avg %.0f bpm\n",
			sleep.DurationString(), sleep.Quality, sleep.AverageHeartRate)
	} else {
		fmt.Fprintln(w, "  sleep --:-- (no data)")
	}

	if report.Mood != nil {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Mood:")
		fmt.Fprintf(w, "  %d logs, most frequent %s", report.Mood.TotalLogs, report.Mood.TopEmotion)
		if report.Mood.TopTrigger != "" {
			fmt.Fprintf(w, ", top trigger %s", report.Mood.TopTrigger)
		}
		fmt.Fprintf(w, "\n  average energy %.1f/5, %.0f%% positive\n",
			report.Mood.AverageEnergy, report.Mood.PositiveRatio*100)
	}
}

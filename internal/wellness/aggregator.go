// Package wellness assembles the multi-domain daily wellness snapshot
// from the health provider.
package wellness

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/calmtrack/calmtrack-go/internal/health"
	"github.com/calmtrack/calmtrack-go/internal/logging"
	"github.com/calmtrack/calmtrack-go/internal/model"
)

// Aggregator fans out independent read-only provider queries and joins
// them into one WellnessMetrics snapshot. It never fails as a whole:
// any sub-fetch that errors or yields no data degrades to zero for its
// field only. Missing provider data is an expected steady state here,
// not an error.
type Aggregator struct {
	provider health.Provider
	logger   *slog.Logger

	now func() time.Time // injectable clock for tests
}

// New creates an aggregator reading from the given provider.
func New(provider health.Provider) *Aggregator {
	return &Aggregator{
		provider: provider,
		logger:   logging.ForService("wellness"),
		now:      time.Now,
	}
}

func startOfDay(t time.Time) time.Time {
	local := t.Local()
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, local.Location())
}

// Snapshot loads the wellness snapshot for the given day. All sub-fetches
// run concurrently and may complete in any order; the result is assembled
// only after every fetch has finished, so readers never observe a partial
// snapshot. The returned SleepData is nil when the provider recorded no
// sleep for the prior night.
func (a *Aggregator) Snapshot(ctx context.Context, day time.Time) (model.WellnessMetrics, *model.SleepData) {
	dayStart := startOfDay(day)
	dayEnd := dayStart.AddDate(0, 0, 1)

	var (
		calories, exercise, standMinutes health.Quantity
		daylight, mindful, steps         health.Quantity
		noise, restingHR, currentHR      health.Quantity
		sleep                            *model.SleepData
	)

	g, gctx := errgroup.WithContext(ctx)

	sum := func(dst *health.Quantity, metric health.Metric) {
		g.Go(func() error {
			*dst = a.fetchSum(gctx, metric, dayStart, dayEnd)
			return nil
		})
	}
	latest := func(dst *health.Quantity, metric health.Metric) {
		g.Go(func() error {
			*dst = a.fetchLatest(gctx, metric)
			return nil
		})
	}

	sum(&calories, health.MetricActiveCalories)
	sum(&exercise, health.MetricExerciseMinutes)
	sum(&standMinutes, health.MetricStandMinutes)
	sum(&daylight, health.MetricDaylightMinutes)
	sum(&mindful, health.MetricMindfulMinutes)
	sum(&steps, health.MetricSteps)
	latest(&noise, health.MetricNoiseLevel)
	latest(&restingHR, health.MetricRestingHeartRate)
	latest(&currentHR, health.MetricHeartRate)
	g.Go(func() error {
		sleep = a.fetchLastNightSleep(gctx, day)
		return nil
	})

	// Sub-fetches never return errors; the group is used purely as a
	// join point.
	_ = g.Wait()

	metrics := model.WellnessMetrics{
		ActiveCalories:     positive(calories),
		ExerciseMinutes:    positive(exercise),
		StandHours:         int(positive(standMinutes) / 60),
		DaylightMinutes:    positive(daylight),
		MindfulnessMinutes: positive(mindful),
		StepCount:          int(positive(steps)),
		NoiseLevel:         positive(noise),
		RestingHeartRate:   positive(restingHR),
		HeartRate:          positive(currentHR),
		SleepQuality:       model.SleepFair,
	}
	if sleep != nil {
		metrics.SleepDuration = sleep.TotalDuration
		metrics.SleepQuality = sleep.Quality
		metrics.SleepHeartRate = sleep.AverageHeartRate
	}
	return metrics, sleep
}

// LastNightSleep loads and summarizes the prior night's sleep session
// on its own, without the rest of the snapshot. Returns nil when the
// provider recorded no sleep.
func (a *Aggregator) LastNightSleep(ctx context.Context, day time.Time) *model.SleepData {
	return a.fetchLastNightSleep(ctx, day)
}

// positive collapses "no data" and non-positive values to zero at the
// snapshot edge. Everywhere upstream the two are kept distinct via the
// Valid flag.
func positive(q health.Quantity) float64 {
	if !q.Valid || q.Value <= 0 {
		return 0
	}
	return q.Value
}

func (a *Aggregator) fetchSum(ctx context.Context, metric health.Metric, start, end time.Time) health.Quantity {
	q, err := a.provider.QuerySum(ctx, metric, start, end)
	if err != nil {
		a.logger.Debug("sum query degraded to zero", "metric", metric, "error", err)
		return health.Quantity{}
	}
	return q
}

func (a *Aggregator) fetchLatest(ctx context.Context, metric health.Metric) health.Quantity {
	q, err := a.provider.QueryLatest(ctx, metric)
	if err != nil {
		a.logger.Debug("latest query degraded to zero", "metric", metric, "error", err)
		return health.Quantity{}
	}
	return q
}

// fetchLastNightSleep loads sleep segments for the window starting at
// yesterday's start of day, derives a quality tier from the total
// duration, and averages heart-rate samples restricted to the detected
// sleep window.
func (a *Aggregator) fetchLastNightSleep(ctx context.Context, day time.Time) *model.SleepData {
	windowStart := startOfDay(day).AddDate(0, 0, -1)
	segments, err := a.provider.QuerySleep(ctx, windowStart, a.now())
	if err != nil {
		a.logger.Debug("sleep query degraded to empty", "error", err)
		return nil
	}
	if len(segments) == 0 {
		return nil
	}

	var total, rem, deep, core, awake time.Duration
	stages := make([]model.SleepStage, 0, len(segments))
	for _, seg := range segments {
		d := seg.End.Sub(seg.Start)
		total += d
		switch seg.Stage {
		case model.StageREM:
			rem += d
		case model.StageDeep:
			deep += d
		case model.StageCore:
			core += d
		case model.StageAwake:
			awake += d
		}
		stages = append(stages, model.SleepStage{Start: seg.Start, End: seg.End, Stage: seg.Stage})
	}

	avgHR := a.sleepWindowHeartRate(ctx, segments[0].Start, segments[len(segments)-1].End)

	return &model.SleepData{
		Date:             segments[0].Start,
		TotalDuration:    total,
		REMDuration:      rem,
		DeepDuration:     deep,
		CoreDuration:     core,
		AwakeDuration:    awake,
		AverageHeartRate: avgHR,
		Quality:          model.QualityForSleepHours(total.Hours()),
		Stages:           stages,
	}
}

func (a *Aggregator) sleepWindowHeartRate(ctx context.Context, start, end time.Time) float64 {
	samples, err := a.provider.QuerySamples(ctx, health.MetricHeartRate, start, end)
	if err != nil || len(samples) == 0 {
		return 0
	}
	var sum float64
	for i := range samples {
		sum += samples[i].Value
	}
	return sum / float64(len(samples))
}

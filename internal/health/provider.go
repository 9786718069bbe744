// Package health defines the contract for the external health data
// provider. The core never reaches out to ambient global state; a
// Provider implementation is constructed by the platform glue and
// injected into the components that read from it, which keeps the
// pipeline testable with fakes.
package health

import (
	"context"
	"time"

	"github.com/calmtrack/calmtrack-go/internal/model"
)

// Metric identifies one biometric data series offered by the provider.
// HRV is SDNN in milliseconds, heart rates are bpm, active calories are
// kcal, the minute metrics accumulate minutes, and noise level is dB.
type Metric string

const (
	MetricHRV              Metric = "hrv_sdnn"
	MetricHeartRate        Metric = "heart_rate"
	MetricRestingHeartRate Metric = "resting_heart_rate"
	MetricSteps            Metric = "steps"
	MetricActiveCalories   Metric = "active_calories"
	MetricExerciseMinutes  Metric = "exercise_minutes"
	MetricStandMinutes     Metric = "stand_minutes"
	MetricDaylightMinutes  Metric = "daylight_minutes"
	MetricMindfulMinutes   Metric = "mindful_minutes"
	MetricNoiseLevel       Metric = "noise_level"
)

// Sample is one timestamped provider observation.
type Sample struct {
	ID        string
	Timestamp time.Time
	Value     float64
}

// Quantity is a scalar provider result. Valid distinguishes "no data"
// from a measured zero so the two are never conflated downstream.
type Quantity struct {
	Value float64
	Valid bool
}

// SleepSegment is one contiguous interval of a recorded sleep session.
type SleepSegment struct {
	Start time.Time
	End   time.Time
	Stage model.SleepStageKind
}

// Notification signals that the provider wrote new data for a metric,
// typically after a wearable sync. Notifications may arrive at any time,
// including while the app is backgrounded.
type Notification struct {
	Metric    Metric
	Timestamp time.Time
}

// Provider is the read-only query contract against the platform health
// data store. Implementations must honor context cancellation on every
// call. Missing data is reported as an empty result or an invalid
// Quantity, not an error; errors are reserved for provider failures.
type Provider interface {
	// QuerySamples returns all samples of the metric in [start, end),
	// ordered ascending by timestamp.
	QuerySamples(ctx context.Context, metric Metric, start, end time.Time) ([]Sample, error)

	// QueryLatest returns the most recent value of the metric.
	QueryLatest(ctx context.Context, metric Metric) (Quantity, error)

	// QuerySum returns the cumulative value of the metric over [start, end).
	QuerySum(ctx context.Context, metric Metric, start, end time.Time) (Quantity, error)

	// QuerySleep returns sleep segments overlapping [start, end), ordered
	// ascending by start time.
	QuerySleep(ctx context.Context, start, end time.Time) ([]SleepSegment, error)

	// Observe subscribes to change notifications for the metric. The
	// returned channel is closed when ctx is cancelled.
	Observe(ctx context.Context, metric Metric) (<-chan Notification, error)
}

package health

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/calmtrack/calmtrack-go/internal/model"
)

// SimulatedProvider synthesizes plausible biometric data for running the
// CLI without a device-backed provider. HRV follows a bounded random
// walk; activity metrics accumulate over the day; last night's sleep is
// a fixed plausible session. The generator is deterministic for a given
// seed.
type SimulatedProvider struct {
	mu   sync.Mutex
	rng  *rand.Rand
	hrv  float64
	day  time.Time
	subs []chan Notification

	now func() time.Time
}

// NewSimulatedProvider creates a simulated provider. The same seed
// reproduces the same series.
func NewSimulatedProvider(seed int64) *SimulatedProvider {
	return &SimulatedProvider{
		rng: rand.New(rand.NewSource(seed)),
		hrv: 45,
		now: time.Now,
	}
}

// step advances the HRV random walk one tick, clamped to a realistic
// SDNN range.
func (p *SimulatedProvider) step() float64 {
	p.hrv += p.rng.Float64()*10 - 5
	p.hrv = math.Max(10, math.Min(90, p.hrv))
	return p.hrv
}

func (p *SimulatedProvider) QuerySamples(ctx context.Context, metric Metric, start, end time.Time) ([]Sample, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	interval := 30 * time.Minute
	if metric == MetricHeartRate {
		interval = 5 * time.Minute
	}

	var out []Sample
	for t := start; t.Before(end); t = t.Add(interval) {
		value := p.step()
		if metric == MetricHeartRate {
			value = 55 + p.rng.Float64()*30
		}
		out = append(out, Sample{
			ID:        fmt.Sprintf("sim-%s-%d", metric, t.Unix()),
			Timestamp: t,
			Value:     value,
		})
	}
	return out, nil
}

func (p *SimulatedProvider) QueryLatest(ctx context.Context, metric Metric) (Quantity, error) {
	if err := ctx.Err(); err != nil {
		return Quantity{}, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	switch metric {
	case MetricHRV:
		return Quantity{Value: p.step(), Valid: true}, nil
	case MetricHeartRate:
		return Quantity{Value: 55 + p.rng.Float64()*30, Valid: true}, nil
	case MetricRestingHeartRate:
		return Quantity{Value: 52 + p.rng.Float64()*8, Valid: true}, nil
	case MetricNoiseLevel:
		return Quantity{Value: 40 + p.rng.Float64()*35, Valid: true}, nil
	default:
		return Quantity{}, nil
	}
}

func (p *SimulatedProvider) QuerySum(ctx context.Context, metric Metric, start, end time.Time) (Quantity, error) {
	if err := ctx.Err(); err != nil {
		return Quantity{}, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	// Scale accumulating metrics by how much of the day has elapsed.
	elapsed := p.now().Sub(start).Hours() / 24
	elapsed = math.Max(0, math.Min(1, elapsed))

	var full float64
	switch metric {
	case MetricSteps:
		full = 6000 + p.rng.Float64()*6000
	case MetricActiveCalories:
		full = 300 + p.rng.Float64()*400
	case MetricExerciseMinutes:
		full = p.rng.Float64() * 60
	case MetricStandMinutes:
		full = 300 + p.rng.Float64()*300
	case MetricDaylightMinutes:
		full = p.rng.Float64() * 120
	case MetricMindfulMinutes:
		full = p.rng.Float64() * 15
	default:
		return Quantity{}, nil
	}
	return Quantity{Value: full * elapsed, Valid: true}, nil
}

func (p *SimulatedProvider) QuerySleep(ctx context.Context, start, end time.Time) ([]SleepSegment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	// One plausible session last night: 23:15 bedtime, about 7.5h.
	today := p.now().Local()
	bedtime := time.Date(today.Year(), today.Month(), today.Day(), 23, 15, 0, 0, today.Location()).AddDate(0, 0, -1)
	if bedtime.Before(start) || !bedtime.Before(end) {
		return nil, nil
	}
	return []SleepSegment{
		{Start: bedtime, End: bedtime.Add(90 * time.Minute), Stage: model.StageCore},
		{Start: bedtime.Add(90 * time.Minute), End: bedtime.Add(150 * time.Minute), Stage: model.StageDeep},
		{Start: bedtime.Add(150 * time.Minute), End: bedtime.Add(170 * time.Minute), Stage: model.StageAwake},
		{Start: bedtime.Add(170 * time.Minute), End: bedtime.Add(290 * time.Minute), Stage: model.StageCore},
		{Start: bedtime.Add(290 * time.Minute), End: bedtime.Add(380 * time.Minute), Stage: model.StageREM},
		{Start: bedtime.Add(380 * time.Minute), End: bedtime.Add(450 * time.Minute), Stage: model.StageCore},
	}, nil
}

// Observe emits a synthetic change notification roughly every five
// minutes until ctx is cancelled.
func (p *SimulatedProvider) Observe(ctx context.Context, metric Metric) (<-chan Notification, error) {
	out := make(chan Notification)
	go func() {
		defer close(out)
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case at := <-ticker.C:
				select {
				case out <- Notification{Metric: metric, Timestamp: at}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// Package refresh serializes stress refresh cycles. Triggers from the
// UI, the provider's change feed, and the scheduled poll all funnel into
// one buffered channel drained by a single worker, so concurrent refresh
// requests can never interleave their classify, mirror, and store steps.
package refresh

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/calmtrack/calmtrack-go/internal/analysis"
	"github.com/calmtrack/calmtrack-go/internal/bridge"
	"github.com/calmtrack/calmtrack-go/internal/conf"
	"github.com/calmtrack/calmtrack-go/internal/datastore"
	"github.com/calmtrack/calmtrack-go/internal/errors"
	"github.com/calmtrack/calmtrack-go/internal/health"
	"github.com/calmtrack/calmtrack-go/internal/logging"
	"github.com/calmtrack/calmtrack-go/internal/model"
	"github.com/calmtrack/calmtrack-go/internal/wellness"
)

// Trigger identifies what requested a refresh cycle.
type Trigger string

const (
	TriggerManual       Trigger = "manual"
	TriggerProviderPush Trigger = "provider_push"
	TriggerScheduled    Trigger = "scheduled"
)

// Snapshot is the result of one completed refresh cycle. Readers always
// see either the previous complete snapshot or the new one, never a mix.
type Snapshot struct {
	HRV         float64
	StressLevel model.StressLevel
	Trend       analysis.Trend
	Sleep       *model.SleepData
	UpdatedAt   time.Time
	Trigger     Trigger
}

// Coordinator owns the refresh worker. Construct with NewCoordinator,
// call Start once, and cancel the context to shut down.
type Coordinator struct {
	provider   health.Provider
	store      datastore.Interface
	aggregator *wellness.Aggregator
	bridge     *bridge.Bridge
	settings   *conf.Settings
	logger     *slog.Logger

	requests chan Trigger
	current  atomic.Pointer[Snapshot]
	limiter  *rate.Limiter
	wg       sync.WaitGroup

	now func() time.Time // injectable clock for tests
}

// NewCoordinator wires the refresh pipeline. The request channel holds a
// single pending trigger; further requests while one is pending coalesce
// into it.
func NewCoordinator(provider health.Provider, store datastore.Interface, aggregator *wellness.Aggregator, br *bridge.Bridge, settings *conf.Settings) *Coordinator {
	perMinute := settings.Provider.RatePerMinute
	if perMinute <= 0 {
		perMinute = 60
	}
	return &Coordinator{
		provider:   provider,
		store:      store,
		aggregator: aggregator,
		bridge:     br,
		settings:   settings,
		logger:     logging.ForService("refresh"),
		requests:   make(chan Trigger, 1),
		limiter:    rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1),
		now:        time.Now,
	}
}

// Start subscribes to the provider change feed and launches the worker
// and, when polling is configured, the scheduler. It returns once the
// goroutines are running; cancel ctx and call Wait to shut down.
func (c *Coordinator) Start(ctx context.Context) error {
	notifications, err := c.provider.Observe(ctx, health.MetricHRV)
	if err != nil {
		return errors.New(err).
			Component("refresh").
			Category(errors.CategoryProvider).
			Context("metric", string(health.MetricHRV)).
			Build()
	}

	c.wg.Add(1)
	go c.run(ctx, notifications)

	if poll := c.settings.Provider.PollMinutes; poll > 0 {
		c.wg.Add(1)
		go c.poll(ctx, time.Duration(poll)*time.Minute)
	}
	return nil
}

// Wait blocks until all coordinator goroutines have exited. Call after
// cancelling the Start context.
func (c *Coordinator) Wait() {
	c.wg.Wait()
}

// RequestRefresh enqueues a refresh cycle. Non-blocking: when a request
// is already pending the new one coalesces into it.
func (c *Coordinator) RequestRefresh(trigger Trigger) {
	select {
	case c.requests <- trigger:
	default:
		c.logger.Debug("refresh already pending, coalescing", "trigger", trigger)
	}
}

// Current returns the most recent complete snapshot, nil before the
// first successful cycle.
func (c *Coordinator) Current() *Snapshot {
	return c.current.Load()
}

// run is the single worker. Every mutation of the snapshot, the mirror
// file, and the readings table happens here.
func (c *Coordinator) run(ctx context.Context, notifications <-chan health.Notification) {
	defer c.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case trigger := <-c.requests:
			c.cycle(ctx, trigger)
		case n, ok := <-notifications:
			if !ok {
				// Feed closed with the context; drain remaining requests
				// until cancellation.
				notifications = nil
				continue
			}
			// The notification announces a new sample; a cached read
			// would re-classify the old one.
			c.invalidate(n.Metric)
			c.cycle(ctx, TriggerProviderPush)
		}
	}
}

// metricInvalidator is implemented by caching providers such as
// health.CachedProvider.
type metricInvalidator interface {
	Invalidate(metric health.Metric)
}

func (c *Coordinator) invalidate(metric health.Metric) {
	if inv, ok := c.provider.(metricInvalidator); ok {
		inv.Invalidate(metric)
	}
}

func (c *Coordinator) poll(ctx context.Context, interval time.Duration) {
	defer c.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.RequestRefresh(TriggerScheduled)
		}
	}
}

// cycle runs one refresh: read the latest HRV and today's history,
// classify, derive the trend, publish the mirror, persist new readings.
// Any failure leaves the previous snapshot in place.
func (c *Coordinator) cycle(ctx context.Context, trigger Trigger) {
	if trigger != TriggerManual && !c.limiter.Allow() {
		c.logger.Debug("refresh throttled", "trigger", trigger)
		return
	}

	now := c.now()
	latest, err := c.provider.QueryLatest(ctx, health.MetricHRV)
	if err != nil {
		c.logger.Error("latest HRV query failed", "trigger", trigger, "error", err)
		return
	}
	if !latest.Valid {
		c.logger.Debug("no HRV data available", "trigger", trigger)
		return
	}

	dayStart := startOfDay(now)
	samples, err := c.provider.QuerySamples(ctx, health.MetricHRV, dayStart, now)
	if err != nil {
		// Trend degrades to Stable without history; classification still
		// proceeds from the latest value.
		c.logger.Warn("HRV history query failed", "error", err)
		samples = nil
	}

	readings := make([]model.HRVReading, 0, len(samples))
	for i := range samples {
		readings = append(readings, model.HRVReading{
			ID:        samples[i].ID,
			Timestamp: samples[i].Timestamp,
			Value:     samples[i].Value,
		})
	}

	level := analysis.Classify(latest.Value)
	trend := analysis.ComputeTrend(readings)
	sleep := c.aggregator.LastNightSleep(ctx, now)

	if ctx.Err() != nil {
		return
	}

	snap := &Snapshot{
		HRV:         latest.Value,
		StressLevel: level,
		Trend:       trend,
		Sleep:       sleep,
		UpdatedAt:   now,
		Trigger:     trigger,
	}
	c.current.Store(snap)

	c.bridge.Publish(bridge.State{
		HRV:         snap.HRV,
		StressLevel: snap.StressLevel,
		Sleep:       snap.Sleep,
		UpdatedAt:   snap.UpdatedAt,
	})

	inserted, err := c.store.SaveReadings(readings)
	if err != nil {
		c.logger.Error("failed to persist readings", "error", err)
	}

	c.logger.Info("refresh cycle complete",
		"trigger", trigger,
		"hrv", snap.HRV,
		"stress", snap.StressLevel,
		"trend", snap.Trend,
		"readings_inserted", inserted,
	)
}

func startOfDay(t time.Time) time.Time {
	local := t.Local()
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, local.Location())
}

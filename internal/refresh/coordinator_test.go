package refresh

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/calmtrack/calmtrack-go/internal/analysis"
	"github.com/calmtrack/calmtrack-go/internal/bridge"
	"github.com/calmtrack/calmtrack-go/internal/conf"
	"github.com/calmtrack/calmtrack-go/internal/datastore"
	"github.com/calmtrack/calmtrack-go/internal/health"
	"github.com/calmtrack/calmtrack-go/internal/model"
	"github.com/calmtrack/calmtrack-go/internal/wellness"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fixture struct {
	coordinator *Coordinator
	provider    *health.FakeProvider
	store       *datastore.MemoryStore
	mirrorPath  string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	settings := &conf.Settings{}
	settings.Provider.RatePerMinute = 6000
	settings.Provider.PollMinutes = 0 // no ticker in tests
	settings.Bridge.Enabled = true
	settings.Bridge.Path = filepath.Join(t.TempDir(), "widget.json")

	provider := health.NewFakeProvider()
	store := datastore.NewMemoryStore()
	c := NewCoordinator(provider, store, wellness.New(provider), bridge.New(settings), settings)
	return &fixture{coordinator: c, provider: provider, store: store, mirrorPath: settings.Bridge.Path}
}

func seedProvider(f *fixture, now time.Time) {
	f.provider.SetLatest(health.MetricHRV, 52)
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	f.provider.Samples[health.MetricHRV] = []health.Sample{
		{ID: "s1", Timestamp: dayStart.Add(7 * time.Hour), Value: 40},
		{ID: "s2", Timestamp: dayStart.Add(8 * time.Hour), Value: 40},
		{ID: "s3", Timestamp: dayStart.Add(9 * time.Hour), Value: 40},
		{ID: "s4", Timestamp: dayStart.Add(10 * time.Hour), Value: 50},
		{ID: "s5", Timestamp: dayStart.Add(11 * time.Hour), Value: 55},
		{ID: "s6", Timestamp: dayStart.Add(12 * time.Hour), Value: 60},
	}
}

func TestManualRefreshCycle(t *testing.T) {
	f := newFixture(t)
	now := time.Now()
	seedProvider(f, now)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, f.coordinator.Start(ctx))
	defer func() {
		cancel()
		f.coordinator.Wait()
	}()

	require.Nil(t, f.coordinator.Current(), "no snapshot before the first cycle")

	f.coordinator.RequestRefresh(TriggerManual)
	require.Eventually(t, func() bool {
		return f.coordinator.Current() != nil
	}, 2*time.Second, 10*time.Millisecond)

	snap := f.coordinator.Current()
	assert.Equal(t, 52.0, snap.HRV)
	assert.Equal(t, model.StressGood, snap.StressLevel)
	assert.Equal(t, analysis.TrendImproving, snap.Trend)
	assert.Equal(t, TriggerManual, snap.Trigger)

	// The mirror file was published.
	_, err := os.Stat(f.mirrorPath)
	assert.NoError(t, err)

	// All history rows were persisted.
	ids, err := f.store.ReadingIDs()
	require.NoError(t, err)
	assert.Len(t, ids, 6)
}

func TestProviderPushTriggersCycle(t *testing.T) {
	f := newFixture(t)
	seedProvider(f, time.Now())

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, f.coordinator.Start(ctx))
	defer func() {
		cancel()
		f.coordinator.Wait()
	}()

	f.provider.Notify(health.MetricHRV)
	require.Eventually(t, func() bool {
		return f.coordinator.Current() != nil
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, TriggerProviderPush, f.coordinator.Current().Trigger)
}

func TestPushRefreshSeesFreshValueThroughCache(t *testing.T) {
	settings := &conf.Settings{}
	settings.Provider.RatePerMinute = 6000
	settings.Bridge.Path = filepath.Join(t.TempDir(), "widget.json")

	fake := health.NewFakeProvider()
	fake.SetLatest(health.MetricHRV, 40)

	// Zero TTL keeps cached values until they are invalidated, so a
	// push refresh can only see the new sample if the coordinator
	// drops the cache entry for the announced metric.
	cached := health.NewCachedProvider(fake, 0, 0)
	c := NewCoordinator(cached, datastore.NewMemoryStore(), wellness.New(cached), bridge.New(settings), settings)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, c.Start(ctx))
	defer func() {
		cancel()
		c.Wait()
	}()

	c.RequestRefresh(TriggerManual)
	require.Eventually(t, func() bool {
		snap := c.Current()
		return snap != nil && snap.HRV == 40
	}, 2*time.Second, 10*time.Millisecond)

	fake.SetLatest(health.MetricHRV, 65)
	fake.Notify(health.MetricHRV)
	require.Eventually(t, func() bool {
		return c.Current().HRV == 65
	}, 2*time.Second, 10*time.Millisecond, "push cycle must classify the announced sample, not the cached one")
	assert.Equal(t, model.StressGreat, c.Current().StressLevel)
}

func TestCycleRepeatIsDeduplicated(t *testing.T) {
	f := newFixture(t)
	now := time.Now()
	seedProvider(f, now)

	f.coordinator.cycle(context.Background(), TriggerManual)
	f.coordinator.cycle(context.Background(), TriggerManual)

	ids, err := f.store.ReadingIDs()
	require.NoError(t, err)
	assert.Len(t, ids, 6, "the same provider samples must not be stored twice")
}

func TestFailedCycleKeepsPriorSnapshot(t *testing.T) {
	f := newFixture(t)
	seedProvider(f, time.Now())

	f.coordinator.cycle(context.Background(), TriggerManual)
	prior := f.coordinator.Current()
	require.NotNil(t, prior)

	f.provider.Errs[health.MetricHRV] = errors.New("provider unavailable")
	f.coordinator.cycle(context.Background(), TriggerManual)

	assert.Same(t, prior, f.coordinator.Current(), "a failed cycle must not replace the snapshot")
}

func TestCycleWithNoDataPublishesNothing(t *testing.T) {
	f := newFixture(t)

	f.coordinator.cycle(context.Background(), TriggerManual)

	assert.Nil(t, f.coordinator.Current())
	_, err := os.Stat(f.mirrorPath)
	assert.True(t, os.IsNotExist(err))
}

func TestCancelledCycleKeepsPriorSnapshot(t *testing.T) {
	f := newFixture(t)
	seedProvider(f, time.Now())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f.coordinator.cycle(ctx, TriggerManual)

	assert.Nil(t, f.coordinator.Current())
}

func TestThrottledPushSkipsCycle(t *testing.T) {
	f := newFixture(t)
	seedProvider(f, time.Now())

	// With a zero refill rate only the initial burst token is available,
	// so exactly one non-manual cycle can run.
	f.coordinator.limiter.SetLimit(0)
	f.coordinator.cycle(context.Background(), TriggerScheduled)
	first := f.coordinator.Current()
	require.NotNil(t, first)

	f.provider.SetLatest(health.MetricHRV, 20)
	f.coordinator.cycle(context.Background(), TriggerScheduled)
	assert.Same(t, first, f.coordinator.Current())

	// Manual refreshes bypass the limiter.
	f.coordinator.cycle(context.Background(), TriggerManual)
	assert.Equal(t, model.StressHigh, f.coordinator.Current().StressLevel)
}

package datastore

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calmtrack/calmtrack-go/internal/conf"
	"github.com/calmtrack/calmtrack-go/internal/model"
)

func openTestStore(t *testing.T) Interface {
	t.Helper()

	settings := &conf.Settings{}
	settings.Store.SQLite.Path = filepath.Join(t.TempDir(), "test.db")

	store := New(settings)
	require.NoError(t, store.Open())
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSaveReadingsSkipsDuplicates(t *testing.T) {
	store := openTestStore(t)

	base := time.Date(2026, 8, 28, 8, 0, 0, 0, time.UTC)
	first := []model.HRVReading{
		{ID: "r1", Timestamp: base, Value: 48},
		{ID: "r2", Timestamp: base.Add(time.Hour), Value: 52},
	}
	inserted, err := store.SaveReadings(first)
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)

	// Overlapping batch: only the new row lands.
	second := []model.HRVReading{
		{ID: "r2", Timestamp: base.Add(time.Hour), Value: 52},
		{ID: "r3", Timestamp: base.Add(2 * time.Hour), Value: 44},
	}
	inserted, err = store.SaveReadings(second)
	require.NoError(t, err)
	assert.Equal(t, 1, inserted)

	all, err := store.GetAllReadings()
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestGetReadingsWindowIsHalfOpen(t *testing.T) {
	store := openTestStore(t)

	base := time.Date(2026, 8, 28, 8, 0, 0, 0, time.UTC)
	_, err := store.SaveReadings([]model.HRVReading{
		{ID: "r1", Timestamp: base.Add(-time.Minute), Value: 40},
		{ID: "r2", Timestamp: base, Value: 45},
		{ID: "r3", Timestamp: base.Add(time.Hour), Value: 50},
	})
	require.NoError(t, err)

	got, err := store.GetReadings(base, base.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "r2", got[0].ID)
}

func TestHeartRateRoundTrip(t *testing.T) {
	store := openTestStore(t)

	hr := 64.0
	_, err := store.SaveReadings([]model.HRVReading{
		{ID: "with-hr", Timestamp: time.Now().UTC(), Value: 50, HeartRate: &hr},
		{ID: "without-hr", Timestamp: time.Now().UTC().Add(time.Second), Value: 51},
	})
	require.NoError(t, err)

	all, err := store.GetAllReadings()
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.NotNil(t, all[0].HeartRate)
	assert.Equal(t, 64.0, *all[0].HeartRate)
	assert.Nil(t, all[1].HeartRate)
}

func TestMoodBatchAndOrdering(t *testing.T) {
	store := openTestStore(t)

	base := time.Date(2026, 8, 28, 20, 0, 0, 0, time.UTC)
	require.NoError(t, store.SaveMoodEntries([]model.MoodEntry{
		{ID: "m1", Timestamp: base, Emotion: "Calm", Emoji: "🧘", EnergyLevel: 3},
		{ID: "m2", Timestamp: base.Add(time.Hour), Emotion: "Tired", Emoji: "😴", EnergyLevel: 2, Triggers: "Work,Sleep"},
	}))

	got, err := store.GetMoodsSince(base)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "m2", got[0].ID, "newest first")
	assert.Equal(t, []string{"Work", "Sleep"}, got[0].TriggerTags())

	count, err := store.CountMoods()
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestHydrationQueriesAndIDs(t *testing.T) {
	store := openTestStore(t)

	base := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)
	require.NoError(t, store.SaveHydration(&model.HydrationEntry{ID: "h1", Timestamp: base, WaterMl: 300}))
	require.NoError(t, store.SaveHydration(&model.HydrationEntry{ID: "h2", Timestamp: base.Add(time.Hour), CaffeineMg: 95}))

	got, err := store.GetHydrationSince(base)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "h1", got[0].ID, "oldest first")

	ids, err := store.HydrationIDs()
	require.NoError(t, err)
	assert.Contains(t, ids, "h1")
	assert.Contains(t, ids, "h2")
}

func TestHydrationBatchInsert(t *testing.T) {
	store := openTestStore(t)

	base := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)
	require.NoError(t, store.SaveHydrationEntries([]model.HydrationEntry{
		{ID: "h1", Timestamp: base, WaterMl: 300},
		{ID: "h2", Timestamp: base.Add(time.Hour), WaterMl: 250, CaffeineMg: 95},
		{ID: "h3", Timestamp: base.Add(2 * time.Hour), CaffeineMg: 60},
	}))

	count, err := store.CountHydration()
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)

	got, err := store.GetHydrationSince(base)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "h1", got[0].ID, "oldest first")

	// An empty batch is a no-op.
	require.NoError(t, store.SaveHydrationEntries(nil))
}

func TestReopenKeepsData(t *testing.T) {
	settings := &conf.Settings{}
	settings.Store.SQLite.Path = filepath.Join(t.TempDir(), "persist.db")

	store := New(settings)
	require.NoError(t, store.Open())
	_, err := store.SaveReadings([]model.HRVReading{
		{ID: "r1", Timestamp: time.Now().UTC(), Value: 55},
	})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened := New(settings)
	require.NoError(t, reopened.Open())
	defer reopened.Close()

	all, err := reopened.GetAllReadings()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

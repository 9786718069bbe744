package insights

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calmtrack/calmtrack-go/internal/conf"
	"github.com/calmtrack/calmtrack-go/internal/datastore"
	"github.com/calmtrack/calmtrack-go/internal/health"
	"github.com/calmtrack/calmtrack-go/internal/model"
)

func testGoals() conf.GoalSettings {
	return conf.GoalSettings{
		WaterMl:        2000,
		CaffeineMg:     400,
		Steps:          8000,
		SleepHours:     7,
		MindfulMinutes: 5,
	}
}

func newTestEngine(t *testing.T) (*Engine, *datastore.MemoryStore, *health.FakeProvider) {
	t.Helper()
	store := datastore.NewMemoryStore()
	provider := health.NewFakeProvider()
	e := NewEngine(store, provider, testGoals())
	return e, store, provider
}

func findAction(actions []KeyAction, icon string) *KeyAction {
	for i := range actions {
		if actions[i].Icon == icon {
			return &actions[i]
		}
	}
	return nil
}

func addWater(t *testing.T, store *datastore.MemoryStore, at time.Time, ml int) {
	t.Helper()
	require.NoError(t, store.SaveHydration(&model.HydrationEntry{
		ID:        at.Format(time.RFC3339Nano) + "w",
		Timestamp: at,
		WaterMl:   ml,
	}))
}

func addCaffeine(t *testing.T, store *datastore.MemoryStore, at time.Time, mg int) {
	t.Helper()
	require.NoError(t, store.SaveHydration(&model.HydrationEntry{
		ID:         at.Format(time.RFC3339Nano) + "c",
		Timestamp:  at,
		CaffeineMg: mg,
	}))
}

func TestHydrationGoalRuleFires(t *testing.T) {
	t.Parallel()

	e, store, _ := newTestEngine(t)

	day := time.Date(2026, 8, 29, 9, 0, 0, 0, time.Local)
	addWater(t, store, day, 500)
	addWater(t, store, day.Add(3*time.Hour), 700)
	addWater(t, store, day.Add(9*time.Hour), 900)

	e.now = func() time.Time { return day.Add(10 * time.Hour) }
	report, err := e.Compute(context.Background(), 7)
	require.NoError(t, err)

	action := findAction(report.KeyActions, "drop.fill")
	require.NotNil(t, action, "2100ml total must fire the 2000ml goal rule")
	assert.True(t, action.Positive)
	assert.Equal(t, "1 day · avg 2100 ml", action.Subtitle)
}

func TestHydrationGoalRuleSilentBelowGoal(t *testing.T) {
	t.Parallel()

	e, store, _ := newTestEngine(t)
	addWater(t, store, time.Now(), 1500)

	report, err := e.Compute(context.Background(), 7)
	require.NoError(t, err)
	assert.Nil(t, findAction(report.KeyActions, "drop.fill"))
}

func TestCaffeineWatchRule(t *testing.T) {
	t.Parallel()

	e, store, _ := newTestEngine(t)

	now := time.Now()
	addCaffeine(t, store, now.AddDate(0, 0, -1), 350)
	addCaffeine(t, store, now, 200)

	report, err := e.Compute(context.Background(), 7)
	require.NoError(t, err)

	action := findAction(report.KeyActions, "cup.and.saucer.fill")
	require.NotNil(t, action, "one day at 350mg must fire the watch rule")
	assert.False(t, action.Positive)
	assert.Equal(t, "1 day", action.Subtitle)
}

func TestStepsRule(t *testing.T) {
	t.Parallel()

	t.Run("above goal", func(t *testing.T) {
		t.Parallel()
		e, _, provider := newTestEngine(t)
		provider.SetSum(health.MetricSteps, 9500)

		report, err := e.Compute(context.Background(), 7)
		require.NoError(t, err)

		action := findAction(report.KeyActions, "figure.walk")
		require.NotNil(t, action)
		assert.True(t, action.Positive)
	})

	t.Run("below goal", func(t *testing.T) {
		t.Parallel()
		e, _, provider := newTestEngine(t)
		provider.SetSum(health.MetricSteps, 3000)

		report, err := e.Compute(context.Background(), 7)
		require.NoError(t, err)

		action := findAction(report.KeyActions, "figure.walk")
		require.NotNil(t, action)
		assert.False(t, action.Positive)
	})

	t.Run("no data emits nothing", func(t *testing.T) {
		t.Parallel()
		e, _, _ := newTestEngine(t)

		report, err := e.Compute(context.Background(), 7)
		require.NoError(t, err)
		assert.Nil(t, findAction(report.KeyActions, "figure.walk"))
	})
}

func TestSleepRule(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 29, 9, 0, 0, 0, time.Local)
	bedtime := time.Date(2026, 8, 28, 23, 30, 0, 0, time.Local)

	t.Run("restorative", func(t *testing.T) {
		t.Parallel()
		e, _, provider := newTestEngine(t)
		provider.Sleep = []health.SleepSegment{
			{Start: bedtime, End: bedtime.Add(8 * time.Hour), Stage: model.StageCore},
		}
		e.now = func() time.Time { return now }

		report, err := e.Compute(context.Background(), 7)
		require.NoError(t, err)

		action := findAction(report.KeyActions, "bed.double.fill")
		require.NotNil(t, action)
		assert.True(t, action.Positive)
		assert.Equal(t, "Restorative sleep", action.Title)
	})

	t.Run("short", func(t *testing.T) {
		t.Parallel()
		e, _, provider := newTestEngine(t)
		provider.Sleep = []health.SleepSegment{
			{Start: bedtime, End: bedtime.Add(5 * time.Hour), Stage: model.StageCore},
		}
		e.now = func() time.Time { return now }

		report, err := e.Compute(context.Background(), 7)
		require.NoError(t, err)

		action := findAction(report.KeyActions, "moon.zzz.fill")
		require.NotNil(t, action)
		assert.False(t, action.Positive)
		assert.Equal(t, "Short sleep", action.Title)
	})
}

func TestMindfulnessRule(t *testing.T) {
	t.Parallel()

	t.Run("high impact at threshold", func(t *testing.T) {
		t.Parallel()
		e, _, provider := newTestEngine(t)
		provider.SetSum(health.MetricMindfulMinutes, 10)

		report, err := e.Compute(context.Background(), 7)
		require.NoError(t, err)

		action := findAction(report.KeyActions, "brain.head.profile")
		require.NotNil(t, action)
		assert.Equal(t, ImpactHigh, action.Impact)
	})

	t.Run("medium impact below threshold", func(t *testing.T) {
		t.Parallel()
		e, _, provider := newTestEngine(t)
		provider.SetSum(health.MetricMindfulMinutes, 3)

		report, err := e.Compute(context.Background(), 7)
		require.NoError(t, err)

		action := findAction(report.KeyActions, "brain.head.profile")
		require.NotNil(t, action)
		assert.Equal(t, ImpactMedium, action.Impact)
	})
}

func TestMoodSummaryScenario(t *testing.T) {
	t.Parallel()

	e, store, _ := newTestEngine(t)

	now := time.Now()
	entries := []model.MoodEntry{
		{ID: "m1", Timestamp: now.Add(-3 * time.Hour), Emotion: "Joyful", EnergyLevel: 4, Triggers: "Work"},
		{ID: "m2", Timestamp: now.Add(-2 * time.Hour), Emotion: "Anxious", EnergyLevel: 2, Triggers: "Work,Money"},
		{ID: "m3", Timestamp: now.Add(-1 * time.Hour), Emotion: "Joyful", EnergyLevel: 5},
	}
	require.NoError(t, store.SaveMoodEntries(entries))

	report, err := e.Compute(context.Background(), 7)
	require.NoError(t, err)
	require.NotNil(t, report.Mood)

	assert.Equal(t, "Joyful", report.Mood.TopEmotion)
	assert.Equal(t, "Work", report.Mood.TopTrigger)
	assert.Equal(t, 3, report.Mood.TotalLogs)
	assert.InDelta(t, 2.0/3.0, report.Mood.PositiveRatio, 1e-9)
	assert.InDelta(t, 11.0/3.0, report.Mood.AverageEnergy, 1e-9)
}

func TestMoodSummaryNilForEmptyWindow(t *testing.T) {
	t.Parallel()

	e, _, _ := newTestEngine(t)
	report, err := e.Compute(context.Background(), 7)
	require.NoError(t, err)
	assert.Nil(t, report.Mood, "no entries must yield no summary, not a zero one")
}

func TestDailyHRVPoints(t *testing.T) {
	t.Parallel()

	e, _, provider := newTestEngine(t)

	day1 := time.Date(2026, 8, 27, 8, 0, 0, 0, time.Local)
	day2 := time.Date(2026, 8, 28, 8, 0, 0, 0, time.Local)
	provider.Samples[health.MetricHRV] = []health.Sample{
		{ID: "s1", Timestamp: day1, Value: 40},
		{ID: "s2", Timestamp: day1.Add(time.Hour), Value: 60},
		{ID: "s3", Timestamp: day2, Value: 55},
	}
	e.now = func() time.Time { return day2.Add(6 * time.Hour) }

	report, err := e.Compute(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, report.DailyHRV, 2)
	assert.InDelta(t, 50.0, report.DailyHRV[0].Average, 1e-9)
	assert.InDelta(t, 55.0, report.DailyHRV[1].Average, 1e-9)
}

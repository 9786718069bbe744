package ledger

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calmtrack/calmtrack-go/internal/datastore"
	apperrors "github.com/calmtrack/calmtrack-go/internal/errors"
)

func newTestLedger(t *testing.T) (*Ledger, *datastore.MemoryStore) {
	t.Helper()
	store := datastore.NewMemoryStore()
	l := New(store)
	return l, store
}

func TestAddWaterAccumulates(t *testing.T) {
	t.Parallel()

	l, store := newTestLedger(t)

	total, err := l.AddWater(500)
	require.NoError(t, err)
	assert.Equal(t, 500, total)

	total, err = l.AddWater(700)
	require.NoError(t, err)
	assert.Equal(t, 1200, total)

	entries, err := store.GetAllHydration()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Zero(t, entries[0].CaffeineMg, "quick-add water must not log caffeine")
}

func TestAddCaffeineAccumulates(t *testing.T) {
	t.Parallel()

	l, _ := newTestLedger(t)

	total, err := l.AddCaffeine(95)
	require.NoError(t, err)
	assert.Equal(t, 95, total)

	total, err = l.AddCaffeine(120)
	require.NoError(t, err)
	assert.Equal(t, 215, total)
}

func TestAddRejectsNonPositiveAmounts(t *testing.T) {
	t.Parallel()

	l, _ := newTestLedger(t)

	_, err := l.AddWater(0)
	assert.True(t, apperrors.HasCategory(err, apperrors.CategoryValidation))

	_, err = l.AddCaffeine(-10)
	assert.True(t, apperrors.HasCategory(err, apperrors.CategoryValidation))
}

// Same-day entries of {500ml@09:00, 700ml@12:00, 900ml@18:00} must total
// 2100 ml, the scenario the hydration insight rule fires on.
func TestTodayTotalsScenario(t *testing.T) {
	t.Parallel()

	l, _ := newTestLedger(t)

	base := time.Date(2026, 8, 29, 9, 0, 0, 0, time.Local)
	times := []time.Time{base, base.Add(3 * time.Hour), base.Add(9 * time.Hour)}
	amounts := []int{500, 700, 900}

	idx := 0
	l.now = func() time.Time { return times[min(idx, len(times)-1)] }
	for i, ml := range amounts {
		idx = i
		_, err := l.AddWater(ml)
		require.NoError(t, err)
	}

	// Query later the same day.
	l.now = func() time.Time { return base.Add(10 * time.Hour) }
	water, caffeine, err := l.TodayTotals()
	require.NoError(t, err)
	assert.Equal(t, 2100, water)
	assert.Zero(t, caffeine)
}

func TestTodayTotalsExcludeYesterday(t *testing.T) {
	t.Parallel()

	l, _ := newTestLedger(t)

	yesterday := time.Now().AddDate(0, 0, -1)
	l.now = func() time.Time { return yesterday }
	_, err := l.AddWater(800)
	require.NoError(t, err)

	l.now = time.Now
	water, _, err := l.TodayTotals()
	require.NoError(t, err)
	assert.Zero(t, water, "yesterday's entries must not count toward today")
}

func TestConcurrentQuickAddsLoseNothing(t *testing.T) {
	t.Parallel()

	l, _ := newTestLedger(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.AddWater(100)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	water, _, err := l.TodayTotals()
	require.NoError(t, err)
	assert.Equal(t, 2000, water)
}

func TestSaveMoodCreatesOneEntryPerEmotion(t *testing.T) {
	t.Parallel()

	l, store := newTestLedger(t)

	entries, err := l.SaveMood([]string{"Joyful", "Grateful"}, "good morning", 4, []string{"Work", "Sleep"})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	for _, e := range entries {
		assert.Equal(t, "good morning", e.Note)
		assert.Equal(t, 4, e.EnergyLevel)
		assert.Equal(t, []string{"Work", "Sleep"}, e.TriggerTags())
		assert.NotEmpty(t, e.Emoji)
	}

	count, err := store.CountMoods()
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestSaveMoodRejectsUnknownEmotion(t *testing.T) {
	t.Parallel()

	l, store := newTestLedger(t)

	_, err := l.SaveMood([]string{"Joyful", "Bamboozled"}, "", 3, nil)
	require.Error(t, err)
	assert.True(t, apperrors.HasCategory(err, apperrors.CategoryValidation))

	// Nothing from the rejected batch may have been written.
	count, err := store.CountMoods()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestSaveMoodRejectsEnergyOutOfRange(t *testing.T) {
	t.Parallel()

	l, _ := newTestLedger(t)

	for _, energy := range []int{0, 6, -1} {
		_, err := l.SaveMood([]string{"Calm"}, "", energy, nil)
		assert.True(t, apperrors.HasCategory(err, apperrors.CategoryValidation), "energy=%d", energy)
	}
}

func TestSaveMoodEmptySelectionIsNoop(t *testing.T) {
	t.Parallel()

	l, _ := newTestLedger(t)
	entries, err := l.SaveMood(nil, "note", 3, nil)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRecentMoodsWindowAndOrder(t *testing.T) {
	t.Parallel()

	l, _ := newTestLedger(t)

	old := time.Now().AddDate(0, 0, -10)
	l.now = func() time.Time { return old }
	_, err := l.SaveMood([]string{"Tired"}, "", 2, nil)
	require.NoError(t, err)

	l.now = time.Now
	_, err = l.SaveMood([]string{"Calm"}, "", 4, nil)
	require.NoError(t, err)

	recent, err := l.RecentMoods(7)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "Calm", recent[0].Emotion)
}

func TestWriteFailureSurfacesAndKeepsCounter(t *testing.T) {
	t.Parallel()

	l, store := newTestLedger(t)

	_, err := l.AddWater(300)
	require.NoError(t, err)

	store.FailWrites = errors.New("disk full")
	total, err := l.AddWater(500)
	require.Error(t, err)
	assert.True(t, apperrors.HasCategory(err, apperrors.CategoryDatabase))
	assert.Equal(t, 300, total, "failed write must not bump the optimistic counter")
}

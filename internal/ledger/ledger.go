// Package ledger implements the append-only mood and hydration log.
// Entries are immutable once written; the ledger only appends and reads.
package ledger

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/calmtrack/calmtrack-go/internal/datastore"
	"github.com/calmtrack/calmtrack-go/internal/errors"
	"github.com/calmtrack/calmtrack-go/internal/logging"
	"github.com/calmtrack/calmtrack-go/internal/model"
)

// Ledger appends user-entered mood and hydration events to the store and
// keeps optimistic running totals for the current day. All mutation goes
// through one mutex so concurrent quick-adds never lose an update.
type Ledger struct {
	store  datastore.Interface
	logger *slog.Logger

	mu              sync.Mutex
	todayWaterMl    int
	todayCaffeineMg int
	totalsDay       time.Time // local start of day the counters belong to

	now func() time.Time // injectable clock for tests
}

// New creates a ledger backed by the given store.
func New(store datastore.Interface) *Ledger {
	return &Ledger{
		store:  store,
		logger: logging.ForService("ledger"),
		now:    time.Now,
	}
}

func startOfDay(t time.Time) time.Time {
	local := t.Local()
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, local.Location())
}

// ensureTodayLocked reloads the running totals from the store when they
// are unset or belong to a previous day. Caller must hold l.mu.
func (l *Ledger) ensureTodayLocked() error {
	today := startOfDay(l.now())
	if l.totalsDay.Equal(today) {
		return nil
	}

	entries, err := l.store.GetHydrationSince(today)
	if err != nil {
		return errors.New(err).
			Component("ledger").
			Category(errors.CategoryDatabase).
			Build()
	}

	water, caffeine := 0, 0
	for i := range entries {
		water += entries[i].WaterMl
		caffeine += entries[i].CaffeineMg
	}
	l.todayWaterMl = water
	l.todayCaffeineMg = caffeine
	l.totalsDay = today
	return nil
}

// AddWater appends a water-only entry and returns the updated same-day
// water total. On a persistence failure the in-memory counter is left
// unchanged and the error is surfaced; the caller may retry.
func (l *Ledger) AddWater(ml int) (int, error) {
	if ml <= 0 {
		return 0, errors.Newf("water amount must be positive, got %d", ml).
			Component("ledger").
			Category(errors.CategoryValidation).
			Build()
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.ensureTodayLocked(); err != nil {
		return 0, err
	}

	entry := &model.HydrationEntry{
		ID:        uuid.NewString(),
		Timestamp: l.now(),
		WaterMl:   ml,
	}
	if err := l.store.SaveHydration(entry); err != nil {
		return l.todayWaterMl, errors.New(err).
			Component("ledger").
			Category(errors.CategoryDatabase).
			Context("water_ml", ml).
			Build()
	}

	l.todayWaterMl += ml
	l.logger.Info("water logged", "ml", ml, "today_total_ml", l.todayWaterMl)
	return l.todayWaterMl, nil
}

// AddCaffeine appends a caffeine-only entry and returns the updated
// same-day caffeine total.
func (l *Ledger) AddCaffeine(mg int) (int, error) {
	if mg <= 0 {
		return 0, errors.Newf("caffeine amount must be positive, got %d", mg).
			Component("ledger").
			Category(errors.CategoryValidation).
			Build()
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.ensureTodayLocked(); err != nil {
		return 0, err
	}

	entry := &model.HydrationEntry{
		ID:         uuid.NewString(),
		Timestamp:  l.now(),
		CaffeineMg: mg,
	}
	if err := l.store.SaveHydration(entry); err != nil {
		return l.todayCaffeineMg, errors.New(err).
			Component("ledger").
			Category(errors.CategoryDatabase).
			Context("caffeine_mg", mg).
			Build()
	}

	l.todayCaffeineMg += mg
	l.logger.Info("caffeine logged", "mg", mg, "today_total_mg", l.todayCaffeineMg)
	return l.todayCaffeineMg, nil
}

// TodayTotals returns the running same-day water and caffeine totals,
// reloading from the store on day rollover.
func (l *Ledger) TodayTotals() (waterMl, caffeineMg int, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.ensureTodayLocked(); err != nil {
		return 0, 0, err
	}
	return l.todayWaterMl, l.todayCaffeineMg, nil
}

// SaveMood creates one entry per selected emotion, all sharing the same
// note, energy level, and trigger tags, and persists them as one batch.
// Every emotion name must reference the catalog; an unknown name rejects
// the whole save before anything is written.
func (l *Ledger) SaveMood(emotionNames []string, note string, energyLevel int, triggers []string) ([]model.MoodEntry, error) {
	if len(emotionNames) == 0 {
		return nil, nil
	}
	if energyLevel < model.EnergyMin || energyLevel > model.EnergyMax {
		return nil, errors.Newf("energy level %d outside [%d,%d]", energyLevel, model.EnergyMin, model.EnergyMax).
			Component("ledger").
			Category(errors.CategoryValidation).
			Build()
	}

	now := l.now()
	joined := model.JoinTriggers(triggers)
	entries := make([]model.MoodEntry, 0, len(emotionNames))
	for _, name := range emotionNames {
		emotion, err := model.EmotionByName(name)
		if err != nil {
			return nil, errors.New(err).
				Component("ledger").
				Category(errors.CategoryValidation).
				Context("emotion", name).
				Build()
		}
		entries = append(entries, model.MoodEntry{
			ID:          uuid.NewString(),
			Timestamp:   now,
			Emotion:     emotion.Name,
			Emoji:       emotion.Emoji,
			Note:        note,
			EnergyLevel: energyLevel,
			Triggers:    joined,
		})
	}

	if err := l.store.SaveMoodEntries(entries); err != nil {
		return nil, errors.New(err).
			Component("ledger").
			Category(errors.CategoryDatabase).
			Context("entry_count", len(entries)).
			Build()
	}

	l.logger.Info("mood check-in saved", "entries", len(entries), "energy", energyLevel)
	return entries, nil
}

// RecentMoods returns mood entries from the last `days` days, newest
// first.
func (l *Ledger) RecentMoods(days int) ([]model.MoodEntry, error) {
	since := l.now().AddDate(0, 0, -days)
	entries, err := l.store.GetMoodsSince(since)
	if err != nil {
		return nil, errors.New(err).
			Component("ledger").
			Category(errors.CategoryDatabase).
			Build()
	}
	return entries, nil
}

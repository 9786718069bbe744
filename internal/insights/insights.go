// Package insights correlates ledger entries and provider metrics over a
// rolling day window into ranked action items and a mood summary.
package insights

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/calmtrack/calmtrack-go/internal/analysis"
	"github.com/calmtrack/calmtrack-go/internal/conf"
	"github.com/calmtrack/calmtrack-go/internal/datastore"
	"github.com/calmtrack/calmtrack-go/internal/errors"
	"github.com/calmtrack/calmtrack-go/internal/health"
	"github.com/calmtrack/calmtrack-go/internal/logging"
	"github.com/calmtrack/calmtrack-go/internal/model"
)

// Impact labels for key actions.
const (
	ImpactLow    = "Low"
	ImpactMedium = "Medium"
	ImpactHigh   = "High"
)

// caffeineWatchMg is the daily caffeine total that triggers the watch
// action. Distinct from the user's display goal; roughly three coffees.
const caffeineWatchMg = 300

// KeyAction is one rule-derived action item.
type KeyAction struct {
	Icon     string
	Title    string
	Subtitle string
	Impact   string
	Positive bool
}

// MoodSummary aggregates the window's mood entries.
type MoodSummary struct {
	TopEmotion    string
	TopTrigger    string
	AverageEnergy float64
	TotalLogs     int
	PositiveRatio float64 // fraction of entries with energy >= 3
}

// Report is the full insights result for one window.
type Report struct {
	WindowDays int
	DailyHRV   []analysis.DataPoint
	KeyActions []KeyAction
	Mood       *MoodSummary // nil when the window has no mood entries
}

// Engine computes insight reports from the store and the health
// provider.
type Engine struct {
	store    datastore.Interface
	provider health.Provider
	goals    conf.GoalSettings
	logger   *slog.Logger

	now func() time.Time // injectable clock for tests
}

// NewEngine creates an insights engine.
func NewEngine(store datastore.Interface, provider health.Provider, goals conf.GoalSettings) *Engine {
	return &Engine{
		store:    store,
		provider: provider,
		goals:    goals,
		logger:   logging.ForService("insights"),
		now:      time.Now,
	}
}

func startOfDay(t time.Time) time.Time {
	local := t.Local()
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, local.Location())
}

// Compute evaluates the insight rules over the last `days` days. Rules
// are independent: absence of data for one rule suppresses its action
// item without affecting the others. Only store failures surface as
// errors; missing provider data never does.
func (e *Engine) Compute(ctx context.Context, days int) (*Report, error) {
	now := e.now()
	windowStart := now.AddDate(0, 0, -days)

	report := &Report{WindowDays: days}

	report.DailyHRV = e.dailyHRVPoints(ctx, windowStart, now)

	hydration, err := e.store.GetHydrationSince(windowStart)
	if err != nil {
		return nil, errors.New(err).
			Component("insights").
			Category(errors.CategoryDatabase).
			Build()
	}
	report.KeyActions = append(report.KeyActions, e.hydrationActions(hydration)...)

	if action := e.stepsAction(ctx, now); action != nil {
		report.KeyActions = append(report.KeyActions, *action)
	}
	if action := e.sleepAction(ctx, now); action != nil {
		report.KeyActions = append(report.KeyActions, *action)
	}
	if action := e.mindfulnessAction(ctx, now); action != nil {
		report.KeyActions = append(report.KeyActions, *action)
	}

	moods, err := e.store.GetMoodsSince(windowStart)
	if err != nil {
		return nil, errors.New(err).
			Component("insights").
			Category(errors.CategoryDatabase).
			Build()
	}
	report.Mood = summarizeMoods(moods)

	return report, nil
}

func (e *Engine) dailyHRVPoints(ctx context.Context, start, end time.Time) []analysis.DataPoint {
	samples, err := e.provider.QuerySamples(ctx, health.MetricHRV, start, end)
	if err != nil {
		e.logger.Debug("hrv history unavailable", "error", err)
		return nil
	}
	readings := make([]model.HRVReading, len(samples))
	for i, s := range samples {
		readings[i] = model.HRVReading{ID: s.ID, Timestamp: s.Timestamp, Value: s.Value}
	}
	return analysis.DailyBuckets(readings)
}

// hydrationActions evaluates the water goal and caffeine watch rules
// over per-day ledger totals.
func (e *Engine) hydrationActions(entries []model.HydrationEntry) []KeyAction {
	type dayTotal struct{ water, caffeine int }
	days := make(map[time.Time]*dayTotal)
	for i := range entries {
		day := startOfDay(entries[i].Timestamp)
		t, ok := days[day]
		if !ok {
			t = &dayTotal{}
			days[day] = t
		}
		t.water += entries[i].WaterMl
		t.caffeine += entries[i].CaffeineMg
	}

	goalDays, caffeineDays := 0, 0
	goalVolume := 0
	for _, t := range days {
		if t.water >= e.goals.WaterMl {
			goalDays++
			goalVolume += t.water
		}
		if t.caffeine >= caffeineWatchMg {
			caffeineDays++
		}
	}

	var actions []KeyAction
	if goalDays > 0 {
		actions = append(actions, KeyAction{
			Icon:     "drop.fill",
			Title:    fmt.Sprintf("%d+ml water", e.goals.WaterMl),
			Subtitle: fmt.Sprintf("%s · avg %d ml", dayCount(goalDays), goalVolume/goalDays),
			Impact:   ImpactMedium,
			Positive: true,
		})
	}
	if caffeineDays > 0 {
		actions = append(actions, KeyAction{
			Icon:     "cup.and.saucer.fill",
			Title:    fmt.Sprintf("%d+mg caffeine", caffeineWatchMg),
			Subtitle: dayCount(caffeineDays),
			Impact:   ImpactHigh,
			Positive: false,
		})
	}
	return actions
}

func dayCount(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}

func (e *Engine) stepsAction(ctx context.Context, now time.Time) *KeyAction {
	today := startOfDay(now)
	steps, err := e.provider.QuerySum(ctx, health.MetricSteps, today, today.AddDate(0, 0, 1))
	if err != nil || !steps.Valid || steps.Value <= 0 {
		return nil
	}

	count := int(steps.Value)
	if count >= e.goals.Steps {
		return &KeyAction{
			Icon:     "figure.walk",
			Title:    fmt.Sprintf("%d+ steps", e.goals.Steps),
			Subtitle: fmt.Sprintf("%d today", count),
			Impact:   ImpactLow,
			Positive: true,
		}
	}
	return &KeyAction{
		Icon:     "figure.walk",
		Title:    "Below step goal",
		Subtitle: fmt.Sprintf("%d of %d", count, e.goals.Steps),
		Impact:   ImpactLow,
		Positive: false,
	}
}

func (e *Engine) sleepAction(ctx context.Context, now time.Time) *KeyAction {
	windowStart := startOfDay(now).AddDate(0, 0, -1)
	segments, err := e.provider.QuerySleep(ctx, windowStart, now)
	if err != nil || len(segments) == 0 {
		return nil
	}

	var total time.Duration
	for _, seg := range segments {
		total += seg.End.Sub(seg.Start)
	}

	hours := total.Hours()
	if hours >= e.goals.SleepHours {
		return &KeyAction{
			Icon:     "bed.double.fill",
			Title:    "Restorative sleep",
			Subtitle: fmt.Sprintf("%.1f hrs last night", hours),
			Impact:   ImpactMedium,
			Positive: true,
		}
	}
	return &KeyAction{
		Icon:     "moon.zzz.fill",
		Title:    "Short sleep",
		Subtitle: fmt.Sprintf("%.1f hrs last night", hours),
		Impact:   ImpactMedium,
		Positive: false,
	}
}

func (e *Engine) mindfulnessAction(ctx context.Context, now time.Time) *KeyAction {
	today := startOfDay(now)
	mindful, err := e.provider.QuerySum(ctx, health.MetricMindfulMinutes, today, today.AddDate(0, 0, 1))
	if err != nil || !mindful.Valid || mindful.Value <= 0 {
		return nil
	}

	impact := ImpactMedium
	if mindful.Value >= e.goals.MindfulMinutes {
		impact = ImpactHigh
	}
	return &KeyAction{
		Icon:     "brain.head.profile",
		Title:    "Mindful minutes",
		Subtitle: fmt.Sprintf("%.0f min today", mindful.Value),
		Impact:   impact,
		Positive: true,
	}
}

// summarizeMoods aggregates the window's entries. Ties on the top
// emotion or trigger break toward whichever occurs first in entry order
// (newest first, matching the store's sort).
func summarizeMoods(entries []model.MoodEntry) *MoodSummary {
	if len(entries) == 0 {
		return nil
	}

	emotionCounts := make(map[string]int)
	triggerCounts := make(map[string]int)
	energySum := 0
	positive := 0

	for i := range entries {
		emotionCounts[entries[i].Emotion]++
		for _, tag := range entries[i].TriggerTags() {
			triggerCounts[tag]++
		}
		energySum += entries[i].EnergyLevel
		if entries[i].EnergyLevel >= 3 {
			positive++
		}
	}

	summary := &MoodSummary{
		TotalLogs:     len(entries),
		AverageEnergy: float64(energySum) / float64(len(entries)),
		PositiveRatio: float64(positive) / float64(len(entries)),
	}

	best := 0
	for i := range entries {
		if c := emotionCounts[entries[i].Emotion]; c > best {
			best = c
			summary.TopEmotion = entries[i].Emotion
		}
	}

	best = 0
	for i := range entries {
		for _, tag := range entries[i].TriggerTags() {
			if c := triggerCounts[tag]; c > best {
				best = c
				summary.TopTrigger = tag
			}
		}
	}

	return summary
}

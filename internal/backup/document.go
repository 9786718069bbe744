// Package backup implements export and import of the full local dataset
// as a portable, self-describing JSON snapshot.
package backup

import (
	"fmt"
	"time"
)

// ExportDocument is the versioned snapshot format. Timestamps serialize
// as RFC 3339. The document embeds the app version that produced it so
// future readers can adapt.
type ExportDocument struct {
	ExportedAt       time.Time         `json:"exportDate"`
	AppVersion       string            `json:"appVersion"`
	HRVReadings      []ReadingRecord   `json:"hrvReadings"`
	MoodEntries      []MoodRecord      `json:"moodEntries"`
	HydrationEntries []HydrationRecord `json:"hydrationEntries"`
	Settings         SettingsRecord    `json:"settings"`
}

// ReadingRecord is one exported HRV reading.
type ReadingRecord struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
	HeartRate *float64  `json:"heartRate,omitempty"`
}

// MoodRecord is one exported mood entry.
type MoodRecord struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Emotion     string    `json:"emotion"`
	Emoji       string    `json:"emoji"`
	Note        string    `json:"note"`
	EnergyLevel int       `json:"energyLevel,omitempty"`
	Triggers    string    `json:"triggers,omitempty"`
}

// HydrationRecord is one exported hydration entry.
type HydrationRecord struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	WaterMl    int       `json:"waterMl"`
	CaffeineMg int       `json:"caffeineMg"`
}

// SettingsRecord is the settings subset that travels with a snapshot.
type SettingsRecord struct {
	UserName                  string `json:"userName"`
	StressAlertsEnabled       bool   `json:"stressAlertsEnabled"`
	HydrationRemindersEnabled bool   `json:"hydrationRemindersEnabled"`
}

// ImportResult reports what an import actually inserted.
type ImportResult struct {
	ExportedOn     time.Time
	HRVCount       int
	MoodCount      int
	HydrationCount int
}

// Summary returns a user-displayable one-liner.
func (r *ImportResult) Summary() string {
	return fmt.Sprintf("Restored %d HRV readings, %d mood logs, %d hydration entries.",
		r.HRVCount, r.MoodCount, r.HydrationCount)
}

package model

import (
	"strings"
	"time"
)

// Energy level bounds for a mood check-in.
const (
	EnergyMin = 1
	EnergyMax = 5
)

// MoodEntry is one user-initiated emotional check-in. A single save action
// may produce several entries when multiple emotions were selected at once.
type MoodEntry struct {
	ID          string    `gorm:"primaryKey"`
	Timestamp   time.Time `gorm:"index:idx_moods_time"`
	Emotion     string    // catalog emotion name
	Emoji       string    // catalog emoji for the emotion
	Note        string    `gorm:"type:text"` // freeform, may be empty
	EnergyLevel int       // 1 (exhausted) to 5 (energised)
	Triggers    string    // comma-joined trigger tags, may be empty
}

// TriggerTags splits the comma-joined trigger field into individual tags.
// Empty field yields nil.
func (m *MoodEntry) TriggerTags() []string {
	if m.Triggers == "" {
		return nil
	}
	parts := strings.Split(m.Triggers, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// JoinTriggers serializes trigger tags into the stored comma-joined form.
func JoinTriggers(tags []string) string {
	return strings.Join(tags, ",")
}

// HydrationEntry is one intake log. Quick-add actions create water-only or
// caffeine-only entries, the other field is zero.
type HydrationEntry struct {
	ID         string    `gorm:"primaryKey"`
	Timestamp  time.Time `gorm:"index:idx_hydration_time"`
	WaterMl    int
	CaffeineMg int
}

package model

import "time"

// WellnessMetrics is a derived same-day snapshot across health domains.
// It is recomputed on each load and has no identity of its own. Absent
// provider data shows up as zero values, never as an error.
type WellnessMetrics struct {
	// Sleep
	SleepDuration  time.Duration
	SleepQuality   SleepQuality
	SleepHeartRate float64 // bpm

	// Fitness
	ActiveCalories  float64 // kcal
	ExerciseMinutes float64
	StandHours      int

	// Environment and mind
	DaylightMinutes    float64
	MindfulnessMinutes float64
	StepCount          int
	NoiseLevel         float64 // dB

	// Heart
	RestingHeartRate float64 // bpm
	HeartRate        float64 // current bpm
}

// NoiseLevelCategory buckets the environmental noise level for display.
func (w *WellnessMetrics) NoiseLevelCategory() string {
	switch {
	case w.NoiseLevel < 55:
		return "Low"
	case w.NoiseLevel < 70:
		return "Normal"
	case w.NoiseLevel < 85:
		return "High"
	default:
		return "Very High"
	}
}

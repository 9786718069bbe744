// Package model defines the domain data model for the application.
package model

import "math"

// StressLevel is one of five ordered stress categories derived from an
// HRV (SDNN) value. Higher HRV maps to calmer categories.
type StressLevel string

const (
	StressGreat    StressLevel = "Great"
	StressGood     StressLevel = "Good"
	StressNormal   StressLevel = "Normal"
	StressHigh     StressLevel = "High"
	StressOverload StressLevel = "Overload"
)

// StressLevels lists all levels in classification order, calmest first.
// Classification iterates this slice and returns the first level whose
// band contains the value, so the order is load-bearing.
var StressLevels = []StressLevel{
	StressGreat,
	StressGood,
	StressNormal,
	StressHigh,
	StressOverload,
}

// hrvBand is a half-open HRV range [Min, Max) in milliseconds, except the
// top band which is open ended.
type hrvBand struct {
	Min       float64
	Max       float64
	OpenEnded bool
}

var stressBands = map[StressLevel]hrvBand{
	StressGreat:    {Min: 60, OpenEnded: true},
	StressGood:     {Min: 45, Max: 60},
	StressNormal:   {Min: 30, Max: 45},
	StressHigh:     {Min: 15, Max: 30},
	StressOverload: {Min: 0, Max: 15},
}

// Contains reports whether the level's HRV band contains the given value.
// NaN is contained by no band.
func (s StressLevel) Contains(hrv float64) bool {
	if math.IsNaN(hrv) {
		return false
	}
	band, ok := stressBands[s]
	if !ok {
		return false
	}
	if band.OpenEnded {
		return hrv >= band.Min
	}
	return hrv >= band.Min && hrv < band.Max
}

// Description returns the user-facing guidance text for the level.
func (s StressLevel) Description() string {
	switch s {
	case StressGreat:
		return "Your stress levels are very low. You're in excellent shape!"
	case StressGood:
		return "Your body is recovering well. Keep it up!"
	case StressNormal:
		return "Stress is within normal range. Consider a short break."
	case StressHigh:
		return "Elevated stress detected. Try some deep breathing."
	case StressOverload:
		return "Very high stress. Rest and recovery are essential now."
	default:
		return ""
	}
}

// Emoji returns the display emoji for the level.
func (s StressLevel) Emoji() string {
	switch s {
	case StressGreat:
		return "😎"
	case StressGood:
		return "🙂"
	case StressNormal:
		return "😐"
	case StressHigh:
		return "😟"
	case StressOverload:
		return "😰"
	default:
		return ""
	}
}

// ColorHex returns the display color for the level.
func (s StressLevel) ColorHex() string {
	switch s {
	case StressGreat:
		return "#4CAF50"
	case StressGood:
		return "#8BC34A"
	case StressNormal:
		return "#FFC107"
	case StressHigh:
		return "#FF9800"
	case StressOverload:
		return "#F44336"
	default:
		return "#9E9E9E"
	}
}

// GaugePosition returns the normalized position of the level on the
// dashboard stress gauge, 0 worst to 1 best.
func (s StressLevel) GaugePosition() float64 {
	switch s {
	case StressGreat:
		return 0.9
	case StressGood:
		return 0.7
	case StressNormal:
		return 0.5
	case StressHigh:
		return 0.3
	case StressOverload:
		return 0.1
	default:
		return 0.5
	}
}

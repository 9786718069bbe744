// Package analysis implements the stress classification and trend
// analysis pipeline. All functions here are pure; they take readings in
// and produce derived values without side effects, which keeps the
// pipeline deterministic and testable.
package analysis

import "github.com/calmtrack/calmtrack-go/internal/model"

// Classify maps an HRV (SDNN, milliseconds) value to a stress level.
// Levels are checked calmest-first; the first band containing the value
// wins. Values outside every band, including negative input and NaN,
// resolve to Overload. That fallthrough is established behavior and is
// pinned by tests.
func Classify(hrv float64) model.StressLevel {
	for _, level := range model.StressLevels {
		if level.Contains(hrv) {
			return level
		}
	}
	return model.StressOverload
}

package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/calmtrack/calmtrack-go/internal/model"
)

func TestClassifyBands(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		hrv  float64
		want model.StressLevel
	}{
		{"well above great threshold", 120, model.StressGreat},
		{"great lower bound", 60, model.StressGreat},
		{"good upper edge", 59.9, model.StressGood},
		{"good lower bound", 45, model.StressGood},
		{"normal upper edge", 44.9, model.StressNormal},
		{"normal lower bound", 30, model.StressNormal},
		{"high upper edge", 29.9, model.StressHigh},
		{"high lower bound", 15, model.StressHigh},
		{"overload upper edge", 14.9, model.StressOverload},
		{"zero", 0, model.StressOverload},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Classify(tt.hrv))
		})
	}
}

// Negative and NaN input have no containing band and fall through to
// Overload. The fallthrough is established behavior; this test pins it
// so a change is deliberate rather than accidental.
func TestClassifyOutOfDomain(t *testing.T) {
	t.Parallel()

	assert.Equal(t, model.StressOverload, Classify(-1))
	assert.Equal(t, model.StressOverload, Classify(-100))
	assert.Equal(t, model.StressOverload, Classify(math.NaN()))
}

func TestClassifyIsExhaustive(t *testing.T) {
	t.Parallel()

	// Sweep the expected domain; every value must map to exactly one
	// level and never panic.
	for hrv := 0.0; hrv <= 200; hrv += 0.5 {
		level := Classify(hrv)
		assert.Contains(t, model.StressLevels, level, "hrv=%v", hrv)
	}
}

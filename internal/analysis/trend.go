package analysis

import (
	"sort"
	"time"

	"github.com/calmtrack/calmtrack-go/internal/model"
)

// Trend is the direction the HRV series is moving.
type Trend string

const (
	TrendImproving Trend = "Improving"
	TrendStable    Trend = "Stable"
	TrendDeclining Trend = "Declining"
)

// Symbol returns the display arrow for the trend.
func (t Trend) Symbol() string {
	switch t {
	case TrendImproving:
		return "↗"
	case TrendDeclining:
		return "↘"
	default:
		return "−"
	}
}

// trendDelta is the HRV change (ms) between window means that separates
// a stable series from an improving or declining one.
const trendDelta = 5.0

// ComputeTrend compares the mean of the most recent (up to 3) readings
// against the mean of the earliest (up to 3) readings. The input must be
// sorted ascending by time; the caller owns that invariant. Fewer than
// two readings yield Stable. On series of 2-5 readings the two windows
// overlap, which biases the trend toward Stable; this matches the
// established behavior and is pinned by tests.
func ComputeTrend(readings []model.HRVReading) Trend {
	if len(readings) < 2 {
		return TrendStable
	}

	recent := readings[max(0, len(readings)-3):]
	older := readings[:min(3, len(readings))]

	delta := meanValue(recent) - meanValue(older)
	switch {
	case delta > trendDelta:
		return TrendImproving
	case delta < -trendDelta:
		return TrendDeclining
	default:
		return TrendStable
	}
}

// DailyAverage returns the arithmetic mean of all reading values, or 0
// for an empty slice so display surfaces never see NaN.
func DailyAverage(readings []model.HRVReading) float64 {
	if len(readings) == 0 {
		return 0
	}
	return meanValue(readings)
}

// DataPoint is one bucketed average for chart rendering.
type DataPoint struct {
	Time    time.Time
	Average float64
}

// DailyBuckets groups readings by local calendar day, averages each
// group, and returns the points sorted ascending by day.
func DailyBuckets(readings []model.HRVReading) []DataPoint {
	grouped := make(map[time.Time][]float64)
	for i := range readings {
		day := startOfDay(readings[i].Timestamp)
		grouped[day] = append(grouped[day], readings[i].Value)
	}
	return sortedPoints(grouped)
}

// HourlyBuckets groups readings by hour of day (0-23) irrespective of
// calendar date, averages each group, and re-anchors every hour slot to
// now's calendar date for today-style charts. Points are sorted
// ascending by hour.
func HourlyBuckets(readings []model.HRVReading, now time.Time) []DataPoint {
	grouped := make(map[int][]float64)
	for i := range readings {
		hour := readings[i].Timestamp.Local().Hour()
		grouped[hour] = append(grouped[hour], readings[i].Value)
	}

	base := startOfDay(now)
	points := make([]DataPoint, 0, len(grouped))
	for hour, values := range grouped {
		points = append(points, DataPoint{
			Time:    base.Add(time.Duration(hour) * time.Hour),
			Average: mean(values),
		})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Time.Before(points[j].Time) })
	return points
}

func sortedPoints(grouped map[time.Time][]float64) []DataPoint {
	points := make([]DataPoint, 0, len(grouped))
	for t, values := range grouped {
		points = append(points, DataPoint{Time: t, Average: mean(values)})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Time.Before(points[j].Time) })
	return points
}

func startOfDay(t time.Time) time.Time {
	local := t.Local()
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, local.Location())
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func meanValue(readings []model.HRVReading) float64 {
	if len(readings) == 0 {
		return 0
	}
	var sum float64
	for i := range readings {
		sum += readings[i].Value
	}
	return sum / float64(len(readings))
}

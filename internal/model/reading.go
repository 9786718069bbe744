package model

import "time"

// HRVReading is a single heart-rate-variability observation delivered by
// the health provider. ID is the provider's sample identifier, Value is
// SDNN in milliseconds, and HeartRate is the concurrent heart rate in
// bpm, nil when not recorded. Readings are immutable once created.
type HRVReading struct {
	ID        string    `gorm:"primaryKey"`
	Timestamp time.Time `gorm:"index:idx_readings_time"`
	Value     float64
	HeartRate *float64
}

// ByTimestamp implements sort.Interface for ascending time order.
type ByTimestamp []HRVReading

func (r ByTimestamp) Len() int           { return len(r) }
func (r ByTimestamp) Swap(i, j int)      { r[i], r[j] = r[j], r[i] }
func (r ByTimestamp) Less(i, j int) bool { return r[i].Timestamp.Before(r[j].Timestamp) }

// Package datastore implements the on-device persistent store for
// readings, mood check-ins, and hydration entries on top of GORM.
package datastore

import (
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/calmtrack/calmtrack-go/internal/conf"
	"github.com/calmtrack/calmtrack-go/internal/model"
)

// Interface abstracts the underlying database implementation and defines
// the store operations the core components depend on.
type Interface interface {
	Open() error
	Close() error

	// HRV readings
	SaveReadings(readings []model.HRVReading) (int, error)
	GetReadings(start, end time.Time) ([]model.HRVReading, error)
	GetAllReadings() ([]model.HRVReading, error)
	ReadingIDs() (map[string]struct{}, error)

	// Mood entries
	SaveMoodEntries(entries []model.MoodEntry) error
	GetMoodsSince(since time.Time) ([]model.MoodEntry, error)
	GetAllMoods() ([]model.MoodEntry, error)
	CountMoods() (int64, error)
	MoodIDs() (map[string]struct{}, error)

	// Hydration entries
	SaveHydration(entry *model.HydrationEntry) error
	SaveHydrationEntries(entries []model.HydrationEntry) error
	GetHydrationSince(since time.Time) ([]model.HydrationEntry, error)
	GetAllHydration() ([]model.HydrationEntry, error)
	CountHydration() (int64, error)
	HydrationIDs() (map[string]struct{}, error)
}

// DataStore implements Interface using a GORM database.
type DataStore struct {
	DB *gorm.DB
}

// New creates a store instance based on the provided settings. SQLite is
// the only supported engine.
func New(settings *conf.Settings) Interface {
	return &SQLiteStore{Settings: settings}
}

// performAutoMigration migrates all persisted entity tables.
func performAutoMigration(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.HRVReading{},
		&model.MoodEntry{},
		&model.HydrationEntry{},
	); err != nil {
		return fmt.Errorf("auto-migration failed: %w", err)
	}
	return nil
}

// SaveReadings inserts readings, skipping any whose ID already exists.
// Returns the number of newly inserted rows. Readings are immutable so
// conflicting rows are never updated.
func (ds *DataStore) SaveReadings(readings []model.HRVReading) (int, error) {
	if len(readings) == 0 {
		return 0, nil
	}
	result := ds.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&readings)
	if result.Error != nil {
		return 0, fmt.Errorf("saving readings: %w", result.Error)
	}
	return int(result.RowsAffected), nil
}

// GetReadings returns readings in [start, end) ordered ascending by time.
func (ds *DataStore) GetReadings(start, end time.Time) ([]model.HRVReading, error) {
	var readings []model.HRVReading
	err := ds.DB.
		Where("timestamp >= ? AND timestamp < ?", start, end).
		Order("timestamp ASC").
		Find(&readings).Error
	if err != nil {
		return nil, fmt.Errorf("querying readings: %w", err)
	}
	return readings, nil
}

// GetAllReadings returns every stored reading ordered ascending by time.
func (ds *DataStore) GetAllReadings() ([]model.HRVReading, error) {
	var readings []model.HRVReading
	if err := ds.DB.Order("timestamp ASC").Find(&readings).Error; err != nil {
		return nil, fmt.Errorf("querying all readings: %w", err)
	}
	return readings, nil
}

// ReadingIDs returns the set of stored reading identifiers.
func (ds *DataStore) ReadingIDs() (map[string]struct{}, error) {
	return ds.idSet(&model.HRVReading{})
}

// SaveMoodEntries persists all entries of one check-in in a single
// transaction; either every entry lands or none do.
func (ds *DataStore) SaveMoodEntries(entries []model.MoodEntry) error {
	if len(entries) == 0 {
		return nil
	}
	err := ds.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&entries).Error
	})
	if err != nil {
		return fmt.Errorf("saving mood entries: %w", err)
	}
	return nil
}

// GetMoodsSince returns mood entries at or after since, newest first.
func (ds *DataStore) GetMoodsSince(since time.Time) ([]model.MoodEntry, error) {
	var entries []model.MoodEntry
	err := ds.DB.
		Where("timestamp >= ?", since).
		Order("timestamp DESC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("querying moods: %w", err)
	}
	return entries, nil
}

// GetAllMoods returns every stored mood entry, newest first.
func (ds *DataStore) GetAllMoods() ([]model.MoodEntry, error) {
	var entries []model.MoodEntry
	if err := ds.DB.Order("timestamp DESC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("querying all moods: %w", err)
	}
	return entries, nil
}

// CountMoods returns the number of stored mood entries.
func (ds *DataStore) CountMoods() (int64, error) {
	var count int64
	if err := ds.DB.Model(&model.MoodEntry{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("counting moods: %w", err)
	}
	return count, nil
}

// MoodIDs returns the set of stored mood entry identifiers.
func (ds *DataStore) MoodIDs() (map[string]struct{}, error) {
	return ds.idSet(&model.MoodEntry{})
}

// SaveHydration persists a single hydration entry.
func (ds *DataStore) SaveHydration(entry *model.HydrationEntry) error {
	if err := ds.DB.Create(entry).Error; err != nil {
		return fmt.Errorf("saving hydration entry: %w", err)
	}
	return nil
}

// SaveHydrationEntries persists a batch of hydration entries in a single
// transaction; either every entry lands or none do.
func (ds *DataStore) SaveHydrationEntries(entries []model.HydrationEntry) error {
	if len(entries) == 0 {
		return nil
	}
	err := ds.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&entries).Error
	})
	if err != nil {
		return fmt.Errorf("saving hydration entries: %w", err)
	}
	return nil
}

// GetHydrationSince returns hydration entries at or after since, oldest
// first.
func (ds *DataStore) GetHydrationSince(since time.Time) ([]model.HydrationEntry, error) {
	var entries []model.HydrationEntry
	err := ds.DB.
		Where("timestamp >= ?", since).
		Order("timestamp ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("querying hydration entries: %w", err)
	}
	return entries, nil
}

// GetAllHydration returns every stored hydration entry, oldest first.
func (ds *DataStore) GetAllHydration() ([]model.HydrationEntry, error) {
	var entries []model.HydrationEntry
	if err := ds.DB.Order("timestamp ASC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("querying all hydration entries: %w", err)
	}
	return entries, nil
}

// CountHydration returns the number of stored hydration entries.
func (ds *DataStore) CountHydration() (int64, error) {
	var count int64
	if err := ds.DB.Model(&model.HydrationEntry{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("counting hydration entries: %w", err)
	}
	return count, nil
}

// HydrationIDs returns the set of stored hydration entry identifiers.
func (ds *DataStore) HydrationIDs() (map[string]struct{}, error) {
	return ds.idSet(&model.HydrationEntry{})
}

func (ds *DataStore) idSet(entity any) (map[string]struct{}, error) {
	var ids []string
	if err := ds.DB.Model(entity).Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("querying identifiers: %w", err)
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

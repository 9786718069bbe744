package datastore

import (
	"sort"
	"sync"
	"time"

	"github.com/calmtrack/calmtrack-go/internal/model"
)

// MemoryStore is an in-memory Interface implementation. It backs unit
// tests of the services above the store and mirrors the SQLite store's
// semantics: duplicate-skipping reading inserts, time ordering, and
// all-or-nothing mood and hydration batches.
type MemoryStore struct {
	mu        sync.Mutex
	readings  map[string]model.HRVReading
	moods     map[string]model.MoodEntry
	hydration map[string]model.HydrationEntry

	// FailWrites makes every write return this error, for exercising
	// persistence failure paths.
	FailWrites error
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		readings:  make(map[string]model.HRVReading),
		moods:     make(map[string]model.MoodEntry),
		hydration: make(map[string]model.HydrationEntry),
	}
}

// Open is a no-op for the in-memory store.
func (m *MemoryStore) Open() error { return nil }

// Close is a no-op for the in-memory store.
func (m *MemoryStore) Close() error { return nil }

func (m *MemoryStore) SaveReadings(readings []model.HRVReading) (int, error) {
	if len(readings) == 0 {
		return 0, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites != nil {
		return 0, m.FailWrites
	}
	inserted := 0
	for i := range readings {
		if _, exists := m.readings[readings[i].ID]; exists {
			continue
		}
		m.readings[readings[i].ID] = readings[i]
		inserted++
	}
	return inserted, nil
}

func (m *MemoryStore) GetReadings(start, end time.Time) ([]model.HRVReading, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.HRVReading
	for _, r := range m.readings {
		if !r.Timestamp.Before(start) && r.Timestamp.Before(end) {
			out = append(out, r)
		}
	}
	sort.Sort(model.ByTimestamp(out))
	return out, nil
}

func (m *MemoryStore) GetAllReadings() ([]model.HRVReading, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.HRVReading, 0, len(m.readings))
	for _, r := range m.readings {
		out = append(out, r)
	}
	sort.Sort(model.ByTimestamp(out))
	return out, nil
}

func (m *MemoryStore) ReadingIDs() (map[string]struct{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make(map[string]struct{}, len(m.readings))
	for id := range m.readings {
		ids[id] = struct{}{}
	}
	return ids, nil
}

func (m *MemoryStore) SaveMoodEntries(entries []model.MoodEntry) error {
	if len(entries) == 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites != nil {
		return m.FailWrites
	}
	for i := range entries {
		m.moods[entries[i].ID] = entries[i]
	}
	return nil
}

func (m *MemoryStore) GetMoodsSince(since time.Time) ([]model.MoodEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.MoodEntry
	for _, e := range m.moods {
		if !e.Timestamp.Before(since) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

func (m *MemoryStore) GetAllMoods() ([]model.MoodEntry, error) {
	return m.GetMoodsSince(time.Time{})
}

func (m *MemoryStore) CountMoods() (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.moods)), nil
}

func (m *MemoryStore) MoodIDs() (map[string]struct{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make(map[string]struct{}, len(m.moods))
	for id := range m.moods {
		ids[id] = struct{}{}
	}
	return ids, nil
}

func (m *MemoryStore) SaveHydration(entry *model.HydrationEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites != nil {
		return m.FailWrites
	}
	m.hydration[entry.ID] = *entry
	return nil
}

func (m *MemoryStore) SaveHydrationEntries(entries []model.HydrationEntry) error {
	if len(entries) == 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites != nil {
		return m.FailWrites
	}
	for i := range entries {
		m.hydration[entries[i].ID] = entries[i]
	}
	return nil
}

func (m *MemoryStore) GetHydrationSince(since time.Time) ([]model.HydrationEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.HydrationEntry
	for _, e := range m.hydration {
		if !e.Timestamp.Before(since) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (m *MemoryStore) GetAllHydration() ([]model.HydrationEntry, error) {
	return m.GetHydrationSince(time.Time{})
}

func (m *MemoryStore) CountHydration() (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.hydration)), nil
}

func (m *MemoryStore) HydrationIDs() (map[string]struct{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make(map[string]struct{}, len(m.hydration))
	for id := range m.hydration {
		ids[id] = struct{}{}
	}
	return ids, nil
}

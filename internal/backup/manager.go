package backup

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/calmtrack/calmtrack-go/internal/conf"
	"github.com/calmtrack/calmtrack-go/internal/datastore"
	"github.com/calmtrack/calmtrack-go/internal/errors"
	"github.com/calmtrack/calmtrack-go/internal/logging"
	"github.com/calmtrack/calmtrack-go/internal/model"
)

// backupNudgeAge is how stale the last backup may get before
// ShouldBackup starts nudging.
const backupNudgeAge = 7 * 24 * time.Hour

// Manager performs snapshot export and duplicate-safe import against the
// local store.
type Manager struct {
	store      datastore.Interface
	settings   *conf.Settings
	appVersion string
	statePath  string
	logger     *slog.Logger

	now func() time.Time // injectable clock for tests
}

// NewManager creates a backup manager. The last-backup state lives in a
// sidecar file next to the database.
func NewManager(store datastore.Interface, settings *conf.Settings, appVersion string) *Manager {
	return &Manager{
		store:      store,
		settings:   settings,
		appVersion: appVersion,
		statePath:  settings.Store.SQLite.Path + ".backup-state.json",
		logger:     logging.ForService("backup"),
		now:        time.Now,
	}
}

// BuildDocument reads the entire local dataset into an export document.
// Export is unbounded: no date filtering.
func (m *Manager) BuildDocument() (*ExportDocument, error) {
	readings, err := m.store.GetAllReadings()
	if err != nil {
		return nil, m.dbError(err, "reading HRV rows")
	}
	moods, err := m.store.GetAllMoods()
	if err != nil {
		return nil, m.dbError(err, "reading mood rows")
	}
	hydration, err := m.store.GetAllHydration()
	if err != nil {
		return nil, m.dbError(err, "reading hydration rows")
	}

	doc := &ExportDocument{
		ExportedAt:       m.now(),
		AppVersion:       m.appVersion,
		HRVReadings:      make([]ReadingRecord, 0, len(readings)),
		MoodEntries:      make([]MoodRecord, 0, len(moods)),
		HydrationEntries: make([]HydrationRecord, 0, len(hydration)),
		Settings: SettingsRecord{
			UserName:                  m.settings.User.Name,
			StressAlertsEnabled:       m.settings.User.StressAlertsEnabled,
			HydrationRemindersEnabled: m.settings.User.HydrationRemindersEnabled,
		},
	}

	for i := range readings {
		doc.HRVReadings = append(doc.HRVReadings, ReadingRecord{
			ID:        readings[i].ID,
			Timestamp: readings[i].Timestamp,
			Value:     readings[i].Value,
			HeartRate: readings[i].HeartRate,
		})
	}
	for i := range moods {
		doc.MoodEntries = append(doc.MoodEntries, MoodRecord{
			ID:          moods[i].ID,
			Timestamp:   moods[i].Timestamp,
			Emotion:     moods[i].Emotion,
			Emoji:       moods[i].Emoji,
			Note:        moods[i].Note,
			EnergyLevel: moods[i].EnergyLevel,
			Triggers:    moods[i].Triggers,
		})
	}
	for i := range hydration {
		doc.HydrationEntries = append(doc.HydrationEntries, HydrationRecord{
			ID:         hydration[i].ID,
			Timestamp:  hydration[i].Timestamp,
			WaterMl:    hydration[i].WaterMl,
			CaffeineMg: hydration[i].CaffeineMg,
		})
	}
	return doc, nil
}

// Export writes the snapshot to the configured export directory and
// returns the file path. The file name embeds the export date. A
// successful export records the last-backup time.
func (m *Manager) Export() (string, error) {
	doc, err := m.BuildDocument()
	if err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", errors.New(err).
			Component("backup").
			Category(errors.CategoryImportExport).
			Build()
	}

	fileName := fmt.Sprintf("calmtrack-backup-%s.json", m.now().Format("2006-01-02"))
	path := filepath.Join(m.settings.ExportDir(), fileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", errors.New(err).
			Component("backup").
			Category(errors.CategoryFileIO).
			Context("path", path).
			Build()
	}

	m.recordBackup()
	m.logger.Info("export written",
		"path", path,
		"hrv_rows", len(doc.HRVReadings),
		"mood_rows", len(doc.MoodEntries),
		"hydration_rows", len(doc.HydrationEntries),
	)
	return path, nil
}

// Import restores a snapshot file into the store. The document is parsed
// completely before any insert, so a corrupt file never partially
// applies. Rows whose identifier is already present are skipped, making
// a repeated import of the same file a no-op.
func (m *Manager) Import(path string) (*ImportResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(err).
			Component("backup").
			Category(errors.CategoryFileIO).
			UserMessage("The backup file could not be read.").
			Context("path", path).
			Build()
	}

	var doc ExportDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.New(err).
			Component("backup").
			Category(errors.CategoryImportExport).
			UserMessage("The backup file is not a valid CalmTrack export.").
			Context("path", path).
			Build()
	}

	result := &ImportResult{ExportedOn: doc.ExportedAt}

	existingReadings, err := m.store.ReadingIDs()
	if err != nil {
		return nil, m.dbError(err, "listing reading IDs")
	}
	var newReadings []model.HRVReading
	for _, rec := range doc.HRVReadings {
		if _, exists := existingReadings[rec.ID]; exists {
			continue
		}
		newReadings = append(newReadings, model.HRVReading{
			ID:        rec.ID,
			Timestamp: rec.Timestamp,
			Value:     rec.Value,
			HeartRate: rec.HeartRate,
		})
	}
	inserted, err := m.store.SaveReadings(newReadings)
	if err != nil {
		return nil, m.dbError(err, "inserting readings")
	}
	result.HRVCount = inserted

	existingMoods, err := m.store.MoodIDs()
	if err != nil {
		return nil, m.dbError(err, "listing mood IDs")
	}
	var newMoods []model.MoodEntry
	for _, rec := range doc.MoodEntries {
		if _, exists := existingMoods[rec.ID]; exists {
			continue
		}
		newMoods = append(newMoods, model.MoodEntry{
			ID:          rec.ID,
			Timestamp:   rec.Timestamp,
			Emotion:     rec.Emotion,
			Emoji:       rec.Emoji,
			Note:        rec.Note,
			EnergyLevel: rec.EnergyLevel,
			Triggers:    rec.Triggers,
		})
	}
	if err := m.store.SaveMoodEntries(newMoods); err != nil {
		return nil, m.dbError(err, "inserting moods")
	}
	result.MoodCount = len(newMoods)

	existingHydration, err := m.store.HydrationIDs()
	if err != nil {
		return nil, m.dbError(err, "listing hydration IDs")
	}
	var newHydration []model.HydrationEntry
	for _, rec := range doc.HydrationEntries {
		if _, exists := existingHydration[rec.ID]; exists {
			continue
		}
		newHydration = append(newHydration, model.HydrationEntry{
			ID:         rec.ID,
			Timestamp:  rec.Timestamp,
			WaterMl:    rec.WaterMl,
			CaffeineMg: rec.CaffeineMg,
		})
	}
	if err := m.store.SaveHydrationEntries(newHydration); err != nil {
		return nil, m.dbError(err, "inserting hydration entries")
	}
	result.HydrationCount = len(newHydration)

	if doc.Settings.UserName != "" {
		m.settings.User.Name = doc.Settings.UserName
	}

	m.recordBackup()
	m.logger.Info("import applied",
		"path", path,
		"hrv_inserted", result.HRVCount,
		"mood_inserted", result.MoodCount,
		"hydration_inserted", result.HydrationCount,
	)
	return result, nil
}

// LastBackup returns the time of the most recent export or import, zero
// if none has happened.
func (m *Manager) LastBackup() time.Time {
	return loadState(m.statePath).LastBackup
}

// ShouldBackup reports whether the user should be nudged to back up:
// they have at least one mood or hydration row, and either never backed
// up or the last backup is older than seven days.
func (m *Manager) ShouldBackup() (bool, error) {
	moods, err := m.store.CountMoods()
	if err != nil {
		return false, m.dbError(err, "counting moods")
	}
	hydration, err := m.store.CountHydration()
	if err != nil {
		return false, m.dbError(err, "counting hydration entries")
	}
	if moods == 0 && hydration == 0 {
		return false, nil
	}

	last := m.LastBackup()
	if last.IsZero() {
		return true, nil
	}
	return m.now().Sub(last) > backupNudgeAge, nil
}

func (m *Manager) recordBackup() {
	if err := saveState(m.statePath, backupState{LastBackup: m.now()}); err != nil {
		// The nudge policy degrades gracefully without state.
		m.logger.Warn("failed to record backup time", "error", err)
	}
}

func (m *Manager) dbError(err error, operation string) error {
	return errors.New(err).
		Component("backup").
		Category(errors.CategoryDatabase).
		Context("operation", operation).
		Build()
}

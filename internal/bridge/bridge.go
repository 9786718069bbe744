// Package bridge mirrors the latest stress snapshot into a small JSON
// file that out-of-process surfaces, such as a widget or menu bar
// applet, read without talking to the database or the provider.
package bridge

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/calmtrack/calmtrack-go/internal/conf"
	"github.com/calmtrack/calmtrack-go/internal/logging"
	"github.com/calmtrack/calmtrack-go/internal/model"
)

// State is the snapshot a refresh cycle hands to the bridge.
type State struct {
	HRV         float64
	StressLevel model.StressLevel
	Sleep       *model.SleepData
	UpdatedAt   time.Time
}

// mirrorDocument is the on-disk layout. Keys are stable: external
// readers depend on them.
type mirrorDocument struct {
	HRV           float64 `json:"hrv"`
	Stress        string  `json:"stress"`
	SleepDuration string  `json:"sleepDuration"`
	SleepQuality  string  `json:"sleepQuality"`
	UpdatedAt     string  `json:"updatedAt"`
}

// Bridge writes mirror files atomically. Publishing never fails the
// caller: a widget that misses one update catches the next.
type Bridge struct {
	path    string
	enabled bool
	logger  *slog.Logger
}

// New creates a bridge from settings.
func New(settings *conf.Settings) *Bridge {
	return &Bridge{
		path:    settings.Bridge.Path,
		enabled: settings.Bridge.Enabled,
		logger:  logging.ForService("bridge"),
	}
}

// Publish mirrors the state to the configured path. The write goes to a
// temp file in the same directory followed by a rename, so readers
// always see a complete document.
func (b *Bridge) Publish(state State) {
	if !b.enabled {
		return
	}

	doc := mirrorDocument{
		HRV:           state.HRV,
		Stress:        string(state.StressLevel),
		SleepDuration: state.Sleep.DurationString(),
		UpdatedAt:     state.UpdatedAt.Format(time.RFC3339),
	}
	if state.Sleep.HasData() {
		doc.SleepQuality = string(state.Sleep.Quality)
	}

	data, err := json.Marshal(doc)
	if err != nil {
		b.logger.Error("failed to encode mirror document", "error", err)
		return
	}

	dir := filepath.Dir(b.path)
	tmp, err := os.CreateTemp(dir, ".calmtrack-widget-*")
	if err != nil {
		b.logger.Error("failed to create mirror temp file", "error", err, "dir", dir)
		return
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		b.logger.Error("failed to write mirror temp file", "error", err)
		return
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		b.logger.Error("failed to close mirror temp file", "error", err)
		return
	}
	if err := os.Rename(tmpPath, b.path); err != nil {
		os.Remove(tmpPath)
		b.logger.Error("failed to swap mirror file", "error", err, "path", b.path)
		return
	}

	b.logger.Debug("mirror published", "path", b.path, "stress", doc.Stress)
}

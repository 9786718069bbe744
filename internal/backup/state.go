package backup

import (
	"encoding/json"
	"os"
	"time"
)

// backupState tracks the most recent successful export or import. It
// lives in a small JSON sidecar file next to the database.
type backupState struct {
	LastBackup time.Time `json:"lastBackup"`
}

func loadState(path string) backupState {
	var state backupState
	data, err := os.ReadFile(path)
	if err != nil {
		return state
	}
	// A corrupt state file only costs an extra backup nudge.
	_ = json.Unmarshal(data, &state)
	return state
}

func saveState(path string, state backupState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

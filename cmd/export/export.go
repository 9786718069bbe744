// Package export provides the snapshot export command.
package export

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/calmtrack/calmtrack-go/internal/backup"
	"github.com/calmtrack/calmtrack-go/internal/buildinfo"
	"github.com/calmtrack/calmtrack-go/internal/conf"
	"github.com/calmtrack/calmtrack-go/internal/datastore"
)

// Command creates the export command.
func Command(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Export all data to a portable JSON snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(settings)
		},
	}
}

func runExport(settings *conf.Settings) error {
	store := datastore.New(settings)
	if err := store.Open(); err != nil {
		return fmt.Errorf("opening datastore: %w", err)
	}
	defer store.Close()

	manager := backup.NewManager(store, settings, buildinfo.Version)
	path, err := manager.Export()
	if err != nil {
		return err
	}

	fmt.Printf("Exported snapshot to %s\n", path)
	return nil
}

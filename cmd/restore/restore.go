// Package restore provides the snapshot import command.
package restore

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/calmtrack/calmtrack-go/internal/backup"
	"github.com/calmtrack/calmtrack-go/internal/buildinfo"
	"github.com/calmtrack/calmtrack-go/internal/conf"
	"github.com/calmtrack/calmtrack-go/internal/datastore"
	apperrors "github.com/calmtrack/calmtrack-go/internal/errors"
)

// Command creates the restore command.
func Command(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "restore [snapshot.json]",
		Short: "Import a previously exported JSON snapshot",
		Long: `Restore merges a snapshot file into the local database. Rows already
present are skipped, so restoring the same file twice changes nothing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRestore(settings, args[0])
		},
	}
}

func runRestore(settings *conf.Settings, path string) error {
	store := datastore.New(settings)
	if err := store.Open(); err != nil {
		return fmt.Errorf("opening datastore: %w", err)
	}
	defer store.Close()

	manager := backup.NewManager(store, settings, buildinfo.Version)
	result, err := manager.Import(path)
	if err != nil {
		var ee *apperrors.EnhancedError
		if errors.As(err, &ee) && ee.UserMessage != "" {
			return fmt.Errorf("%s", ee.UserMessage)
		}
		return err
	}

	fmt.Println(result.Summary())
	return nil
}

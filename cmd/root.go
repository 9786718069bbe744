// Package cmd assembles the command tree.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/calmtrack/calmtrack-go/cmd/export"
	"github.com/calmtrack/calmtrack-go/cmd/insights"
	logcmd "github.com/calmtrack/calmtrack-go/cmd/log"
	"github.com/calmtrack/calmtrack-go/cmd/monitor"
	"github.com/calmtrack/calmtrack-go/cmd/restore"
	"github.com/calmtrack/calmtrack-go/internal/buildinfo"
	"github.com/calmtrack/calmtrack-go/internal/conf"
)

// RootCommand creates and returns the root command.
func RootCommand(settings *conf.Settings) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "calmtrack",
		Short:   "CalmTrack stress and wellness tracker",
		Version: fmt.Sprintf("%s (built %s)", buildinfo.Version, buildinfo.BuildDate),
	}

	setupFlags(rootCmd, settings)

	rootCmd.AddCommand(
		monitor.Command(settings),
		logcmd.Command(settings),
		insights.Command(settings),
		export.Command(settings),
		restore.Command(settings),
	)

	return rootCmd
}

// setupFlags defines the global command line flags and binds them to
// viper so they override file and environment configuration.
func setupFlags(rootCmd *cobra.Command, settings *conf.Settings) {
	rootCmd.PersistentFlags().BoolVarP(&settings.Debug, "debug", "d", viper.GetBool("debug"), "Enable debug output")
	rootCmd.PersistentFlags().StringVar(&settings.Store.SQLite.Path, "db", viper.GetString("store.sqlite.path"), "Path to the SQLite database file")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		cobra.CheckErr(fmt.Errorf("error binding flags: %w", err))
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/calmtrack/calmtrack-go/cmd"
	"github.com/calmtrack/calmtrack-go/internal/conf"
	"github.com/calmtrack/calmtrack-go/internal/logging"
)

func main() {
	settings, err := conf.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading configuration: %v\n", err)
		os.Exit(1)
	}

	if settings.Log.Enabled {
		logging.InitWithFile(settings.Log.Path, logging.ParseLevel(settings.Log.Level))
	} else {
		logging.Init()
	}

	rootCmd := cmd.RootCommand(settings)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

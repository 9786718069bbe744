// Package log provides the mood and hydration logging commands.
package log

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/calmtrack/calmtrack-go/internal/conf"
	"github.com/calmtrack/calmtrack-go/internal/datastore"
	"github.com/calmtrack/calmtrack-go/internal/ledger"
	"github.com/calmtrack/calmtrack-go/internal/model"
)

// Command creates the log command with its water, caffeine, and mood
// subcommands.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Log hydration and mood entries",
	}
	cmd.AddCommand(waterCommand(settings), caffeineCommand(settings), moodCommand(settings))
	return cmd
}

func openLedger(settings *conf.Settings) (*ledger.Ledger, datastore.Interface, error) {
	store := datastore.New(settings)
	if err := store.Open(); err != nil {
		return nil, nil, fmt.Errorf("opening datastore: %w", err)
	}
	return ledger.New(store), store, nil
}

func waterCommand(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "water [ml]",
		Short: "Log water intake in milliliters",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ml, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid amount %q", args[0])
			}

			l, store, err := openLedger(settings)
			if err != nil {
				return err
			}
			defer store.Close()

			total, err := l.AddWater(ml)
			if err != nil {
				return err
			}
			fmt.Printf("Logged %d ml, today %d / %d ml\n", ml, total, settings.Goals.WaterMl)
			return nil
		},
	}
}

func caffeineCommand(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "caffeine [mg]",
		Short: "Log caffeine intake in milligrams",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mg, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid amount %q", args[0])
			}

			l, store, err := openLedger(settings)
			if err != nil {
				return err
			}
			defer store.Close()

			total, err := l.AddCaffeine(mg)
			if err != nil {
				return err
			}
			fmt.Printf("Logged %d mg, today %d mg\n", mg, total)
			return nil
		},
	}
}

func moodCommand(settings *conf.Settings) *cobra.Command {
	var (
		note     string
		energy   int
		triggers []string
	)

	cmd := &cobra.Command{
		Use:   "mood [emotion...]",
		Short: "Log one or more emotions",
		Long: `Log mood with one or more emotions from the catalog. Use --energy for
the 1-5 energy level and --trigger for what prompted the mood.

Available emotions:
` + emotionList(),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, store, err := openLedger(settings)
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := l.SaveMood(args, note, energy, triggers)
			if err != nil {
				return err
			}
			for _, e := range entries {
				fmt.Printf("Logged %s %s\n", e.Emoji, e.Emotion)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&note, "note", "", "Optional note")
	cmd.Flags().IntVar(&energy, "energy", 3, "Energy level 1-5")
	cmd.Flags().StringSliceVar(&triggers, "trigger", nil, "What prompted this mood")

	return cmd
}

func emotionList() string {
	var out string
	for _, e := range model.EmotionCatalog {
		out += fmt.Sprintf("  %s %s\n", e.Emoji, e.Name)
	}
	return out
}

package main

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ivlev/phenomenon/internal/config"
	"github.com/ivlev/phenomenon/internal/deck"
	"github.com/ivlev/phenomenon/internal/lightning/timeline"
	"github.com/ivlev/phenomenon/internal/logging"
	"github.com/ivlev/phenomenon/internal/scenario"
	"github.com/ivlev/phenomenon/internal/telemetry"
)

// app is the state shared by all commands of one invocation.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	stats  *telemetry.Stats
}

// newRootCmd builds the command tree. Flag defaults come from cfg, so the
// environment sets defaults and explicit flags override them.
func newRootCmd(cfg *config.Config) *cobra.Command {
	a := &app{cfg: cfg, logger: logging.NewNop(), stats: telemetry.New()}

	root := &cobra.Command{
		Use:          "phenomenon",
		Short:        "Phenomenon plays animated slide decks",
		Long:         `Phenomenon compiles YAML slide decks into animation timelines and plays them in the terminal or renders them to video.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			a.logger = logging.NewWithWriter(cmd.ErrOrStderr(), logging.ParseLevel(a.cfg.LogLevel))
			return nil
		},
	}

	root.PersistentFlags().StringVar(&cfg.DeckDir, "deck-dir", cfg.DeckDir, "Directory searched for the latest deck when none is given")
	root.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	root.PersistentFlags().BoolVar(&cfg.ShowStats, "stats", cfg.ShowStats, "Print the performance report")

	root.AddCommand(
		newInspectCmd(a),
		newValidateCmd(a),
		newRenderCmd(a),
		newPresentCmd(a),
		newNewCmd(a),
		newVersionCmd(a),
	)
	return root
}

type loadedDeck struct {
	path     string
	file     *scenario.Deck
	deck     *deck.Deck
	schedule *timeline.Schedule
}

// loadDeck reads args[0], or the latest deck in the deck directory, and
// compiles it.
func (a *app) loadDeck(cmd *cobra.Command, args []string) (*loadedDeck, error) {
	path := ""
	if len(args) > 0 {
		path = args[0]
	} else {
		latest, err := scenario.FindLatestDeck(a.cfg.DeckDir)
		if err != nil {
			return nil, fmt.Errorf("%w. Put a deck into %s or run 'phenomenon new'", err, a.cfg.DeckDir)
		}
		path = latest
		fmt.Fprintf(cmd.OutOrStdout(), "[*] Selected deck: %s\n", path)
	}

	file, err := scenario.ReadDeck(path)
	if err != nil {
		return nil, err
	}
	built, err := file.Build()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s, err := timeline.Compile(built.Node())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return &loadedDeck{path: abs, file: file, deck: built, schedule: s}, nil
}

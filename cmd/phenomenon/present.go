package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/ivlev/phenomenon/internal/lightning"
	"github.com/ivlev/phenomenon/internal/logging"
	"github.com/ivlev/phenomenon/internal/stage"
	"github.com/ivlev/phenomenon/internal/store"
	"github.com/ivlev/phenomenon/internal/terminal"
)

func newPresentCmd(a *app) *cobra.Command {
	cfg := a.cfg
	var reset bool

	cmd := &cobra.Command{
		Use:   "present [deck]",
		Short: "Present a deck interactively in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.loadDeck(cmd, args)
			if err != nil {
				return err
			}

			positions := store.NewFile(cfg.StatePath, d.path)
			if reset {
				if err := positions.Save(cmd.Context(), 0); err != nil {
					return fmt.Errorf("reset position: %w", err)
				}
			}

			st := stage.New()
			eng, err := lightning.NewFromSchedule(d.schedule,
				lightning.WithSink(st),
				lightning.WithScheduler(lightning.NewTickerScheduler(cfg.PresentFPS)),
				lightning.WithStore(positions),
				lightning.WithCallbacks(a.stats.Callbacks(lightning.Callbacks{})),
				lightning.WithStopAtPauses(cfg.StopAtPauses),
				// stderr belongs to the screen while presenting
				lightning.WithLogger(logging.NewNop()),
			)
			if err != nil {
				return err
			}

			screen, err := tcell.NewScreen()
			if err != nil {
				return fmt.Errorf("open terminal: %w", err)
			}
			if err := screen.Init(); err != nil {
				return fmt.Errorf("init terminal: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			err = terminal.New(screen, d.file, d.deck, eng, st, cfg.PresentFPS).Run(ctx)
			eng.Pause()
			screen.Fini()
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}

			status := eng.Status()
			fmt.Fprintf(cmd.OutOrStdout(), "[*] Stopped at %s of %s\n", ms(status.CurrentTime), ms(status.Total))
			if cfg.ShowStats {
				return a.stats.Report(cmd.OutOrStdout(), cfg.BuildVersion)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&reset, "reset", false, "Start from the beginning instead of the saved position")
	cmd.Flags().IntVar(&cfg.PresentFPS, "fps", cfg.PresentFPS, "Redraw rate")
	cmd.Flags().BoolVar(&cfg.StopAtPauses, "stop-at-pauses", cfg.StopAtPauses, "Stop playback at every pause point")
	return cmd
}

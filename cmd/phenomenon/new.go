package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ivlev/phenomenon/internal/scenario"
)

func newNewCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "new [path]",
		Short: "Write a sample deck to start from",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := scenario.GenerateDeckPath(a.cfg.DeckDir)
			if len(args) > 0 {
				path = args[0]
			}
			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return err
			}
			if err := scenario.WriteDeck(scenario.Sample(), path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "[+++] Sample deck written: %s\n", path)
			return nil
		},
	}
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [deck]",
		Short: "Check that a deck parses and compiles",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.loadDeck(cmd, args)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "[+++] %s is valid: %d steps, %d pauses, total %s\n",
				d.path, len(d.deck.Steps()), len(d.schedule.Pauses), ms(d.schedule.Total))
			return nil
		},
	}
}

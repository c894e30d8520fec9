package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ivlev/phenomenon/internal/deck"
)

func newInspectCmd(a *app) *cobra.Command {
	var entries bool

	cmd := &cobra.Command{
		Use:   "inspect [deck]",
		Short: "Print the compiled timeline of a deck",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.loadDeck(cmd, args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			title := d.file.Title
			if title == "" {
				title = d.path
			}
			fmt.Fprintf(out, "[*] Deck: %s (%dx%d)\n", title, d.file.Width, d.file.Height)
			fmt.Fprintf(out, "[*] Total: %s, %d entries, %d targets\n",
				d.schedule.Total, len(d.schedule.Entries), len(d.schedule.Targets()))

			fmt.Fprintf(out, "[*] Steps:\n")
			for _, s := range d.deck.Steps() {
				fmt.Fprintf(out, "    %-24s %8s -> %s\n", s.Label(), ms(s.Start), ms(s.End))
			}

			fmt.Fprintf(out, "[*] Pauses:")
			for _, p := range d.schedule.Pauses {
				fmt.Fprintf(out, " %s", ms(p))
			}
			fmt.Fprintln(out)

			if entries {
				fmt.Fprintf(out, "[*] Entries:\n")
				for _, e := range d.schedule.Entries {
					step := ""
					if info, ok := d.deck.StepAt(e.Start); ok {
						step = deck.FormatID(info.ID)
					}
					fmt.Fprintf(out, "    %-6s %-10s %-12s %8s -> %s\n",
						step, e.Segment.Kind, e.Target, ms(e.Start), ms(e.End))
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&entries, "entries", false, "Also list every scheduled segment")
	return cmd
}

func ms(d time.Duration) string {
	return fmt.Sprintf("%dms", d.Milliseconds())
}

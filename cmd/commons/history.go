package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/five82/commons/internal/history"
)

func newHistoryCmd(c *cli) *cobra.Command {
	var limit int
	var wipe bool
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List or clear recently opened links",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			store, err := history.Open(cfg.History.Path, cfg.History.Limit)
			if err != nil {
				return fmt.Errorf("open history %s: %w", cfg.History.Path, err)
			}
			defer func() { _ = store.Close() }()

			if wipe {
				if err := store.Clear(cmd.Context()); err != nil {
					return err
				}
				_, err := fmt.Fprintln(c.out, "History cleared.")
				return err
			}

			entries, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				_, err := fmt.Fprintln(c.out, "No recent links.")
				return err
			}
			tw := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "LINK\tLABEL\tVISITS\tLAST OPENED")
			for _, e := range entries {
				link := "?" + e.Link
				if e.Link == "" {
					link = "(all threads)"
				}
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", link, e.Label, e.Visits, humanize.Time(e.VisitedAt))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "how many links to show")
	cmd.Flags().BoolVar(&wipe, "clear", false, "forget every recent link")
	return cmd
}

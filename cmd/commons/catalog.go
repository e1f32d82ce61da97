package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/five82/commons/internal/discovery"
)

func newCategoriesCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List forum categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			stack, err := c.stack()
			if err != nil {
				return err
			}
			defer func() { _ = stack.Close() }()

			cats, err := stack.Client.ListCategories(cmd.Context())
			if err != nil {
				return errors.New("list categories: " + discovery.Classify(err).Message)
			}
			tw := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME")
			for _, cat := range cats {
				fmt.Fprintf(tw, "%d\t%s\n", cat.ID, cat.Name)
			}
			return tw.Flush()
		},
	}
}

func newTagsCmd(c *cli) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "List forum tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			stack, err := c.stack()
			if err != nil {
				return err
			}
			defer func() { _ = stack.Close() }()

			tags, err := stack.Client.ListTags(cmd.Context())
			if err != nil {
				return errors.New("list tags: " + discovery.Classify(err).Message)
			}
			tw := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "TAG\tTHREADS")
			for _, tag := range tags {
				if !tag.Active && !all {
					continue
				}
				name := "#" + tag.Name
				if !tag.Active {
					name += " (inactive)"
				}
				fmt.Fprintf(tw, "%s\t%d\n", name, tag.ThreadCount)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "include inactive tags")
	return cmd
}

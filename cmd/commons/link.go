package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/commons/internal/filter"
)

func newLinkCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "link",
		Short: "Encode and decode deep links",
	}
	cmd.AddCommand(newLinkEncodeCmd(c), newLinkDecodeCmd(c))
	return cmd
}

func newLinkEncodeCmd(c *cli) *cobra.Command {
	var f searchFlags
	var keyword string
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Print the canonical deep link for a set of filters",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			var args []string
			if keyword != "" {
				args = []string{keyword}
			}
			_, err := fmt.Fprintln(c.out, filter.Encode(f.state(args)))
			return err
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&keyword, "q", "", "keyword")
	flags.StringArrayVarP(&f.tags, "tag", "t", nil, "tag (repeatable)")
	flags.IntVarP(&f.category, "category", "c", 0, "category id")
	flags.IntVarP(&f.page, "page", "p", 0, "page")
	return cmd
}

func newLinkDecodeCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "decode <link>",
		Short: "Show the filters a deep link describes",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			st := filter.Decode(args[0])
			category := "any"
			if st.HasCategory {
				category = fmt.Sprint(st.CategoryID)
			}
			tags := "none"
			if len(st.Tags) > 0 {
				tags = strings.Join(st.Tags, ", ")
			}
			_, err := fmt.Fprintf(c.out, "keyword:   %q\ntags:      %s\ncategory:  %s\npage:      %d\ncanonical: %s\n",
				st.Keyword, tags, category, st.Page, filter.Encode(st))
			return err
		},
	}
}

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/five82/commons/internal/discovery"
	"github.com/five82/commons/internal/filter"
	"github.com/five82/commons/internal/forum"
)

type searchFlags struct {
	tags     []string
	category int
	page     int
	link     string
	json     bool
}

// searchResult is the --json output shape.
type searchResult struct {
	Link     string                `json:"link"`
	Strategy string                `json:"strategy"`
	Page     int                   `json:"page"`
	Total    *int                  `json:"total,omitempty"`
	Items    []forum.ThreadSummary `json:"items"`
}

func newSearchCmd(c *cli) *cobra.Command {
	var f searchFlags
	cmd := &cobra.Command{
		Use:   "search [keyword...]",
		Short: "Run one discovery query and print the result page",
		Example: "  commons search exam --tag cs101 --tag finals\n" +
			"  commons search --link 'tag=events&category=1&page=2' --json",
		RunE: func(cmd *cobra.Command, args []string) error {
			st := f.state(args)

			stack, err := c.stack()
			if err != nil {
				return err
			}
			defer func() { _ = stack.Close() }()

			page, strategy, err := stack.Controller.Fetch(cmd.Context(), st)
			if err != nil {
				return errors.New("search failed: " + discovery.Classify(err).Message)
			}
			link := filter.Encode(st)
			if f.json {
				return writeJSON(c.out, newSearchResult(link, strategy, page))
			}
			return writeResults(c.out, link, strategy, page, stack.Controller.PageSize())
		},
	}

	flags := cmd.Flags()
	flags.StringArrayVarP(&f.tags, "tag", "t", nil, "require a tag (repeatable)")
	flags.IntVarP(&f.category, "category", "c", 0, "restrict to a category id")
	flags.IntVarP(&f.page, "page", "p", 0, "result page, starting at 1")
	flags.StringVar(&f.link, "link", "", "start from a deep link; other flags refine it")
	flags.BoolVar(&f.json, "json", false, "print JSON instead of a table")
	return cmd
}

// state decodes --link and layers the keyword arguments and flags on top.
func (f searchFlags) state(args []string) filter.State {
	st := filter.Decode(f.link)
	if len(args) > 0 {
		st = st.WithKeyword(strings.Join(args, " "))
	}
	for _, tag := range f.tags {
		st = st.WithTag(tag)
	}
	if f.category > 0 {
		st = st.WithCategory(f.category)
	}
	if f.page > 0 {
		st = st.WithPage(f.page)
	}
	return st
}

func newSearchResult(link string, strategy discovery.Strategy, page forum.ResultPage) searchResult {
	out := searchResult{
		Link:     link,
		Strategy: string(strategy),
		Page:     page.Page,
		Items:    page.Items,
	}
	if out.Items == nil {
		out.Items = []forum.ThreadSummary{}
	}
	if page.HasTotal {
		total := page.Total
		out.Total = &total
	}
	return out
}

func writeResults(w io.Writer, link string, strategy discovery.Strategy, page forum.ResultPage, pageSize int) error {
	if link == "" {
		link = "(all threads)"
	} else {
		link = "?" + link
	}
	header := fmt.Sprintf("%s via %s, page %d", link, strategy, page.Page)
	if page.HasTotal {
		header += fmt.Sprintf(" of %d (%d threads)", discovery.LastPage(page.Total, pageSize), page.Total)
	}
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}
	if len(page.Items) == 0 {
		_, err := fmt.Fprintln(w, "No threads match these filters.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tCATEGORY\tAUTHOR\tTAGS\tREPLIES")
	for _, item := range page.Items {
		title := item.Title
		if item.Deleted {
			title += " [deleted]"
		}
		tags := make([]string, len(item.Tags))
		for i, tag := range item.Tags {
			tags[i] = "#" + tag
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			item.ID, title, item.CategoryName, item.Author,
			strings.Join(tags, " "), strconv.Itoa(item.ReplyCount))
	}
	return tw.Flush()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

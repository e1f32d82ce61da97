package ui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/commons/internal/discovery"
	"github.com/five82/commons/internal/forum"
	"github.com/five82/commons/internal/history"
)

// Messages

// RefreshMsg asks the model to re-resolve the current link. The background
// refresher sends it through the program.
type RefreshMsg struct{}

type loadMsg struct{}

type navigateMsg struct{ link string }

type outcomeMsg discovery.Outcome

type categoriesMsg struct {
	items []forum.Category
	err   error
}

type tagsMsg struct {
	names []string
	err   error
}

type recentMsg struct {
	entries []history.Entry
	err     error
}

type noticeMsg string

// Commands

func loadCmd() tea.Msg {
	return loadMsg{}
}

func waitCmd(ctx context.Context, task *discovery.Task) tea.Cmd {
	return func() tea.Msg {
		return outcomeMsg(task.Wait(ctx))
	}
}

func fetchCategoriesCmd(ctx context.Context, api forum.API) tea.Cmd {
	return func() tea.Msg {
		items, err := api.ListCategories(ctx)
		return categoriesMsg{items: items, err: err}
	}
}

func fetchTagsCmd(ctx context.Context, api forum.API) tea.Cmd {
	return func() tea.Msg {
		tags, err := api.ListTags(ctx)
		if err != nil {
			return tagsMsg{err: err}
		}
		names := make([]string, 0, len(tags))
		for _, t := range tags {
			if t.Active {
				names = append(names, t.Name)
			}
		}
		return tagsMsg{names: names}
	}
}

func recordCmd(ctx context.Context, store *history.Store, link, label string) tea.Cmd {
	return func() tea.Msg {
		if err := store.Record(ctx, link, label, time.Now()); err != nil {
			return noticeMsg(fmt.Sprintf("Could not save recent link: %v", err))
		}
		return nil
	}
}

func recentCmd(ctx context.Context, store *history.Store) tea.Cmd {
	return func() tea.Msg {
		entries, err := store.Recent(ctx, 0)
		return recentMsg{entries: entries, err: err}
	}
}

func copyCmd(write func(string) error, text string) tea.Cmd {
	return func() tea.Msg {
		if err := write(text); err != nil {
			return noticeMsg(fmt.Sprintf("Copy failed: %v", err))
		}
		return noticeMsg("Copied " + text)
	}
}

func navigateCmd(link string) tea.Cmd {
	return func() tea.Msg {
		return navigateMsg{link: link}
	}
}

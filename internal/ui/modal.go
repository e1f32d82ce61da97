package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/five82/commons/internal/history"
)

// Modal is the interface for modal dialogs.
// Update returns the updated modal, a command, and whether the modal should close.
type Modal interface {
	Update(msg tea.KeyMsg, keys keyMap) (Modal, tea.Cmd, bool)
	View(theme Theme, width, height int) string
}

// recentModal lists recently visited links; enter opens one.
type recentModal struct {
	entries  []history.Entry
	selected int
}

func newRecentModal(entries []history.Entry) recentModal {
	return recentModal{entries: entries}
}

func (r recentModal) Update(msg tea.KeyMsg, keys keyMap) (Modal, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, keys.Cancel), key.Matches(msg, keys.Recent), key.Matches(msg, keys.Quit):
		return r, nil, true
	case key.Matches(msg, keys.Up):
		if r.selected > 0 {
			r.selected--
		}
	case key.Matches(msg, keys.Down):
		if r.selected < len(r.entries)-1 {
			r.selected++
		}
	case key.Matches(msg, keys.Confirm):
		if len(r.entries) == 0 {
			return r, nil, true
		}
		return r, navigateCmd(r.entries[r.selected].Link), true
	}
	return r, nil, false
}

func (r recentModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Recent links"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 50)))
	b.WriteString("\n")

	if len(r.entries) == 0 {
		b.WriteString(styles.FaintText.Render("Nothing visited yet."))
	}
	for i, e := range r.entries {
		label := e.Label
		if label == "" {
			label = e.Link
		}
		line := label + "  " + styles.FaintText.Render(humanize.Time(e.VisitedAt))
		if i == r.selected {
			line = styles.Selected.Render("▸ "+label) + "  " + styles.FaintText.Render(humanize.Time(e.VisitedAt))
		} else {
			line = "  " + line
		}
		b.WriteString("\n")
		b.WriteString(line)
		b.WriteString("\n")
		b.WriteString(styles.MutedText.Render("    ?" + e.Link))
	}

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.Accent)).
		Padding(1, 2).
		Width(min(72, max(width-4, 20))).
		Render(b.String())

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, modal,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)))
}

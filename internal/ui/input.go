package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/commons/internal/compose"
	"github.com/five82/commons/internal/discovery"
	"github.com/five82/commons/internal/prefs"
)

const hintLimit = 6

// handleKey routes keyboard input to the overlay or the focused control.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}
	if m.modal != nil {
		next, cmd, done := m.modal.Update(msg, m.keys)
		if done {
			m.modal = nil
		} else {
			m.modal = next
		}
		return m, cmd
	}

	switch m.focus {
	case focusSearch:
		return m.handleSearchKey(msg)
	case focusTags:
		return m.handleTagKey(msg)
	}
	return m.handleListKey(msg)
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.prefs.Theme = m.theme.Name
		m.savePrefs()
		m.refreshResults()
		return m, nil

	case key.Matches(msg, m.keys.ToggleHint):
		m.prefs = m.prefs.WithHints(!m.prefs.HintsEnabled())
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.focus = focusSearch
		m.search.Focus()
		m.search.CursorEnd()
		return m, nil

	case key.Matches(msg, m.keys.Tags):
		m.focus = focusTags
		if msg.String() == "#" {
			m.composer.HandleKey(compose.RuneKey('#'))
		}
		return m, nil

	case key.Matches(msg, m.keys.RemoveTag):
		if n := len(m.state.Tags); n > 0 {
			return m.apply(m.state.WithoutTag(m.state.Tags[n-1]))
		}
		return m, nil

	case key.Matches(msg, m.keys.NextCategory):
		return m.nextCategory()

	case key.Matches(msg, m.keys.ClearCategory):
		if m.state.HasCategory {
			return m.apply(m.state.WithoutCategory())
		}
		return m, nil

	case key.Matches(msg, m.keys.ClearAll):
		return m.apply(m.state.Cleared())

	case key.Matches(msg, m.keys.PrevPage):
		if discovery.CanPrev(m.state.Page) {
			return m.apply(m.state.WithPage(m.state.Page - 1))
		}
		return m, nil

	case key.Matches(msg, m.keys.NextPage):
		if m.pageSettled() && discovery.CanNext(m.snap.Page, m.ctrl.PageSize()) {
			return m.apply(m.state.WithPage(m.state.Page + 1))
		}
		return m, nil

	case key.Matches(msg, m.keys.Back):
		if link, ok := m.nav.Back(); ok {
			return m.visit(link)
		}
		return m, nil

	case key.Matches(msg, m.keys.Forward):
		if link, ok := m.nav.Forward(); ok {
			return m.visit(link)
		}
		return m, nil

	case key.Matches(msg, m.keys.Recent):
		if m.hist == nil {
			m.notice = "Recent links are disabled"
			return m, nil
		}
		return m, recentCmd(m.ctx, m.hist)

	case key.Matches(msg, m.keys.CopyLink):
		return m, copyCmd(m.copyLink, "?"+m.link)

	case key.Matches(msg, m.keys.Refresh):
		if m.loading {
			return m, nil
		}
		return m, m.resolve()

	case key.Matches(msg, m.keys.Up):
		m.moveSelection(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveSelection(1)
	case key.Matches(msg, m.keys.Top):
		m.moveSelection(-len(m.snap.Page.Items))
	case key.Matches(msg, m.keys.Bottom):
		m.moveSelection(len(m.snap.Page.Items))
	}
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		keyword := m.search.Value()
		m.search.Blur()
		m.focus = focusList
		next, cmd := m.apply(m.state.WithKeyword(keyword))
		nm := next.(Model)
		// An unchanged keyword does not navigate; show the normalized text.
		nm.search.SetValue(nm.state.Keyword)
		return nm, cmd

	case key.Matches(msg, m.keys.Cancel):
		m.search.Blur()
		m.search.SetValue(m.state.Keyword)
		m.focus = focusList
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

// handleTagKey translates terminal keys into composer keystrokes.
func (m Model) handleTagKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var ev compose.Event
	switch msg.Type {
	case tea.KeyRunes:
		if msg.Paste {
			ev = m.composer.HandleKey(compose.PasteKey(string(msg.Runes)))
			break
		}
		for _, r := range msg.Runes {
			ev = m.composer.HandleKey(compose.RuneKey(r))
		}
	case tea.KeySpace:
		ev = m.composer.HandleKey(compose.RuneKey(' '))
	case tea.KeyBackspace:
		ev = m.composer.HandleKey(compose.BackspaceKey)
	case tea.KeyEnter:
		ev = m.composer.HandleKey(compose.EnterKey)
	case tea.KeyEsc:
		if m.composer.Mode() == compose.Drafting {
			m.composer.HandleKey(compose.EscapeKey)
			return m, nil
		}
		m.focus = focusList
		return m, nil
	case tea.KeyTab:
		if !m.completeTag() {
			m.composer.Blur()
			m.focus = focusList
		}
		return m, nil
	}

	if ev.Kind == compose.EventCommitted {
		return m.apply(m.state.WithTag(ev.Tag))
	}
	return m, nil
}

// completeTag extends the draft with the first hint.
func (m *Model) completeTag() bool {
	draft := m.composer.Draft()
	if !draft.Active {
		return false
	}
	hints := m.composer.Suggest(m.tagNames, 1)
	if len(hints) == 0 || len(hints[0]) <= len(draft.Buffer) {
		return false
	}
	m.composer.HandleKey(compose.PasteKey(hints[0][len(draft.Buffer):]))
	return true
}

// tagHints lists known tags matching the draft.
func (m Model) tagHints() []string {
	if !m.prefs.HintsEnabled() {
		return nil
	}
	return m.composer.Suggest(m.tagNames, hintLimit)
}

// nextCategory cycles through the category list and then back to none.
func (m Model) nextCategory() (tea.Model, tea.Cmd) {
	if len(m.categories) == 0 {
		m.notice = "No categories loaded"
		return m, nil
	}
	next := 0
	if m.state.HasCategory {
		next = len(m.categories)
		for i, c := range m.categories {
			if c.ID == m.state.CategoryID {
				next = i + 1
				break
			}
		}
	}
	if next >= len(m.categories) {
		return m.apply(m.state.WithoutCategory())
	}
	return m.apply(m.state.WithCategory(m.categories[next].ID))
}

func (m *Model) moveSelection(delta int) {
	n := len(m.snap.Page.Items)
	if n == 0 {
		m.selected = 0
		return
	}
	m.selected = min(max(m.selected+delta, 0), n-1)
	m.refreshResults()
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
		m.logger.Warn("save prefs failed", "path", m.prefsPath, "err", err)
	}
}

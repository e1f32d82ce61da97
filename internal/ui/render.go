package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/five82/commons/internal/colors"
	"github.com/five82/commons/internal/compose"
	"github.com/five82/commons/internal/discovery"
	"github.com/five82/commons/internal/filter"
	"github.com/five82/commons/internal/forum"
)

// Lines above and below the results viewport.
const (
	chromeTop    = 6
	chromeBottom = 2
)

// renderMain renders the discovery screen.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderSearchLine())
	b.WriteString("\n")
	b.WriteString(m.renderTagLine())
	b.WriteString("\n")
	b.WriteString(m.renderCategoryLine())
	b.WriteString("\n")
	b.WriteString(m.renderStatusLine())
	b.WriteString("\n")
	b.WriteString(m.theme.Styles().FaintText.Render(strings.Repeat("─", max(m.width, 1))))
	b.WriteString("\n")
	b.WriteString(m.results.View())
	b.WriteString("\n")
	b.WriteString(m.renderPager())
	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))
	return b.String()
}

func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Surface)

	link := "?" + m.link
	if m.link == "" {
		link = "all threads"
	}
	left := []string{
		bg.Render("commons", styles.Logo),
		bg.Render(link, styles.MutedText),
	}

	var right []string
	if m.loading {
		right = append(right, bg.Render(m.spinner.View()+" loading", styles.InfoText))
	} else if m.snap.Strategy != "" {
		right = append(right, bg.Render(m.snap.Strategy, styles.FaintText))
	}
	if m.snap.IsOffline() {
		right = append(right, bg.Render("offline", styles.DangerText))
	}

	leftText := bg.Join(left, "  ")
	rightText := bg.Join(right, "  ")
	gap := m.width - lipgloss.Width(leftText) - lipgloss.Width(rightText) - 2
	return bg.FillLine(bg.Spaces(1)+leftText+bg.Spaces(gap)+rightText, m.width)
}

func (m Model) renderSearchLine() string {
	styles := m.theme.Styles()
	label := styles.MutedText.Render("Search   ")
	if m.focus == focusSearch {
		label = styles.AccentText.Render("Search   ")
	}
	return label + m.search.View()
}

func (m Model) renderTagLine() string {
	styles := m.theme.Styles()
	label := styles.MutedText.Render("Tags     ")
	if m.focus == focusTags {
		label = styles.AccentText.Render("Tags     ")
	}

	parts := make([]string, 0, len(m.state.Tags)+2)
	for _, chip := range m.composer.Chips() {
		parts = append(parts, styles.ChipStyle(chip.Color).Render("#"+chip.Name))
	}
	if m.composer.Mode() == compose.Drafting {
		parts = append(parts, styles.WarningText.Render(m.composer.Text()+"▏"))
		if hints := m.tagHints(); len(hints) > 0 {
			parts = append(parts, styles.FaintText.Render(strings.Join(hints, " ")))
		}
	} else if len(parts) == 0 {
		parts = append(parts, styles.FaintText.Render("none, press # to add"))
	}
	return label + strings.Join(parts, " ")
}

func (m Model) renderCategoryLine() string {
	styles := m.theme.Styles()
	label := styles.MutedText.Render("Category ")
	if !m.state.HasCategory {
		return label + styles.FaintText.Render("any")
	}
	name := m.categoryName(m.state.CategoryID)
	return label + styles.ChipStyle(colors.ColorFor(name)).Render(name)
}

// renderStatusLine shows the failure banner, or a notice, or nothing.
func (m Model) renderStatusLine() string {
	styles := m.theme.Styles()
	if err := m.snap.LastError; err != nil {
		f := discovery.Classify(err)
		return styles.FailureStyle(f.Kind).Render(f.Message)
	}
	if m.notice != "" {
		return styles.InfoText.Render(m.notice)
	}
	return ""
}

func (m Model) renderPager() string {
	styles := m.theme.Styles()
	if !m.snap.HasPage {
		return styles.FaintText.Render("No results yet")
	}
	p := m.snap.Page
	pageSize := m.ctrl.PageSize()

	var parts []string
	if p.HasTotal {
		parts = append(parts,
			fmt.Sprintf("Page %d of %d", p.Page, discovery.LastPage(p.Total, pageSize)),
			humanize.Comma(int64(p.Total))+" threads",
		)
	} else {
		parts = append(parts, fmt.Sprintf("Page %d", p.Page))
	}
	var arrows []string
	if discovery.CanPrev(p.Page) {
		arrows = append(arrows, "[ prev")
	}
	if discovery.CanNext(p, pageSize) {
		arrows = append(arrows, "] next")
	}
	if len(arrows) > 0 {
		parts = append(parts, strings.Join(arrows, "  "))
	}
	return styles.MutedText.Render(strings.Join(parts, " · "))
}

// refreshResults re-renders the result list into the viewport and keeps the
// selection on screen.
func (m *Model) refreshResults() {
	m.results.Width = m.width
	m.results.Height = max(1, m.height-chromeTop-chromeBottom)

	items := m.snap.Page.Items
	if m.selected >= len(items) {
		m.selected = max(len(items)-1, 0)
	}
	m.results.SetContent(m.renderResults(items))

	top := m.selected * 2
	switch {
	case top < m.results.YOffset:
		m.results.SetYOffset(top)
	case top+2 > m.results.YOffset+m.results.Height:
		m.results.SetYOffset(top + 2 - m.results.Height)
	}
}

func (m Model) renderResults(items []forum.ThreadSummary) string {
	styles := m.theme.Styles()
	if !m.snap.HasPage {
		if m.loading {
			return styles.FaintText.Render("Loading threads…")
		}
		return ""
	}
	if len(items) == 0 {
		return styles.FaintText.Render("No threads match these filters.")
	}

	lines := make([]string, 0, len(items)*2)
	for i, item := range items {
		title := item.Title
		if item.Deleted {
			title += " [deleted]"
		}
		if i == m.selected {
			lines = append(lines, styles.Selected.Width(m.width).Render("▸ "+title))
		} else {
			lines = append(lines, styles.Text.Bold(true).Render("  "+title))
		}
		lines = append(lines, "  "+m.renderMeta(item))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderMeta(item forum.ThreadSummary) string {
	styles := m.theme.Styles()
	var parts []string
	if item.CategoryName != "" {
		parts = append(parts, lipgloss.NewStyle().
			Foreground(lipgloss.Color(string(colors.ColorFor(item.CategoryName)))).
			Render(item.CategoryName))
	}
	if item.Author != "" {
		parts = append(parts, styles.MutedText.Render("@"+item.Author))
	}
	parts = append(parts, styles.MutedText.Render(
		fmt.Sprintf("♥ %d · %d replies", item.LikeCount, item.ReplyCount)))
	if !item.CreatedAt.IsZero() {
		parts = append(parts, styles.FaintText.Render(humanize.Time(item.CreatedAt)))
	}
	for _, tag := range item.Tags {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(string(colors.ColorFor(tag))))
		if m.state.HasTag(tag) {
			style = style.Bold(true).Underline(true)
		}
		parts = append(parts, style.Render("#"+tag))
	}
	return strings.Join(parts, "  ")
}

// categoryName finds a display name for id.
func (m Model) categoryName(id int) string {
	for _, c := range m.categories {
		if c.ID == id {
			return c.Name
		}
	}
	for _, item := range m.snap.Page.Items {
		if item.CategoryID == id && item.CategoryName != "" {
			return item.CategoryName
		}
	}
	return "category " + strconv.Itoa(id)
}

// describe labels a state for the recent-links list.
func (m Model) describe(st filter.State) string {
	var parts []string
	if st.Keyword != "" {
		parts = append(parts, strconv.Quote(st.Keyword))
	}
	for _, tag := range st.Tags {
		parts = append(parts, "#"+tag)
	}
	if st.HasCategory {
		parts = append(parts, "in "+m.categoryName(st.CategoryID))
	}
	if len(parts) == 0 {
		parts = append(parts, "All threads")
	}
	if st.Page > 1 {
		parts = append(parts, "p"+strconv.Itoa(st.Page))
	}
	return strings.Join(parts, " ")
}

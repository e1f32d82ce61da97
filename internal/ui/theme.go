package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/commons/internal/colors"
	"github.com/five82/commons/internal/discovery"
)

// Theme is a named palette. All colors are hex strings.
type Theme struct {
	Name string

	Background    string
	Surface       string
	SelectionBg   string
	SelectionText string

	Text    string
	Muted   string
	Faint   string
	Accent  string
	Warning string
	Danger  string
	Info    string
}

// Styles holds the lipgloss styles derived from a Theme.
type Styles struct {
	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style
	InfoText    lipgloss.Style
	Logo        lipgloss.Style
	Selected    lipgloss.Style

	background string
	danger     string
	warning    string
	muted      string
}

func fg(c string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c))
}

// Styles builds the style set for t.
func (t Theme) Styles() Styles {
	return Styles{
		Text:        fg(t.Text),
		MutedText:   fg(t.Muted),
		FaintText:   fg(t.Faint),
		AccentText:  fg(t.Accent),
		WarningText: fg(t.Warning),
		DangerText:  fg(t.Danger).Bold(true),
		InfoText:    fg(t.Info),
		Logo:        fg(t.Warning).Bold(true),
		Selected: lipgloss.NewStyle().
			Background(lipgloss.Color(t.SelectionBg)).
			Foreground(lipgloss.Color(t.SelectionText)).
			Bold(true),

		background: t.Background,
		danger:     t.Danger,
		warning:    t.Warning,
		muted:      t.Muted,
	}
}

// ChipStyle renders a tag or category chip filled with c.
func (s Styles) ChipStyle(c colors.Color) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(s.background)).
		Background(lipgloss.Color(string(c))).
		Padding(0, 1)
}

// FailureStyle colors the error banner by failure kind. Backend and
// transport problems are loud; a rejected keyword is only a warning.
func (s Styles) FailureStyle(kind discovery.FailureKind) lipgloss.Style {
	color := s.danger
	switch kind {
	case discovery.FailureInvalidQuery:
		color = s.warning
	case discovery.FailureCanceled:
		color = s.muted
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(s.background)).
		Background(lipgloss.Color(color)).
		Bold(true).
		Padding(0, 1)
}

// themeOrder is the T-key cycle; the first entry is the default.
var themeOrder = []Theme{
	{
		// https://github.com/EdenEast/nightfox.nvim
		Name:       "Nightfox",
		Background: "#131a24", Surface: "#192330",
		SelectionBg: "#2b3b51", SelectionText: "#cdcecf",
		Text: "#cdcecf", Muted: "#738091", Faint: "#71839b", Accent: "#719cd6",
		Warning: "#dbc074", Danger: "#c94f6d", Info: "#63cdcf",
	},
	{
		// https://github.com/rebelot/kanagawa.nvim
		Name:       "Kanagawa",
		Background: "#16161D", Surface: "#1F1F28",
		SelectionBg: "#2D4F67", SelectionText: "#DCD7BA",
		Text: "#DCD7BA", Muted: "#C8C093", Faint: "#727169", Accent: "#7E9CD8",
		Warning: "#E6C384", Danger: "#E46876", Info: "#7FB4CA",
	},
	{
		// Tailwind slate and sky
		Name:       "Slate",
		Background: "#020617", Surface: "#0f172a",
		SelectionBg: "#0284c7", SelectionText: "#f8fafc",
		Text: "#f1f5f9", Muted: "#94a3b8", Faint: "#64748b", Accent: "#38bdf8",
		Warning: "#f59e0b", Danger: "#ef4444", Info: "#06b6d4",
	},
}

// GetTheme returns the named theme, or the default for unknown names.
func GetTheme(name string) Theme {
	for _, t := range themeOrder {
		if t.Name == name {
			return t
		}
	}
	return themeOrder[0]
}

// NextTheme returns the theme after current in the cycle.
func NextTheme(current string) string {
	for i, t := range themeOrder {
		if t.Name == current {
			return themeOrder[(i+1)%len(themeOrder)].Name
		}
	}
	return themeOrder[0].Name
}

// ThemeNames lists the themes in cycle order.
func ThemeNames() []string {
	names := make([]string, len(themeOrder))
	for i, t := range themeOrder {
		names[i] = t.Name
	}
	return names
}

package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/commons/internal/colors"
	"github.com/five82/commons/internal/discovery"
)

func TestGetTheme_UnknownFallsBackToNightfox(t *testing.T) {
	if got := GetTheme("does-not-exist").Name; got != "Nightfox" {
		t.Fatalf("GetTheme(unknown).Name = %q, want Nightfox", got)
	}
}

func TestNextTheme_Cycles(t *testing.T) {
	names := ThemeNames()
	for i, name := range names {
		want := names[(i+1)%len(names)]
		if got := NextTheme(name); got != want {
			t.Fatalf("NextTheme(%q) = %q, want %q", name, got, want)
		}
	}
	if got := NextTheme("unknown"); got != names[0] {
		t.Fatalf("NextTheme(unknown) = %q, want %q", got, names[0])
	}
}

func TestThemes_DefineEveryColor(t *testing.T) {
	for _, name := range ThemeNames() {
		th := GetTheme(name)
		for field, value := range map[string]string{
			"Background": th.Background, "Surface": th.Surface, "SelectionBg": th.SelectionBg,
			"Text": th.Text, "Muted": th.Muted, "Accent": th.Accent,
			"Warning": th.Warning, "Danger": th.Danger, "Info": th.Info,
		} {
			if !strings.HasPrefix(value, "#") {
				t.Errorf("%s.%s = %q, want hex color", name, field, value)
			}
		}
	}
}

func TestStyles_ChipAndFailure(t *testing.T) {
	styles := GetTheme("Slate").Styles()

	chip := styles.ChipStyle(colors.ColorFor("rust"))
	if got := chip.GetBackground(); got != lipgloss.Color(string(colors.ColorFor("rust"))) {
		t.Fatalf("chip background = %v", got)
	}
	if !strings.Contains(chip.Render("#rust"), "#rust") {
		t.Fatalf("chip lost its text")
	}

	tests := []struct {
		kind discovery.FailureKind
		want string
	}{
		{discovery.FailureBackend, "#ef4444"},
		{discovery.FailureTransport, "#ef4444"},
		{discovery.FailureInvalidQuery, "#f59e0b"},
		{discovery.FailureCanceled, "#94a3b8"},
	}
	for _, tt := range tests {
		if got := styles.FailureStyle(tt.kind).GetBackground(); got != lipgloss.Color(tt.want) {
			t.Errorf("FailureStyle(%v) background = %v, want %s", tt.kind, got, tt.want)
		}
	}
}

func TestBgStyle(t *testing.T) {
	bg := NewBgStyle("#000000")
	if bg.Render("", lipgloss.NewStyle()) != "" {
		t.Fatalf("Render of empty text should be empty")
	}
	if got := lipgloss.Width(bg.Render("a  b", lipgloss.NewStyle())); got != 4 {
		t.Fatalf("Render width = %d, want 4 (spaces preserved)", got)
	}
	if bg.Spaces(-1) != "" || lipgloss.Width(bg.Spaces(3)) != 3 {
		t.Fatalf("Spaces mismatch")
	}
	if got := lipgloss.Width(bg.FillLine("x", 10)); got != 10 {
		t.Fatalf("FillLine width = %d, want 10", got)
	}
	if got := bg.Join([]string{"a", "b"}, "|"); lipgloss.Width(got) != 3 {
		t.Fatalf("Join width = %d, want 3", lipgloss.Width(got))
	}
}

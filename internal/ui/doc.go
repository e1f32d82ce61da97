// Package ui provides the commons terminal interface, built on Bubble Tea.
//
// # Architecture Overview
//
// The screen is one discovery view: a search field, the inline tag composer,
// a category picker, and the result list for the current deep link. The deep
// link is the model's location. Every filter control produces a new
// filter.State, encodes it, pushes the link onto the back/forward stack and
// asks the discovery controller to resolve it.
//
// # Package Structure
//
//   - app.go: Model, Options, Init/Update/View and the Run entry points
//   - input.go: key routing for the list, the search field and the tag composer
//   - render.go: header, filter lines, result list and pager
//   - commands.go: tea.Msg types and the tea.Cmd functions that do I/O
//   - modal.go: the recent-links overlay
//   - help.go: keyboard shortcut overlay
//   - keys.go: key bindings (bubbles/key)
//   - theme.go, style_helpers.go: palettes and lipgloss helpers
//
// # Asynchronous Results
//
// Network work never runs in Update. Resolving a link returns a
// discovery.Task; a tea.Cmd waits on it and delivers the outcome back into
// the update loop, where Controller.Commit applies the sequence guard. A
// slow response for an abandoned link is therefore dropped even if it
// arrives after the response for the link now on screen.
//
// When a committed page lies past the last page its total allows, the model
// replaces the current link with the clamped page instead of adding a
// history entry.
//
// # Focus
//
// Focus is on the result list by default. "/" focuses the search field and
// "#" focuses the tag composer with a draft already started. Enter commits,
// Esc cancels; in the composer Esc first discards the draft and then leaves.
//
// # Themes
//
// Nightfox, Kanagawa and Slate ship built in. "T" cycles them and the choice
// is saved through the prefs package.
package ui

// Package compose implements the inline "#tag" composer used by every tag
// input in the client.
//
// A Composer is a two-state machine. While Idle the field accepts nothing but
// a "#" (typed or pasted); while Drafting it accepts tag characters
// [a-zA-Z0-9_-] into a draft buffer that Enter commits and Escape discards.
// Invalid keystrokes are swallowed, so the buffer can never hold an invalid
// tag and the composer has no error channel.
//
// Backspace on a non-empty buffer deletes one character and keeps drafting,
// even when that leaves the buffer empty. Backspace on an empty buffer deletes
// the "#" itself and returns to Idle. Every input site uses this one policy.
package compose

import (
	"slices"
	"strings"

	"github.com/five82/commons/internal/colors"
	"github.com/five82/commons/internal/filter"
)

// DefaultMaxLength matches the backend's tag name limit.
const DefaultMaxLength = 50

// Mode is the composer state.
type Mode int

const (
	Idle Mode = iota
	Drafting
)

func (m Mode) String() string {
	if m == Drafting {
		return "drafting"
	}
	return "idle"
}

// Draft is the uncommitted tag being typed.
type Draft struct {
	Active bool
	Buffer string
}

// Chip is a committed tag with its display color.
type Chip struct {
	Name  string
	Color colors.Color
}

// EventKind describes what a keystroke did.
type EventKind int

const (
	EventNone EventKind = iota
	EventStarted
	EventCommitted
	EventDiscarded
)

// Event is returned from HandleKey. Tag is set for EventCommitted.
type Event struct {
	Kind EventKind
	Tag  string
}

// Options configure a Composer.
type Options struct {
	// MaxLength caps the draft buffer in runes. Zero uses DefaultMaxLength.
	MaxLength int
	// Tags seeds the committed tag set.
	Tags []string
}

// Composer is one tag input's state machine. It is not safe for concurrent use.
type Composer struct {
	mode   Mode
	buffer []rune
	tags   []string
	maxLen int
}

// New returns an Idle composer.
func New(opts Options) *Composer {
	maxLen := opts.MaxLength
	if maxLen <= 0 {
		maxLen = DefaultMaxLength
	}
	c := &Composer{maxLen: maxLen}
	c.SetTags(opts.Tags)
	return c
}

// HandleKey feeds one keystroke (or paste) into the state machine.
func (c *Composer) HandleKey(k Key) Event {
	switch c.mode {
	case Drafting:
		return c.handleDrafting(k)
	default:
		return c.handleIdle(k)
	}
}

func (c *Composer) handleIdle(k Key) Event {
	switch k.Kind {
	case KeyRune:
		if k.Rune != '#' {
			return Event{}
		}
		c.startDraft("")
		return Event{Kind: EventStarted}
	case KeyPaste:
		i := strings.LastIndexByte(k.Text, '#')
		if i < 0 {
			return Event{}
		}
		c.startDraft(k.Text[i+1:])
		return Event{Kind: EventStarted}
	}
	return Event{}
}

func (c *Composer) handleDrafting(k Key) Event {
	switch k.Kind {
	case KeyRune:
		c.appendAllowed(string(k.Rune))
	case KeyPaste:
		c.appendAllowed(k.Text)
	case KeyBackspace:
		if len(c.buffer) == 0 {
			c.reset()
			return Event{Kind: EventDiscarded}
		}
		c.buffer = c.buffer[:len(c.buffer)-1]
	case KeyEnter:
		tag := filter.NormalizeTag(string(c.buffer))
		c.reset()
		if tag == "" || slices.Contains(c.tags, tag) {
			return Event{Kind: EventDiscarded}
		}
		c.tags = append(c.tags, tag)
		return Event{Kind: EventCommitted, Tag: tag}
	case KeyEscape:
		c.reset()
		return Event{Kind: EventDiscarded}
	}
	return Event{}
}

func (c *Composer) startDraft(seed string) {
	c.mode = Drafting
	c.buffer = c.buffer[:0]
	c.appendAllowed(seed)
}

func (c *Composer) appendAllowed(text string) {
	for _, r := range text {
		if len(c.buffer) >= c.maxLen {
			return
		}
		if allowed(r) {
			c.buffer = append(c.buffer, r)
		}
	}
}

func (c *Composer) reset() {
	c.mode = Idle
	c.buffer = nil
}

func allowed(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '_', r == '-':
		return true
	}
	return false
}

// Blur drops any draft, as when the input loses focus.
func (c *Composer) Blur() {
	c.reset()
}

// Mode returns the current state.
func (c *Composer) Mode() Mode {
	return c.mode
}

// Draft returns the current draft; Active is false while Idle.
func (c *Composer) Draft() Draft {
	if c.mode != Drafting {
		return Draft{}
	}
	return Draft{Active: true, Buffer: string(c.buffer)}
}

// Text is what the input field shows: "#" plus the buffer while drafting.
func (c *Composer) Text() string {
	if c.mode != Drafting {
		return ""
	}
	return "#" + string(c.buffer)
}

// SetTags replaces the committed tag set. The draft is untouched.
func (c *Composer) SetTags(tags []string) {
	c.tags = c.tags[:0]
	for _, t := range tags {
		t = filter.NormalizeTag(t)
		if t == "" || slices.Contains(c.tags, t) {
			continue
		}
		c.tags = append(c.tags, t)
	}
}

// Tags returns a copy of the committed tags in commit order.
func (c *Composer) Tags() []string {
	return slices.Clone(c.tags)
}

// Remove deletes a committed tag regardless of state.
func (c *Composer) Remove(tag string) bool {
	tag = filter.NormalizeTag(tag)
	i := slices.Index(c.tags, tag)
	if i < 0 {
		return false
	}
	c.tags = slices.Delete(c.tags, i, i+1)
	return true
}

// Chips returns the committed tags with their display colors.
func (c *Composer) Chips() []Chip {
	chips := make([]Chip, len(c.tags))
	for i, t := range c.tags {
		chips[i] = Chip{Name: t, Color: colors.ColorFor(t)}
	}
	return chips
}

// Suggest returns up to limit names from known that start with the draft
// buffer and are not committed yet.
func (c *Composer) Suggest(known []string, limit int) []string {
	if c.mode != Drafting || limit <= 0 {
		return nil
	}
	prefix := strings.ToLower(string(c.buffer))
	var out []string
	for _, name := range known {
		name = filter.NormalizeTag(name)
		if !strings.HasPrefix(name, prefix) || slices.Contains(c.tags, name) || slices.Contains(out, name) {
			continue
		}
		out = append(out, name)
		if len(out) == limit {
			break
		}
	}
	return out
}

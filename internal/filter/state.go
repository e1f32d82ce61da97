package filter

import (
	"slices"
	"strings"
)

// State fully determines one discovery query.
//
// A normalized State has a trimmed Keyword, lowercase unique sorted Tags, a
// positive CategoryID when HasCategory is set, and Page >= 1. States are
// values: every transition returns a new State and leaves the receiver alone.
type State struct {
	Keyword     string
	Tags        []string
	CategoryID  int
	HasCategory bool
	Page        int
}

// Default returns the state an empty deep link decodes to.
func Default() State {
	return State{Page: 1}
}

// Normalize applies the State invariants.
func Normalize(s State) State {
	out := State{
		Keyword: strings.TrimSpace(s.Keyword),
		Tags:    normalizeTags(s.Tags),
		Page:    s.Page,
	}
	if s.HasCategory && s.CategoryID > 0 {
		out.CategoryID = s.CategoryID
		out.HasCategory = true
	}
	if out.Page < 1 {
		out.Page = 1
	}
	return out
}

// NormalizeTag trims and lowercases one tag name.
func NormalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

func normalizeTags(tags []string) []string {
	var out []string
	for _, raw := range tags {
		for _, part := range strings.Split(raw, ",") {
			tag := NormalizeTag(part)
			if tag == "" || slices.Contains(out, tag) {
				continue
			}
			out = append(out, tag)
		}
	}
	slices.Sort(out)
	return out
}

// Equal reports whether two states describe the same query.
func (s State) Equal(other State) bool {
	a, b := Normalize(s), Normalize(other)
	return a.Keyword == b.Keyword &&
		a.HasCategory == b.HasCategory &&
		a.CategoryID == b.CategoryID &&
		a.Page == b.Page &&
		slices.Equal(a.Tags, b.Tags)
}

// Filtered reports whether tag or category filters are set.
func (s State) Filtered() bool {
	return len(s.Tags) > 0 || (s.HasCategory && s.CategoryID > 0)
}

// HasTag reports whether tag (normalized) is in the tag set.
func (s State) HasTag(tag string) bool {
	return slices.Contains(s.Tags, NormalizeTag(tag))
}

// WithKeyword returns a copy searching for keyword, back on page 1.
func (s State) WithKeyword(keyword string) State {
	next := s.clone()
	next.Keyword = keyword
	next.Page = 1
	return Normalize(next)
}

// WithTag returns a copy with tag added, back on page 1.
func (s State) WithTag(tag string) State {
	next := s.clone()
	next.Tags = append(next.Tags, tag)
	next.Page = 1
	return Normalize(next)
}

// WithoutTag returns a copy with tag removed, back on page 1.
func (s State) WithoutTag(tag string) State {
	tag = NormalizeTag(tag)
	next := s.clone()
	next.Tags = slices.DeleteFunc(next.Tags, func(t string) bool { return NormalizeTag(t) == tag })
	next.Page = 1
	return Normalize(next)
}

// WithCategory returns a copy restricted to one category, back on page 1.
// Non-positive ids clear the category.
func (s State) WithCategory(id int) State {
	if id <= 0 {
		return s.WithoutCategory()
	}
	next := s.clone()
	next.CategoryID = id
	next.HasCategory = true
	next.Page = 1
	return Normalize(next)
}

// WithoutCategory returns a copy with the category filter removed, back on page 1.
func (s State) WithoutCategory() State {
	next := s.clone()
	next.CategoryID = 0
	next.HasCategory = false
	next.Page = 1
	return Normalize(next)
}

// WithPage returns a copy on page p (clamped to >= 1).
func (s State) WithPage(p int) State {
	next := s.clone()
	next.Page = p
	return Normalize(next)
}

// Cleared returns the default state.
func (s State) Cleared() State {
	return Default()
}

func (s State) clone() State {
	s.Tags = slices.Clone(s.Tags)
	return s
}

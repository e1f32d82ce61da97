// Package filter holds the discovery filter state and its deep-link codec.
//
// The deep link is a query string with four parameters:
//
//	q        free-text keyword
//	tag      comma-joined tag names
//	category numeric category id
//	page     1-based page number
//
// Decode never fails; malformed values fall back to their defaults. Encode
// omits defaults so equivalent states always produce the same link.
package filter

import (
	"net/url"
	"strconv"
	"strings"
)

// Deep-link parameter names.
const (
	ParamKeyword  = "q"
	ParamTag      = "tag"
	ParamCategory = "category"
	ParamPage     = "page"
)

// Decode parses a query string, a "?"-prefixed query, or a full URL.
func Decode(raw string) State {
	values := parseQuery(raw)

	s := State{
		Keyword: values.Get(ParamKeyword),
		Tags:    values[ParamTag],
		Page:    1,
	}
	if v := strings.TrimSpace(values.Get(ParamCategory)); v != "" {
		if id, err := strconv.Atoi(v); err == nil && id > 0 {
			s.CategoryID = id
			s.HasCategory = true
		}
	}
	if v := strings.TrimSpace(values.Get(ParamPage)); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			s.Page = p
		}
	}
	return Normalize(s)
}

// Encode renders s as a minimal query string without a leading "?".
// Parameters appear in a fixed order; the default state encodes to "".
func Encode(s State) string {
	s = Normalize(s)
	var parts []string
	if s.HasCategory {
		parts = append(parts, ParamCategory+"="+strconv.Itoa(s.CategoryID))
	}
	if s.Page > 1 {
		parts = append(parts, ParamPage+"="+strconv.Itoa(s.Page))
	}
	if s.Keyword != "" {
		parts = append(parts, ParamKeyword+"="+url.QueryEscape(s.Keyword))
	}
	if len(s.Tags) > 0 {
		escaped := make([]string, len(s.Tags))
		for i, tag := range s.Tags {
			escaped[i] = url.QueryEscape(tag)
		}
		parts = append(parts, ParamTag+"="+strings.Join(escaped, ","))
	}
	return strings.Join(parts, "&")
}

// parseQuery extracts query values from raw, keeping whatever pairs parse.
func parseQuery(raw string) url.Values {
	raw = strings.TrimSpace(raw)
	if i := strings.IndexByte(raw, '#'); i >= 0 {
		raw = raw[:i]
	}
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		raw = raw[i+1:]
	}
	values, _ := url.ParseQuery(raw)
	if values == nil {
		values = url.Values{}
	}
	return values
}

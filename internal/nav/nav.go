// Package nav keeps a browser-style back/forward stack of deep links.
package nav

// DefaultCapacity bounds how many links are remembered.
const DefaultCapacity = 100

// History is a linear back/forward stack. It is not safe for concurrent use.
type History struct {
	entries  []string
	index    int
	capacity int
}

// New returns a History positioned at initial.
func New(initial string, capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &History{entries: []string{initial}, capacity: capacity}
}

// Current returns the link at the cursor.
func (h *History) Current() string {
	return h.entries[h.index]
}

// Push records link as the new current location and drops any forward
// entries. Pushing the current link again is a no-op and reports false.
func (h *History) Push(link string) bool {
	if link == h.Current() {
		return false
	}
	h.entries = append(h.entries[:h.index+1], link)
	if over := len(h.entries) - h.capacity; over > 0 {
		h.entries = h.entries[over:]
	}
	h.index = len(h.entries) - 1
	return true
}

// Replace swaps the current link without adding an entry, as when a page
// number is corrected after the fact.
func (h *History) Replace(link string) {
	h.entries[h.index] = link
}

// Back moves the cursor one entry back.
func (h *History) Back() (string, bool) {
	if !h.CanBack() {
		return h.Current(), false
	}
	h.index--
	return h.Current(), true
}

// Forward moves the cursor one entry forward.
func (h *History) Forward() (string, bool) {
	if !h.CanForward() {
		return h.Current(), false
	}
	h.index++
	return h.Current(), true
}

func (h *History) CanBack() bool    { return h.index > 0 }
func (h *History) CanForward() bool { return h.index < len(h.entries)-1 }

// Len returns the number of remembered links.
func (h *History) Len() int {
	return len(h.entries)
}

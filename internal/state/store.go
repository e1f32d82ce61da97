package state

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/five82/commons/internal/filter"
	"github.com/five82/commons/internal/forum"
)

// Result is one completed discovery request, successful or not.
type Result struct {
	Seq      uint64
	State    filter.State
	Page     forum.ResultPage
	Strategy string
	Err      error
}

// Snapshot represents the committed view available to the UI.
type Snapshot struct {
	// Seq is the highest sequence number received so far.
	Seq uint64
	// State and Page describe the last committed success.
	State    filter.State
	Page     forum.ResultPage
	HasPage  bool
	Strategy string
	// FailedState is the query that produced LastError.
	FailedState         filter.State
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int
}

// IsOffline returns true when the API has failed several requests in a row.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store is the single mutable cell holding the committed view.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Commit applies r if its sequence number is higher than every result
// committed before it and reports whether it did. Stale results, successes
// and failures alike, leave the store untouched. A failure keeps the
// previous page and records the error beside it.
func (s *Store) Commit(r Result) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.Seq <= s.snapshot.Seq {
		return false
	}
	s.snapshot.Seq = r.Seq
	s.snapshot.LastUpdated = time.Now()

	if r.Err != nil {
		s.snapshot.LastError = r.Err
		s.snapshot.FailedState = cloneState(r.State)
		s.snapshot.ConsecutiveFailures++
		return true
	}

	s.snapshot.State = cloneState(r.State)
	s.snapshot.Page = clonePage(r.Page)
	s.snapshot.HasPage = true
	s.snapshot.Strategy = r.Strategy
	s.snapshot.LastError = nil
	s.snapshot.FailedState = filter.State{}
	s.snapshot.ConsecutiveFailures = 0
	return true
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.State = cloneState(s.snapshot.State)
	snap.FailedState = cloneState(s.snapshot.FailedState)
	snap.Page = clonePage(s.snapshot.Page)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneState(st filter.State) filter.State {
	st.Tags = slices.Clone(st.Tags)
	return st
}

func clonePage(p forum.ResultPage) forum.ResultPage {
	if len(p.Items) == 0 {
		p.Items = nil
		return p
	}
	items := make([]forum.ThreadSummary, len(p.Items))
	for i, item := range p.Items {
		item.Tags = slices.Clone(item.Tags)
		items[i] = item
	}
	p.Items = items
	return p
}

package state

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/five82/commons/internal/filter"
	"github.com/five82/commons/internal/forum"
)

func page(ids ...int64) forum.ResultPage {
	p := forum.ResultPage{Page: 1, Total: len(ids), HasTotal: true}
	for _, id := range ids {
		p.Items = append(p.Items, forum.ThreadSummary{ID: id, Tags: []string{"t"}})
	}
	return p
}

func TestStore_CommitAndSnapshotClone(t *testing.T) {
	var s Store

	st := filter.Default().WithTag("cs101")
	before := time.Now()
	if !s.Commit(Result{Seq: 1, State: st, Page: page(1, 2), Strategy: "list"}) {
		t.Fatalf("Commit(seq 1) = false, want true")
	}

	snap := s.Snapshot()
	if !snap.HasPage || len(snap.Page.Items) != 2 || snap.Page.Items[0].ID != 1 {
		t.Fatalf("snapshot page = %#v", snap.Page)
	}
	if snap.Seq != 1 || snap.Strategy != "list" || !snap.State.Equal(st) {
		t.Fatalf("snapshot meta = seq %d strategy %q state %#v", snap.Seq, snap.Strategy, snap.State)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}

	// Returned snapshot should be independent of the stored one.
	snap.Page.Items[0].ID = 999
	snap.Page.Items[1].Tags[0] = "mutated"
	snap.State.Tags[0] = "mutated"
	snap2 := s.Snapshot()
	if snap2.Page.Items[0].ID != 1 || snap2.Page.Items[1].Tags[0] != "t" || snap2.State.Tags[0] != "cs101" {
		t.Fatalf("Snapshot should clone; got %#v", snap2)
	}
}

func TestStore_DropsStaleResults(t *testing.T) {
	var s Store

	// R2 completes before R1.
	if !s.Commit(Result{Seq: 2, Page: page(20)}) {
		t.Fatalf("Commit(seq 2) = false")
	}
	if s.Commit(Result{Seq: 1, Page: page(10)}) {
		t.Fatalf("Commit(seq 1) after seq 2 = true, want false")
	}
	if s.Commit(Result{Seq: 2, Page: page(30)}) {
		t.Fatalf("Commit of repeated seq = true, want false")
	}
	if s.Commit(Result{Seq: 1, Err: errors.New("late failure")}) {
		t.Fatalf("stale failure committed")
	}

	snap := s.Snapshot()
	if got := snap.Page.IDs(); !reflect.DeepEqual(got, []int64{20}) {
		t.Fatalf("committed IDs = %v, want [20]", got)
	}
	if snap.LastError != nil {
		t.Fatalf("LastError = %v, want nil", snap.LastError)
	}
}

func TestStore_FailureKeepsPreviousPage(t *testing.T) {
	var s Store

	s.Commit(Result{Seq: 1, Page: page(1)})
	prev := s.Snapshot()

	origErr := errors.New("boom")
	failed := filter.Default().WithKeyword("exam")
	if !s.Commit(Result{Seq: 2, State: failed, Err: origErr}) {
		t.Fatalf("Commit(failure) = false, want true")
	}

	snap := s.Snapshot()
	if !reflect.DeepEqual(snap.Page, prev.Page) || !snap.HasPage {
		t.Fatalf("page changed on error: got %#v want %#v", snap.Page, prev.Page)
	}
	if snap.LastError == nil || snap.LastError.Error() != "boom" || !errors.Is(snap.LastError, origErr) {
		t.Fatalf("LastError = %v, want boom", snap.LastError)
	}
	if reflect.ValueOf(snap.LastError).Pointer() == reflect.ValueOf(origErr).Pointer() {
		t.Fatalf("Snapshot should clone error instance")
	}
	if !snap.FailedState.Equal(failed) {
		t.Fatalf("FailedState = %#v, want %#v", snap.FailedState, failed)
	}

	// A newer success clears the failure.
	s.Commit(Result{Seq: 3, Page: page(3)})
	snap = s.Snapshot()
	if snap.LastError != nil || snap.FailedState.Keyword != "" {
		t.Fatalf("failure not cleared: %#v", snap)
	}
}

func TestStore_ConsecutiveFailures(t *testing.T) {
	var s Store

	snap := s.Snapshot()
	if snap.ConsecutiveFailures != 0 || snap.IsOffline() {
		t.Fatalf("zero store: failures=%d offline=%v", snap.ConsecutiveFailures, snap.IsOffline())
	}

	tests := []struct {
		seq         uint64
		err         error
		wantFails   int
		wantOffline bool
	}{
		{1, errors.New("fail 1"), 1, false},
		{2, errors.New("fail 2"), 2, true},
		{3, errors.New("fail 3"), 3, true},
		{4, nil, 0, false},
	}
	for _, tt := range tests {
		s.Commit(Result{Seq: tt.seq, Err: tt.err})
		snap = s.Snapshot()
		if snap.ConsecutiveFailures != tt.wantFails {
			t.Fatalf("seq %d: ConsecutiveFailures = %d, want %d", tt.seq, snap.ConsecutiveFailures, tt.wantFails)
		}
		if snap.IsOffline() != tt.wantOffline {
			t.Fatalf("seq %d: IsOffline() = %v, want %v", tt.seq, snap.IsOffline(), tt.wantOffline)
		}
	}
}

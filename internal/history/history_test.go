package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T, limit int) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "history.db"), limit)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func links(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Link
	}
	return out
}

func TestStore_RecentOrderAndDedupe(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, 0)
	now := time.Date(2026, 2, 21, 12, 0, 0, 0, time.UTC)

	steps := []string{"q=exam", "tag=rust", "category=3", "q=exam"}
	for i, link := range steps {
		if err := s.Record(ctx, link, "label "+link, now.Add(time.Duration(i)*time.Minute)); err != nil {
			t.Fatalf("Record(%q) error = %v", link, err)
		}
	}

	entries, err := s.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	got := links(entries)
	want := []string{"q=exam", "category=3", "tag=rust"}
	if len(got) != len(want) {
		t.Fatalf("links = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("links = %v, want %v", got, want)
		}
	}
	if entries[0].Visits != 2 || !entries[0].VisitedAt.Equal(now.Add(3*time.Minute)) {
		t.Fatalf("first entry = %#v", entries[0])
	}

	limited, err := s.Recent(ctx, 1)
	if err != nil || len(limited) != 1 {
		t.Fatalf("Recent(1) = %v, %v", limited, err)
	}
}

func TestStore_PrunesToLimit(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, 2)
	now := time.Now()

	for i, link := range []string{"a=1", "b=2", "c=3"} {
		if err := s.Record(ctx, link, "", now.Add(time.Duration(i)*time.Second)); err != nil {
			t.Fatalf("Record error = %v", err)
		}
	}
	entries, err := s.Recent(ctx, 0)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if got := links(entries); len(got) != 2 || got[0] != "c=3" || got[1] != "b=2" {
		t.Fatalf("links = %v, want [c=3 b=2]", got)
	}
}

func TestStore_SkipsEmptyLinkAndClears(t *testing.T) {
	ctx := context.Background()
	s, err := Open(":memory:", 0)
	if err != nil {
		t.Fatalf("Open(:memory:) error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	if err := s.Record(ctx, "  ", "", time.Now()); err != nil {
		t.Fatalf("Record(empty) error = %v", err)
	}
	if err := s.Record(ctx, "q=x", "", time.Now()); err != nil {
		t.Fatalf("Record error = %v", err)
	}
	entries, _ := s.Recent(ctx, 0)
	if len(entries) != 1 {
		t.Fatalf("entries = %v, want only q=x", links(entries))
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	entries, _ = s.Recent(ctx, 0)
	if len(entries) != 0 {
		t.Fatalf("entries after Clear = %v", links(entries))
	}
}

func TestStore_PersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.db")

	s, err := Open(path, 0)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := s.Record(ctx, "tag=go", "#go", time.Now()); err != nil {
		t.Fatalf("Record error = %v", err)
	}
	_ = s.Close()

	s, err = Open(path, 0)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	entries, err := s.Recent(ctx, 0)
	if err != nil || len(entries) != 1 || entries[0].Label != "#go" {
		t.Fatalf("Recent after reopen = %#v, %v", entries, err)
	}
}

package discovery

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/five82/commons/internal/forum"
)

func TestLastPageAndClamp(t *testing.T) {
	tests := []struct {
		page, total, size int
		wantLast          int
		wantClamp         int
	}{
		{1, 0, 20, 1, 1},
		{0, 45, 20, 3, 1},
		{3, 45, 20, 3, 3},
		{9, 45, 20, 3, 3},
		{2, 40, 20, 2, 2},
		{5, 41, 20, 3, 3},
		{4, 100, 0, 1, 1},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d/%d/%d", tt.page, tt.total, tt.size), func(t *testing.T) {
			if got := LastPage(tt.total, tt.size); got != tt.wantLast {
				t.Fatalf("LastPage = %d, want %d", got, tt.wantLast)
			}
			if got := ClampPage(tt.page, tt.total, tt.size); got != tt.wantClamp {
				t.Fatalf("ClampPage = %d, want %d", got, tt.wantClamp)
			}
		})
	}
}

func TestCanNextCanPrev(t *testing.T) {
	full := make([]forum.ThreadSummary, 20)

	tests := []struct {
		name string
		page forum.ResultPage
		want bool
	}{
		{"known total, more pages", forum.ResultPage{Page: 1, Total: 21, HasTotal: true}, true},
		{"known total, last page", forum.ResultPage{Page: 2, Total: 21, HasTotal: true}, false},
		{"unknown total, full page", forum.ResultPage{Page: 1, Items: full}, true},
		{"unknown total, short page", forum.ResultPage{Page: 1, Items: full[:3]}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanNext(tt.page, 20); got != tt.want {
				t.Fatalf("CanNext = %v, want %v", got, tt.want)
			}
		})
	}

	if CanPrev(1) || !CanPrev(2) {
		t.Fatalf("CanPrev wrong")
	}
	if !OutOfRange(forum.ResultPage{Page: 4, Total: 45, HasTotal: true}, 20) {
		t.Fatalf("page 4 of 3 not reported out of range")
	}
	if OutOfRange(forum.ResultPage{Page: 4}, 20) {
		t.Fatalf("unknown total reported out of range")
	}
}

func TestClassify(t *testing.T) {
	dialErr := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}

	tests := []struct {
		name    string
		err     error
		kind    FailureKind
		message string
	}{
		{"nil", nil, FailureNone, ""},
		{"transport", fmt.Errorf("list threads: execute request: %w", dialErr), FailureTransport, "Could not reach the forum: connection refused"},
		{"backend with payload", fmt.Errorf("search threads: %w", &forum.APIError{Status: 400, Code: "Search query is required"}), FailureBackend, "Forum returned 400: Search query is required"},
		{"backend bare", &forum.APIError{Status: 503}, FailureBackend, "Forum returned 503: Service Unavailable"},
		{"malformed", fmt.Errorf("list threads: %w: thread page", forum.ErrMalformed), FailureMalformed, "Forum sent a response commons could not read."},
		{"invalid", fmt.Errorf("%w: too long", ErrInvalidQuery), FailureInvalidQuery, "Search keyword is too long (max 100 characters)."},
		{"canceled", fmt.Errorf("execute request: %w", context.Canceled), FailureCanceled, "Request cancelled."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			if got.Kind != tt.kind || got.Message != tt.message {
				t.Fatalf("Classify = %#v, want kind %v message %q", got, tt.kind, tt.message)
			}
		})
	}
}

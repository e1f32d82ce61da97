package app

import (
	"context"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/five82/commons/internal/state"
	"github.com/five82/commons/internal/ui"
)

// maxBackoff caps the refresh delay while the forum keeps failing.
const maxBackoff = 30 * time.Second

// sender is the part of *tea.Program the refresher needs.
type sender interface {
	Send(msg tea.Msg)
}

type snapshotter interface {
	Snapshot() state.Snapshot
}

// StartRefresher asks the UI to re-resolve its current link every interval,
// backing off while requests fail. A non-positive interval disables it. It
// returns immediately; the goroutine stops with ctx.
func StartRefresher(ctx context.Context, p sender, view snapshotter, interval time.Duration, logger *log.Logger) {
	if interval <= 0 {
		return
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	go func() {
		for {
			failures := view.Snapshot().ConsecutiveFailures
			wait := calculateBackoff(failures, interval)
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
			logger.Debug("refreshing view", "waited", wait, "failures", failures)
			p.Send(ui.RefreshMsg{})
		}
	}()
}

// calculateBackoff doubles base for every consecutive failure, up to maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	d := base
	for i := 0; i < failures && d < maxBackoff; i++ {
		d *= 2
	}
	return min(d, maxBackoff)
}

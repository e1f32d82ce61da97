package app

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

func parseLevel(level string) log.Level {
	lvl, err := log.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// NewConsoleLogger logs human-readable lines to w, for one-shot commands.
func NewConsoleLogger(w io.Writer, level string) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           parseLevel(level),
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Formatter:       log.TextFormatter,
	})
}

// OpenFileLogger logs logfmt lines to path, which keeps the terminal free
// while the TUI owns it. An empty path discards everything. The returned
// function closes the file.
func OpenFileLogger(path, level string) (*log.Logger, func() error, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return log.New(io.Discard), func() error { return nil }, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := log.NewWithOptions(f, log.Options{
		Level:           parseLevel(level),
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Formatter:       log.LogfmtFormatter,
	})
	return logger, f.Close, nil
}

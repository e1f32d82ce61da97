// Package app is the composition root for commons.
//
// # Overview
//
// Build turns a config.Config into a Stack: the rate-limited forum client,
// a Prometheus registry, and the discovery controller that owns the
// committed view. The TUI (Run) and the one-shot CLI commands share it, so
// both resolve filter states the same way.
//
// # Components
//
//   - app.go: Options, Stack, Build and the TUI entry point Run
//   - poller.go: background refresher with failure backoff
//   - logging.go: console and file loggers (charmbracelet/log)
//   - metrics.go: chi router and server exposing /metrics and /healthz
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       ├─────> config.Load()          Read ~/.config/commons/config.toml
//	       ├─────> OpenFileLogger()       logfmt file, or discard
//	       ├─────> Build()                forum client + controller + registry
//	       ├─────> Stack.OpenHistory()    recent links (optional)
//	       ├─────> StartMetricsServer()   when [metrics].listen is set
//	       ├─────> StartRefresher()       when refresh_seconds > 0
//	       └─────> tea.Program.Run()      blocks until quit
//
// # Refresh Behavior
//
// The refresher never fetches on its own. Every interval it sends
// ui.RefreshMsg into the program, and the model re-resolves whatever link is
// on screen through the same sequence guard as user actions. While requests
// fail the wait doubles per consecutive failure, capped at 30 seconds.
//
// # Error Handling
//
// Fatal (returned from Run): an unreadable or invalid config, an unusable
// base URL, a log file or metrics address that cannot be opened.
//
// Recoverable (logged, the TUI keeps running): a history database that
// cannot be opened, unreadable prefs, and every forum request failure, which
// the UI shows as a banner above the last good page.
package app

// Package config loads the commons TOML configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/commons/config.toml (default)
//  3. If the config file doesn't exist, fall back to defaults
//  4. If the file exists but fields are missing/empty, use defaults
//  5. COMMONS_API_TOKEN, when set, replaces api.token
//
// A file that parses but holds invalid values (a page size over 100, an
// unknown log level) is rejected with every problem listed.
//
// # TOML Format
//
//	[api]
//	base_url = "https://forum.example.edu/api/"
//	token = ""
//	timeout_seconds = 10
//	requests_per_second = 5
//	burst = 5
//
//	[discovery]
//	page_size = 20
//	refresh_seconds = 0
//
//	[viewer]
//	username = "ana"
//	admin = false
//	include_deleted = false
//
//	[history]
//	path = "~/.local/share/commons/history.db"
//	limit = 50
//
//	[logging]
//	level = "info"
//	file = "~/.local/state/commons/commons.log"
//
//	[metrics]
//	listen = "127.0.0.1:9464"
package config

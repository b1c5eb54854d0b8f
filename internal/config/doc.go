// Package config handles loading and parsing the folio configuration file.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use $XDG_CONFIG_HOME/folio/config.toml (default)
//  3. If the config file doesn't exist, fall back to built-in defaults
//  4. If the file exists but keys are missing, keep the defaults for them
//
// # Example
//
//	page = "~/site/index.md"
//	poll = "2s"
//	log_file = "~/.local/state/folio/folio.log"
//
//	[theme]
//	fallback = "system"       # or "dark"
//
//	[spy]                     # page navigation
//	policy = "first"          # or "ratio"
//	margin = "-40% 0px -55% 0px"
//	thresholds = [0.01]
//	delivery = "batched"      # or "single"
//
//	[dialog_spy]              # dialog sub-navigation
//	policy = "ratio"
//	margin = "0px 0px -40% 0px"
//	thresholds = [0, 0.25, 0.5, 0.75, 1]
//
//	[reveal]
//	threshold = 0.15
//	stagger = "60ms"
//	max_delay = "360ms"
//	reduced_motion = false
//
//	[toast]
//	duration = "2.2s"
//
// # Error Handling
//
// A missing file is not an error. Unreadable files, invalid TOML and invalid
// values (unknown policy, malformed margin, out of range thresholds,
// unparseable durations) are returned wrapped with the offending key.
package config

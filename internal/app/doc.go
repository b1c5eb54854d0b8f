// Package app provides the orchestration layer for folio.
//
// # Overview
//
// This package wires together configuration, logging, the document store,
// the reload poller and the UI. It is the composition root where all
// dependencies are initialized and connected.
//
// # Startup
//
//  1. Load config.toml; command-line options override it
//  2. Open the structured log file (discarded when no path is set)
//  3. Parse the page document once; a failure here is fatal
//  4. Launch the background poller
//  5. Start the TUI and block until the user quits or the context ends
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │ Initialize everything
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()     Read folio config
//	       ├─────> newLogger()       slog text handler on the log file
//	       ├─────> state.Store{}     Shared document snapshot
//	       ├─────> reloader.refresh  Initial parse
//	       ├─────> StartPoller()     Reload on change
//	       └─────> ui.Run()          Start TUI (blocks)
//
// # Polling Behavior
//
// The poller stats the document every interval (default 2 seconds) and
// re-parses it only when its modification time changed. While reloads fail
// the store keeps the last good document and the interval doubles per
// consecutive failure, capped at 30 seconds. The UI reads snapshots at its
// own rate and rebuilds the page whenever the snapshot version moves.
package app

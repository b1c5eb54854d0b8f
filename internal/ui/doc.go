// Package ui provides the terminal page viewer for folio.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program. Model is a value type, so everything that
// must survive a copy lives behind a pointer: the page body (a viewport
// that doubles as the scroll-spy scope), the spy contexts, the reveal
// tracker, the dialog manager and the toast.
//
// # Package Structure
//
//   - app.go: Model, Init/Update/View, document loading and Run
//   - input_handlers.go: keyboard and mouse handling
//   - scope.go: scrollBody, a viewport implementing spy.Scope and spy.Scroller
//   - navigation.go: nav bar and the compact section menu
//   - modal.go: dialogView, the dialog.Dialog shown as a centered box
//   - header.go, view.go, help.go: rendering
//   - status.go: toast feedback and effects queued from callbacks
//   - theme.go, keys.go, layout.go: styles, bindings and geometry constants
//
// # Event Flow
//
//  1. Init fetches a snapshot from state.Store and starts the UI tick
//  2. A new snapshot version rebuilds the page: open dialogs close, the old
//     page spy and reveal tracker stop, fresh ones start on the new layout
//  3. Every scroll, resize or animation frame notifies the active context,
//     which updates the nav highlight through its observer
//  4. Callbacks that fire during Update (reveal timers, copy feedback) queue
//     commands on effects, which Update returns as one batch
//
// # Key Bindings
//
//   - j/k, g/G, pgup/pgdown, ctrl+u/d: Scroll the page or open dialog
//   - ]/[: Next/previous section
//   - tab/shift+tab, enter: Focus and follow links
//   - m: Section menu on narrow terminals
//   - T: Toggle light/dark theme (persisted)
//   - esc: Close menu or dialog
//   - ?: Help
//   - q or Ctrl+C: Exit
package ui

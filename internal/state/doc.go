// Package state provides thread-safe state management for folio.
//
// # Overview
//
// The Store shares the most recently parsed document between the background
// reload poller and the UI. The poller writes, the UI reads snapshots on its
// own tick.
//
//	Producer (Poller):             Consumer (UI):
//	┌────────────────┐            ┌─────────────────┐
//	│ stat + parse   │            │                 │
//	│      ↓         │            │                 │
//	│ store.Update() │───────────→│ store.Snapshot()│
//	│      ↓         │  (mutex)   │      ↓          │
//	│  repeat...     │            │ relayout + spy  │
//	└────────────────┘            └─────────────────┘
//
// # Update Semantics
//
//	store.Update(doc, modTime, nil)   replace document, Version++
//	store.Update(nil, time.Time{}, err)  keep document, record error
//	store.Touch()                     file unchanged, clear errors
//
// The UI compares Version against the one it rendered to decide whether to
// rebuild its layout and restart its scroll-spy contexts.
//
// # Sharing
//
// Documents are immutable once parsed, so snapshots share the pointer. Errors
// are wrapped on read so callers never hold the stored instance.
//
// The zero value Store is ready to use.
package state

// Package spy implements scroll-spy: tracking which of a fixed set of
// regions is in view inside a scroll scope and keeping exactly one matching
// navigation control marked active.
//
// # Components
//
//   - Observer: computes region/viewport intersections on Notify and reports
//     only the regions whose state changed since their last report.
//   - Resolver: applies a tie-break Policy to a batch of events and moves the
//     active flag between controls.
//   - Context: binds one Observer and one Resolver to a Scope and an ordered
//     set of (Region, NavControl) pairs, and owns their start/stop lifecycle.
//
// # Tie-break policies
//
//	FirstIntersecting  first intersecting event in the batch wins
//	HighestRatio       largest visibility ratio wins, earliest on ties
//
// Both policies ignore events that are not intersecting, so once a control
// has been activated the active flag only ever moves; it never returns to
// none while the context runs.
//
// # Threading
//
// Nothing in this package takes locks. Contexts are meant to be driven from
// a single event loop (the Bubble Tea update goroutine in folio). Stop may be
// called at any time, including from inside an OnChange callback; callbacks
// never fire after it returns.
//
// # Degraded mode
//
// When the scope cannot be measured, or Config.Instant is set, Start marks
// the first pair active and does not observe. Clicks still scroll and move
// the active flag directly.
package spy

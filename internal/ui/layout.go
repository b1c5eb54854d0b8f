package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which the nav bar collapses
	// into a menu.
	LayoutCompactWidth = 90

	// DialogMaxWidth caps the dialog box width on wide terminals.
	DialogMaxWidth = 76
)

// Screen rows outside the page body.
const (
	headerHeight = 2 // title/nav row and rule
	footerHeight = 1
)

// Dialog chrome: border rows plus title, sub-nav and rule rows.
const (
	dialogChromeRows = 5
	dialogBodyTop    = 4 // body offset from the top border row
	dialogInset      = 2 // border plus horizontal padding
)

// Scrolling.
const (
	// WheelLines is the number of lines one wheel notch scrolls.
	WheelLines = 3

	// ScrollFrame is the interval between smooth-scroll animation frames.
	ScrollFrame = 16 * time.Millisecond
)

// Timing constants.
const (
	// DefaultUIInterval is how often the UI checks the store for a reloaded
	// document.
	DefaultUIInterval = time.Second
)

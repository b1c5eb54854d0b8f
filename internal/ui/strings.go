package ui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// truncate shortens a styled string to width cells, adding an ellipsis.
func truncate(value string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(value, width, "…")
}

// padBetween places left and right at the edges of a width-cell line,
// truncating left when both do not fit.
func padBetween(left, right string, width int) string {
	rw := ansi.StringWidth(right)
	if ansi.StringWidth(left)+rw+1 > width {
		left = truncate(left, width-rw-1)
	}
	gap := max(width-ansi.StringWidth(left)-rw, 1)
	return left + strings.Repeat(" ", gap) + right
}

// overlay writes top over base starting at column x.
func overlay(base, top string, x int) string {
	left := ansi.Truncate(base, x, "")
	if w := ansi.StringWidth(left); w < x {
		left += strings.Repeat(" ", x-w)
	}
	rest := ansi.TruncateLeft(base, x+ansi.StringWidth(top), "")
	return left + top + rest
}

// column returns the display column of label in a styled line, or -1.
func column(line, label string) int {
	plain := ansi.Strip(line)
	idx := strings.Index(plain, label)
	if idx < 0 {
		return -1
	}
	return ansi.StringWidth(plain[:idx])
}

package ui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/five82/folio/internal/page"
	"github.com/five82/folio/internal/spy"
)

const navGap = 1

// navSpot is the column span of one navigation control.
type navSpot struct {
	key    string
	x0, x1 int
}

// pairsFor builds one region/control pair per navigable section.
func pairsFor(sections []page.Section) []spy.Pair {
	pairs := make([]spy.Pair, 0, len(sections))
	for _, s := range sections {
		pairs = append(pairs, spy.NewPair(s.ID, s.Label()))
	}
	return pairs
}

// navSpots lays controls out left to right starting at column x.
func navSpots(pairs []spy.Pair, x int) []navSpot {
	spots := make([]navSpot, 0, len(pairs))
	for i, p := range pairs {
		if i > 0 {
			x += navGap
		}
		w := ansi.StringWidth(p.Control.Label) + 2
		spots = append(spots, navSpot{key: p.Control.Key, x0: x, x1: x + w})
		x += w
	}
	return spots
}

func navWidth(pairs []spy.Pair) int {
	spots := navSpots(pairs, 0)
	if len(spots) == 0 {
		return 0
	}
	return spots[len(spots)-1].x1
}

func spotAt(spots []navSpot, x int) (string, bool) {
	for _, s := range spots {
		if x >= s.x0 && x < s.x1 {
			return s.key, true
		}
	}
	return "", false
}

// renderNav draws controls in pair order, highlighting the active one.
func renderNav(pairs []spy.Pair, styles Styles) string {
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		style := styles.NavItem
		if p.Control.Active {
			style = styles.NavActive
		}
		parts = append(parts, style.Render(" "+p.Control.Label+" "))
	}
	return strings.Join(parts, strings.Repeat(" ", navGap))
}

// activeLabel returns the label of the active control, "" when none is.
func activeLabel(pairs []spy.Pair) string {
	for _, p := range pairs {
		if p.Control.Active {
			return p.Control.Label
		}
	}
	return ""
}

func activeIndex(pairs []spy.Pair) int {
	for i, p := range pairs {
		if p.Control.Active {
			return i
		}
	}
	return -1
}

// menuState is the collapsed navigation menu shown on narrow terminals.
type menuState struct {
	open bool
	sel  int
}

func menuToggleLabel(pairs []spy.Pair) string {
	if label := activeLabel(pairs); label != "" {
		return "≡ " + label
	}
	return "≡ Menu"
}

func menuWidth(pairs []spy.Pair) int {
	w := 0
	for _, p := range pairs {
		w = max(w, ansi.StringWidth(p.Control.Label))
	}
	return w + 4
}

// menuLines renders the open menu, one control per line.
func menuLines(pairs []spy.Pair, sel int, styles Styles) []string {
	w := menuWidth(pairs)
	lines := make([]string, 0, len(pairs))
	for i, p := range pairs {
		marker := " "
		if p.Control.Active {
			marker = "•"
		}
		text := marker + " " + p.Control.Label
		text += strings.Repeat(" ", max(w-ansi.StringWidth(text), 0))
		style := styles.NavItem
		if i == sel {
			style = styles.NavActive
		}
		lines = append(lines, style.Render(text))
	}
	return lines
}

// menuHit maps a screen cell to a menu entry. The menu hangs from the right
// edge just below the header.
func menuHit(pairs []spy.Pair, screenW, x, y int) (int, bool) {
	x0 := screenW - menuWidth(pairs)
	row := y - headerHeight
	if x < x0 || row < 0 || row >= len(pairs) {
		return 0, false
	}
	return row, true
}

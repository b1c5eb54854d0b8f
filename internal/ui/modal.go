package ui

import (
	"errors"
	"strings"

	"github.com/five82/folio/internal/dialog"
	"github.com/five82/folio/internal/page"
	"github.com/five82/folio/internal/spy"
)

const closeControl = "[x]"

// dialogGeometry is the screen placement of an open dialog box.
type dialogGeometry struct {
	x, y, w, h int
	innerW     int
	bodyH      int
}

type dialogHit int

const (
	hitOutside dialogHit = iota
	hitChrome
	hitClose
	hitSubnav
	hitBody
)

// dialogBox centers a box for lines of body content on the screen.
func dialogBox(screenW, screenH, lines int) dialogGeometry {
	w := min(max(screenW-4, 24), DialogMaxWidth, screenW)
	bodyH := max(min(lines, screenH-2-dialogChromeRows), 1)
	h := bodyH + dialogChromeRows
	return dialogGeometry{
		x:      max((screenW-w)/2, 0),
		y:      max((screenH-h)/2, 0),
		w:      w,
		h:      h,
		innerW: max(w-2*dialogInset, 1),
		bodyH:  bodyH,
	}
}

func (g dialogGeometry) hit(x, y int) dialogHit {
	if x < g.x || x >= g.x+g.w || y < g.y || y >= g.y+g.h {
		return hitOutside
	}
	contentX := g.x + dialogInset
	switch row := y - g.y; {
	case row == 1 && x >= contentX+g.innerW-len(closeControl) && x < contentX+g.innerW:
		return hitClose
	case row == 2:
		return hitSubnav
	case row >= dialogBodyTop && row < dialogBodyTop+g.bodyH:
		return hitBody
	default:
		return hitChrome
	}
}

// dialogView shows a document dialog as a centered box over the page. Its
// sections only exist once it has been laid out by Show.
type dialogView struct {
	dlg  *page.Dialog
	body *scrollBody

	pairs   []spy.Pair
	shown   bool
	focus   int
	screenW int
	screenH int
	palette page.Palette
}

var _ dialog.Dialog = (*dialogView)(nil)

func newDialogView(d *page.Dialog, margin spy.Margin, smooth bool) *dialogView {
	return &dialogView{
		dlg:   d,
		body:  newScrollBody(margin, smooth),
		focus: page.NoFocus,
	}
}

// ID implements dialog.Dialog.
func (v *dialogView) ID() string {
	return v.dlg.ID
}

// Show implements dialog.Dialog.
func (v *dialogView) Show() error {
	if v.screenW <= 0 || v.screenH <= 0 {
		return errors.New("screen has no size")
	}
	v.shown = true
	v.focus = page.NoFocus
	v.relayout()
	v.body.scrollTo(0)
	return nil
}

// Discover implements dialog.Dialog.
func (v *dialogView) Discover() ([]spy.Pair, error) {
	if !v.shown {
		return nil, dialog.ErrNotDisplayed
	}
	var sections []page.Section
	for _, s := range v.dlg.Sections {
		if !s.NoNav {
			sections = append(sections, s)
		}
	}
	v.pairs = pairsFor(sections)
	return v.pairs, nil
}

// Body implements dialog.Dialog.
func (v *dialogView) Body() spy.Scope {
	return v.body
}

// Hide implements dialog.Dialog.
func (v *dialogView) Hide() {
	v.shown = false
	v.pairs = nil
	v.focus = page.NoFocus
	v.body.cancel()
}

func (v *dialogView) resize(w, h int, palette page.Palette) {
	v.screenW, v.screenH, v.palette = w, h, palette
	if v.shown {
		v.relayout()
	}
}

func (v *dialogView) geometry() dialogGeometry {
	return dialogBox(v.screenW, v.screenH, len(v.body.layout.Lines))
}

func (v *dialogView) relayout() {
	g := dialogBox(v.screenW, v.screenH, 0)
	l := v.dlg.Render(page.Options{Width: g.innerW, Palette: v.palette, Focus: v.focus})
	v.body.setLayout(l)
	g = v.geometry()
	v.body.resize(g.innerW, g.bodyH)
}

func (v *dialogView) render(styles Styles) string {
	g := v.geometry()
	title := padBetween(styles.Header.Render(v.dlg.Title), styles.MutedText.Render(closeControl), g.innerW)
	subnav := truncate(renderNav(v.pairs, styles), g.innerW)
	rule := styles.Rule.Render(strings.Repeat("─", g.innerW))
	content := strings.Join([]string{title, subnav, rule, v.body.view()}, "\n")
	return styles.Dialog.Width(g.w - 2).Render(content)
}

// subnavSpots returns the sub-navigation control spans in screen columns.
func (v *dialogView) subnavSpots() []navSpot {
	return navSpots(v.pairs, v.geometry().x+dialogInset)
}

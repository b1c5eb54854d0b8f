package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/five82/folio/internal/dialog"
	"github.com/five82/folio/internal/page"
)

// handleKey processes keyboard input.
func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	// Help overlay: any key closes it
	if m.showHelp {
		m.showHelp = false
		return nil
	}

	// Global keys
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.shutdown()
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return nil
	case key.Matches(msg, m.keys.ToggleTheme):
		m.toggleTheme()
		return nil
	case key.Matches(msg, m.keys.Escape):
		m.escape()
		return nil
	}

	if m.doc == nil {
		return nil
	}
	if m.menu.open {
		return m.handleMenuKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Menu):
		if m.compact() && len(m.pairs) > 0 {
			m.menu = menuState{open: true, sel: max(activeIndex(m.pairs), 0)}
		}
	case key.Matches(msg, m.keys.NextLink):
		m.cycleFocus(1)
	case key.Matches(msg, m.keys.PrevLink):
		m.cycleFocus(-1)
	case key.Matches(msg, m.keys.Activate):
		m.activateFocused()
	case key.Matches(msg, m.keys.NextSection):
		m.stepSection(1)
	case key.Matches(msg, m.keys.PrevSection):
		m.stepSection(-1)
	case key.Matches(msg, m.keys.Down):
		m.scroll(1)
	case key.Matches(msg, m.keys.Up):
		m.scroll(-1)
	case key.Matches(msg, m.keys.PageDown):
		m.scroll(m.activeBody().vp.Height)
	case key.Matches(msg, m.keys.PageUp):
		m.scroll(-m.activeBody().vp.Height)
	case key.Matches(msg, m.keys.HalfPageDown):
		m.scroll(max(m.activeBody().vp.Height/2, 1))
	case key.Matches(msg, m.keys.HalfPageUp):
		m.scroll(-max(m.activeBody().vp.Height/2, 1))
	case key.Matches(msg, m.keys.Top):
		m.scrollTo(0)
	case key.Matches(msg, m.keys.Bottom):
		m.scrollTo(len(m.activeBody().layout.Lines))
	}
	return nil
}

func (m *Model) handleMenuKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Down):
		m.menu.sel = min(m.menu.sel+1, len(m.pairs)-1)
	case key.Matches(msg, m.keys.Up):
		m.menu.sel = max(m.menu.sel-1, 0)
	case key.Matches(msg, m.keys.Activate):
		m.chooseMenu(m.menu.sel)
	case key.Matches(msg, m.keys.Menu):
		m.menu.open = false
	}
	return nil
}

// escape closes the innermost open surface.
func (m *Model) escape() {
	switch {
	case m.menu.open:
		m.menu.open = false
	case m.dialogs.Current() != nil:
		m.dialogs.Close(dialog.CloseEscape)
	case m.focus != page.NoFocus:
		m.focus = page.NoFocus
		m.relayoutPage()
	}
}

func (m *Model) chooseMenu(i int) {
	m.menu.open = false
	if i < 0 || i >= len(m.pairs) {
		return
	}
	m.jumpPage(m.pairs[i].Control.Key)
}

// activeBody is the body receiving scroll input: the open dialog's, else the
// page's.
func (m *Model) activeBody() *scrollBody {
	if v := m.openView(); v != nil {
		return v.body
	}
	return m.body
}

func (m *Model) scroll(n int) {
	if v := m.openView(); v != nil {
		v.body.scrollBy(n)
		m.dialogScrolled()
		return
	}
	m.body.scrollBy(n)
	m.pageScrolled()
}

func (m *Model) scrollTo(offset int) {
	if v := m.openView(); v != nil {
		v.body.scrollTo(offset)
		m.dialogScrolled()
		return
	}
	m.body.scrollTo(offset)
	m.pageScrolled()
}

// jumpPage brings a page section into view through the page context, or
// directly when the context is not running.
func (m *Model) jumpPage(key string) {
	if !m.pageSpy.Click(key) {
		if r, ok := m.body.Locate(key); ok {
			m.body.ScrollIntoView(r)
		}
	}
	m.pageScrolled()
}

func (m *Model) jumpDialog(v *dialogView, key string) {
	lc := m.dialogs.Current()
	if lc == nil || !lc.Click(key) {
		if r, ok := v.body.Locate(key); ok {
			v.body.ScrollIntoView(r)
		}
	}
	m.dialogScrolled()
}

func (m *Model) stepSection(delta int) {
	pairs := m.pairs
	v := m.openView()
	if v != nil {
		pairs = v.pairs
	}
	if len(pairs) == 0 {
		return
	}
	i := activeIndex(pairs)
	switch {
	case i < 0 && delta > 0:
		i = 0
	case i < 0:
		i = len(pairs) - 1
	default:
		i = min(max(i+delta, 0), len(pairs)-1)
	}
	if v != nil {
		m.jumpDialog(v, pairs[i].Control.Key)
		return
	}
	m.jumpPage(pairs[i].Control.Key)
}

// cycleFocus moves link focus forward or back, wrapping at either end.
func (m *Model) cycleFocus(delta int) {
	if v := m.openView(); v != nil {
		v.focus = nextFocus(v.focus, delta, len(v.body.layout.Links))
		v.relayout()
		if v.focus != page.NoFocus {
			v.body.reveal(v.body.layout.Links[v.focus].Line)
		}
		m.dialogScrolled()
		return
	}
	m.focus = nextFocus(m.focus, delta, len(m.body.layout.Links))
	m.relayoutPage()
	if m.focus != page.NoFocus {
		m.body.reveal(m.body.layout.Links[m.focus].Line)
	}
	m.pageScrolled()
}

func nextFocus(current, delta, n int) int {
	switch {
	case n == 0:
		return page.NoFocus
	case current == page.NoFocus && delta > 0:
		return 0
	case current == page.NoFocus:
		return n - 1
	default:
		return ((current+delta)%n + n) % n
	}
}

func (m *Model) activateFocused() {
	if v := m.openView(); v != nil {
		if v.focus >= 0 && v.focus < len(v.body.layout.Links) {
			m.activate(v.body.layout.Links[v.focus].Link)
		}
		return
	}
	if m.focus >= 0 && m.focus < len(m.body.layout.Links) {
		m.activate(m.body.layout.Links[m.focus].Link)
	}
}

// activate follows a link. External links cannot be opened from a terminal,
// so their URL is copied instead.
func (m *Model) activate(link page.Link) {
	switch link.Kind {
	case page.LinkCopy, page.LinkExternal:
		m.copier.Copy(link.Target)
	case page.LinkDialog:
		m.menu.open = false
		if err := m.dialogs.Open(link.Target); err != nil {
			m.logger.Warn("open dialog failed", "dialog", link.Target, "error", err)
			m.fx.add(m.toast.show("Cannot open " + link.Label))
		}
	case page.LinkAnchor:
		if v := m.openView(); v != nil {
			if _, ok := v.body.Locate(link.Target); ok {
				m.jumpDialog(v, link.Target)
				return
			}
			m.dialogs.Close(dialog.CloseControl)
		}
		m.jumpPage(link.Target)
	}
}

// handleMouse processes mouse input.
func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if msg.Action != tea.MouseActionPress || m.doc == nil {
		return nil
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.scroll(-WheelLines)
		return nil
	case tea.MouseButtonWheelDown:
		m.scroll(WheelLines)
		return nil
	case tea.MouseButtonLeft:
	default:
		return nil
	}

	if m.showHelp {
		m.showHelp = false
		return nil
	}
	if v := m.openView(); v != nil {
		m.clickDialog(v, msg.X, msg.Y)
		return nil
	}
	if m.menu.open {
		if i, ok := menuHit(m.pairs, m.width, msg.X, msg.Y); ok {
			m.chooseMenu(i)
			return nil
		}
		m.menu.open = false
		return nil
	}
	if msg.Y == 0 {
		m.clickHeader(msg.X)
		return nil
	}
	if line, ok := m.body.lineAt(msg.Y - headerHeight); ok {
		if i, hit := linkAt(m.body.layout, line, msg.X); hit {
			m.focus = i
			m.relayoutPage()
			m.activate(m.body.layout.Links[i].Link)
		}
	}
	return nil
}

func (m *Model) clickHeader(x int) {
	if m.compact() {
		if len(m.pairs) > 0 && x >= m.width-(ansi.StringWidth(menuToggleLabel(m.pairs))+2) {
			m.menu = menuState{open: true, sel: max(activeIndex(m.pairs), 0)}
		}
		return
	}
	if key, ok := spotAt(navSpots(m.pairs, m.width-navWidth(m.pairs)), x); ok {
		m.jumpPage(key)
	}
}

func (m *Model) clickDialog(v *dialogView, x, y int) {
	g := v.geometry()
	switch g.hit(x, y) {
	case hitOutside:
		m.dialogs.Close(dialog.CloseOutside)
	case hitClose:
		m.dialogs.Close(dialog.CloseControl)
	case hitSubnav:
		if key, ok := spotAt(v.subnavSpots(), x); ok {
			m.jumpDialog(v, key)
		}
	case hitBody:
		line, ok := v.body.lineAt(y - g.y - dialogBodyTop)
		if !ok {
			return
		}
		if i, hit := linkAt(v.body.layout, line, x-g.x-dialogInset); hit {
			v.focus = i
			v.relayout()
			m.activate(v.body.layout.Links[i].Link)
		}
	}
}

// linkAt finds the link drawn at column col of a layout line. A label that
// wrapped is matched by its first word.
func linkAt(l page.Layout, line, col int) (int, bool) {
	for _, i := range l.LinksOn(line) {
		label := l.Links[i].Label
		start := column(l.Lines[line], label)
		if start < 0 {
			if fields := strings.Fields(label); len(fields) > 0 {
				label = fields[0]
				start = column(l.Lines[line], label)
			}
		}
		if start >= 0 && col >= start && col < start+ansi.StringWidth(label) {
			return i, true
		}
	}
	return 0, false
}

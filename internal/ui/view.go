package ui

import (
	"strings"
)

// renderMain composes header, page body, footer and any open overlay.
func (m Model) renderMain() string {
	rule := m.styles.Rule.Render(strings.Repeat("─", m.width))

	body := strings.Split(m.body.view(), "\n")
	if m.menu.open {
		x := max(m.width-menuWidth(m.pairs), 0)
		for row, line := range menuLines(m.pairs, m.menu.sel, m.styles) {
			if row < len(body) {
				body[row] = overlay(body[row], line, x)
			}
		}
	}

	screen := make([]string, 0, m.height)
	screen = append(screen, m.renderHeader(), rule)
	screen = append(screen, body...)
	screen = append(screen, m.renderFooter())

	if v := m.openView(); v != nil {
		g := v.geometry()
		for i, line := range strings.Split(v.render(m.styles), "\n") {
			row := g.y + i
			if row >= 0 && row < len(screen) {
				screen[row] = overlay(screen[row], line, g.x)
			}
		}
	}
	return strings.Join(screen, "\n")
}

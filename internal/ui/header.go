package ui

import (
	"fmt"

	"github.com/charmbracelet/x/ansi"
)

const defaultTitle = "folio"

func (m Model) title() string {
	if m.doc != nil && m.doc.Title != "" {
		return m.doc.Title
	}
	return defaultTitle
}

// compact reports whether the nav bar collapses into the section menu.
func (m Model) compact() bool {
	if m.width < LayoutCompactWidth {
		return true
	}
	return ansi.StringWidth(m.title())+1+navWidth(m.pairs) > m.width
}

// renderHeader renders the title and the page navigation.
func (m Model) renderHeader() string {
	title := m.styles.Header.Render(m.title())
	if len(m.pairs) == 0 {
		return padBetween(title, "", m.width)
	}
	if m.compact() {
		toggle := m.styles.NavActive.Render(" " + menuToggleLabel(m.pairs) + " ")
		return padBetween(title, toggle, m.width)
	}
	return padBetween(title, renderNav(m.pairs, m.styles), m.width)
}

// renderFooter renders the copyright line, transient status and key hints.
func (m Model) renderFooter() string {
	bg := NewBgStyle(m.theme.Surface)
	sep := bg.Spaces(2)

	left := bg.Render(fmt.Sprintf("© %d %s", m.year, m.title()), m.styles.Footer)
	switch {
	case m.toast.message != "":
		left += sep + bg.Render(m.toast.message, m.styles.Toast)
	case m.stale && m.lastErr != nil:
		errText := truncate(m.lastErr.Error(), max(m.width/3, 10))
		left += sep + bg.Render("reload failing:", m.styles.WarningText) + bg.Spaces(1) +
			bg.Render(errText, m.styles.MutedText)
	}

	right := m.help.ShortHelpView(m.keys.ShortHelp())
	if ansi.StringWidth(left)+ansi.StringWidth(right)+2 > m.width {
		right = ""
	}
	return bg.Between(left, right, m.width)
}

// renderWaiting is shown until a document has been loaded.
func (m Model) renderWaiting() string {
	msg := m.styles.WarningText.Render("Waiting for document...")
	if m.lastErr != nil {
		msg = m.styles.DangerText.Render("Cannot load document") + "\n\n" +
			m.styles.MutedText.Render(truncate(m.lastErr.Error(), max(m.width-4, 10)))
	}
	return msg
}

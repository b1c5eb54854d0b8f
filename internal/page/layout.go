package page

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
)

// NoFocus marks a layout with no focused link.
const NoFocus = -1

const (
	defaultWidth = 80
	minWrap      = 12
)

// LinkKind is what activating a link does.
type LinkKind int

const (
	LinkExternal LinkKind = iota
	LinkCopy
	LinkDialog
	LinkAnchor
)

func (k LinkKind) String() string {
	switch k {
	case LinkCopy:
		return "copy"
	case LinkDialog:
		return "dialog"
	case LinkAnchor:
		return "anchor"
	default:
		return "external"
	}
}

// Link is an activatable span of text.
type Link struct {
	Kind   LinkKind
	Target string
	Label  string
}

// Spot is a link placed on a layout line.
type Spot struct {
	Link
	Line int
}

// Anchor is the line span a section occupies.
type Anchor struct {
	Key    string
	Top    int
	Height int
}

// Palette holds the styles a layout renders with.
type Palette struct {
	Title       lipgloss.Style
	Heading     lipgloss.Style
	Subheading  lipgloss.Style
	Text        lipgloss.Style
	Muted       lipgloss.Style
	Code        lipgloss.Style
	Quote       lipgloss.Style
	Link        lipgloss.Style
	FocusedLink lipgloss.Style
	Concealed   lipgloss.Style
}

// PlainPalette renders without decoration.
func PlainPalette() Palette {
	s := lipgloss.NewStyle()
	return Palette{
		Title: s, Heading: s, Subheading: s, Text: s, Muted: s,
		Code: s, Quote: s, Link: s, FocusedLink: s, Concealed: s,
	}
}

// Options controls layout.
type Options struct {
	Width   int
	Palette Palette
	// Focus is the index of the highlighted link, or NoFocus.
	Focus int
	// Concealed reports page sections that have not been revealed yet.
	Concealed func(id string) bool
}

func (o Options) width() int {
	if o.Width <= 0 {
		return defaultWidth
	}
	return o.Width
}

// Layout is a document rendered to terminal lines.
type Layout struct {
	Lines   []string
	Anchors []Anchor
	Links   []Spot
}

// Content joins the lines for display in a viewport.
func (l Layout) Content() string {
	return strings.Join(l.Lines, "\n")
}

// Anchor returns the span of section key.
func (l Layout) Anchor(key string) (Anchor, bool) {
	for _, a := range l.Anchors {
		if a.Key == key {
			return a, true
		}
	}
	return Anchor{}, false
}

// LinksOn returns the indexes of links on line.
func (l Layout) LinksOn(line int) []int {
	var out []int
	for i, s := range l.Links {
		if s.Line == line {
			out = append(out, i)
		}
	}
	return out
}

// Render lays out the page: title, intro and sections.
func (d *Document) Render(opts Options) Layout {
	r := &renderer{src: d.source, opts: opts}
	p := opts.Palette
	if d.Title != "" {
		r.line(p.Title.Render(d.Title))
		r.line("")
	}
	r.blocks(d.intro, "", "", false)
	for _, s := range d.Sections {
		concealed := opts.Concealed != nil && opts.Concealed(s.ID)
		r.section(s, p.Heading, concealed)
	}
	return r.out
}

// Render lays out the dialog body. The title is left to the caller's frame.
func (g *Dialog) Render(opts Options) Layout {
	r := &renderer{src: g.source, opts: opts}
	r.blocks(g.intro, "", "", false)
	for _, s := range g.Sections {
		r.section(s, opts.Palette.Subheading, false)
	}
	return r.out
}

// Classify maps a link destination to its kind.
func Classify(dest, label string) Link {
	dest = strings.TrimSpace(dest)
	switch {
	case strings.HasPrefix(dest, "copy:"):
		target := strings.TrimPrefix(dest, "copy:")
		if unescaped, err := url.PathUnescape(target); err == nil {
			target = unescaped
		}
		if target == "" {
			target = label
		}
		return Link{Kind: LinkCopy, Target: target, Label: label}
	case strings.HasPrefix(dest, "dialog:"):
		return Link{Kind: LinkDialog, Target: strings.TrimPrefix(dest, "dialog:"), Label: label}
	case strings.HasPrefix(dest, "#"):
		return Link{Kind: LinkAnchor, Target: strings.TrimPrefix(dest, "#"), Label: label}
	default:
		return Link{Kind: LinkExternal, Target: dest, Label: label}
	}
}

type renderer struct {
	src     []byte
	opts    Options
	out     Layout
	conceal bool
	quote   int
}

func (r *renderer) style(s lipgloss.Style) lipgloss.Style {
	if r.conceal {
		return r.opts.Palette.Concealed
	}
	return s
}

func (r *renderer) line(s string) {
	r.out.Lines = append(r.out.Lines, s)
}

func (r *renderer) separate() {
	if n := len(r.out.Lines); n > 0 && r.out.Lines[n-1] != "" {
		r.line("")
	}
}

func (r *renderer) section(s Section, heading lipgloss.Style, concealed bool) {
	r.conceal = concealed
	defer func() { r.conceal = false }()

	r.separate()
	top := len(r.out.Lines)
	r.wrap(r.style(heading).Render(s.Label()), "", "")
	if len(s.blocks) > 0 {
		r.line("")
		r.blocks(s.blocks, "", "", false)
	}
	r.out.Anchors = append(r.out.Anchors, Anchor{Key: s.ID, Top: top, Height: len(r.out.Lines) - top})
}

func (r *renderer) blocks(nodes []ast.Node, first, rest string, tight bool) {
	for i, n := range nodes {
		if i > 0 {
			if !tight {
				r.line(strings.TrimRight(rest, " "))
			}
			first = rest
		}
		r.block(n, first, rest)
	}
}

func children(n ast.Node) []ast.Node {
	var out []ast.Node
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		out = append(out, c)
	}
	return out
}

func (r *renderer) block(n ast.Node, first, rest string) {
	p := r.opts.Palette
	switch b := n.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		base := p.Text
		if r.quote > 0 {
			base = p.Quote
		}
		r.paragraph(b, base, first, rest)
	case *ast.Heading:
		r.wrap(r.style(p.Subheading).Render(plainText(b, r.src)), first, rest)
	case *ast.List:
		r.list(b, first, rest)
	case *ast.Blockquote:
		r.quote++
		r.blocks(children(b), first+"│ ", rest+"│ ", false)
		r.quote--
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		r.code(b, first, rest)
	case *ast.ThematicBreak:
		w := max(r.opts.width()-ansi.StringWidth(first), 1)
		r.line(first + r.style(p.Muted).Render(strings.Repeat("─", w)))
	case *east.Table:
		r.table(b, first, rest)
	case *ast.HTMLBlock:
	default:
		if n.HasChildren() {
			r.blocks(children(n), first, rest, false)
		}
	}
}

func (r *renderer) paragraph(n ast.Node, base lipgloss.Style, first, rest string) {
	var b strings.Builder
	var links []Link
	r.inline(n, base, &b, &links)
	start := len(r.out.Lines)
	r.wrap(b.String(), first, rest)
	r.place(links, start)
}

func (r *renderer) wrap(s, first, rest string) {
	width := max(r.opts.width()-ansi.StringWidth(first), minWrap)
	for i, hard := range strings.Split(s, "\n") {
		for j, l := range strings.Split(ansi.Wrap(hard, width, ""), "\n") {
			prefix := rest
			if i == 0 && j == 0 {
				prefix = first
			}
			r.line(prefix + l)
		}
	}
}

// place records the line each link landed on after wrapping, searching
// forward from the previous link so repeated labels resolve in order.
func (r *renderer) place(links []Link, start int) {
	line, col := start, 0
	for _, lk := range links {
		word := lk.Label
		if fields := strings.Fields(word); len(fields) > 0 {
			word = fields[0]
		}
		for l := line; l < len(r.out.Lines) && word != ""; l++ {
			plain := ansi.Strip(r.out.Lines[l])
			from := 0
			if l == line {
				from = min(col, len(plain))
			}
			if idx := strings.Index(plain[from:], word); idx >= 0 {
				line, col = l, from+idx+len(word)
				break
			}
		}
		r.out.Links = append(r.out.Links, Spot{Link: lk, Line: line})
	}
}

func (r *renderer) inline(n ast.Node, st lipgloss.Style, b *strings.Builder, links *[]Link) {
	p := r.opts.Palette
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			b.WriteString(r.style(st).Render(string(t.Segment.Value(r.src))))
			switch {
			case t.HardLineBreak():
				b.WriteByte('\n')
			case t.SoftLineBreak():
				b.WriteByte(' ')
			}
		case *ast.String:
			b.WriteString(r.style(st).Render(string(t.Value)))
		case *ast.CodeSpan:
			b.WriteString(r.style(p.Code).Render(plainText(t, r.src)))
		case *ast.Emphasis:
			next := st.Italic(true)
			if t.Level >= 2 {
				next = st.Bold(true)
			}
			r.inline(t, next, b, links)
		case *east.Strikethrough:
			r.inline(t, st.Strikethrough(true), b, links)
		case *ast.Link:
			r.link(Classify(string(t.Destination), plainText(t, r.src)), b, links)
		case *ast.AutoLink:
			r.link(Link{Kind: LinkExternal, Target: string(t.URL(r.src)), Label: string(t.Label(r.src))}, b, links)
		case *ast.Image:
			b.WriteString(r.style(p.Muted).Render("[" + plainText(t, r.src) + "]"))
		case *east.TaskCheckBox:
			mark := "[ ] "
			if t.IsChecked {
				mark = "[x] "
			}
			b.WriteString(r.style(st).Render(mark))
		case *ast.RawHTML:
		default:
			r.inline(c, st, b, links)
		}
	}
}

func (r *renderer) link(lk Link, b *strings.Builder, links *[]Link) {
	st := r.opts.Palette.Link
	if len(r.out.Links)+len(*links) == r.opts.Focus {
		st = r.opts.Palette.FocusedLink
	}
	b.WriteString(r.style(st).Render(lk.Label))
	*links = append(*links, lk)
}

func (r *renderer) list(l *ast.List, first, rest string) {
	num := l.Start
	if num == 0 {
		num = 1
	}
	for i, item := 0, l.FirstChild(); item != nil; i, item = i+1, item.NextSibling() {
		marker := "• "
		if l.IsOrdered() {
			marker = fmt.Sprintf("%d%c ", num, l.Marker)
			num++
		}
		pad := strings.Repeat(" ", ansi.StringWidth(marker))
		lead := rest
		if i == 0 {
			lead = first
		} else if !l.IsTight {
			r.line(strings.TrimRight(rest, " "))
		}
		r.blocks(children(item), lead+marker, rest+pad, l.IsTight)
	}
}

func (r *renderer) code(n ast.Node, first, rest string) {
	st := r.style(r.opts.Palette.Code)
	width := max(r.opts.width()-ansi.StringWidth(first)-2, 1)
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		text := strings.TrimRight(string(seg.Value(r.src)), "\n")
		prefix := rest
		if i == 0 {
			prefix = first
		}
		r.line(prefix + "  " + st.Render(ansi.Truncate(text, width, "…")))
	}
}

func (r *renderer) table(t *east.Table, first, rest string) {
	var rows [][]string
	for row := t.FirstChild(); row != nil; row = row.NextSibling() {
		var cells []string
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, plainText(cell, r.src))
		}
		rows = append(rows, cells)
	}
	var widths []int
	for _, cells := range rows {
		for i, c := range cells {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			widths[i] = max(widths[i], ansi.StringWidth(c))
		}
	}
	p := r.opts.Palette
	for i, cells := range rows {
		st := p.Text
		if i == 0 {
			st = p.Text.Bold(true)
		}
		parts := make([]string, len(cells))
		for j, c := range cells {
			parts[j] = c + strings.Repeat(" ", widths[j]-ansi.StringWidth(c))
		}
		prefix := rest
		if i == 0 {
			prefix = first
		}
		line := strings.TrimRight(strings.Join(parts, " │ "), " ")
		r.line(prefix + r.style(st).Render(ansi.Truncate(line, max(r.opts.width()-ansi.StringWidth(prefix), 1), "…")))
	}
}

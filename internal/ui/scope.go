package ui

import (
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/folio/internal/page"
	"github.com/five82/folio/internal/spy"
)

// bodyID names a scrollable body in animation messages.
type bodyID int

const (
	bodyPage bodyID = iota
	bodyDialog
)

// scrollBody is a viewport used as a scroll-spy scope. It is shared by
// pointer so contexts observing it stay valid across model copies.
type scrollBody struct {
	vp     viewport.Model
	layout page.Layout
	// margin is the spy band; ScrollIntoView aligns a region with its top.
	margin spy.Margin
	smooth bool

	target int // -1 when no animation is running
	seq    int
	kick   bool
}

var (
	_ spy.Scope    = (*scrollBody)(nil)
	_ spy.Scroller = (*scrollBody)(nil)
)

func newScrollBody(margin spy.Margin, smooth bool) *scrollBody {
	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle()
	return &scrollBody{vp: vp, margin: margin, smooth: smooth, target: -1}
}

func (b *scrollBody) resize(width, height int) {
	b.vp.Width = max(width, 0)
	b.vp.Height = max(height, 0)
	b.vp.SetYOffset(b.vp.YOffset)
}

func (b *scrollBody) setLayout(l page.Layout) {
	b.layout = l
	b.vp.SetContent(l.Content())
}

// Viewport implements spy.Scope. Coordinates are layout lines.
func (b *scrollBody) Viewport() spy.Rect {
	return spy.Rect{Y: float64(b.vp.YOffset), W: float64(b.vp.Width), H: float64(b.vp.Height)}
}

// Locate implements spy.Scope.
func (b *scrollBody) Locate(key string) (spy.Rect, bool) {
	a, ok := b.layout.Anchor(key)
	if !ok {
		return spy.Rect{}, false
	}
	return spy.Rect{Y: float64(a.Top), W: float64(b.vp.Width), H: float64(a.Height)}, true
}

// Measurable implements spy.Scope.
func (b *scrollBody) Measurable() bool {
	return b.vp.Width > 0 && b.vp.Height > 0 && len(b.layout.Lines) > 0
}

// ScrollIntoView implements spy.Scroller. With smooth scrolling the move is
// animated by scroll frames; the first frame is requested through kick.
func (b *scrollBody) ScrollIntoView(r spy.Rect) {
	view := b.Viewport()
	bandTop := max(int(b.margin.Apply(view).Y-view.Y), 0)
	target := b.clamp(int(r.Y) - bandTop)

	if !b.smooth || target == b.vp.YOffset {
		b.cancel()
		b.vp.SetYOffset(target)
		return
	}
	b.target = target
	b.seq++
	b.kick = true
}

func (b *scrollBody) clamp(offset int) int {
	maxOffset := max(len(b.layout.Lines)-b.vp.Height, 0)
	return min(max(offset, 0), maxOffset)
}

// step advances an animation by one frame and reports whether it continues.
func (b *scrollBody) step() bool {
	if b.target < 0 {
		return false
	}
	diff := b.target - b.vp.YOffset
	move := diff / 3
	switch {
	case diff == 0:
		b.target = -1
		return false
	case move == 0 && diff > 0:
		move = 1
	case move == 0:
		move = -1
	}
	before := b.vp.YOffset
	b.vp.SetYOffset(before + move)
	if b.vp.YOffset == b.target || b.vp.YOffset == before {
		b.target = -1
		return false
	}
	return true
}

// cancel stops a running animation. Pending frames become stale.
func (b *scrollBody) cancel() {
	if b.target >= 0 || b.kick {
		b.seq++
	}
	b.target = -1
	b.kick = false
}

// takeKick reports a newly requested animation and its sequence number.
func (b *scrollBody) takeKick() (int, bool) {
	if !b.kick {
		return 0, false
	}
	b.kick = false
	return b.seq, true
}

func (b *scrollBody) animating() bool {
	return b.target >= 0
}

// scrollBy moves the viewport by n lines, cancelling any animation.
func (b *scrollBody) scrollBy(n int) {
	b.cancel()
	switch {
	case n > 0:
		b.vp.ScrollDown(n)
	case n < 0:
		b.vp.ScrollUp(-n)
	}
}

// scrollTo jumps to an absolute offset, cancelling any animation.
func (b *scrollBody) scrollTo(offset int) {
	b.cancel()
	b.vp.SetYOffset(b.clamp(offset))
}

// reveal scrolls the minimum amount to make line visible.
func (b *scrollBody) reveal(line int) {
	switch {
	case line < b.vp.YOffset:
		b.scrollTo(line)
	case line >= b.vp.YOffset+b.vp.Height:
		b.scrollTo(line - b.vp.Height + 1)
	}
}

// lineAt maps a row inside the viewport to a layout line.
func (b *scrollBody) lineAt(row int) (int, bool) {
	if row < 0 || row >= b.vp.Height {
		return 0, false
	}
	line := b.vp.YOffset + row
	if line >= len(b.layout.Lines) {
		return 0, false
	}
	return line, true
}

func (b *scrollBody) view() string {
	return b.vp.View()
}

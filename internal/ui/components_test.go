package ui

import (
	"errors"
	"testing"

	"github.com/five82/folio/internal/dialog"
	"github.com/five82/folio/internal/page"
	"github.com/five82/folio/internal/spy"
)

func bodyWithLines(n int, smooth bool) *scrollBody {
	b := newScrollBody(spy.Margin{}, smooth)
	b.resize(80, 10)
	b.setLayout(page.Layout{
		Lines:   make([]string, n),
		Anchors: []page.Anchor{{Key: "a", Top: 0, Height: 50}, {Key: "b", Top: 50, Height: 50}},
	})
	return b
}

func TestScrollBody_ScrollIntoViewInstant(t *testing.T) {
	b := bodyWithLines(100, false)
	r, ok := b.Locate("b")
	if !ok {
		t.Fatal("Locate(b) failed")
	}
	b.ScrollIntoView(r)
	if b.vp.YOffset != 50 {
		t.Fatalf("YOffset = %d, want 50", b.vp.YOffset)
	}
	if _, kick := b.takeKick(); kick {
		t.Fatal("instant scroll requested animation frames")
	}

	// Targets past the end clamp to the last page.
	b.ScrollIntoView(spy.Rect{Y: 99})
	if b.vp.YOffset != 90 {
		t.Fatalf("YOffset = %d, want 90", b.vp.YOffset)
	}
}

func TestScrollBody_ScrollIntoViewAlignsWithBand(t *testing.T) {
	m, err := spy.ParseMargin("-40% 0px -55% 0px")
	if err != nil {
		t.Fatal(err)
	}
	b := newScrollBody(m, false)
	b.resize(80, 20)
	b.setLayout(page.Layout{Lines: make([]string, 100)})
	b.ScrollIntoView(spy.Rect{Y: 50, H: 10})
	if b.vp.YOffset != 42 {
		t.Fatalf("YOffset = %d, want 42 (region top at the band)", b.vp.YOffset)
	}
}

func TestScrollBody_SmoothAnimation(t *testing.T) {
	b := bodyWithLines(100, true)
	b.ScrollIntoView(spy.Rect{Y: 50})
	seq, kick := b.takeKick()
	if !kick || seq != b.seq {
		t.Fatalf("takeKick = %d, %v", seq, kick)
	}
	if _, again := b.takeKick(); again {
		t.Fatal("kick reported twice")
	}

	frames := 0
	for b.step() {
		frames++
		if frames > 100 {
			t.Fatal("animation did not converge")
		}
	}
	if b.vp.YOffset != 50 || b.animating() {
		t.Fatalf("YOffset = %d animating = %v", b.vp.YOffset, b.animating())
	}
	if frames == 0 {
		t.Fatal("expected intermediate frames")
	}
}

func TestScrollBody_CancelInvalidatesFrames(t *testing.T) {
	b := bodyWithLines(100, true)
	b.ScrollIntoView(spy.Rect{Y: 50})
	seq, _ := b.takeKick()
	b.scrollBy(3)
	if b.animating() || b.seq == seq {
		t.Fatalf("cancel left animation state: animating=%v seq=%d", b.animating(), b.seq)
	}
	if b.vp.YOffset != 3 {
		t.Fatalf("YOffset = %d, want 3", b.vp.YOffset)
	}
}

func TestScrollBody_MeasurableAndLineAt(t *testing.T) {
	b := newScrollBody(spy.Margin{}, false)
	if b.Measurable() {
		t.Fatal("unsized body reported measurable")
	}
	b = bodyWithLines(15, false)
	if !b.Measurable() {
		t.Fatal("sized body not measurable")
	}
	b.scrollTo(5)
	if line, ok := b.lineAt(2); !ok || line != 7 {
		t.Fatalf("lineAt(2) = %d, %v", line, ok)
	}
	if _, ok := b.lineAt(10); ok {
		t.Fatal("lineAt past viewport succeeded")
	}
}

func TestDialogBoxHit(t *testing.T) {
	g := dialogBox(80, 24, 10)
	if g.w != DialogMaxWidth || g.h != 10+dialogChromeRows || g.x != 2 || g.y != 4 {
		t.Fatalf("geometry = %+v", g)
	}

	cases := []struct {
		x, y int
		want dialogHit
	}{
		{0, 0, hitOutside},
		{79, 23, hitOutside},
		{10, 4, hitChrome},
		{g.x + dialogInset + g.innerW - 1, 5, hitClose},
		{10, 5, hitChrome},
		{10, 6, hitSubnav},
		{10, 8, hitBody},
		{10, g.y + g.h - 1, hitChrome},
	}
	for _, tc := range cases {
		if got := g.hit(tc.x, tc.y); got != tc.want {
			t.Errorf("hit(%d, %d) = %v, want %v", tc.x, tc.y, got, tc.want)
		}
	}

	// Tall content is capped to the screen.
	if g := dialogBox(80, 24, 200); g.h > 24 || g.bodyH != 24-2-dialogChromeRows {
		t.Fatalf("tall geometry = %+v", g)
	}
}

func TestDialogView_DiscoverBeforeShow(t *testing.T) {
	doc, err := page.Parse([]byte("# T\n\n## Info {#info .dialog}\n\n### One {#one}\n\nx\n"))
	if err != nil {
		t.Fatal(err)
	}
	d, ok := doc.Dialog("info")
	if !ok {
		t.Fatal("dialog not parsed")
	}
	v := newDialogView(d, spy.Margin{}, false)

	if _, err := v.Discover(); !errors.Is(err, dialog.ErrNotDisplayed) {
		t.Fatalf("Discover before Show: err = %v", err)
	}
	if err := v.Show(); err == nil {
		t.Fatal("Show on an unsized screen succeeded")
	}

	v.resize(80, 24, page.PlainPalette())
	if err := v.Show(); err != nil {
		t.Fatalf("Show: %v", err)
	}
	pairs, err := v.Discover()
	if err != nil || len(pairs) != 1 || pairs[0].Control.Key != "one" {
		t.Fatalf("Discover = %v, %v", pairs, err)
	}
	if !v.Body().Measurable() {
		t.Fatal("shown dialog body not measurable")
	}

	v.Hide()
	if v.pairs != nil || v.shown {
		t.Fatal("Hide kept displayed state")
	}
}

func TestNavSpots(t *testing.T) {
	pairs := []spy.Pair{spy.NewPair("about", "About"), spy.NewPair("work", "Work")}
	spots := navSpots(pairs, 10)
	if spots[0].x0 != 10 || spots[0].x1 != 17 || spots[1].x0 != 18 || spots[1].x1 != 24 {
		t.Fatalf("spots = %+v", spots)
	}
	if navWidth(pairs) != 14 {
		t.Fatalf("navWidth = %d, want 14", navWidth(pairs))
	}
	if key, ok := spotAt(spots, 20); !ok || key != "work" {
		t.Fatalf("spotAt(20) = %q, %v", key, ok)
	}
	if _, ok := spotAt(spots, 17); ok {
		t.Fatal("gap between controls matched")
	}
}

func TestMenu(t *testing.T) {
	pairs := []spy.Pair{spy.NewPair("about", "About"), spy.NewPair("work", "Work")}
	if got := menuToggleLabel(pairs); got != "≡ Menu" {
		t.Fatalf("toggle = %q", got)
	}
	pairs[1].Control.Active = true
	if got := menuToggleLabel(pairs); got != "≡ Work" {
		t.Fatalf("toggle = %q", got)
	}

	if i, ok := menuHit(pairs, 60, 58, headerHeight+1); !ok || i != 1 {
		t.Fatalf("menuHit = %d, %v", i, ok)
	}
	if _, ok := menuHit(pairs, 60, 0, headerHeight); ok {
		t.Fatal("hit left of the menu")
	}
	if _, ok := menuHit(pairs, 60, 58, headerHeight+2); ok {
		t.Fatal("hit below the menu")
	}
}

func TestNextFocus(t *testing.T) {
	cases := []struct{ current, delta, n, want int }{
		{page.NoFocus, 1, 3, 0},
		{page.NoFocus, -1, 3, 2},
		{2, 1, 3, 0},
		{0, -1, 3, 2},
		{1, 1, 0, page.NoFocus},
	}
	for _, tc := range cases {
		if got := nextFocus(tc.current, tc.delta, tc.n); got != tc.want {
			t.Errorf("nextFocus(%d, %d, %d) = %d, want %d", tc.current, tc.delta, tc.n, got, tc.want)
		}
	}
}

func TestLinkAt(t *testing.T) {
	l := page.Layout{
		Lines: []string{"Write to Email me or about"},
		Links: []page.Spot{
			{Link: page.Link{Kind: page.LinkCopy, Label: "Email me"}, Line: 0},
			{Link: page.Link{Kind: page.LinkAnchor, Label: "about"}, Line: 0},
		},
	}
	if i, ok := linkAt(l, 0, 10); !ok || i != 0 {
		t.Fatalf("linkAt(10) = %d, %v", i, ok)
	}
	if i, ok := linkAt(l, 0, 22); !ok || i != 1 {
		t.Fatalf("linkAt(22) = %d, %v", i, ok)
	}
	if _, ok := linkAt(l, 0, 2); ok {
		t.Fatal("plain text matched a link")
	}
}

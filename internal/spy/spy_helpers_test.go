package spy

// fakeScope is a vertical page of stacked regions with a movable viewport.
type fakeScope struct {
	viewport   Rect
	rects      map[string]Rect
	unmeasured bool
	scrolledTo []Rect
}

func newFakeScope(height float64, sections ...string) *fakeScope {
	s := &fakeScope{
		viewport: Rect{W: 80, H: height},
		rects:    make(map[string]Rect),
	}
	for i, key := range sections {
		s.rects[key] = Rect{Y: float64(i) * height, W: 80, H: height}
	}
	return s
}

func (s *fakeScope) Viewport() Rect { return s.viewport }

func (s *fakeScope) Locate(key string) (Rect, bool) {
	r, ok := s.rects[key]
	return r, ok
}

func (s *fakeScope) Measurable() bool { return !s.unmeasured }

func (s *fakeScope) scrollTo(y float64) { s.viewport.Y = y }

// scrollScope adds Scroller to fakeScope, jumping instantly.
type scrollScope struct {
	*fakeScope
}

func (s scrollScope) ScrollIntoView(r Rect) {
	s.scrolledTo = append(s.scrolledTo, r)
	s.viewport.Y = r.Y
}

func pairs(keys ...string) []Pair {
	out := make([]Pair, 0, len(keys))
	for _, k := range keys {
		out = append(out, NewPair(k, k))
	}
	return out
}

func activeKeys(controls []*NavControl) []string {
	var out []string
	for _, c := range controls {
		if c.Active {
			out = append(out, c.Key)
		}
	}
	return out
}

func controlsOf(ps []Pair) []*NavControl {
	out := make([]*NavControl, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.Control)
	}
	return out
}

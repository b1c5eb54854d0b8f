package spy

import "testing"

func TestParseMargin(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want Margin
	}{
		{"empty", "", Margin{}},
		{"one", "10px", Margin{Length{10, false}, Length{10, false}, Length{10, false}, Length{10, false}}},
		{"two", "-5% 2", Margin{Length{-5, true}, Length{2, false}, Length{-5, true}, Length{2, false}}},
		{"three", "1 2 3", Margin{Length{1, false}, Length{2, false}, Length{3, false}, Length{2, false}}},
		{"four", "-40% 0px -55% 0px", Margin{Length{-40, true}, Length{0, false}, Length{-55, true}, Length{0, false}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseMargin(tc.in)
			if err != nil {
				t.Fatalf("ParseMargin(%q) returned error: %v", tc.in, err)
			}
			if got != tc.want {
				t.Fatalf("ParseMargin(%q) = %+v, want %+v", tc.in, got, tc.want)
			}
		})
	}
}

func TestParseMargin_Invalid(t *testing.T) {
	for _, in := range []string{"abc", "1 2 3 4 5", "10em", "NaN%", "Infpx", "0 -inf", "nan"} {
		if _, err := ParseMargin(in); err == nil {
			t.Fatalf("ParseMargin(%q) expected error", in)
		}
	}
}

func TestMarginApply_ShrinksToBand(t *testing.T) {
	m, err := ParseMargin("-40% 0px -55% 0px")
	if err != nil {
		t.Fatalf("ParseMargin: %v", err)
	}
	got := m.Apply(Rect{Y: 100, W: 80, H: 100})
	want := Rect{X: 0, Y: 140, W: 80, H: 5}
	if got != want {
		t.Fatalf("Apply = %+v, want %+v", got, want)
	}
}

func TestRectIntersect(t *testing.T) {
	a := Rect{W: 10, H: 10}
	if _, ok := a.Intersect(Rect{Y: 10, W: 10, H: 10}); ok {
		t.Fatalf("edge-adjacent rects should not intersect")
	}
	got, ok := a.Intersect(Rect{X: 5, Y: 5, W: 10, H: 10})
	if !ok {
		t.Fatalf("expected overlap")
	}
	if got != (Rect{X: 5, Y: 5, W: 5, H: 5}) {
		t.Fatalf("Intersect = %+v, want 5x5 at (5,5)", got)
	}
}

package spy

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"
)

func TestContextStart_ActivatesVisibleRegion(t *testing.T) {
	scope := newFakeScope(100, "a", "b", "c")
	ps := pairs("a", "b", "c")
	var changes []string

	var c Context
	err := c.Start(ps, scope, Config{Name: "page", OnChange: func(k string) { changes = append(changes, k) }})
	if err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	if c.Active() != "a" {
		t.Fatalf("Active = %q, want a", c.Active())
	}
	if !reflect.DeepEqual(changes, []string{"a"}) {
		t.Fatalf("changes = %v, want [a]", changes)
	}
	if r, _ := c.Region("a"); !r.Intersecting || r.Ratio != 1 {
		t.Fatalf("region a = %+v, want intersecting with ratio 1", r)
	}

	scope.scrollTo(200)
	c.Scrolled()
	if got := activeKeys(c.Controls()); !reflect.DeepEqual(got, []string{"c"}) {
		t.Fatalf("active = %v, want [c]", got)
	}
}

func TestContext_TallRegionStaysActiveInsideBand(t *testing.T) {
	scope := &fakeScope{
		viewport: Rect{W: 80, H: 20},
		rects: map[string]Rect{
			"intro": {Y: 0, W: 80, H: 10},
			"tall":  {Y: 10, W: 80, H: 150},
		},
	}
	margin, _ := ParseMargin("-40% 0px -55% 0px")
	var c Context
	cfg := Config{Observer: ObserverOptions{Margin: margin, Thresholds: []float64{0.01}}}
	if err := c.Start(pairs("intro", "tall"), scope, cfg); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if c.Active() != "intro" {
		t.Fatalf("Active = %q at the top, want intro", c.Active())
	}
	for y := 0; y <= 140; y += 2 {
		scope.scrollTo(float64(y))
		c.Scrolled()
		// The band starts 8 lines into the viewport.
		if y+8 >= 10 && c.Active() != "tall" {
			t.Fatalf("Active = %q at y=%d with the band inside tall, want tall", c.Active(), y)
		}
	}
}

func TestContextStart_ActivateFirstWhenNothingIntersects(t *testing.T) {
	scope := &fakeScope{
		viewport: Rect{W: 80, H: 10},
		rects: map[string]Rect{
			"a": {Y: 8, W: 80, H: 10},
			"b": {Y: 18, W: 80, H: 10},
		},
	}
	margin, _ := ParseMargin("0px 0px -40% 0px")
	obs := ObserverOptions{Margin: margin, Thresholds: []float64{0, 0.25, 0.5, 0.75, 1}}

	var plain Context
	if err := plain.Start(pairs("a", "b"), scope, Config{Policy: HighestRatio, Observer: obs}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if plain.Active() != "" {
		t.Fatalf("Active = %q without ActivateFirst, want none", plain.Active())
	}

	var changes []string
	var c Context
	cfg := Config{Policy: HighestRatio, Observer: obs, ActivateFirst: true, OnChange: func(k string) { changes = append(changes, k) }}
	ps := pairs("a", "b")
	if err := c.Start(ps, scope, cfg); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if got := activeKeys(controlsOf(ps)); !reflect.DeepEqual(got, []string{"a"}) {
		t.Fatalf("active = %v, want [a]", got)
	}
	if !reflect.DeepEqual(changes, []string{"a"}) {
		t.Fatalf("changes = %v, want [a]", changes)
	}

	scope.scrollTo(18)
	c.Scrolled()
	if c.Active() != "b" {
		t.Fatalf("Active = %q after scrolling, want b", c.Active())
	}
}

func TestContextStart_ConfigurationErrors(t *testing.T) {
	dupRegion := pairs("a", "a")
	orphan := []Pair{{Region: &Region{Key: "a"}, Control: &NavControl{Key: "b"}}}
	dupControl := []Pair{
		{Region: &Region{Key: "a"}, Control: &NavControl{Key: "a"}},
		{Region: &Region{Key: "b"}, Control: &NavControl{Key: "a"}},
	}
	missing := []Pair{{Region: &Region{Key: "a"}}}
	empty := []Pair{{Region: &Region{}, Control: &NavControl{}}}

	cases := map[string][]Pair{
		"duplicate region":  dupRegion,
		"orphan":            orphan,
		"duplicate control": dupControl,
		"missing control":   missing,
		"empty key":         empty,
	}
	for name, ps := range cases {
		t.Run(name, func(t *testing.T) {
			for _, p := range ps {
				if p.Control != nil {
					p.Control.Active = true
				}
			}
			var c Context
			err := c.Start(ps, newFakeScope(100, "a", "b"), Config{Name: "page"})
			var cfgErr *ConfigurationError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("Start error = %v, want *ConfigurationError", err)
			}
			if cfgErr.Context != "page" {
				t.Fatalf("ConfigurationError.Context = %q, want page", cfgErr.Context)
			}
			if c.Running() {
				t.Fatalf("context running after configuration error")
			}
			for _, p := range ps {
				if p.Control != nil && !p.Control.Active {
					t.Fatalf("control %q mutated by failed Start", p.Control.Key)
				}
			}
		})
	}
}

func TestContextStart_Twice(t *testing.T) {
	var c Context
	if err := c.Start(pairs("a"), newFakeScope(100, "a"), Config{}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := c.Start(pairs("a"), newFakeScope(100, "a"), Config{}); !errors.Is(err, ErrStarted) {
		t.Fatalf("second Start error = %v, want ErrStarted", err)
	}
}

func TestContext_StickyAcrossGaps(t *testing.T) {
	scope := &fakeScope{
		viewport: Rect{W: 80, H: 100},
		rects: map[string]Rect{
			"a": {Y: 0, W: 80, H: 10},
			"b": {Y: 200, W: 80, H: 10},
		},
	}
	ps := pairs("a", "b")
	var c Context
	if err := c.Start(ps, scope, Config{Policy: HighestRatio}); err != nil {
		t.Fatalf("Start: %v", err)
	}

	scope.scrollTo(50) // nothing in view
	c.Scrolled()
	if c.Active() != "a" {
		t.Fatalf("Active = %q after all-hidden scroll, want a", c.Active())
	}

	scope.scrollTo(150)
	c.Scrolled()
	if c.Active() != "b" {
		t.Fatalf("Active = %q, want b", c.Active())
	}
}

func TestContext_StopIsIdempotentAndInert(t *testing.T) {
	var never Context
	never.Stop()
	never.Stop()
	if never.Running() || never.Active() != "" {
		t.Fatalf("zero context should be inert")
	}

	scope := newFakeScope(100, "a", "b")
	ps := pairs("a", "b")
	changes := 0
	var c Context
	if err := c.Start(ps, scope, Config{OnChange: func(string) { changes++ }}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	c.Stop()
	c.Stop()

	scope.scrollTo(100)
	c.Scrolled()
	if changes != 1 {
		t.Fatalf("changes = %d after Stop, want 1", changes)
	}
	if got := activeKeys(controlsOf(ps)); len(got) != 0 {
		t.Fatalf("active after Stop = %v, want none", got)
	}
	if c.Click("a") {
		t.Fatalf("Click on stopped context should report false")
	}
}

func TestContext_StopFromCallbackDropsQueuedEvents(t *testing.T) {
	scope := newFakeScope(100, "a", "b", "c")
	ps := pairs("a", "b", "c")
	var c Context
	var changes []string
	cfg := Config{
		Policy:   HighestRatio,
		Observer: ObserverOptions{Delivery: DeliverSingly},
		OnChange: func(k string) {
			changes = append(changes, k)
			if k != "a" {
				c.Stop()
			}
		},
	}
	if err := c.Start(ps, scope, cfg); err != nil {
		t.Fatalf("Start: %v", err)
	}

	// b and c both become visible in the same notify; the stop issued on
	// b's activation must suppress c's delivery.
	scope.scrollTo(150)
	c.Scrolled()
	if !reflect.DeepEqual(changes, []string{"a", "b"}) {
		t.Fatalf("changes = %v, want [a b]", changes)
	}
	if got := activeKeys(controlsOf(ps)); len(got) != 0 {
		t.Fatalf("active after Stop = %v, want none", got)
	}
}

func TestContext_InstantAndUnsupportedDegrade(t *testing.T) {
	t.Run("instant", func(t *testing.T) {
		scope := newFakeScope(100, "a", "b")
		scope.scrollTo(100)
		var c Context
		if err := c.Start(pairs("a", "b"), scope, Config{Instant: true}); err != nil {
			t.Fatalf("Start: %v", err)
		}
		if !c.Degraded() || c.Active() != "a" {
			t.Fatalf("Degraded=%v Active=%q, want degraded with a active", c.Degraded(), c.Active())
		}
		c.Scrolled()
		if c.Active() != "a" {
			t.Fatalf("instant context observed a scroll")
		}
	})

	t.Run("unsupported", func(t *testing.T) {
		scope := newFakeScope(100, "a", "b")
		scope.unmeasured = true
		var c Context
		if err := c.Start(pairs("a", "b"), scope, Config{}); err != nil {
			t.Fatalf("Start returned %v, want graceful degradation", err)
		}
		if c.Active() != "a" {
			t.Fatalf("Active = %q, want a", c.Active())
		}
	})

	t.Run("nil scope", func(t *testing.T) {
		var c Context
		if err := c.Start(pairs("a"), nil, Config{}); err != nil {
			t.Fatalf("Start returned %v, want graceful degradation", err)
		}
		if !c.Click("a") || c.Active() != "a" {
			t.Fatalf("Click on degraded nil-scope context failed")
		}
	})
}

func TestContext_ClickScrollsIntoView(t *testing.T) {
	scope := scrollScope{newFakeScope(100, "a", "b", "c")}
	var c Context
	if err := c.Start(pairs("a", "b", "c"), scope, Config{}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !c.Click("c") {
		t.Fatalf("Click(c) = false")
	}
	if len(scope.scrolledTo) != 1 || scope.scrolledTo[0].Y != 200 {
		t.Fatalf("scrolledTo = %+v, want c's rect", scope.scrolledTo)
	}
	if c.Active() != "a" {
		t.Fatalf("Click should not activate before the scope reports the scroll")
	}
	c.Scrolled()
	if c.Active() != "c" {
		t.Fatalf("Active = %q after scroll, want c", c.Active())
	}
	if c.Click("missing") {
		t.Fatalf("Click(missing) = true")
	}
}

func TestContext_DegradedClickActivates(t *testing.T) {
	scope := scrollScope{newFakeScope(100, "a", "b")}
	var c Context
	if err := c.Start(pairs("a", "b"), scope, Config{Instant: true}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	c.Click("b")
	if c.Active() != "b" {
		t.Fatalf("Active = %q, want b", c.Active())
	}
}

func TestContext_AtMostOneActiveUnderRandomScrolling(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for _, policy := range []Policy{FirstIntersecting, HighestRatio} {
		for _, delivery := range []Delivery{DeliverBatched, DeliverSingly} {
			scope := newFakeScope(40, "a", "b", "c", "d", "e")
			margin, _ := ParseMargin("-40% 0px -55% 0px")
			ps := pairs("a", "b", "c", "d", "e")
			var c Context
			cfg := Config{
				Policy:   policy,
				Observer: ObserverOptions{Margin: margin, Thresholds: []float64{0, 0.25, 0.5}, Delivery: delivery},
			}
			if err := c.Start(ps, scope, cfg); err != nil {
				t.Fatalf("Start: %v", err)
			}
			everActive := false
			for i := 0; i < 500; i++ {
				scope.scrollTo(float64(rng.Intn(240)))
				c.Scrolled()
				n := len(activeKeys(controlsOf(ps)))
				if n > 1 {
					t.Fatalf("%v/%v: %d controls active at step %d", policy, delivery, n, i)
				}
				if n == 1 {
					everActive = true
				} else if everActive {
					t.Fatalf("%v/%v: active flag vanished at step %d", policy, delivery, i)
				}
			}
			c.Stop()
		}
	}
}

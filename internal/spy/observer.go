package spy

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

// Scope is the scrollable container whose viewport drives visibility.
type Scope interface {
	// Viewport returns the visible part of the scope in content coordinates.
	Viewport() Rect
	// Locate returns the current geometry of the region with the given key.
	Locate(key string) (Rect, bool)
	// Measurable reports whether the scope is laid out and has a size.
	Measurable() bool
}

// Scroller is implemented by scopes that can bring a region into view.
type Scroller interface {
	ScrollIntoView(r Rect)
}

// Delivery selects how changed regions are handed to the observer callback.
type Delivery int

const (
	// DeliverBatched invokes the callback once per Notify with all changes.
	DeliverBatched Delivery = iota
	// DeliverSingly invokes the callback once per changed region.
	DeliverSingly
)

// ParseDelivery maps a config value to a Delivery. Empty means batched.
func ParseDelivery(s string) (Delivery, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "batch", "batched":
		return DeliverBatched, nil
	case "single", "singly":
		return DeliverSingly, nil
	default:
		return DeliverBatched, fmt.Errorf("unknown delivery %q", s)
	}
}

func (d Delivery) String() string {
	if d == DeliverSingly {
		return "single"
	}
	return "batched"
}

// ObserverOptions configure intersection computation.
type ObserverOptions struct {
	Thresholds []float64
	Margin     Margin
	Delivery   Delivery
}

type observedState struct {
	known        bool
	intersecting bool
	crossed      int
}

// Observer reports intersection changes for a set of regions within a scope.
// It is driven by Notify and is not safe for concurrent use.
type Observer struct {
	scope      Scope
	thresholds []float64
	margin     Margin
	delivery   Delivery
	callback   func([]VisibilityEvent)

	keys         []string
	state        map[string]observedState
	disconnected bool
	notifying    bool
}

// NewObserver returns an Observer bound to scope. It fails with
// ErrUnsupported when the scope is nil or cannot be measured.
func NewObserver(scope Scope, opts ObserverOptions, callback func([]VisibilityEvent)) (*Observer, error) {
	if scope == nil || !scope.Measurable() {
		return nil, ErrUnsupported
	}
	if callback == nil {
		return nil, fmt.Errorf("observer callback is nil")
	}
	return &Observer{
		scope:      scope,
		thresholds: normalizeThresholds(opts.Thresholds),
		margin:     opts.Margin,
		delivery:   opts.Delivery,
		callback:   callback,
		state:      make(map[string]observedState),
	}, nil
}

func normalizeThresholds(in []float64) []float64 {
	if len(in) == 0 {
		return []float64{0}
	}
	out := make([]float64, 0, len(in))
	for _, t := range in {
		if math.IsNaN(t) {
			continue
		}
		out = append(out, min(max(t, 0), 1))
	}
	if len(out) == 0 {
		return []float64{0}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// Observe registers keys for tracking. Already observed keys are ignored.
func (o *Observer) Observe(keys ...string) {
	if o == nil || o.disconnected {
		return
	}
	for _, key := range keys {
		if _, ok := o.state[key]; ok {
			continue
		}
		o.state[key] = observedState{}
		o.keys = append(o.keys, key)
	}
}

// Unobserve stops tracking key.
func (o *Observer) Unobserve(key string) {
	if o == nil {
		return
	}
	if _, ok := o.state[key]; !ok {
		return
	}
	delete(o.state, key)
	o.keys = slices.DeleteFunc(o.keys, func(k string) bool { return k == key })
}

// Disconnect stops all tracking. No callback fires afterwards, including the
// remaining deliveries of a Notify in progress.
func (o *Observer) Disconnect() {
	if o == nil {
		return
	}
	o.disconnected = true
	o.keys = nil
	o.state = map[string]observedState{}
}

// Observed returns the currently tracked keys in observe order.
func (o *Observer) Observed() []string {
	if o == nil {
		return nil
	}
	return slices.Clone(o.keys)
}

// Notify recomputes intersections and reports the regions whose state changed
// since their last report. A region intersects whenever it overlaps the root
// by any amount; thresholds only decide which ratio changes are reported.
func (o *Observer) Notify() {
	if o == nil || o.disconnected || o.notifying {
		return
	}
	o.notifying = true
	defer func() { o.notifying = false }()

	events := o.collect()
	if len(events) == 0 {
		return
	}
	if o.delivery == DeliverSingly {
		for _, ev := range events {
			if o.disconnected {
				return
			}
			if _, ok := o.state[ev.Key]; !ok {
				continue
			}
			o.callback([]VisibilityEvent{ev})
		}
		return
	}
	o.callback(events)
}

func (o *Observer) collect() []VisibilityEvent {
	if !o.scope.Measurable() {
		return nil
	}
	root := o.margin.Apply(o.scope.Viewport())

	var events []VisibilityEvent
	for _, key := range o.keys {
		rect, ok := o.scope.Locate(key)
		if !ok {
			continue
		}
		ratio, overlaps := intersectionRatio(rect, root)
		crossed := o.crossedCount(ratio, overlaps)
		next := observedState{
			known:        true,
			intersecting: overlaps,
			crossed:      crossed,
		}
		prev := o.state[key]
		if prev == next {
			continue
		}
		o.state[key] = next
		events = append(events, VisibilityEvent{Key: key, Intersecting: next.intersecting, Ratio: ratio})
	}
	return events
}

func intersectionRatio(target, root Rect) (float64, bool) {
	area := target.Area()
	if area == 0 {
		if root.Contains(target.X, target.Y) {
			return 1, true
		}
		return 0, false
	}
	overlap, ok := target.Intersect(root)
	if !ok {
		return 0, false
	}
	return min(overlap.Area()/area, 1), true
}

func (o *Observer) crossedCount(ratio float64, overlaps bool) int {
	n := 0
	for _, t := range o.thresholds {
		if t == 0 {
			if overlaps {
				n++
			}
			continue
		}
		if ratio >= t {
			n++
		}
	}
	return n
}

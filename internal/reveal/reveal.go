// Package reveal tracks one-shot entrance visibility for page elements.
//
// An element starts concealed and becomes visible the first time it
// intersects its scope. It is never concealed again.
package reveal

import (
	"errors"
	"time"

	"github.com/five82/folio/internal/spy"
)

// DefaultThreshold is the observer threshold. An element is revealed as soon
// as any part of it overlaps the viewport.
const DefaultThreshold = 0.15

// Options configure a Tracker.
type Options struct {
	Threshold     float64
	Stagger       time.Duration // delay per element index
	MaxDelay      time.Duration
	ReducedMotion bool
	// OnReveal is called when an element is scheduled to become visible.
	// The host commits the reveal with Show after delay.
	OnReveal func(key string, delay time.Duration)
}

// Tracker owns the visibility flags of a fixed list of elements.
type Tracker struct {
	keys     []string
	index    map[string]int
	visible  map[string]bool
	pending  map[string]bool
	opts     Options
	observer *spy.Observer
}

// New starts tracking keys within scope. With reduced motion, or when the
// scope cannot be observed, every element is visible immediately.
func New(keys []string, scope spy.Scope, opts Options) (*Tracker, error) {
	if opts.Threshold <= 0 {
		opts.Threshold = DefaultThreshold
	}
	t := &Tracker{
		keys:    append([]string(nil), keys...),
		index:   make(map[string]int, len(keys)),
		visible: make(map[string]bool, len(keys)),
		pending: make(map[string]bool),
		opts:    opts,
	}
	for i, k := range keys {
		t.index[k] = i
	}

	if opts.ReducedMotion || len(keys) == 0 {
		t.showAll()
		return t, nil
	}

	observer, err := spy.NewObserver(scope, spy.ObserverOptions{Thresholds: []float64{opts.Threshold}}, t.handle)
	if err != nil {
		if errors.Is(err, spy.ErrUnsupported) {
			t.showAll()
			return t, nil
		}
		return nil, err
	}
	t.observer = observer
	observer.Observe(keys...)
	observer.Notify()
	return t, nil
}

func (t *Tracker) showAll() {
	for _, k := range t.keys {
		t.visible[k] = true
	}
}

func (t *Tracker) handle(batch []spy.VisibilityEvent) {
	for _, ev := range batch {
		if !ev.Intersecting || t.visible[ev.Key] || t.pending[ev.Key] {
			continue
		}
		t.observer.Unobserve(ev.Key)
		delay := t.Delay(ev.Key)
		if delay <= 0 || t.opts.OnReveal == nil {
			t.visible[ev.Key] = true
			if t.opts.OnReveal != nil {
				t.opts.OnReveal(ev.Key, 0)
			}
			continue
		}
		t.pending[ev.Key] = true
		t.opts.OnReveal(ev.Key, delay)
	}
}

// Delay returns the stagger delay for key: its index times the stagger step,
// capped at MaxDelay.
func (t *Tracker) Delay(key string) time.Duration {
	i, ok := t.index[key]
	if !ok || t.opts.Stagger <= 0 {
		return 0
	}
	d := time.Duration(i) * t.opts.Stagger
	if t.opts.MaxDelay > 0 && d > t.opts.MaxDelay {
		d = t.opts.MaxDelay
	}
	return d
}

// Scrolled re-evaluates visibility after the scope moved.
func (t *Tracker) Scrolled() {
	if t == nil || t.observer == nil {
		return
	}
	t.observer.Notify()
}

// Show commits a scheduled reveal.
func (t *Tracker) Show(key string) {
	if t == nil {
		return
	}
	if _, ok := t.index[key]; !ok {
		return
	}
	delete(t.pending, key)
	t.visible[key] = true
}

// Visible reports whether key has been revealed. Untracked keys are always
// visible.
func (t *Tracker) Visible(key string) bool {
	if t == nil {
		return true
	}
	if _, ok := t.index[key]; !ok {
		return true
	}
	return t.visible[key]
}

// Stop disconnects from the scope. Already revealed elements stay visible.
func (t *Tracker) Stop() {
	if t == nil || t.observer == nil {
		return
	}
	t.observer.Disconnect()
	t.observer = nil
}

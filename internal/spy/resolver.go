package spy

import (
	"fmt"
	"strings"
)

// Policy selects one region from a batch of visibility events.
type Policy int

const (
	// FirstIntersecting picks the first intersecting event in batch order.
	FirstIntersecting Policy = iota
	// HighestRatio picks the intersecting event with the largest ratio,
	// earliest in the batch on ties.
	HighestRatio
)

// ParsePolicy maps a config value to a Policy. Empty means FirstIntersecting.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "first", "first-intersecting":
		return FirstIntersecting, nil
	case "ratio", "highest-ratio":
		return HighestRatio, nil
	default:
		return FirstIntersecting, fmt.Errorf("unknown tie-break policy %q", s)
	}
}

func (p Policy) String() string {
	switch p {
	case HighestRatio:
		return "ratio"
	default:
		return "first"
	}
}

// Select returns the key chosen from batch. Events that are not intersecting
// never participate.
func (p Policy) Select(batch []VisibilityEvent) (string, bool) {
	best := -1
	for i, ev := range batch {
		if !ev.Intersecting {
			continue
		}
		if p == FirstIntersecting {
			return ev.Key, true
		}
		if best < 0 || ev.Ratio > batch[best].Ratio {
			best = i
		}
	}
	if best < 0 {
		return "", false
	}
	return batch[best].Key, true
}

// Resolver owns the active flags of one set of controls.
type Resolver struct {
	policy   Policy
	controls []*NavControl
	byKey    map[string]*NavControl
	active   string
}

// NewResolver builds a resolver over controls, which must have unique keys.
func NewResolver(policy Policy, controls []*NavControl) *Resolver {
	r := &Resolver{
		policy:   policy,
		controls: controls,
		byKey:    make(map[string]*NavControl, len(controls)),
	}
	for _, c := range controls {
		r.byKey[c.Key] = c
		if c.Active && r.active == "" {
			r.active = c.Key
		}
	}
	return r
}

// Resolve applies the policy to batch and moves the active flag to the
// selected control. A batch with no intersecting event changes nothing.
func (r *Resolver) Resolve(batch []VisibilityEvent) (string, bool) {
	key, ok := r.policy.Select(batch)
	if !ok {
		return r.active, false
	}
	if _, known := r.byKey[key]; !known {
		return r.active, false
	}
	return key, r.Activate(key)
}

// Activate marks key active and clears every sibling. It reports whether the
// active key changed.
func (r *Resolver) Activate(key string) bool {
	if _, ok := r.byKey[key]; !ok {
		return false
	}
	for _, c := range r.controls {
		c.Active = c.Key == key
	}
	changed := r.active != key
	r.active = key
	return changed
}

// Clear unsets every active flag.
func (r *Resolver) Clear() {
	for _, c := range r.controls {
		c.Active = false
	}
	r.active = ""
}

// Active returns the key of the active control, or "" when none is active.
func (r *Resolver) Active() string {
	return r.active
}

// Policy returns the resolver's tie-break policy.
func (r *Resolver) Policy() Policy {
	return r.policy
}

package spy

import (
	"errors"
	"io"
	"log/slog"
)

// Config configures a Context.
type Config struct {
	// Name identifies the context in logs and errors.
	Name     string
	Policy   Policy
	Observer ObserverOptions
	// Instant skips observation and marks the first pair active, for
	// reduced-motion hosts.
	Instant bool
	// ActivateFirst marks the first pair active when nothing intersects
	// after the initial observation.
	ActivateFirst bool
	// OnChange is called with the new active key whenever it changes.
	OnChange func(key string)
	Logger   *slog.Logger
}

// Context binds one Observer and one Resolver to a scope and a fixed set of
// pairs. The zero value is an inert, stopped context.
type Context struct {
	name     string
	pairs    []Pair
	regions  map[string]*Region
	scope    Scope
	observer *Observer
	resolver *Resolver
	onChange func(string)
	logger   *slog.Logger

	running  bool
	degraded bool
}

// Start validates pairs and begins tracking them within scope. On a
// configuration error no control is touched and the context stays stopped.
func (c *Context) Start(pairs []Pair, scope Scope, cfg Config) error {
	if c.running {
		return ErrStarted
	}
	if err := validatePairs(cfg.Name, pairs); err != nil {
		return err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	controls := make([]*NavControl, 0, len(pairs))
	regions := make(map[string]*Region, len(pairs))
	for _, p := range pairs {
		p.Control.Active = false
		p.Region.Intersecting = false
		p.Region.Ratio = 0
		controls = append(controls, p.Control)
		regions[p.Region.Key] = p.Region
	}

	c.name = cfg.Name
	c.pairs = pairs
	c.regions = regions
	c.scope = scope
	c.onChange = cfg.OnChange
	c.logger = logger.With("context", cfg.Name)
	c.resolver = NewResolver(cfg.Policy, controls)
	c.running = true
	c.degraded = false

	if len(pairs) == 0 {
		return nil
	}

	if cfg.Instant {
		c.degrade("instant mode")
		return nil
	}

	observer, err := NewObserver(scope, cfg.Observer, c.handle)
	if err != nil {
		if errors.Is(err, ErrUnsupported) {
			c.degrade("observation unsupported")
			return nil
		}
		c.reset()
		return err
	}
	c.observer = observer

	keys := make([]string, 0, len(pairs))
	for _, p := range pairs {
		keys = append(keys, p.Region.Key)
	}
	observer.Observe(keys...)
	observer.Notify()
	if cfg.ActivateFirst && c.running && c.resolver.Active() == "" {
		c.activate(c.pairs[0].Control.Key)
	}
	return nil
}

func (c *Context) degrade(reason string) {
	c.degraded = true
	c.logger.Debug("scroll-spy degraded", "reason", reason)
	c.activate(c.pairs[0].Control.Key)
}

func (c *Context) handle(batch []VisibilityEvent) {
	if !c.running {
		c.logger.Debug("dropping visibility events after stop", "events", len(batch))
		return
	}
	for _, ev := range batch {
		if r, ok := c.regions[ev.Key]; ok {
			r.Intersecting = ev.Intersecting
			r.Ratio = ev.Ratio
		}
	}
	key, changed := c.resolver.Resolve(batch)
	if changed {
		c.notifyChange(key)
	}
}

func (c *Context) activate(key string) {
	if c.resolver.Activate(key) {
		c.notifyChange(key)
	}
}

func (c *Context) notifyChange(key string) {
	if c.onChange != nil {
		c.onChange(key)
	}
}

// Scrolled tells the context its scope moved or was re-laid out.
func (c *Context) Scrolled() {
	if !c.running || c.observer == nil {
		return
	}
	c.observer.Notify()
}

// Click scrolls the region for key into view when the scope supports it. The
// resulting visibility changes flow through the observer as usual. In
// degraded mode there is no observer, so the control is activated directly.
func (c *Context) Click(key string) bool {
	if !c.running {
		return false
	}
	if _, ok := c.regions[key]; !ok {
		return false
	}
	if scroller, ok := c.scope.(Scroller); ok {
		if rect, found := c.scope.Locate(key); found {
			scroller.ScrollIntoView(rect)
		}
	}
	if c.degraded {
		c.activate(key)
	}
	return true
}

// Stop disconnects the observer and clears every active flag. It is safe to
// call repeatedly, before Start, and from within an observer callback.
func (c *Context) Stop() {
	if !c.running {
		return
	}
	c.running = false
	if c.observer != nil {
		c.observer.Disconnect()
	}
	if c.resolver != nil {
		c.resolver.Clear()
	}
	c.logger.Debug("scroll-spy stopped")
	c.reset()
}

func (c *Context) reset() {
	c.running = false
	c.degraded = false
	c.pairs = nil
	c.regions = nil
	c.scope = nil
	c.observer = nil
	c.resolver = nil
	c.onChange = nil
}

// Active returns the key of the active control, "" when none is.
func (c *Context) Active() string {
	if !c.running || c.resolver == nil {
		return ""
	}
	return c.resolver.Active()
}

// Controls returns the context's controls in pair order.
func (c *Context) Controls() []*NavControl {
	out := make([]*NavControl, 0, len(c.pairs))
	for _, p := range c.pairs {
		out = append(out, p.Control)
	}
	return out
}

// Region returns the tracked region for key.
func (c *Context) Region(key string) (*Region, bool) {
	r, ok := c.regions[key]
	return r, ok
}

// Running reports whether the context has been started and not stopped.
func (c *Context) Running() bool {
	return c.running
}

// Degraded reports whether the context runs without observation.
func (c *Context) Degraded() bool {
	return c.degraded
}

func validatePairs(name string, pairs []Pair) error {
	regionKeys := make(map[string]struct{}, len(pairs))
	controlKeys := make(map[string]struct{}, len(pairs))
	for _, p := range pairs {
		if p.Region == nil || p.Control == nil {
			return &ConfigurationError{Context: name, Reason: "pair is missing a region or control"}
		}
		if p.Region.Key == "" || p.Control.Key == "" {
			return &ConfigurationError{Context: name, Reason: "empty key"}
		}
		if _, dup := regionKeys[p.Region.Key]; dup {
			return &ConfigurationError{Context: name, Key: p.Region.Key, Reason: "duplicate region key"}
		}
		if _, dup := controlKeys[p.Control.Key]; dup {
			return &ConfigurationError{Context: name, Key: p.Control.Key, Reason: "duplicate control key"}
		}
		regionKeys[p.Region.Key] = struct{}{}
		controlKeys[p.Control.Key] = struct{}{}
	}
	for _, p := range pairs {
		if _, ok := controlKeys[p.Region.Key]; !ok {
			return &ConfigurationError{Context: name, Key: p.Region.Key, Reason: "region has no control"}
		}
		if _, ok := regionKeys[p.Control.Key]; !ok {
			return &ConfigurationError{Context: name, Key: p.Control.Key, Reason: "control has no region"}
		}
	}
	return nil
}

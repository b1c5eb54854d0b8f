// Package dialog manages the open/close lifecycle of dialogs and the
// scroll-spy context that tracks each dialog's internal sections.
package dialog

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/five82/folio/internal/spy"
)

// ErrNotDisplayed is returned by Dialog.Discover before the dialog is shown.
var ErrNotDisplayed = errors.New("dialog is not displayed")

// Dialog is a displayable dialog whose sections can only be discovered once
// it has been shown.
type Dialog interface {
	ID() string
	Show() error
	Discover() ([]spy.Pair, error)
	Body() spy.Scope
	Hide()
}

// Phase is a step of the dialog lifecycle.
type Phase int

const (
	Closed Phase = iota
	Opening
	Open
	Closing
)

func (p Phase) String() string {
	switch p {
	case Opening:
		return "opening"
	case Open:
		return "open"
	case Closing:
		return "closing"
	default:
		return "closed"
	}
}

// CloseReason records what dismissed a dialog.
type CloseReason int

const (
	CloseEscape CloseReason = iota
	CloseControl
	CloseOutside
	CloseReplaced
)

func (r CloseReason) String() string {
	switch r {
	case CloseControl:
		return "control"
	case CloseOutside:
		return "outside"
	case CloseReplaced:
		return "replaced"
	default:
		return "escape"
	}
}

// Lifecycle drives one dialog through Closed → Opening → Open → Closing →
// Closed. Every open creates a fresh scroll-spy context.
type Lifecycle struct {
	dialog Dialog
	config spy.Config
	logger *slog.Logger

	phase Phase
	spy   *spy.Context
}

// NewLifecycle returns a closed lifecycle for d. cfg is used for every
// context started on open; its Name defaults to the dialog id. Every open
// starts with a control active, the first one when no section is in view.
func NewLifecycle(d Dialog, cfg spy.Config, logger *slog.Logger) *Lifecycle {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.Name == "" {
		cfg.Name = d.ID()
	}
	if cfg.Logger == nil {
		cfg.Logger = logger
	}
	cfg.ActivateFirst = true
	return &Lifecycle{
		dialog: d,
		config: cfg,
		logger: logger.With("dialog", d.ID()),
	}
}

// Open shows the dialog and starts tracking its sections. Sub-navigation
// failures are logged and leave the dialog open without highlighting; only a
// failure to show the dialog is returned.
func (l *Lifecycle) Open() error {
	if l.phase != Closed {
		return fmt.Errorf("open dialog %q: lifecycle is %s", l.dialog.ID(), l.phase)
	}
	l.phase = Opening

	if err := l.dialog.Show(); err != nil {
		l.phase = Closed
		return fmt.Errorf("show dialog %q: %w", l.dialog.ID(), err)
	}

	ctx := &spy.Context{}
	pairs, err := l.dialog.Discover()
	switch {
	case err != nil:
		l.logger.Warn("dialog discovery failed", "error", err)
	default:
		if err := ctx.Start(pairs, l.dialog.Body(), l.config); err != nil {
			l.logger.Error("dialog scroll-spy not started", "error", err)
		}
	}
	l.spy = ctx
	l.phase = Open
	return nil
}

// HandleClose reacts to the dialog's own close event. The context is stopped
// before the dialog is hidden. Closing a closed dialog is a no-op.
func (l *Lifecycle) HandleClose(reason CloseReason) {
	if l.phase != Open {
		return
	}
	l.phase = Closing
	if l.spy != nil {
		l.spy.Stop()
		l.spy = nil
	}
	l.dialog.Hide()
	l.phase = Closed
	l.logger.Debug("dialog closed", "reason", reason)
}

// Scrolled forwards a body scroll to the open dialog's context.
func (l *Lifecycle) Scrolled() {
	if l.phase == Open && l.spy != nil {
		l.spy.Scrolled()
	}
}

// Click forwards a sub-nav click to the open dialog's context.
func (l *Lifecycle) Click(key string) bool {
	if l.phase != Open || l.spy == nil {
		return false
	}
	return l.spy.Click(key)
}

// Phase returns the current lifecycle phase.
func (l *Lifecycle) Phase() Phase {
	return l.phase
}

// Dialog returns the managed dialog.
func (l *Lifecycle) Dialog() Dialog {
	return l.dialog
}

// Spy returns the context of the current open cycle, nil when closed.
func (l *Lifecycle) Spy() *spy.Context {
	return l.spy
}

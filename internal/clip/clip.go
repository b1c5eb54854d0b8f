// Package clip copies text to the clipboard with a terminal fallback.
package clip

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/atotto/clipboard"
	osc52 "github.com/aymanbagabas/go-osc52/v2"
)

// CopiedMessage is the feedback shown after every copy.
const CopiedMessage = "Copied to clipboard."

// ErrUnsupported is returned by System when no clipboard utility exists.
var ErrUnsupported = errors.New("system clipboard unavailable")

// Writer places text on a clipboard.
type Writer interface {
	Write(text string) error
}

// WriterFunc adapts a function to Writer.
type WriterFunc func(text string) error

// Write calls f(text).
func (f WriterFunc) Write(text string) error { return f(text) }

// System writes to the OS clipboard.
type System struct{}

// Write implements Writer.
func (System) Write(text string) error {
	if clipboard.Unsupported {
		return ErrUnsupported
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("write system clipboard: %w", err)
	}
	return nil
}

// OSC52 asks the terminal to set the clipboard with an OSC 52 escape
// sequence. It works over SSH and without clipboard utilities.
type OSC52 struct {
	Out  io.Writer
	Tmux bool
}

// Write implements Writer.
func (o OSC52) Write(text string) error {
	if o.Out == nil {
		return fmt.Errorf("osc52: no terminal output")
	}
	seq := osc52.New(text)
	if o.Tmux {
		seq = seq.Tmux()
	}
	if _, err := seq.WriteTo(o.Out); err != nil {
		return fmt.Errorf("osc52: %w", err)
	}
	return nil
}

// Copier writes through Primary, falling back to Fallback when it fails.
// Notify receives CopiedMessage once per Copy on either path.
type Copier struct {
	Primary  Writer
	Fallback Writer
	Notify   func(message string)
	Logger   *slog.Logger
}

// Copy places text on the clipboard. Failures are logged, never returned:
// the user sees the same feedback either way.
func (c *Copier) Copy(text string) {
	logger := c.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	var err error
	if c.Primary != nil {
		err = c.Primary.Write(text)
	} else {
		err = ErrUnsupported
	}
	if err != nil {
		logger.Warn("clipboard write failed, using fallback", "error", err)
		if c.Fallback != nil {
			if ferr := c.Fallback.Write(text); ferr != nil {
				logger.Warn("clipboard fallback failed", "error", ferr)
			}
		}
	}

	if c.Notify != nil {
		c.Notify(CopiedMessage)
	}
}

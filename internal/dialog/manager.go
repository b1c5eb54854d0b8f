package dialog

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/five82/folio/internal/spy"
)

// Manager keeps one Lifecycle per dialog id and allows a single open dialog.
type Manager struct {
	config     spy.Config
	logger     *slog.Logger
	lifecycles map[string]*Lifecycle
	order      []string
	current    *Lifecycle
}

// NewManager returns an empty manager. cfg is the template for every dialog
// scroll-spy context.
func NewManager(cfg spy.Config, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Manager{
		config:     cfg,
		logger:     logger,
		lifecycles: make(map[string]*Lifecycle),
	}
}

// Register adds d, replacing (and closing) any dialog with the same id.
func (m *Manager) Register(d Dialog) {
	id := d.ID()
	if prev, ok := m.lifecycles[id]; ok {
		if m.current == prev {
			m.Close(CloseReplaced)
		}
	} else {
		m.order = append(m.order, id)
	}
	m.lifecycles[id] = NewLifecycle(d, m.config, m.logger)
}

// Open opens the dialog with id, closing any other open dialog first.
func (m *Manager) Open(id string) error {
	l, ok := m.lifecycles[id]
	if !ok {
		return fmt.Errorf("unknown dialog %q", id)
	}
	if m.current == l {
		return nil
	}
	if m.current != nil {
		m.Close(CloseReplaced)
	}
	if err := l.Open(); err != nil {
		return err
	}
	m.current = l
	return nil
}

// Close dismisses the open dialog, if any.
func (m *Manager) Close(reason CloseReason) {
	if m.current == nil {
		return
	}
	m.current.HandleClose(reason)
	m.current = nil
}

// CloseAll closes the open dialog and forgets every registered one.
func (m *Manager) CloseAll() {
	m.Close(CloseReplaced)
	m.lifecycles = make(map[string]*Lifecycle)
	m.order = nil
}

// Current returns the open dialog's lifecycle, nil when none is open.
func (m *Manager) Current() *Lifecycle {
	return m.current
}

// IDs returns registered dialog ids in registration order.
func (m *Manager) IDs() []string {
	return append([]string(nil), m.order...)
}

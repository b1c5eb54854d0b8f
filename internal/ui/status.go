package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type toastExpiredMsg struct{ seq int }

// toast is transient footer feedback. Each show restarts the expiry timer;
// expiry messages from earlier shows are ignored.
type toast struct {
	message  string
	seq      int
	duration time.Duration
}

func (t *toast) show(message string) tea.Cmd {
	t.message = message
	t.seq++
	seq := t.seq
	return tea.Tick(t.duration, func(time.Time) tea.Msg {
		return toastExpiredMsg{seq: seq}
	})
}

func (t *toast) expire(seq int) bool {
	if seq != t.seq {
		return false
	}
	t.message = ""
	return true
}

// effects collects work requested by callbacks that fire inside Update,
// such as reveal timers, so Update can return it as commands.
type effects struct {
	cmds     []tea.Cmd
	relayout bool
}

func (e *effects) add(cmd tea.Cmd) {
	if cmd != nil {
		e.cmds = append(e.cmds, cmd)
	}
}

func (e *effects) drain() ([]tea.Cmd, bool) {
	cmds, relayout := e.cmds, e.relayout
	e.cmds, e.relayout = nil, false
	return cmds, relayout
}

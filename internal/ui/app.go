package ui

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/folio/internal/clip"
	"github.com/five82/folio/internal/config"
	"github.com/five82/folio/internal/dialog"
	"github.com/five82/folio/internal/page"
	"github.com/five82/folio/internal/prefs"
	"github.com/five82/folio/internal/reveal"
	"github.com/five82/folio/internal/spy"
	"github.com/five82/folio/internal/state"
)

// Options configures the UI.
type Options struct {
	Context  context.Context
	Store    *state.Store
	Config   *config.Config
	Logger   *slog.Logger
	Prefs    prefs.Store // nil uses the prefs file from Config
	PollTick time.Duration

	// Clipboard is the primary clipboard; nil uses the system clipboard.
	Clipboard clip.Writer
	// ClipboardFallback is used when the primary fails; nil uses OSC 52 on
	// stderr.
	ClipboardFallback clip.Writer
	// PrefersLight reports the host's light/dark signal; nil asks the
	// terminal for its background.
	PrefersLight func() bool
	Now          func() time.Time
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx      context.Context
	store    *state.Store
	cfg      config.Config
	logger   *slog.Logger
	prefs    prefs.Store
	copier   *clip.Copier
	keys     keyMap
	help     help.Model
	pollTick time.Duration
	year     int

	// UI state
	theme  Theme
	styles Styles
	width  int
	height int
	ready  bool

	// Document state
	doc            *page.Document
	version        int
	startedVersion int
	lastErr        error
	stale          bool

	// Page body and its behaviors. These are pointers so callbacks and
	// scopes stay valid while Bubble Tea copies the model.
	body    *scrollBody
	pageSpy *spy.Context
	pairs   []spy.Pair
	reveal  *reveal.Tracker
	focus   int

	// Dialogs
	dialogs *dialog.Manager
	views   map[string]*dialogView

	menu     menuState
	showHelp bool

	toast *toast
	fx    *effects
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	cfg := config.Default()
	if opts.Config != nil {
		cfg = *opts.Config
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	pollTick := opts.PollTick
	if pollTick == 0 {
		pollTick = DefaultUIInterval
	}

	store := opts.Prefs
	if store == nil {
		store = prefs.File{Path: cfg.PrefsPath}
	}
	prefersLight := opts.PrefersLight
	if prefersLight == nil {
		prefersLight = func() bool { return !lipgloss.HasDarkBackground() }
	}
	theme := GetTheme(prefs.ResolveTheme(store, cfg.ThemeFallback, prefersLight))

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	fx := &effects{}
	t := &toast{duration: cfg.ToastDuration}

	primary := opts.Clipboard
	if primary == nil {
		primary = clip.System{}
	}
	fallback := opts.ClipboardFallback
	if fallback == nil {
		fallback = clip.OSC52{Out: os.Stderr, Tmux: os.Getenv("TMUX") != ""}
	}

	m := Model{
		ctx:      ctx,
		store:    opts.Store,
		cfg:      cfg,
		logger:   logger,
		prefs:    store,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		pollTick: pollTick,
		year:     now().Year(),
		theme:    theme,
		styles:   theme.Styles(),
		body:     newScrollBody(cfg.PageSpy.Margin, !cfg.Reveal.ReducedMotion),
		pageSpy:  &spy.Context{},
		focus:    page.NoFocus,
		views:    make(map[string]*dialogView),
		toast:    t,
		fx:       fx,
		copier: &clip.Copier{
			Primary:  primary,
			Fallback: fallback,
			Logger:   logger,
			Notify:   func(message string) { fx.add(t.show(message)) },
		},
	}
	m.dialogs = dialog.NewManager(m.dialogSpyConfig(), logger)
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tickCmd(m.pollTick),
	}
	// Fetch snapshot immediately on start
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmd = m.handleKey(msg)

	case tea.MouseMsg:
		cmd = m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.help.Width = msg.Width / 2
		m.resize()

	case tickMsg:
		if m.store != nil {
			m.applySnapshot(m.store.Snapshot())
		}
		cmd = tickCmd(m.pollTick)

	case snapshotMsg:
		m.applySnapshot(state.Snapshot(msg))

	case scrollFrameMsg:
		cmd = m.handleFrame(msg)

	case revealMsg:
		if msg.version == m.version {
			m.reveal.Show(msg.key)
			m.fx.relayout = true
		}

	case toastExpiredMsg:
		m.toast.expire(msg.seq)
	}

	return m, m.flush(cmd)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.doc == nil {
		return m.renderWaiting()
	}

	// Show help overlay if active
	if m.showHelp {
		return m.renderHelp()
	}

	return m.renderMain()
}

// flush turns work queued by callbacks during this update into commands.
func (m *Model) flush(cmds ...tea.Cmd) tea.Cmd {
	if seq, ok := m.body.takeKick(); ok {
		m.fx.add(frameCmd(bodyPage, seq))
	}
	if v := m.openView(); v != nil {
		if seq, ok := v.body.takeKick(); ok {
			m.fx.add(frameCmd(bodyDialog, seq))
		}
	}
	pending, relayout := m.fx.drain()
	if relayout {
		m.relayoutPage()
	}
	return tea.Batch(append(cmds, pending...)...)
}

func (m *Model) applySnapshot(snap state.Snapshot) {
	m.lastErr = snap.LastError
	m.stale = snap.IsStale()
	if !snap.HasDocument || snap.Version == m.version {
		return
	}
	m.load(snap.Document, snap.Version)
}

// load replaces the document. Everything bound to the previous one is
// stopped before the new page context starts.
func (m *Model) load(doc *page.Document, version int) {
	m.dialogs.CloseAll()
	m.pageSpy.Stop()
	m.reveal.Stop()
	m.reveal = nil

	m.doc = doc
	m.version = version
	m.focus = page.NoFocus
	m.menu = menuState{}
	m.pairs = pairsFor(doc.NavSections())
	m.body.scrollTo(0)

	m.views = make(map[string]*dialogView, len(doc.Dialogs))
	for i := range doc.Dialogs {
		v := newDialogView(&doc.Dialogs[i], m.cfg.DialogSpy.Margin, !m.cfg.Reveal.ReducedMotion)
		v.resize(m.width, m.height, m.theme.Palette())
		m.views[v.ID()] = v
		m.dialogs.Register(v)
	}
	m.logger.Info("document displayed", "version", version, "sections", len(doc.Sections), "dialogs", len(doc.Dialogs))

	m.relayoutPage()
	if m.ready {
		m.startPage()
	}
}

// startPage starts a fresh page context and reveal tracker for the current
// document.
func (m *Model) startPage() {
	m.startedVersion = m.version
	m.pageSpy = &spy.Context{}
	m.pairs = pairsFor(m.doc.NavSections())
	if err := m.pageSpy.Start(m.pairs, m.body, m.pageSpyConfig()); err != nil {
		m.logger.Error("page scroll-spy not started", "error", err)
	}

	version, fx := m.version, m.fx
	tracker, err := reveal.New(m.revealKeys(), m.body, reveal.Options{
		Threshold:     m.cfg.Reveal.Threshold,
		Stagger:       m.cfg.Reveal.Stagger,
		MaxDelay:      m.cfg.Reveal.MaxDelay,
		ReducedMotion: m.cfg.Reveal.ReducedMotion,
		OnReveal: func(key string, delay time.Duration) {
			if delay <= 0 {
				fx.relayout = true
				return
			}
			fx.add(tea.Tick(delay, func(time.Time) tea.Msg {
				return revealMsg{key: key, version: version}
			}))
		},
	})
	if err != nil {
		m.logger.Warn("reveal tracking not started", "error", err)
		tracker = nil
	}
	m.reveal = tracker
	m.relayoutPage()
}

func (m *Model) revealKeys() []string {
	var keys []string
	for _, s := range m.doc.Sections {
		if s.Reveal || m.cfg.Reveal.All {
			keys = append(keys, s.ID)
		}
	}
	return keys
}

func (m *Model) pageSpyConfig() spy.Config {
	logger := m.logger
	return spy.Config{
		Name:     "page",
		Policy:   m.cfg.PageSpy.Policy,
		Observer: m.cfg.PageSpy.Options(),
		Instant:  m.cfg.PageSpy.Instant,
		Logger:   logger,
		OnChange: func(key string) { logger.Debug("active section", "key", key) },
	}
}

func (m *Model) dialogSpyConfig() spy.Config {
	return spy.Config{
		Policy:   m.cfg.DialogSpy.Policy,
		Observer: m.cfg.DialogSpy.Options(),
		Instant:  m.cfg.DialogSpy.Instant,
		Logger:   m.logger,
	}
}

func (m *Model) resize() {
	bodyH := max(m.height-headerHeight-footerHeight, 1)
	m.body.resize(m.width, bodyH)
	m.relayoutPage()
	for _, v := range m.views {
		v.resize(m.width, m.height, m.theme.Palette())
	}
	if m.doc != nil && m.startedVersion != m.version {
		m.startPage()
	} else {
		m.pageScrolled()
	}
	if lc := m.dialogs.Current(); lc != nil {
		lc.Scrolled()
	}
}

func (m *Model) relayoutPage() {
	if m.doc == nil {
		return
	}
	tracker := m.reveal
	m.body.setLayout(m.doc.Render(page.Options{
		Width:     m.width,
		Palette:   m.theme.Palette(),
		Focus:     m.focus,
		Concealed: func(id string) bool { return !tracker.Visible(id) },
	}))
}

func (m *Model) toggleTheme() {
	next := prefs.Toggle(m.theme.Name)
	m.theme = GetTheme(next)
	m.styles = m.theme.Styles()
	if err := m.prefs.Set(next); err != nil {
		m.logger.Warn("save theme preference", "error", err)
	}
	m.relayoutPage()
	for _, v := range m.views {
		v.resize(m.width, m.height, m.theme.Palette())
	}
}

// openView returns the open dialog, nil when none is.
func (m *Model) openView() *dialogView {
	lc := m.dialogs.Current()
	if lc == nil {
		return nil
	}
	v, _ := lc.Dialog().(*dialogView)
	return v
}

func (m *Model) pageScrolled() {
	m.pageSpy.Scrolled()
	m.reveal.Scrolled()
}

func (m *Model) dialogScrolled() {
	if lc := m.dialogs.Current(); lc != nil {
		lc.Scrolled()
	}
}

func (m *Model) handleFrame(msg scrollFrameMsg) tea.Cmd {
	var b *scrollBody
	switch msg.body {
	case bodyPage:
		b = m.body
	case bodyDialog:
		if v := m.openView(); v != nil {
			b = v.body
		}
	}
	if b == nil || msg.seq != b.seq {
		return nil
	}
	more := b.step()
	if msg.body == bodyPage {
		m.pageScrolled()
	} else {
		m.dialogScrolled()
	}
	if more {
		return frameCmd(msg.body, b.seq)
	}
	return nil
}

// shutdown stops every context before the program exits.
func (m *Model) shutdown() {
	m.dialogs.CloseAll()
	m.pageSpy.Stop()
	m.reveal.Stop()
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type scrollFrameMsg struct {
	body bodyID
	seq  int
}

type revealMsg struct {
	key     string
	version int
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

func frameCmd(body bodyID, seq int) tea.Cmd {
	return tea.Tick(ScrollFrame, func(time.Time) tea.Msg {
		return scrollFrameMsg{body: body, seq: seq}
	})
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(m.ctx),
	)
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}

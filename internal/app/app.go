package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/folio/internal/config"
	"github.com/five82/folio/internal/state"
	"github.com/five82/folio/internal/ui"
)

// Options configure the folio application. Non-zero fields override the
// config file.
type Options struct {
	ConfigPath string
	PagePath   string
	LogPath    string
	PollEvery  time.Duration
	Debug      bool
}

// ErrNoPage is returned when neither the command line nor the config names a
// document.
var ErrNoPage = errors.New("no page document given (pass a path or set page in config.toml)")

// Run boots the folio TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyOverrides(&cfg, opts)
	if cfg.Page == "" {
		return ErrNoPage
	}

	logger, closeLog, err := newLogger(cfg.LogFile, opts.Debug)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer closeLog()

	store := &state.Store{}
	reloader := newReloader(cfg.Page, logger)

	// The first load must succeed; later failures keep the last good document.
	if err := reloader.refresh(store); err != nil {
		return err
	}

	StartPoller(ctx, store, reloader, cfg.PollEvery)

	return ui.Run(ui.Options{
		Context:  ctx,
		Store:    store,
		Config:   &cfg,
		Logger:   logger,
		PollTick: ui.DefaultUIInterval,
	})
}

func applyOverrides(cfg *config.Config, opts Options) {
	if p := strings.TrimSpace(opts.PagePath); p != "" {
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
		cfg.Page = p
	}
	if p := strings.TrimSpace(opts.LogPath); p != "" {
		cfg.LogFile = p
	}
	if opts.PollEvery > 0 {
		cfg.PollEvery = opts.PollEvery
	}
}

// newLogger writes structured logs to path. The terminal belongs to the UI,
// so an empty path discards logs.
func newLogger(path string, debug bool) (*slog.Logger, func(), error) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, err
	}
	f, err := tea.LogToFile(path, "folio")
	if err != nil {
		return nil, nil, err
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	return logger, func() { _ = f.Close() }, nil
}

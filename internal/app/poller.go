package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/five82/folio/internal/page"
	"github.com/five82/folio/internal/state"
)

const (
	defaultPollInterval = 2 * time.Second
	maxBackoff          = 30 * time.Second
)

// calculateBackoff doubles the poll interval per consecutive failure, capped
// at maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	d := base
	for i := 0; i < failures; i++ {
		d *= 2
		if d >= maxBackoff {
			return maxBackoff
		}
	}
	return d
}

// reloader re-reads the document whenever its modification time changes.
type reloader struct {
	path    string
	modTime time.Time
	loaded  bool
	logger  *slog.Logger
}

func newReloader(path string, logger *slog.Logger) *reloader {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &reloader{path: path, logger: logger}
}

// refresh stats the file and parses it when changed. Failures keep the
// previously loaded document in the store.
func (r *reloader) refresh(store *state.Store) error {
	info, err := os.Stat(r.path)
	if err != nil {
		err = fmt.Errorf("stat document: %w", err)
		store.Update(nil, time.Time{}, err)
		r.logger.Warn("document poll failed", "path", r.path, "error", err)
		return err
	}
	if r.loaded && info.ModTime().Equal(r.modTime) {
		store.Touch()
		return nil
	}

	doc, err := page.Load(r.path)
	if err != nil {
		store.Update(nil, time.Time{}, err)
		r.logger.Warn("document reload failed", "path", r.path, "error", err)
		return err
	}
	r.modTime = info.ModTime()
	r.loaded = true
	store.Update(doc, r.modTime, nil)
	r.logger.Info("document loaded", "path", r.path, "version", store.Snapshot().Version)
	return nil
}

// StartPoller launches a background goroutine that reloads the document at
// the given cadence, backing off while reloads fail. It returns immediately.
func StartPoller(ctx context.Context, store *state.Store, r *reloader, interval time.Duration) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	go func() {
		timer := time.NewTimer(interval)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}
			_ = r.refresh(store)
			timer.Reset(calculateBackoff(store.Snapshot().ConsecutiveFailures, interval))
		}
	}()
}

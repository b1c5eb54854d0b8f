package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/folio/internal/page"
)

// Snapshot represents the latest document available to the UI.
type Snapshot struct {
	Document            *page.Document
	HasDocument         bool
	ModTime             time.Time
	Version             int // incremented on every successful load
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive reload failures
}

// IsStale returns true when reloading has failed for multiple polls in a row
// and the displayed document may no longer match the file.
func (s Snapshot) IsStale() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update replaces the stored document. When err is non-nil the previous
// document is kept but the error is recorded for visibility.
func (s *Store) Update(doc *page.Document, modTime time.Time, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.LastUpdated = time.Now()
		s.snapshot.ConsecutiveFailures++
		return
	}

	s.snapshot.Document = doc
	s.snapshot.HasDocument = doc != nil
	s.snapshot.ModTime = modTime
	s.snapshot.Version++
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures = 0
}

// Touch records a successful poll that found the document unchanged.
func (s *Store) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current snapshot. The document itself is
// never mutated after parsing and is shared.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

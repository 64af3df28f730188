// Package session holds the single shared piece of mutable state: the last
// resolved command and the busy flag that admits one request at a time.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/nadzzz/copilot/internal/intent"
	"github.com/nadzzz/copilot/internal/slots"
)

// Snapshot is the last completed command.
type Snapshot struct {
	RequestID      string        `json:"request_id,omitempty"`
	RawText        string        `json:"raw_text"`
	NormalizedText string        `json:"normalized_text"`
	CanonicalText  string        `json:"canonical_text"`
	Intent         intent.Intent `json:"intent"`
	Slots          slots.Set     `json:"slots"`
	Lang           string        `json:"lang"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// Empty reports whether no request has completed yet.
func (s Snapshot) Empty() bool {
	return s.UpdatedAt.IsZero()
}

// Mirror receives a copy of every snapshot. Implementations must be safe for
// concurrent use.
type Mirror interface {
	Save(ctx context.Context, snap Snapshot) error
}

// State guards the snapshot and the busy flag with one mutex.
type State struct {
	mu     sync.Mutex
	busy   bool
	last   Snapshot
	mirror Mirror
}

// New returns an idle State. mirror may be nil.
func New(mirror Mirror) *State {
	return &State{mirror: mirror}
}

// TryAcquire sets the busy flag if it is clear. It never blocks. The returned
// release func clears the flag and may be called more than once.
func (s *State) TryAcquire() (release func(), ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return nil, false
	}
	s.busy = true

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			s.busy = false
			s.mu.Unlock()
		})
	}, true
}

// Busy reports whether a request is in flight.
func (s *State) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// Update replaces the snapshot and forwards it to the mirror. Mirror errors
// are logged, never returned.
func (s *State) Update(ctx context.Context, snap Snapshot) {
	if snap.UpdatedAt.IsZero() {
		snap.UpdatedAt = time.Now().UTC()
	}
	snap.Slots = snap.Slots.Clone()

	s.mu.Lock()
	s.last = snap
	s.mu.Unlock()

	if s.mirror == nil {
		return
	}
	if err := s.mirror.Save(ctx, snap); err != nil {
		slog.Warn("session mirror save failed", "request_id", snap.RequestID, "error", err)
	}
}

// Restore seeds the snapshot without touching the mirror, e.g. from a value
// loaded at startup.
func (s *State) Restore(snap Snapshot) {
	snap.Slots = snap.Slots.Clone()
	s.mu.Lock()
	s.last = snap
	s.mu.Unlock()
}

// Snapshot returns a copy of the last completed command.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.last
	snap.Slots = snap.Slots.Clone()
	return snap
}

package store

import (
	"sync"
	"time"

	"pdf-extractor/pkg/extraction"
)

// UIState is exactly one of Idle, Loading, Success or Failed.
type UIState interface {
	Status() string
}

// Idle: nothing in flight, nothing to show.
type Idle struct{}

// Loading: one extraction request is outstanding.
type Loading struct {
	StartedAt time.Time
}

// Success holds the normalized result of the last submission.
type Success struct {
	Result extraction.Result
}

// Failed holds the message shown to the user.
type Failed struct {
	Message string
}

const (
	StatusIdle    = "idle"
	StatusLoading = "loading"
	StatusSuccess = "success"
	StatusError   = "error"
)

func (Idle) Status() string    { return StatusIdle }
func (Loading) Status() string { return StatusLoading }
func (Success) Status() string { return StatusSuccess }
func (Failed) Status() string  { return StatusError }

// Session represents one browser's upload state in memory
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	// The currently selected PDF, nil when nothing valid is selected.
	File *extraction.Document `json:"-"`

	State UIState `json:"-"`

	mu sync.Mutex
}

// NewSession returns an Idle session with no file.
func NewSession(id string) *Session {
	return &Session{
		ID:        id,
		CreatedAt: time.Now(),
		State:     Idle{},
	}
}

// Lock serializes state transitions on the session.
func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

// Snapshot is a copy of the session taken under its lock.
type Snapshot struct {
	ID    string
	File  *extraction.Document
	State UIState
}

// Snapshot copies the current file and state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.SnapshotLocked()
}

// SnapshotLocked is Snapshot for callers already holding the lock.
func (s *Session) SnapshotLocked() Snapshot {
	snap := Snapshot{ID: s.ID, State: s.State}
	if s.File != nil {
		f := *s.File
		snap.File = &f
	}
	return snap
}

// IsLoading reports whether a request is outstanding.
func (s Snapshot) IsLoading() bool {
	_, ok := s.State.(Loading)
	return ok
}

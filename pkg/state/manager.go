package state

import (
	"time"

	"pdf-extractor/internal/pkg/logger"
	"pdf-extractor/pkg/extraction"
	"pdf-extractor/pkg/store"
)

// User-facing validation messages.
const (
	MsgInvalidFile   = "Please select a valid PDF file"
	MsgNoFile        = "Please select a file first"
	MsgGenericFailed = "Error processing file"
)

// Manager handles session state transitions.
// Callers must hold the session lock.
type Manager struct {
	logger logger.ILogger
}

// NewManager creates a new state manager
func NewManager(logger logger.ILogger) *Manager {
	return &Manager{logger: logger}
}

// SelectFile stores doc if it is a PDF and clears any error, otherwise it
// clears the selection and fails with MsgInvalidFile.
func (m *Manager) SelectFile(session *store.Session, doc extraction.Document) bool {
	if !doc.IsPDF() {
		session.File = nil
		m.transition(session, store.Failed{Message: MsgInvalidFile})
		return false
	}
	session.File = &doc
	m.transition(session, store.Idle{})
	return true
}

// BeginSubmit moves the session to Loading and returns the file to send.
// Without a file it fails with MsgNoFile and returns false.
func (m *Manager) BeginSubmit(session *store.Session) (extraction.Document, bool) {
	if session.File == nil {
		m.transition(session, store.Failed{Message: MsgNoFile})
		return extraction.Document{}, false
	}
	m.transition(session, store.Loading{StartedAt: time.Now()})
	return *session.File, true
}

// Succeed stores a fresh normalized result, replacing any previous one.
func (m *Manager) Succeed(session *store.Session, result extraction.Result) {
	m.transition(session, store.Success{Result: result})
}

// Fail shows message, or the generic message when it is empty.
func (m *Manager) Fail(session *store.Session, message string) {
	if message == "" {
		message = MsgGenericFailed
	}
	m.transition(session, store.Failed{Message: message})
}

// IsLoading reports whether submit is currently suppressed.
func (m *Manager) IsLoading(session *store.Session) bool {
	_, ok := session.State.(store.Loading)
	return ok
}

func (m *Manager) transition(session *store.Session, next store.UIState) {
	prev := session.State
	session.State = next
	m.logger.Debug("State", "Transition", map[string]interface{}{
		"session_id": session.ID,
		"from":       statusOf(prev),
		"to":         next.Status(),
	})
}

func statusOf(s store.UIState) string {
	if s == nil {
		return store.StatusIdle
	}
	return s.Status()
}

package session

import (
	"sync"

	"github.com/google/uuid"

	"transcript-studio/internal/transcript"
)

// Manager owns the live documents, one per editing session. Sessions are
// independent; there is no cross-session sharing.
type Manager struct {
	mu    sync.RWMutex
	store *Store
	docs  map[string]*transcript.Document
}

// NewManager creates a manager backed by the given text store.
func NewManager(store *Store) *Manager {
	return &Manager{
		store: store,
		docs:  make(map[string]*transcript.Document),
	}
}

// Create allocates a new session with a fresh ID and an uninitialized
// document bound to the text store.
func (m *Manager) Create() (string, *transcript.Document) {
	id := uuid.NewString()
	doc := transcript.NewDocument(id, m.store)

	m.mu.Lock()
	m.docs[id] = doc
	m.mu.Unlock()

	return id, doc
}

// Get returns the document for a session.
func (m *Manager) Get(sessionID string) (*transcript.Document, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.docs[sessionID]
	return doc, ok
}

// Delete removes the session's document and its persisted text.
func (m *Manager) Delete(sessionID string) {
	m.mu.Lock()
	delete(m.docs, sessionID)
	m.mu.Unlock()
	m.store.Delete(sessionID)
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs)
}

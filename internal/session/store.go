// Package session provides the per-session canonical text store and the
// registry of live editing documents.
package session

import "sync"

// Store keeps one canonical-text string per session under a well-known key.
// Writes overwrite unconditionally (last-write-wins, no merge). Thread-safe.
type Store struct {
	mu    sync.RWMutex
	texts map[string]string
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{texts: make(map[string]string)}
}

// SaveText overwrites the canonical text for the session.
func (s *Store) SaveText(sessionID, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.texts[sessionID] = text
}

// Text returns the persisted canonical text for the session.
func (s *Store) Text(sessionID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	text, ok := s.texts[sessionID]
	return text, ok
}

// Delete removes the session's persisted text.
func (s *Store) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.texts, sessionID)
}

package models

import "transcript-studio/internal/transcript"

// TranscribeResponse is the body returned by the transcribe endpoint.
type TranscribeResponse struct {
	SessionID  string                         `json:"sessionId"`
	Text       string                         `json:"text"`
	Words      []transcript.Word              `json:"words,omitempty"`
	Paragraphs []transcript.ProviderParagraph `json:"paragraphs,omitempty"`
}

// SessionResponse is the body returned by session reads and every mutation.
type SessionResponse struct {
	SessionID  string                 `json:"sessionId"`
	State      string                 `json:"state"`
	Text       string                 `json:"text"`
	Paragraphs []transcript.Paragraph `json:"paragraphs"`
	Stats      *SessionStats          `json:"stats,omitempty"`
}

// SessionStats carries informational counters on session reads.
type SessionStats struct {
	Words      int     `json:"words"`
	Characters int     `json:"characters"`
	Paragraphs int     `json:"paragraphs"`
	Duration   float64 `json:"duration"`
}

// SearchResponse is the body returned by the session search endpoint.
type SearchResponse struct {
	Query   string                   `json:"query"`
	Matches []transcript.SearchMatch `json:"matches"`
}

// RewriteResponse is the body returned by the rewrite endpoint. SessionID
// is set when the rewrite was applied to a session document; Text then
// carries the applied canonical text.
type RewriteResponse struct {
	SessionID string `json:"sessionId,omitempty"`
	Text      string `json:"text"`
	Summary   string `json:"summary"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Package models defines the wire shapes for published events and HTTP
// responses.
package models

// TranscriptionCompleted is emitted when a provider transcription finishes
// and an editing session is created from it.
type TranscriptionCompleted struct {
	EventType      string `json:"eventType"`
	SessionID      string `json:"sessionId"`
	Provider       string `json:"provider"`
	Model          string `json:"model"`
	Timestamp      int64  `json:"timestamp"`
	WordCount      int    `json:"wordCount"`
	ParagraphCount int    `json:"paragraphCount"`
	AudioBytes     int64  `json:"audioBytes"`
}

// DocumentUpdated is emitted after every document mutation.
type DocumentUpdated struct {
	EventType      string `json:"eventType"`
	SessionID      string `json:"sessionId"`
	Operation      string `json:"operation"`
	Timestamp      int64  `json:"timestamp"`
	ParagraphCount int    `json:"paragraphCount"`
	CharCount      int    `json:"charCount"`
	State          string `json:"state"`
}

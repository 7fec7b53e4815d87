// Package stt defines the interface for Speech-to-Text providers.
package stt

import (
	"context"
	"errors"

	"transcript-studio/internal/transcript"
)

// ErrEmptyAudio is returned when a provider is given no audio bytes.
var ErrEmptyAudio = errors.New("stt: empty audio")

// Options configures a batch transcription request.
type Options struct {
	// Language is a BCP-47 language hint (e.g. "en", "fi").
	Language string

	// Model selects the provider-specific recognition model.
	Model string

	// WordTimestamps requests per-word time offsets.
	WordTimestamps bool

	// Diarize requests speaker labels on words.
	Diarize bool
}

// Result is the outcome of a batch transcription.
type Result struct {
	// Text is the flat transcript, always populated.
	Text string

	// Words carries per-word timing and speaker labels when the
	// provider supports them. Empty otherwise.
	Words []transcript.Word

	// Paragraphs carries provider-reported paragraph boundaries
	// when available. Empty otherwise.
	Paragraphs []transcript.ProviderParagraph
}

// Provider defines the interface for batch STT backends (Google, OpenAI, mock).
type Provider interface {
	// Transcribe runs recognition over a complete audio file.
	Transcribe(ctx context.Context, audio []byte, opts Options) (*Result, error)

	// Name returns the provider identifier used in logs and metrics.
	Name() string
}

// Package mock provides a mock STT provider for testing and local
// development without cloud credentials. It returns a canned two-speaker
// conversation with word timings and provider paragraph boundaries.
package mock

import (
	"context"

	"transcript-studio/internal/stt"
	"transcript-studio/internal/transcript"
)

// Provider implements stt.Provider with canned responses.
type Provider struct{}

// New creates a new mock STT provider.
func New() *Provider {
	return &Provider{}
}

// Name returns the provider identifier.
func (p *Provider) Name() string { return "mock" }

// Transcribe returns the canned conversation regardless of audio content.
// An empty payload still fails, matching real provider behavior.
func (p *Provider) Transcribe(ctx context.Context, audio []byte, opts stt.Options) (*stt.Result, error) {
	if len(audio) == 0 {
		return nil, stt.ErrEmptyAudio
	}

	res := &stt.Result{
		Text: "Hello and welcome to the show. Thanks for having me. " +
			"Let's start with your background. I studied signal processing before moving into software.",
	}

	if opts.WordTimestamps {
		res.Words = cannedWords(opts.Diarize)
		res.Paragraphs = []transcript.ProviderParagraph{
			{Start: 0.0, End: 4.4, Speaker: 0},
			{Start: 5.6, End: 7.4, Speaker: 1},
			{Start: 8.8, End: 10.9, Speaker: 0},
			{Start: 12.1, End: 16.0, Speaker: 1},
		}
	}

	return res, nil
}

func cannedWords(diarize bool) []transcript.Word {
	words := []transcript.Word{
		{Text: "Hello", Start: 0.0, End: 0.4, Speaker: 0, Confidence: 0.98},
		{Text: "and", Start: 0.5, End: 0.7, Speaker: 0, Confidence: 0.97},
		{Text: "welcome", Start: 0.8, End: 1.2, Speaker: 0, Confidence: 0.99},
		{Text: "to", Start: 1.3, End: 1.4, Speaker: 0, Confidence: 0.99},
		{Text: "the", Start: 1.5, End: 1.6, Speaker: 0, Confidence: 0.98},
		{Text: "show.", Start: 1.7, End: 4.4, Speaker: 0, Confidence: 0.96},
		{Text: "Thanks", Start: 5.6, End: 5.9, Speaker: 1, Confidence: 0.95},
		{Text: "for", Start: 6.0, End: 6.1, Speaker: 1, Confidence: 0.98},
		{Text: "having", Start: 6.2, End: 6.6, Speaker: 1, Confidence: 0.97},
		{Text: "me.", Start: 6.7, End: 7.4, Speaker: 1, Confidence: 0.97},
		{Text: "Let's", Start: 8.8, End: 9.1, Speaker: 0, Confidence: 0.94},
		{Text: "start", Start: 9.2, End: 9.5, Speaker: 0, Confidence: 0.98},
		{Text: "with", Start: 9.6, End: 9.7, Speaker: 0, Confidence: 0.99},
		{Text: "your", Start: 9.8, End: 10.0, Speaker: 0, Confidence: 0.98},
		{Text: "background.", Start: 10.1, End: 10.9, Speaker: 0, Confidence: 0.95},
		{Text: "I", Start: 12.1, End: 12.2, Speaker: 1, Confidence: 0.99},
		{Text: "studied", Start: 12.3, End: 12.7, Speaker: 1, Confidence: 0.96},
		{Text: "signal", Start: 12.8, End: 13.2, Speaker: 1, Confidence: 0.93},
		{Text: "processing", Start: 13.3, End: 13.9, Speaker: 1, Confidence: 0.94},
		{Text: "before", Start: 14.0, End: 14.4, Speaker: 1, Confidence: 0.98},
		{Text: "moving", Start: 14.5, End: 14.9, Speaker: 1, Confidence: 0.97},
		{Text: "into", Start: 15.0, End: 15.2, Speaker: 1, Confidence: 0.98},
		{Text: "software.", Start: 15.3, End: 16.0, Speaker: 1, Confidence: 0.96},
	}
	if !diarize {
		for i := range words {
			words[i].Speaker = transcript.SpeakerUnknown
		}
	}
	return words
}

package mock

import (
	"context"
	"errors"
	"testing"

	"transcript-studio/internal/stt"
	"transcript-studio/internal/transcript"
)

func TestTranscribe_EmptyAudio(t *testing.T) {
	p := New()

	_, err := p.Transcribe(context.Background(), nil, stt.Options{})
	if !errors.Is(err, stt.ErrEmptyAudio) {
		t.Fatalf("expected ErrEmptyAudio, got %v", err)
	}
}

func TestTranscribe_FlatTextOnly(t *testing.T) {
	p := New()

	res, err := p.Transcribe(context.Background(), []byte{0x01}, stt.Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Text == "" {
		t.Error("expected non-empty text")
	}
	if len(res.Words) != 0 {
		t.Errorf("expected no words without WordTimestamps, got %d", len(res.Words))
	}
	if len(res.Paragraphs) != 0 {
		t.Errorf("expected no paragraphs without WordTimestamps, got %d", len(res.Paragraphs))
	}
}

func TestTranscribe_WordTimestamps(t *testing.T) {
	p := New()

	res, err := p.Transcribe(context.Background(), []byte{0x01}, stt.Options{
		WordTimestamps: true,
		Diarize:        true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Words) == 0 {
		t.Fatal("expected words")
	}
	if len(res.Paragraphs) == 0 {
		t.Fatal("expected provider paragraphs")
	}

	// Words must be time-ordered with non-negative durations
	for i, w := range res.Words {
		if w.End < w.Start {
			t.Errorf("word %d: end %.2f before start %.2f", i, w.End, w.Start)
		}
		if i > 0 && w.Start < res.Words[i-1].End {
			t.Errorf("word %d overlaps previous", i)
		}
	}

	speakers := map[int]bool{}
	for _, w := range res.Words {
		speakers[w.Speaker] = true
	}
	if len(speakers) != 2 {
		t.Errorf("expected 2 speakers, got %d", len(speakers))
	}
}

func TestTranscribe_NoDiarization(t *testing.T) {
	p := New()

	res, err := p.Transcribe(context.Background(), []byte{0x01}, stt.Options{WordTimestamps: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, w := range res.Words {
		if w.Speaker != transcript.SpeakerUnknown {
			t.Fatalf("word %d: expected unknown speaker, got %d", i, w.Speaker)
		}
	}
}

// Package openai provides an OpenAI Whisper speech-to-text provider.
// Whisper returns flat text without word timing, so results from this
// provider flow through the heuristic paragraph path downstream.
package openai

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/packages/param"

	"transcript-studio/internal/stt"
)

const defaultModelName = "whisper-1"

// Provider implements stt.Provider using the OpenAI audio transcriptions API.
type Provider struct {
	client openai.Client
}

// New creates a new OpenAI STT provider.
func New(apiKey string) (*Provider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("openai: API key is required")
	}
	return &Provider{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
	}, nil
}

// Name returns the provider identifier.
func (p *Provider) Name() string { return "openai" }

// Transcribe runs a batch Whisper transcription over the audio bytes.
func (p *Provider) Transcribe(ctx context.Context, audio []byte, opts stt.Options) (*stt.Result, error) {
	if len(audio) == 0 {
		return nil, stt.ErrEmptyAudio
	}

	modelName := strings.TrimSpace(opts.Model)
	if modelName == "" {
		modelName = defaultModelName
	}

	params := openai.AudioTranscriptionNewParams{
		File:           openai.File(bytes.NewReader(audio), "audio.wav", "audio/wav"),
		Model:          openai.AudioModel(modelName),
		ResponseFormat: openai.AudioResponseFormatJSON,
	}
	if opts.Language != "" {
		params.Language = param.NewOpt(opts.Language)
	}

	response, err := p.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("audio transcription: %w", err)
	}
	if response == nil {
		return nil, errors.New("openai: audio transcriptions API returned nil response")
	}

	text := strings.TrimSpace(response.Text)
	if text == "" {
		return nil, errors.New("openai: transcription response is empty")
	}

	return &stt.Result{Text: text}, nil
}

// Package google provides a Google Cloud Speech-to-Text provider.
package google

import (
	"context"
	"fmt"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"

	"transcript-studio/internal/stt"
	"transcript-studio/internal/transcript"
)

// Provider implements stt.Provider using Google Cloud Speech-to-Text.
type Provider struct {
	client *speech.Client
}

// New creates a new Google STT provider.
// Requires GOOGLE_APPLICATION_CREDENTIALS environment variable to be set.
func New(ctx context.Context) (*Provider, error) {
	c, err := speech.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create speech client: %w", err)
	}
	return &Provider{client: c}, nil
}

// Name returns the provider identifier.
func (p *Provider) Name() string { return "google" }

// Transcribe runs batch recognition with word time offsets and optional
// speaker diarization.
func (p *Provider) Transcribe(ctx context.Context, audio []byte, opts stt.Options) (*stt.Result, error) {
	if len(audio) == 0 {
		return nil, stt.ErrEmptyAudio
	}

	lang := opts.Language
	if lang == "" {
		lang = "en-US"
	}

	cfg := &speechpb.RecognitionConfig{
		Encoding:              speechpb.RecognitionConfig_LINEAR16,
		SampleRateHertz:       16000,
		LanguageCode:          lang,
		EnableWordTimeOffsets: opts.WordTimestamps,
	}
	if opts.Model != "" {
		cfg.Model = opts.Model
	}
	if opts.Diarize {
		cfg.DiarizationConfig = &speechpb.SpeakerDiarizationConfig{
			EnableSpeakerDiarization: true,
		}
	}

	resp, err := p.client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: cfg,
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("recognize: %w", err)
	}

	return fromResponse(resp), nil
}

// fromResponse flattens a recognition response into a Result. Google numbers
// speakers from 1; internal speaker ids start at 0.
func fromResponse(resp *speechpb.RecognizeResponse) *stt.Result {
	res := &stt.Result{}
	text := ""

	for _, r := range resp.GetResults() {
		if len(r.GetAlternatives()) == 0 {
			continue
		}
		alt := r.GetAlternatives()[0]
		if text != "" {
			text += " "
		}
		text += alt.GetTranscript()

		for _, w := range alt.GetWords() {
			speaker := transcript.SpeakerUnknown
			if tag := w.GetSpeakerTag(); tag > 0 {
				speaker = int(tag) - 1
			}
			res.Words = append(res.Words, transcript.Word{
				Text:       w.GetWord(),
				Start:      w.GetStartTime().AsDuration().Seconds(),
				End:        w.GetEndTime().AsDuration().Seconds(),
				Speaker:    speaker,
				Confidence: float64(alt.GetConfidence()),
			})
		}
	}

	res.Text = text
	return res
}

// Close releases the underlying client.
func (p *Provider) Close() error {
	return p.client.Close()
}

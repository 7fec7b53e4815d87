// Package ingest processes media files dropped into the watch folder:
// transcode to the recognition format, transcribe, segment into
// paragraphs and write a DOCX transcript next to the source.
package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"transcript-studio/internal/export"
	"transcript-studio/internal/media"
	"transcript-studio/internal/observability/logging"
	"transcript-studio/internal/observability/metrics"
	"transcript-studio/internal/stt"
	"transcript-studio/internal/transcript"
)

// Pipeline turns a media file into a rendered transcript document.
type Pipeline struct {
	transcoder *media.Transcoder
	provider   stt.Provider
	opts       stt.Options
	outputDir  string
	metrics    *metrics.Metrics
}

// New creates a Pipeline writing transcripts into outputDir.
func New(transcoder *media.Transcoder, provider stt.Provider, opts stt.Options, outputDir string) *Pipeline {
	return &Pipeline{
		transcoder: transcoder,
		provider:   provider,
		opts:       opts,
		outputDir:  outputDir,
		metrics:    metrics.DefaultMetrics,
	}
}

// Process handles one dropped file. Suitable as a watcher.EventHandler.
func (p *Pipeline) Process(ctx context.Context, filePath string) error {
	start := time.Now()
	name := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
	log := logging.WithComponent("ingest")

	log.Info().Str("file", filePath).Str("provider", p.provider.Name()).Msg("Ingesting media file")

	input, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	audio, err := p.transcoder.Transcode(ctx, input, media.TargetWAV16kMono)
	if err != nil {
		p.metrics.RecordTranscode(string(media.TargetWAV16kMono), "transcode_failed")
		return fmt.Errorf("transcode: %w", err)
	}
	p.metrics.RecordTranscode(string(media.TargetWAV16kMono), "")

	res, err := p.provider.Transcribe(ctx, audio, p.opts)
	p.metrics.RecordTranscription(p.provider.Name(), p.opts.Model, err, time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("transcribe: %w", err)
	}

	paragraphs := transcript.Segment(res.Words, res.Paragraphs, res.Text)
	text := transcript.Render(paragraphs)

	doc, err := export.Render(text, export.FormatDOCX)
	if err != nil {
		return fmt.Errorf("render document: %w", err)
	}
	p.metrics.RecordExport(string(export.FormatDOCX))

	if err := os.MkdirAll(p.outputDir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	outPath := filepath.Join(p.outputDir, name+".docx")
	if err := os.WriteFile(outPath, doc, 0644); err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}

	log.Info().
		Str("file", filePath).
		Str("output", outPath).
		Int("paragraphs", len(paragraphs)).
		Dur("elapsed", time.Since(start)).
		Msg("Ingest complete")
	return nil
}

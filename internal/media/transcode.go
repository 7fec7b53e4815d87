// Package media converts uploaded audio and video between formats using
// ffmpeg. Recognition uses 16kHz mono WAV; downloads use MP3.
package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"transcript-studio/pkg/executor"
)

// Target selects the transcode output format.
type Target string

const (
	// TargetWAV16kMono is the recognition format: PCM 16-bit, 16kHz, mono.
	TargetWAV16kMono Target = "wav"

	// TargetMP3 is the download format.
	TargetMP3 Target = "mp3"
)

// TranscodeError wraps an ffmpeg failure with the attempted target.
type TranscodeError struct {
	Target Target
	Err    error
}

func (e *TranscodeError) Error() string {
	return fmt.Sprintf("transcode to %s: %v", e.Target, e.Err)
}

func (e *TranscodeError) Unwrap() error { return e.Err }

// Transcoder converts media through ffmpeg via temp files.
type Transcoder struct {
	exec executor.Executor
}

// New creates a Transcoder backed by the given command executor.
func New(exec executor.Executor) *Transcoder {
	return &Transcoder{exec: exec}
}

// Transcode converts the input bytes to the target format and returns
// the converted bytes. The input container is detected by ffmpeg itself,
// so the suffix on the temp input file is not significant.
func (t *Transcoder) Transcode(ctx context.Context, input []byte, target Target) ([]byte, error) {
	if len(input) == 0 {
		return nil, &TranscodeError{Target: target, Err: fmt.Errorf("empty input")}
	}

	dir, err := os.MkdirTemp("", "transcode-*")
	if err != nil {
		return nil, &TranscodeError{Target: target, Err: err}
	}
	defer os.RemoveAll(dir)

	inPath := filepath.Join(dir, "input.bin")
	outPath := filepath.Join(dir, "output."+string(target))

	if err := os.WriteFile(inPath, input, 0644); err != nil {
		return nil, &TranscodeError{Target: target, Err: err}
	}

	args, err := buildArgs(inPath, outPath, target)
	if err != nil {
		return nil, err
	}

	log.Debug().Str("target", string(target)).Int("inputBytes", len(input)).Msg("Running ffmpeg")

	if _, err := t.exec.Execute(ctx, "ffmpeg", args...); err != nil {
		return nil, &TranscodeError{Target: target, Err: err}
	}

	out, err := os.ReadFile(outPath)
	if err != nil {
		return nil, &TranscodeError{Target: target, Err: err}
	}
	return out, nil
}

// buildArgs assembles the ffmpeg argument list for a target.
// The WAV target matches what recognition models expect: 16kHz mono PCM.
// The MP3 target keeps only the audio stream at the best VBR quality.
func buildArgs(inPath, outPath string, target Target) ([]string, error) {
	switch target {
	case TargetWAV16kMono:
		return []string{
			"-i", inPath,
			"-vn",
			"-ar", "16000",
			"-ac", "1",
			"-c:a", "pcm_s16le",
			"-threads", "0",
			"-y",
			outPath,
		}, nil
	case TargetMP3:
		return []string{
			"-i", inPath,
			"-q:a", "0",
			"-map", "a",
			"-threads", "0",
			"-y",
			outPath,
		}, nil
	default:
		return nil, &TranscodeError{Target: target, Err: fmt.Errorf("unsupported target")}
	}
}

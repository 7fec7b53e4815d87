package media

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
)

// fakeExecutor records the ffmpeg invocation and writes canned output
// to the last argument, which is always the output path.
type fakeExecutor struct {
	name    string
	args    []string
	output  []byte
	failErr error
}

func (f *fakeExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	f.name = name
	f.args = args
	if f.failErr != nil {
		return "", f.failErr
	}
	outPath := args[len(args)-1]
	if err := os.WriteFile(outPath, f.output, 0644); err != nil {
		return "", err
	}
	return "", nil
}

func TestTranscode_WAVArgs(t *testing.T) {
	fake := &fakeExecutor{output: []byte("RIFF")}
	tr := New(fake)

	out, err := tr.Transcode(context.Background(), []byte{0x01, 0x02}, TargetWAV16kMono)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(out) != "RIFF" {
		t.Errorf("expected converted bytes, got %q", out)
	}
	if fake.name != "ffmpeg" {
		t.Errorf("expected ffmpeg, got %s", fake.name)
	}

	joined := strings.Join(fake.args, " ")
	for _, want := range []string{"-vn", "-ar 16000", "-ac 1", "-c:a pcm_s16le", "-y"} {
		if !strings.Contains(joined, want) {
			t.Errorf("expected args to contain %q, got %q", want, joined)
		}
	}
}

func TestTranscode_MP3Args(t *testing.T) {
	fake := &fakeExecutor{output: []byte("ID3")}
	tr := New(fake)

	_, err := tr.Transcode(context.Background(), []byte{0x01}, TargetMP3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	joined := strings.Join(fake.args, " ")
	for _, want := range []string{"-q:a 0", "-map a"} {
		if !strings.Contains(joined, want) {
			t.Errorf("expected args to contain %q, got %q", want, joined)
		}
	}
}

func TestTranscode_EmptyInput(t *testing.T) {
	tr := New(&fakeExecutor{})

	_, err := tr.Transcode(context.Background(), nil, TargetMP3)
	var te *TranscodeError
	if !errors.As(err, &te) {
		t.Fatalf("expected TranscodeError, got %v", err)
	}
	if te.Target != TargetMP3 {
		t.Errorf("expected target mp3, got %s", te.Target)
	}
}

func TestTranscode_FFmpegFailure(t *testing.T) {
	fake := &fakeExecutor{failErr: errors.New("exit status 1")}
	tr := New(fake)

	_, err := tr.Transcode(context.Background(), []byte{0x01}, TargetWAV16kMono)
	var te *TranscodeError
	if !errors.As(err, &te) {
		t.Fatalf("expected TranscodeError, got %v", err)
	}
	if !errors.Is(err, fake.failErr) {
		t.Error("expected wrapped ffmpeg error")
	}
}

func TestTranscode_UnsupportedTarget(t *testing.T) {
	tr := New(&fakeExecutor{})

	_, err := tr.Transcode(context.Background(), []byte{0x01}, Target("flac"))
	var te *TranscodeError
	if !errors.As(err, &te) {
		t.Fatalf("expected TranscodeError, got %v", err)
	}
}

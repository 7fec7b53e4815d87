package http

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var (
	// ErrFileTooLarge is returned when an upload exceeds the configured cap.
	ErrFileTooLarge = errors.New("file too large")

	// ErrUnsupportedMedia is returned for uploads with an unknown extension.
	ErrUnsupportedMedia = errors.New("unsupported media format")

	// ErrUnknownModel is returned for model names outside the allowlist.
	ErrUnknownModel = errors.New("unknown model")
)

var allowedExtensions = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".mp4":  true,
	".flac": true,
	".ogg":  true,
	".webm": true,
	".m4a":  true,
}

var allowedModels = map[string]bool{
	"":          true, // provider default
	"whisper-1": true,
	"nova-2":    true,
	"nova-3":    true,
}

// validateUpload checks a media upload against the size cap and the
// format allowlist. The extension check is advisory; the transcoder
// detects the real container.
func validateUpload(filename string, size, maxBytes int64) error {
	if maxBytes > 0 && size > maxBytes {
		return fmt.Errorf("%w: %d bytes (limit %d)", ErrFileTooLarge, size, maxBytes)
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return fmt.Errorf("%w: %q", ErrUnsupportedMedia, ext)
	}
	return nil
}

func validateModel(model string) error {
	if !allowedModels[model] {
		return fmt.Errorf("%w: %q", ErrUnknownModel, model)
	}
	return nil
}

// Package watcher monitors a drop folder for new media files and hands
// them to a processing handler with bounded concurrency.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

type implWatcher struct {
	inputDir      string
	handler       EventHandler
	watcher       *fsnotify.Watcher
	maxConcurrent int
	semaphore     chan struct{}
	wg            sync.WaitGroup
}

// New creates a new Watcher instance with concurrency control
func New(inputDir string, handler EventHandler, maxConcurrent int) (Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(inputDir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	// Default to 2 concurrent if not specified
	if maxConcurrent <= 0 {
		maxConcurrent = 2
	}

	return &implWatcher{
		inputDir:      inputDir,
		handler:       handler,
		watcher:       watcher,
		maxConcurrent: maxConcurrent,
		semaphore:     make(chan struct{}, maxConcurrent),
	}, nil
}

// Start begins monitoring the input directory for new media files.
func (w *implWatcher) Start(ctx context.Context) error {
	log.Info().
		Int("maxConcurrent", w.maxConcurrent).
		Str("dir", w.inputDir).
		Msg("File watcher started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Waiting for ongoing processing to complete")
			w.wg.Wait()
			log.Info().Msg("File watcher stopped")
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}

			// Only process CREATE events
			if event.Op&fsnotify.Create == fsnotify.Create {
				if !isMediaFile(event.Name) {
					log.Debug().Str("file", event.Name).Msg("Ignoring non-media file")
					continue
				}
				log.Info().Str("file", event.Name).Msg("New media file detected")

				// Small delay to ensure file is fully written
				time.Sleep(500 * time.Millisecond)

				// Acquire semaphore slot (blocks if max concurrent reached)
				select {
				case w.semaphore <- struct{}{}:
					w.wg.Add(1)
					go func(filePath string) {
						defer w.wg.Done()
						defer func() { <-w.semaphore }()

						if err := w.handler(ctx, filePath); err != nil {
							log.Error().Err(err).Str("file", filePath).Msg("Failed to process file")
						}
					}(event.Name)
				case <-ctx.Done():
					return ctx.Err()
				}
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			log.Error().Err(err).Msg("Watcher error")
		}
	}
}

// Stop closes the file watcher
func (w *implWatcher) Stop() error {
	return w.watcher.Close()
}

// isMediaFile checks if the file has a supported audio or video extension
func isMediaFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	supportedFormats := []string{".mp3", ".wav", ".mp4", ".flac", ".ogg", ".webm", ".m4a", ".mov"}

	for _, format := range supportedFormats {
		if ext == format {
			return true
		}
	}

	return false
}

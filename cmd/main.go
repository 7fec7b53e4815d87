package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"transcript-studio/internal/app"
	"transcript-studio/internal/config"
	"transcript-studio/internal/events"
	studiohttp "transcript-studio/internal/http"
	"transcript-studio/internal/ingest"
	"transcript-studio/internal/media"
	"transcript-studio/internal/observability"
	"transcript-studio/internal/rewrite"
	"transcript-studio/internal/session"
	"transcript-studio/internal/stt"
	googlestt "transcript-studio/internal/stt/google"
	"transcript-studio/internal/stt/mock"
	openaistt "transcript-studio/internal/stt/openai"
	"transcript-studio/internal/watcher"
	"transcript-studio/pkg/executor"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	application := app.New(cfg)
	if err := application.Start(); err != nil {
		log.Fatal().Err(err).Msg("Application startup failed")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Metrics and health probes on a separate port
	obsServer := observability.NewServer(":" + cfg.Service.MetricsPort)
	obsServer.Start()

	publisher := events.New(&events.Config{
		Enabled:             cfg.Kafka.Enabled,
		Brokers:             cfg.Kafka.Brokers,
		TopicTranscriptions: cfg.Kafka.TopicTranscriptions,
		TopicDocuments:      cfg.Kafka.TopicDocuments,
		Principal:           cfg.Kafka.Principal,
	})
	defer publisher.Close()

	provider, err := newProvider(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("provider", cfg.STT.Provider).Msg("STT provider setup failed")
	}

	var rewriter studiohttp.RewriteService
	if len(cfg.Rewrite.APIKeys) > 0 {
		r, err := rewrite.New(cfg.Rewrite.APIKeys, cfg.Rewrite.Model)
		if err != nil {
			log.Fatal().Err(err).Msg("Rewriter setup failed")
		}
		rewriter = r
	} else {
		log.Warn().Msg("No rewrite API keys configured, rewrite endpoint disabled")
	}

	transcoder := media.New(executor.New())
	store := session.NewStore()
	manager := session.NewManager(store)

	server := studiohttp.NewServer(manager, store, provider, rewriter, transcoder, publisher, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Service.HTTPPort,
		Handler:      studiohttp.NewRouter(server),
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info().Str("addr", httpServer.Addr).Msg("Transcript studio API started")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP serve failed")
		}
	}()

	// Optional watch-folder ingestion
	if cfg.Watcher.Enabled {
		pipeline := ingest.New(transcoder, provider, stt.Options{
			Language:       cfg.STT.Language,
			Model:          cfg.STT.Model,
			WordTimestamps: cfg.STT.WordTimestamps,
			Diarize:        cfg.STT.Diarize,
		}, cfg.Watcher.OutputDir)

		w, err := watcher.New(cfg.Watcher.InputDir, pipeline.Process, cfg.Watcher.MaxConcurrent)
		if err != nil {
			log.Fatal().Err(err).Str("dir", cfg.Watcher.InputDir).Msg("Watcher setup failed")
		}
		go func() {
			if err := w.Start(ctx); err != nil && err != context.Canceled {
				log.Error().Err(err).Msg("Watcher stopped")
			}
		}()
		defer w.Stop()
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Info().Msg("Shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP shutdown error")
	}
	if err := obsServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Observability shutdown error")
	}
	// The Google backend holds a gRPC connection that must be released.
	if closer, ok := provider.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			log.Error().Err(err).Msg("STT provider close error")
		}
	}
	application.Shutdown()
}

// newProvider selects the STT backend by configuration.
func newProvider(ctx context.Context, cfg *config.Configuration) (stt.Provider, error) {
	switch cfg.STT.Provider {
	case "google":
		return googlestt.New(ctx)
	case "openai":
		return openaistt.New(cfg.STT.OpenAIAPIKey)
	default:
		return mock.New(), nil
	}
}

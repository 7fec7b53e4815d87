// Package http exposes the studio API: transcription, session editing,
// rewrite, media conversion and document export.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"transcript-studio/internal/config"
	"transcript-studio/internal/events"
	"transcript-studio/internal/export"
	"transcript-studio/internal/media"
	"transcript-studio/internal/models"
	"transcript-studio/internal/observability/logging"
	"transcript-studio/internal/observability/metrics"
	"transcript-studio/internal/rewrite"
	"transcript-studio/internal/session"
	"transcript-studio/internal/stt"
	"transcript-studio/internal/transcript"
)

// RewriteService abstracts the rewrite collaborator so handlers can be
// tested without a live model.
type RewriteService interface {
	Rewrite(ctx context.Context, text string) (*rewrite.Result, error)
}

// Server holds the handler dependencies.
type Server struct {
	manager    *session.Manager
	store      *session.Store
	provider   stt.Provider
	rewriter   RewriteService
	transcoder *media.Transcoder
	publisher  *events.Publisher
	metrics    *metrics.Metrics
	cfg        *config.Configuration
}

// NewServer wires the handler dependencies together. rewriter may be nil
// when no rewrite keys are configured; the rewrite endpoints then return
// 503.
func NewServer(
	manager *session.Manager,
	store *session.Store,
	provider stt.Provider,
	rewriter RewriteService,
	transcoder *media.Transcoder,
	publisher *events.Publisher,
	cfg *config.Configuration,
) *Server {
	return &Server{
		manager:    manager,
		store:      store,
		provider:   provider,
		rewriter:   rewriter,
		transcoder: transcoder,
		publisher:  publisher,
		metrics:    metrics.DefaultMetrics,
		cfg:        cfg,
	}
}

// handleTranscribe accepts a multipart media upload, converts it to the
// recognition format, transcribes it and opens a new editing session
// seeded with the segmented paragraphs.
func (s *Server) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	if err := validateUpload(header.Filename, header.Size, s.cfg.Limits.MaxUploadBytes); err != nil {
		status := http.StatusUnsupportedMediaType
		if errors.Is(err, ErrFileTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		writeError(w, status, err.Error())
		return
	}

	model := r.FormValue("model")
	if model == "" {
		model = s.cfg.STT.Model
	}
	if err := validateModel(model); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	input, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "read upload")
		return
	}
	s.metrics.RecordAudioReceived(len(input))

	audio, err := s.transcoder.Transcode(r.Context(), input, media.TargetWAV16kMono)
	if err != nil {
		log.Error().Err(err).Str("file", header.Filename).Msg("Transcode failed")
		s.metrics.RecordTranscode(string(media.TargetWAV16kMono), "transcode_failed")
		writeError(w, http.StatusUnprocessableEntity, "media conversion failed")
		return
	}
	s.metrics.RecordTranscode(string(media.TargetWAV16kMono), "")

	opts := stt.Options{
		Language:       orDefault(r.FormValue("language"), s.cfg.STT.Language),
		Model:          model,
		WordTimestamps: s.cfg.STT.WordTimestamps,
		Diarize:        s.cfg.STT.Diarize,
	}

	res, err := s.provider.Transcribe(r.Context(), audio, opts)
	s.metrics.RecordTranscription(s.provider.Name(), model, err, time.Since(start).Seconds())
	if err != nil {
		log.Error().Err(err).Str("provider", s.provider.Name()).Msg("Transcription failed")
		writeError(w, http.StatusBadGateway, "transcription failed")
		return
	}

	sessionID, doc := s.manager.Create()
	s.metrics.RecordSessionCreated()
	logger := logging.WithProvider(sessionID, s.provider.Name(), model)

	text, _, err := doc.Initialize(res.Words, res.Paragraphs, res.Text)
	if err != nil {
		s.manager.Delete(sessionID)
		s.metrics.RecordSessionClosed()
		writeError(w, http.StatusInternalServerError, "initialize session")
		return
	}

	_ = s.publisher.PublishTranscription(r.Context(), sessionID, models.TranscriptionCompleted{
		EventType:      "studio.transcription.completed",
		SessionID:      sessionID,
		Provider:       s.provider.Name(),
		Model:          model,
		Timestamp:      time.Now().Unix(),
		WordCount:      len(res.Words),
		ParagraphCount: len(doc.Paragraphs()),
		AudioBytes:     int64(len(input)),
	})

	logger.Info().
		Int("words", len(res.Words)).
		Int("paragraphs", len(doc.Paragraphs())).
		Dur("elapsed", time.Since(start)).
		Msg("Transcription session created")

	writeJSON(w, http.StatusCreated, models.TranscribeResponse{
		SessionID:  sessionID,
		Text:       text,
		Words:      res.Words,
		Paragraphs: res.Paragraphs,
	})
}

// handleGetSession returns the session's current text and paragraphs.
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.manager.Get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	paragraphs := doc.Paragraphs()
	text := doc.CanonicalText()
	writeJSON(w, http.StatusOK, models.SessionResponse{
		SessionID:  doc.SessionID(),
		State:      doc.State().String(),
		Text:       text,
		Paragraphs: paragraphs,
		Stats:      sessionStats(text, paragraphs),
	})
}

// handleSearchSession finds a word or phrase in the session's original
// word stream and returns time-coded matches with surrounding context.
// Edits never invalidate the stream, so search keeps working on a
// rewritten document.
func (s *Server) handleSearchSession(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.manager.Get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	query := r.URL.Query().Get("q")
	if strings.TrimSpace(query) == "" {
		writeError(w, http.StatusBadRequest, "missing query parameter q")
		return
	}

	matches := transcript.Search(doc.Words(), query)
	if matches == nil {
		matches = []transcript.SearchMatch{}
	}
	writeJSON(w, http.StatusOK, models.SearchResponse{
		Query:   query,
		Matches: matches,
	})
}

// handleDeleteSession removes the session and its persisted text.
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := s.manager.Get(id); !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	s.manager.Delete(id)
	s.metrics.RecordSessionClosed()
	w.WriteHeader(http.StatusNoContent)
}

// handleEditParagraph replaces one paragraph's text.
func (s *Server) handleEditParagraph(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	s.mutate(w, r, "edit", func(doc *transcript.Document) (string, []transcript.Paragraph, error) {
		return doc.EditParagraphText(chi.URLParam(r, "pid"), body.Text)
	})
}

// handleInsertParagraph inserts an empty paragraph after the given one.
func (s *Server) handleInsertParagraph(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, "insert", func(doc *transcript.Document) (string, []transcript.Paragraph, error) {
		return doc.InsertParagraphAfter(chi.URLParam(r, "pid"))
	})
}

// handleDeleteParagraph removes the paragraph, or clears it when it is
// the last one.
func (s *Server) handleDeleteParagraph(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, "delete", func(doc *transcript.Document) (string, []transcript.Paragraph, error) {
		return doc.DeleteParagraph(chi.URLParam(r, "pid"))
	})
}

// handleApplyRewrite replaces the session's paragraphs with rewritten text
// produced outside the session (the rewrite endpoint or a manual edit).
func (s *Server) handleApplyRewrite(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	s.mutate(w, r, "rewrite", func(doc *transcript.Document) (string, []transcript.Paragraph, error) {
		return doc.ApplyExternalRewrite(body.Text)
	})
}

// handleRestoreSession reloads the session from its persisted text.
func (s *Server) handleRestoreSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	text, ok := s.store.Text(id)
	if !ok {
		writeError(w, http.StatusNotFound, "no persisted text for session")
		return
	}
	s.mutate(w, r, "restore", func(doc *transcript.Document) (string, []transcript.Paragraph, error) {
		return doc.RestoreFromPersistedText(text)
	})
}

// handleResetSession discards all edits and re-segments from the original
// provider output.
func (s *Server) handleResetSession(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, "reset", func(doc *transcript.Document) (string, []transcript.Paragraph, error) {
		return doc.ResetToOriginal()
	})
}

// mutate runs one document mutation and writes the uniform session
// response, mapping domain errors to statuses.
func (s *Server) mutate(w http.ResponseWriter, r *http.Request, operation string, fn func(*transcript.Document) (string, []transcript.Paragraph, error)) {
	id := chi.URLParam(r, "id")
	doc, ok := s.manager.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	text, paragraphs, err := fn(doc)
	if err != nil {
		switch {
		case errors.Is(err, transcript.ErrParagraphNotFound):
			writeError(w, http.StatusNotFound, "paragraph not found")
		case errors.Is(err, transcript.ErrUninitialized):
			writeError(w, http.StatusConflict, "session not initialized")
		case errors.Is(err, transcript.ErrNoOriginalAvailable):
			writeError(w, http.StatusConflict, "no original transcription to reset to")
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	s.metrics.RecordMutation(operation)
	sessionLog := logging.WithSession(id)
	sessionLog.Debug().
		Str("operation", operation).
		Int("paragraphs", len(paragraphs)).
		Msg("Document mutated")
	_ = s.publisher.PublishDocument(r.Context(), id, models.DocumentUpdated{
		EventType:      "studio.document.updated",
		SessionID:      id,
		Operation:      operation,
		Timestamp:      time.Now().Unix(),
		ParagraphCount: len(paragraphs),
		CharCount:      len(text),
		State:          doc.State().String(),
	})

	writeJSON(w, http.StatusOK, models.SessionResponse{
		SessionID:  id,
		State:      doc.State().String(),
		Text:       text,
		Paragraphs: paragraphs,
	})
}

// handleRewrite sends text through the language-model rewrite and audits
// that the inline tags survived. A reply that lost tags is still returned;
// the loss is logged and counted so it shows up on dashboards. With a
// sessionId the session's canonical text is rewritten and the result is
// applied back to the document through the parser, in one call.
func (s *Server) handleRewrite(w http.ResponseWriter, r *http.Request) {
	if s.rewriter == nil {
		writeError(w, http.StatusServiceUnavailable, "rewrite not configured")
		return
	}

	var body struct {
		SessionID string `json:"sessionId"`
		Text      string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	var doc *transcript.Document
	text := body.Text
	if body.SessionID != "" {
		var ok bool
		doc, ok = s.manager.Get(body.SessionID)
		if !ok {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		text = doc.CanonicalText()
	}
	if strings.TrimSpace(text) == "" {
		writeError(w, http.StatusBadRequest, "empty text")
		return
	}

	start := time.Now()
	res, err := s.rewriter.Rewrite(r.Context(), text)
	s.metrics.RecordRewrite(err, time.Since(start).Seconds())
	if err != nil {
		log.Error().Err(err).Msg("Rewrite failed")
		writeError(w, http.StatusBadGateway, "rewrite failed")
		return
	}

	timeBefore, speakerBefore := transcript.CountTags(text)
	timeAfter, speakerAfter := transcript.CountTags(res.Text)
	if timeAfter < timeBefore || speakerAfter < speakerBefore {
		s.metrics.RecordRewriteTagLoss()
		log.Warn().
			Int("timeTagsBefore", timeBefore).
			Int("timeTagsAfter", timeAfter).
			Int("speakerTagsBefore", speakerBefore).
			Int("speakerTagsAfter", speakerAfter).
			Msg("Rewrite dropped metadata tags")
	}

	resultText := res.Text
	if doc != nil {
		applied, paragraphs, err := doc.ApplyExternalRewrite(res.Text)
		if err != nil {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		resultText = applied

		s.metrics.RecordMutation("rewrite")
		sessionLog := logging.WithSession(body.SessionID)
		sessionLog.Debug().
			Str("operation", "rewrite").
			Int("paragraphs", len(paragraphs)).
			Msg("Document mutated")
		_ = s.publisher.PublishDocument(r.Context(), body.SessionID, models.DocumentUpdated{
			EventType:      "studio.document.updated",
			SessionID:      body.SessionID,
			Operation:      "rewrite",
			Timestamp:      time.Now().Unix(),
			ParagraphCount: len(paragraphs),
			CharCount:      len(applied),
			State:          doc.State().String(),
		})
	}

	writeJSON(w, http.StatusOK, models.RewriteResponse{
		SessionID: body.SessionID,
		Text:      resultText,
		Summary:   res.Summary,
	})
}

// handleConvert transcodes an uploaded media file and streams back the
// converted bytes.
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	if err := validateUpload(header.Filename, header.Size, s.cfg.Limits.MaxUploadBytes); err != nil {
		status := http.StatusUnsupportedMediaType
		if errors.Is(err, ErrFileTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		writeError(w, status, err.Error())
		return
	}

	target := media.Target(orDefault(r.FormValue("target"), string(media.TargetMP3)))
	if target != media.TargetMP3 && target != media.TargetWAV16kMono {
		writeError(w, http.StatusBadRequest, "target must be mp3 or wav")
		return
	}

	input, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "read upload")
		return
	}

	out, err := s.transcoder.Transcode(r.Context(), input, target)
	if err != nil {
		log.Error().Err(err).Str("target", string(target)).Msg("Conversion failed")
		s.metrics.RecordTranscode(string(target), "transcode_failed")
		writeError(w, http.StatusUnprocessableEntity, "media conversion failed")
		return
	}
	s.metrics.RecordTranscode(string(target), "")

	contentType := "audio/mpeg"
	if target == media.TargetWAV16kMono {
		contentType = "audio/wav"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="converted.%s"`, target))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

// handleExport renders transcript text into a downloadable document. With
// a sessionId the session's canonical text is exported.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var body struct {
		SessionID string `json:"sessionId"`
		Text      string `json:"text"`
		Format    string `json:"format"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	text := body.Text
	if body.SessionID != "" {
		doc, ok := s.manager.Get(body.SessionID)
		if !ok {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		text = doc.CanonicalText()
	}

	format := export.Format(orDefault(body.Format, string(export.FormatDOCX)))
	out, err := export.Render(text, format)
	if err != nil {
		if errors.Is(err, export.ErrUnsupportedFormat) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Error().Err(err).Str("format", string(format)).Msg("Export failed")
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}
	s.metrics.RecordExport(string(format))

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="transcript.%s"`, format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

func sessionStats(text string, paragraphs []transcript.Paragraph) *models.SessionStats {
	stats := &models.SessionStats{
		Words:      len(strings.Fields(stripStatText(paragraphs))),
		Characters: len([]rune(text)),
		Paragraphs: len(paragraphs),
	}
	for _, p := range paragraphs {
		if p.Timed() && *p.End > stats.Duration {
			stats.Duration = *p.End
		}
	}
	return stats
}

// stripStatText joins paragraph bodies so word counts exclude the tags.
func stripStatText(paragraphs []transcript.Paragraph) string {
	parts := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		parts = append(parts, p.Text)
	}
	return strings.Join(parts, " ")
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, models.ErrorResponse{Error: msg})
}

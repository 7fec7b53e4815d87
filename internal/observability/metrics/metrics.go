// Package metrics provides Prometheus metrics for observability.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "transcript_studio"

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	// Transcription metrics
	TranscriptionsTotal     *prometheus.CounterVec
	TranscriptionErrors     *prometheus.CounterVec
	TranscriptionLatency    *prometheus.HistogramVec
	TranscriptionAudioBytes prometheus.Counter

	// Session / document metrics
	SessionsCreated   prometheus.Counter
	SessionsActive    prometheus.Gauge
	DocumentMutations *prometheus.CounterVec

	// Rewrite metrics
	RewritesTotal  prometheus.Counter
	RewriteErrors  prometheus.Counter
	RewriteLatency prometheus.Histogram
	RewriteTagLoss prometheus.Counter

	// Transcode metrics
	TranscodesTotal *prometheus.CounterVec
	TranscodeErrors *prometheus.CounterVec

	// Export metrics
	ExportsTotal *prometheus.CounterVec

	// Kafka publish metrics
	KafkaPublishTotal   *prometheus.CounterVec
	KafkaPublishErrors  *prometheus.CounterVec
	KafkaPublishLatency *prometheus.HistogramVec

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// DefaultMetrics is the global metrics instance.
var DefaultMetrics = NewMetrics()

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		// Transcription metrics
		TranscriptionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transcriptions_total",
			Help:      "Total number of transcription requests",
		}, []string{"provider", "model"}),
		TranscriptionErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transcription_errors_total",
			Help:      "Total number of failed transcription requests",
		}, []string{"provider", "error_type"}),
		TranscriptionLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "transcription_latency_seconds",
			Help:      "Transcription provider round-trip latency in seconds",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120, 300},
		}, []string{"provider"}),
		TranscriptionAudioBytes: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transcription_audio_bytes_total",
			Help:      "Total audio/video bytes submitted for transcription",
		}),

		// Session / document metrics
		SessionsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_created_total",
			Help:      "Total number of editing sessions created",
		}),
		SessionsActive: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Number of currently live editing sessions",
		}),
		DocumentMutations: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "document_mutations_total",
			Help:      "Total number of document mutations by operation",
		}, []string{"operation"}),

		// Rewrite metrics
		RewritesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rewrites_total",
			Help:      "Total number of rewrite requests sent to the language model",
		}),
		RewriteErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rewrite_errors_total",
			Help:      "Total number of failed rewrite requests",
		}),
		RewriteLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rewrite_latency_seconds",
			Help:      "Rewrite collaborator round-trip latency in seconds",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60},
		}),
		RewriteTagLoss: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rewrite_tag_loss_total",
			Help:      "Total number of rewrites that returned fewer metadata tags than submitted",
		}),

		// Transcode metrics
		TranscodesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transcodes_total",
			Help:      "Total number of media transcode requests",
		}, []string{"format"}),
		TranscodeErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transcode_errors_total",
			Help:      "Total number of failed transcodes",
		}, []string{"reason"}),

		// Export metrics
		ExportsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exports_total",
			Help:      "Total number of document exports",
		}, []string{"format"}),

		// Kafka publish metrics
		KafkaPublishTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_total",
			Help:      "Total number of Kafka messages published",
		}, []string{"topic", "event_type"}),
		KafkaPublishErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_errors_total",
			Help:      "Total number of Kafka publish errors",
		}, []string{"topic", "event_type"}),
		KafkaPublishLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "kafka_publish_latency_seconds",
			Help:      "Kafka publish latency in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"topic"}),

		// HTTP metrics
		HTTPRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests served",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.005, 0.025, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 60},
		}, []string{"method", "route"}),
	}
}

// RecordTranscription records a transcription round trip.
func (m *Metrics) RecordTranscription(provider, model string, err error, latencySeconds float64) {
	m.TranscriptionsTotal.WithLabelValues(provider, model).Inc()
	m.TranscriptionLatency.WithLabelValues(provider).Observe(latencySeconds)
	if err != nil {
		m.TranscriptionErrors.WithLabelValues(provider, "request_failed").Inc()
	}
}

// RecordAudioReceived records submitted audio bytes.
func (m *Metrics) RecordAudioReceived(bytes int) {
	m.TranscriptionAudioBytes.Add(float64(bytes))
}

// RecordSessionCreated records a new editing session.
func (m *Metrics) RecordSessionCreated() {
	m.SessionsCreated.Inc()
	m.SessionsActive.Inc()
}

// RecordSessionClosed records a session being removed.
func (m *Metrics) RecordSessionClosed() {
	m.SessionsActive.Dec()
}

// RecordMutation records one document mutation by operation name.
func (m *Metrics) RecordMutation(operation string) {
	m.DocumentMutations.WithLabelValues(operation).Inc()
}

// RecordRewrite records a rewrite round trip.
func (m *Metrics) RecordRewrite(err error, latencySeconds float64) {
	m.RewritesTotal.Inc()
	m.RewriteLatency.Observe(latencySeconds)
	if err != nil {
		m.RewriteErrors.Inc()
	}
}

// RecordRewriteTagLoss records a rewrite that came back with fewer metadata
// tags than were submitted.
func (m *Metrics) RecordRewriteTagLoss() {
	m.RewriteTagLoss.Inc()
}

// RecordTranscode records a transcode attempt; reason is empty on success.
func (m *Metrics) RecordTranscode(format, reason string) {
	m.TranscodesTotal.WithLabelValues(format).Inc()
	if reason != "" {
		m.TranscodeErrors.WithLabelValues(reason).Inc()
	}
}

// RecordExport records a document export.
func (m *Metrics) RecordExport(format string) {
	m.ExportsTotal.WithLabelValues(format).Inc()
}

// RecordKafkaPublish records a Kafka publish attempt.
func (m *Metrics) RecordKafkaPublish(topic, eventType string, err error, latencySeconds float64) {
	m.KafkaPublishTotal.WithLabelValues(topic, eventType).Inc()
	m.KafkaPublishLatency.WithLabelValues(topic).Observe(latencySeconds)
	if err != nil {
		m.KafkaPublishErrors.WithLabelValues(topic, eventType).Inc()
	}
}

// RecordHTTPRequest records a served HTTP request.
func (m *Metrics) RecordHTTPRequest(method, route, status string, durationSeconds float64) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(durationSeconds)
}

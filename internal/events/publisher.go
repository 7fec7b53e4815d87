// Package events provides event publishing functionality.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"transcript-studio/internal/observability/metrics"
)

// Publisher publishes studio events to separate Kafka topics.
type Publisher struct {
	writerTranscriptions *kafka.Writer
	writerDocuments      *kafka.Writer
	principal            string
	topicTranscriptions  string
	topicDocuments       string
	enabled              bool
	metrics              *metrics.Metrics
}

// Config holds Kafka publisher configuration.
type Config struct {
	Brokers             []string
	TopicTranscriptions string
	TopicDocuments      string
	Principal           string
	Enabled             bool
}

// New creates a Kafka event publisher with separate topics for completed
// transcriptions and document updates.
func New(cfg *Config) *Publisher {
	m := metrics.DefaultMetrics

	if cfg == nil {
		log.Info().Msg("Kafka disabled (nil config), using log-only mode")
		return &Publisher{
			enabled: false,
			metrics: m,
		}
	}

	if !cfg.Enabled || len(cfg.Brokers) == 0 {
		log.Info().Msg("Kafka disabled, using log-only mode")
		return &Publisher{
			principal:           cfg.Principal,
			topicTranscriptions: cfg.TopicTranscriptions,
			topicDocuments:      cfg.TopicDocuments,
			enabled:             false,
			metrics:             m,
		}
	}

	// Custom dialer with longer timeouts for DNS resolution in Kubernetes
	dialer := &kafka.Dialer{
		Timeout:   10 * time.Second,
		DualStack: true,
	}

	transport := &kafka.Transport{
		Dial: dialer.DialFunc,
	}

	writerTranscriptions := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.TopicTranscriptions,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireOne,
		Transport:    transport,
	}

	writerDocuments := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.TopicDocuments,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireOne,
		Transport:    transport,
	}

	log.Info().
		Strs("brokers", cfg.Brokers).
		Str("topicTranscriptions", cfg.TopicTranscriptions).
		Str("topicDocuments", cfg.TopicDocuments).
		Str("principal", cfg.Principal).
		Msg("Kafka publisher initialized")

	return &Publisher{
		writerTranscriptions: writerTranscriptions,
		writerDocuments:      writerDocuments,
		principal:            cfg.Principal,
		topicTranscriptions:  cfg.TopicTranscriptions,
		topicDocuments:       cfg.TopicDocuments,
		enabled:              true,
		metrics:              m,
	}
}

// PublishTranscription publishes a transcription completed event.
func (p *Publisher) PublishTranscription(ctx context.Context, key string, event any) error {
	return p.publish(ctx, p.writerTranscriptions, p.topicTranscriptions, "transcription", key, event)
}

// PublishDocument publishes a document updated event.
func (p *Publisher) PublishDocument(ctx context.Context, key string, event any) error {
	return p.publish(ctx, p.writerDocuments, p.topicDocuments, "document", key, event)
}

// publish is the internal method that writes to a specific Kafka writer.
func (p *Publisher) publish(ctx context.Context, writer *kafka.Writer, topic, eventType, key string, event any) error {
	start := time.Now()

	payload, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("Failed to marshal event")
		return err
	}

	log.Debug().
		Str("principal", p.principal).
		Str("topic", topic).
		Str("key", key).
		RawJSON("payload", payload).
		Msg("Publishing event")

	// If Kafka is disabled, just log
	if !p.enabled || writer == nil {
		p.metrics.RecordKafkaPublish(topic, eventType, nil, time.Since(start).Seconds())
		return nil
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "eventType", Value: []byte(eventType)},
			{Key: "principal", Value: []byte(p.principal)},
		},
	}

	if err := writer.WriteMessages(ctx, msg); err != nil {
		log.Error().
			Err(err).
			Str("topic", topic).
			Str("key", key).
			Msg("Failed to write to Kafka")
		p.metrics.RecordKafkaPublish(topic, eventType, err, time.Since(start).Seconds())
		return err
	}

	p.metrics.RecordKafkaPublish(topic, eventType, nil, time.Since(start).Seconds())
	return nil
}

// Close closes both Kafka writers.
func (p *Publisher) Close() error {
	var err error
	if p.writerTranscriptions != nil {
		if e := p.writerTranscriptions.Close(); e != nil {
			log.Error().Err(e).Msg("Error closing transcriptions writer")
			err = e
		}
	}
	if p.writerDocuments != nil {
		if e := p.writerDocuments.Close(); e != nil {
			log.Error().Err(e).Msg("Error closing documents writer")
			err = e
		}
	}
	return err
}

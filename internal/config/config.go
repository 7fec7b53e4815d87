// Package config loads service configuration from the environment, with an
// optional YAML file overlay for deployments that prefer files over env vars.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Configuration holds all service settings.
type Configuration struct {
	Service       ServiceConfig       `yaml:"service"`
	STT           STTConfig           `yaml:"stt"`
	Rewrite       RewriteConfig       `yaml:"rewrite"`
	Kafka         KafkaConfig         `yaml:"kafka"`
	Limits        LimitsConfig        `yaml:"limits"`
	Watcher       WatcherConfig       `yaml:"watcher"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServiceConfig identifies the service and its listen addresses.
type ServiceConfig struct {
	Principal   string `yaml:"principal"`
	HTTPPort    string `yaml:"http_port"`
	MetricsPort string `yaml:"metrics_port"`
}

// STTConfig selects and configures the transcription provider.
type STTConfig struct {
	Provider       string `yaml:"provider"` // mock, google, openai
	Language       string `yaml:"language"`
	Model          string `yaml:"model"`
	WordTimestamps bool   `yaml:"word_timestamps"`
	Diarize        bool   `yaml:"diarize"`
	OpenAIAPIKey   string `yaml:"openai_api_key"`
}

// RewriteConfig configures the language-model rewrite collaborator.
type RewriteConfig struct {
	APIKeys []string `yaml:"api_keys"`
	Model   string   `yaml:"model"`
}

// KafkaConfig configures event publishing.
type KafkaConfig struct {
	Enabled             bool     `yaml:"enabled"`
	Brokers             []string `yaml:"brokers"`
	TopicTranscriptions string   `yaml:"topic_transcriptions"`
	TopicDocuments      string   `yaml:"topic_documents"`
	Principal           string   `yaml:"principal"`
}

// LimitsConfig holds request guardrails.
type LimitsConfig struct {
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`
}

// WatcherConfig configures the optional watch-folder ingestion pipeline.
type WatcherConfig struct {
	Enabled       bool   `yaml:"enabled"`
	InputDir      string `yaml:"input_dir"`
	OutputDir     string `yaml:"output_dir"`
	MaxConcurrent int    `yaml:"max_concurrent"`
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// Load builds a Configuration from environment variables, falling back to
// defaults on missing or unparseable values.
func Load() *Configuration {
	return &Configuration{
		Service: ServiceConfig{
			Principal:   envOrDefault("SERVICE_PRINCIPAL", "svc-transcript-studio"),
			HTTPPort:    envOrDefault("HTTP_PORT", "8080"),
			MetricsPort: envOrDefault("METRICS_PORT", "9090"),
		},
		STT: STTConfig{
			Provider:       envOrDefault("STT_PROVIDER", "mock"),
			Language:       envOrDefault("STT_LANGUAGE", "en"),
			Model:          envOrDefault("STT_MODEL", "nova-3"),
			WordTimestamps: envBoolOrDefault("STT_WORD_TIMESTAMPS", true),
			Diarize:        envBoolOrDefault("STT_DIARIZE", true),
			OpenAIAPIKey:   os.Getenv("OPENAI_API_KEY"),
		},
		Rewrite: RewriteConfig{
			APIKeys: envList("REWRITE_API_KEYS"),
			Model:   envOrDefault("REWRITE_MODEL", "gemini-2.5-flash"),
		},
		Kafka: KafkaConfig{
			Enabled:             envBoolOrDefault("KAFKA_ENABLED", false),
			Brokers:             envList("KAFKA_BROKERS"),
			TopicTranscriptions: envOrDefault("KAFKA_TOPIC_TRANSCRIPTIONS", "transcript-studio.transcriptions"),
			TopicDocuments:      envOrDefault("KAFKA_TOPIC_DOCUMENTS", "transcript-studio.documents"),
			Principal:           envOrDefault("KAFKA_PRINCIPAL", "svc-transcript-studio"),
		},
		Limits: LimitsConfig{
			MaxUploadBytes: envInt64OrDefault("MAX_UPLOAD_BYTES", 300*1024*1024),
		},
		Watcher: WatcherConfig{
			Enabled:       envBoolOrDefault("WATCHER_ENABLED", false),
			InputDir:      envOrDefault("WATCHER_INPUT_DIR", "data/inbox"),
			OutputDir:     envOrDefault("WATCHER_OUTPUT_DIR", "data/out"),
			MaxConcurrent: envIntOrDefault("WATCHER_MAX_CONCURRENT", 2),
		},
		Observability: ObservabilityConfig{
			LogLevel:  envOrDefault("LOG_LEVEL", "info"),
			LogFormat: envOrDefault("LOG_FORMAT", "json"),
		},
	}
}

// LoadFile overlays Load() with values from a YAML file. Env vars win for
// fields the file leaves empty because Load() runs first and the file only
// overwrites what it sets.
func LoadFile(path string) (*Configuration, error) {
	cfg := Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBoolOrDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return parsed
}

func envIntOrDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return parsed
}

func envInt64OrDefault(key string, def int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parsed, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def
	}
	return parsed
}

func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

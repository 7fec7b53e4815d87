package config

import (
	"os"
	"path/filepath"
	"testing"
)

var knownEnvVars = []string{
	"SERVICE_PRINCIPAL", "HTTP_PORT", "METRICS_PORT",
	"STT_PROVIDER", "STT_LANGUAGE", "STT_MODEL", "STT_WORD_TIMESTAMPS", "STT_DIARIZE",
	"REWRITE_API_KEYS", "REWRITE_MODEL",
	"KAFKA_ENABLED", "KAFKA_BROKERS", "KAFKA_TOPIC_TRANSCRIPTIONS", "KAFKA_TOPIC_DOCUMENTS", "KAFKA_PRINCIPAL",
	"MAX_UPLOAD_BYTES",
	"WATCHER_ENABLED", "WATCHER_INPUT_DIR", "WATCHER_OUTPUT_DIR", "WATCHER_MAX_CONCURRENT",
	"LOG_LEVEL", "LOG_FORMAT",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, v := range knownEnvVars {
		os.Unsetenv(v)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()

	if cfg.Service.Principal != "svc-transcript-studio" {
		t.Errorf("expected default principal 'svc-transcript-studio', got %s", cfg.Service.Principal)
	}
	if cfg.Service.HTTPPort != "8080" {
		t.Errorf("expected default HTTP port '8080', got %s", cfg.Service.HTTPPort)
	}
	if cfg.Service.MetricsPort != "9090" {
		t.Errorf("expected default metrics port '9090', got %s", cfg.Service.MetricsPort)
	}
	if cfg.STT.Provider != "mock" {
		t.Errorf("expected default STT provider 'mock', got %s", cfg.STT.Provider)
	}
	if cfg.STT.Language != "en" {
		t.Errorf("expected default language 'en', got %s", cfg.STT.Language)
	}
	if cfg.STT.Model != "nova-3" {
		t.Errorf("expected default model 'nova-3', got %s", cfg.STT.Model)
	}
	if !cfg.STT.WordTimestamps {
		t.Error("expected word timestamps enabled by default")
	}
	if !cfg.STT.Diarize {
		t.Error("expected diarization enabled by default")
	}
	if cfg.Rewrite.Model != "gemini-2.5-flash" {
		t.Errorf("expected default rewrite model 'gemini-2.5-flash', got %s", cfg.Rewrite.Model)
	}
	if cfg.Kafka.Enabled {
		t.Error("expected Kafka disabled by default")
	}
	if cfg.Limits.MaxUploadBytes != 300*1024*1024 {
		t.Errorf("expected default upload limit 300MB, got %d", cfg.Limits.MaxUploadBytes)
	}
	if cfg.Watcher.MaxConcurrent != 2 {
		t.Errorf("expected default watcher concurrency 2, got %d", cfg.Watcher.MaxConcurrent)
	}
	if cfg.Observability.LogLevel != "info" {
		t.Errorf("expected default log level 'info', got %s", cfg.Observability.LogLevel)
	}
}

func TestLoad_CustomValues(t *testing.T) {
	clearEnv(t)
	os.Setenv("SERVICE_PRINCIPAL", "custom-principal")
	os.Setenv("HTTP_PORT", "9999")
	os.Setenv("STT_PROVIDER", "google")
	os.Setenv("STT_LANGUAGE", "ru")
	os.Setenv("STT_WORD_TIMESTAMPS", "false")
	os.Setenv("REWRITE_API_KEYS", "key-a, key-b,key-c")
	os.Setenv("KAFKA_ENABLED", "true")
	os.Setenv("KAFKA_BROKERS", "broker-1:9092,broker-2:9092")
	os.Setenv("MAX_UPLOAD_BYTES", "1048576")
	os.Setenv("LOG_LEVEL", "debug")
	defer clearEnv(t)

	cfg := Load()

	if cfg.Service.Principal != "custom-principal" {
		t.Errorf("expected principal 'custom-principal', got %s", cfg.Service.Principal)
	}
	if cfg.Service.HTTPPort != "9999" {
		t.Errorf("expected port '9999', got %s", cfg.Service.HTTPPort)
	}
	if cfg.STT.Provider != "google" {
		t.Errorf("expected STT provider 'google', got %s", cfg.STT.Provider)
	}
	if cfg.STT.Language != "ru" {
		t.Errorf("expected language 'ru', got %s", cfg.STT.Language)
	}
	if cfg.STT.WordTimestamps {
		t.Error("expected word timestamps disabled")
	}
	if len(cfg.Rewrite.APIKeys) != 3 || cfg.Rewrite.APIKeys[1] != "key-b" {
		t.Errorf("expected 3 trimmed API keys, got %v", cfg.Rewrite.APIKeys)
	}
	if !cfg.Kafka.Enabled {
		t.Error("expected Kafka enabled")
	}
	if len(cfg.Kafka.Brokers) != 2 {
		t.Errorf("expected 2 brokers, got %v", cfg.Kafka.Brokers)
	}
	if cfg.Limits.MaxUploadBytes != 1048576 {
		t.Errorf("expected upload limit 1048576, got %d", cfg.Limits.MaxUploadBytes)
	}
	if cfg.Observability.LogLevel != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Observability.LogLevel)
	}
}

func TestLoad_InvalidValues_FallbackToDefaults(t *testing.T) {
	clearEnv(t)
	os.Setenv("STT_WORD_TIMESTAMPS", "not-a-bool")
	os.Setenv("MAX_UPLOAD_BYTES", "not-a-number")
	os.Setenv("WATCHER_MAX_CONCURRENT", "invalid")
	defer clearEnv(t)

	cfg := Load()

	if !cfg.STT.WordTimestamps {
		t.Error("expected default word timestamps on invalid input")
	}
	if cfg.Limits.MaxUploadBytes != 300*1024*1024 {
		t.Errorf("expected default upload limit on invalid input, got %d", cfg.Limits.MaxUploadBytes)
	}
	if cfg.Watcher.MaxConcurrent != 2 {
		t.Errorf("expected default watcher concurrency on invalid input, got %d", cfg.Watcher.MaxConcurrent)
	}
}

func TestLoadFile_Overlay(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
service:
  http_port: "8181"
stt:
  provider: openai
rewrite:
  api_keys:
    - file-key
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Service.HTTPPort != "8181" {
		t.Errorf("expected file port '8181', got %s", cfg.Service.HTTPPort)
	}
	if cfg.STT.Provider != "openai" {
		t.Errorf("expected file provider 'openai', got %s", cfg.STT.Provider)
	}
	if len(cfg.Rewrite.APIKeys) != 1 || cfg.Rewrite.APIKeys[0] != "file-key" {
		t.Errorf("expected file API key, got %v", cfg.Rewrite.APIKeys)
	}
	// Fields the file does not set keep env/default values.
	if cfg.Service.MetricsPort != "9090" {
		t.Errorf("expected default metrics port to survive overlay, got %s", cfg.Service.MetricsPort)
	}
}

func TestLoadFile_MissingFile(t *testing.T) {
	if _, err := LoadFile("does-not-exist.yaml"); err == nil {
		t.Error("expected error for missing config file")
	}
}

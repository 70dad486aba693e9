package main

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/NERVsystems/inkmap/pkg/config"
)

func TestGenerateClientConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	if err := generateClientConfig(path); err != nil {
		t.Fatalf("generateClientConfig() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}

	var cfg map[string]interface{}
	if err := json.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("parse config JSON: %v", err)
	}

	servers, ok := cfg["mcpServers"].(map[string]interface{})
	if !ok {
		t.Fatal("config missing mcpServers section")
	}
	if _, ok := servers["inkmap"]; !ok {
		t.Error("mcpServers missing inkmap entry")
	}
}

func TestGenerateClientConfigMergesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	existing := map[string]interface{}{
		"mcpServers": map[string]interface{}{
			"other": map[string]interface{}{"command": "/usr/bin/other"},
		},
		"theme": "dark",
	}
	data, err := json.Marshal(existing)
	if err != nil {
		t.Fatalf("marshal existing config: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write existing config: %v", err)
	}

	if err := generateClientConfig(path); err != nil {
		t.Fatalf("generateClientConfig() error = %v", err)
	}

	data, err = os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	var cfg map[string]interface{}
	if err := json.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("parse config JSON: %v", err)
	}

	if cfg["theme"] != "dark" {
		t.Error("merge dropped unrelated top-level key")
	}
	servers := cfg["mcpServers"].(map[string]interface{})
	if _, ok := servers["other"]; !ok {
		t.Error("merge dropped existing server entry")
	}
	if _, ok := servers["inkmap"]; !ok {
		t.Error("merge did not add inkmap entry")
	}
}

func TestLogLevel(t *testing.T) {
	tests := []struct {
		name  string
		level string
		debug bool
		want  slog.Level
	}{
		{"default info", "info", false, slog.LevelInfo},
		{"warn", "warn", false, slog.LevelWarn},
		{"error", "error", false, slog.LevelError},
		{"config debug", "debug", false, slog.LevelDebug},
		{"flag overrides config", "error", true, slog.LevelDebug},
		{"unknown falls back to info", "chatty", false, slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{}
			cfg.Logging.Level = tt.level
			if got := logLevel(cfg, tt.debug); got != tt.want {
				t.Errorf("logLevel(%q, %v) = %v, want %v", tt.level, tt.debug, got, tt.want)
			}
		})
	}
}

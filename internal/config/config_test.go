package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Backend.BaseURL != "http://127.0.0.1:8000" {
		t.Errorf("base_url = %q", cfg.Backend.BaseURL)
	}
	if cfg.Backend.RequestTimeout != 60*time.Second {
		t.Errorf("request_timeout = %v", cfg.Backend.RequestTimeout)
	}
	if cfg.SEO.MaxCompetitors != 3 {
		t.Errorf("max_competitors = %d", cfg.SEO.MaxCompetitors)
	}
}

func TestPartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "backend:\n  base_url: https://api.braid.example\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Backend.BaseURL != "https://api.braid.example" {
		t.Errorf("base_url = %q", cfg.Backend.BaseURL)
	}
	if cfg.Backend.RequestTimeout != 60*time.Second {
		t.Errorf("request_timeout should keep default, got %v", cfg.Backend.RequestTimeout)
	}
}

func TestInvalidBaseURLRejected(t *testing.T) {
	tests := []string{
		"backend:\n  base_url: \"not a url\"\n",
		"backend:\n  base_url: ftp://example.com\n",
	}
	for _, content := range tests {
		path := writeConfig(t, content)
		if _, err := Load(path); err == nil {
			t.Errorf("expected error for %q", content)
		}
	}
}

func TestAnalysisSocketURL(t *testing.T) {
	tests := []struct {
		base string
		want string
	}{
		{"http://127.0.0.1:8000", "ws://127.0.0.1:8000/ws/seo-analysis"},
		{"https://api.braid.example", "wss://api.braid.example/ws/seo-analysis"},
		{"http://host:9000/", "ws://host:9000/ws/seo-analysis"},
	}
	for _, tt := range tests {
		cfg := Default()
		cfg.Backend.BaseURL = tt.base
		if got := cfg.AnalysisSocketURL(); got != tt.want {
			t.Errorf("AnalysisSocketURL(%q) = %q, want %q", tt.base, got, tt.want)
		}
	}
}

func TestMalformedYAMLRejected(t *testing.T) {
	path := writeConfig(t, "backend: [not\n")
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

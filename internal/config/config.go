// Package config loads the TUI configuration file. Defaults are applied
// before unmarshalling so a partial file only overrides what it names.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Backend  BackendConfig `yaml:"backend"`
	Log      LogConfig     `yaml:"log"`
	Datasets []string      `yaml:"datasets"`
	SEO      SEOConfig     `yaml:"seo"`
}

type BackendConfig struct {
	BaseURL        string        `yaml:"base_url"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

type LogConfig struct {
	File  string `yaml:"file"`
	Level string `yaml:"level"`
}

type SEOConfig struct {
	MaxCompetitors int `yaml:"max_competitors"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Backend: BackendConfig{
			BaseURL:        "http://127.0.0.1:8000",
			RequestTimeout: 60 * time.Second,
		},
		Log: LogConfig{
			File:  filepath.Join(os.TempDir(), "braid-tui.log"),
			Level: "info",
		},
		Datasets: []string{"marketing_spend.csv"},
		SEO: SEOConfig{
			MaxCompetitors: 3,
		},
	}
}

// Load reads path over the defaults. A missing file is not an error; the
// defaults are returned as-is.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil || u.Host == "" {
		return fmt.Errorf("invalid backend base_url %q", c.Backend.BaseURL)
	}
	switch u.Scheme {
	case "http", "https":
	default:
		return fmt.Errorf("backend base_url must be http or https, got %q", u.Scheme)
	}
	if c.SEO.MaxCompetitors < 0 {
		return fmt.Errorf("seo.max_competitors must not be negative")
	}
	return nil
}

// AnalysisSocketURL derives the ws:// endpoint of the streaming analysis
// session from the backend base URL.
func (c *Config) AnalysisSocketURL() string {
	base := strings.TrimSuffix(c.Backend.BaseURL, "/")
	if strings.HasPrefix(base, "https") {
		return "wss" + strings.TrimPrefix(base, "https") + "/ws/seo-analysis"
	}
	return "ws" + strings.TrimPrefix(base, "http") + "/ws/seo-analysis"
}

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/braidai/braid-tui/internal/app"
	"github.com/braidai/braid-tui/internal/config"
	"github.com/braidai/braid-tui/internal/log"
	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (YAML)")
	apiURL := flag.String("api", "", "Backend base URL (overrides config)")
	logLevel := flag.String("log-level", "", "Log level (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *apiURL != "" {
		cfg.Backend.BaseURL = *apiURL
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}

	// The TUI owns the terminal, so logs go to a file.
	if err := log.Setup(cfg.Log.File, cfg.Log.Level); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	log.WithField("backend", cfg.Backend.BaseURL).Info("starting braid-tui")

	m := app.New(cfg)
	p := tea.NewProgram(m, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/tradesense/tradesense/internal/app"
	"github.com/tradesense/tradesense/internal/session"
	"github.com/tradesense/tradesense/pkg/api"
	"github.com/tradesense/tradesense/pkg/config"
	"github.com/tradesense/tradesense/pkg/logger"
)

func main() {
	// Load .env (best-effort). If missing, fall back to real env vars.
	_ = godotenv.Load()

	configPath := flag.String("config", "", "config file path (yaml)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		os.Exit(1)
	}

	// Terminal output would corrupt the alternate screen, so logs go to
	// file only while the TUI runs.
	if err := logger.Init(logger.Config{
		Level:      cfg.LogLevel,
		OutputFile: cfg.LogFile,
		FileOnly:   true,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "init logger failed: %v\n", err)
		os.Exit(1)
	}

	client := api.NewClient(cfg.BackendURL)
	sess := session.New(client, cfg.Tickers, cfg.PollInterval)

	program := tea.NewProgram(app.New(client, sess, *cfg), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "tui error: %v\n", err)
		os.Exit(1)
	}
}

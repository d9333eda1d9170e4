package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"weblarek/internal/app"
	"weblarek/internal/config"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadStorefront()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// The terminal belongs to the UI, so logs go to a file.
	logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()

	logger := config.NewLogger(cfg.Logger, logFile)
	logger.Info().Str("api_url", cfg.APIURL).Msg("starting weblarek storefront")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	storefront := app.New(ctx, cfg, logger)
	return storefront.Run(ctx, tea.WithAltScreen())
}

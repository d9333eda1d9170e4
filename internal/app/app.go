// Package app builds the storefront once at startup and hands out its parts
// explicitly.
package app

import (
	"context"
	"fmt"

	"weblarek/internal/client"
	"weblarek/internal/config"
	"weblarek/internal/events"
	"weblarek/internal/orchestrator"
	"weblarek/internal/state"
	"weblarek/internal/view"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
)

// App is the storefront application context.
type App struct {
	Bus          *events.Bus
	Store        *state.AppState
	Client       orchestrator.Client
	View         *view.Storefront
	Orchestrator *orchestrator.Orchestrator

	logger zerolog.Logger
}

// New builds the storefront against the shop API described by cfg.
func New(ctx context.Context, cfg *config.StorefrontConfig, logger zerolog.Logger) *App {
	c := client.New(client.Config{
		APIURL:  cfg.APIURL,
		CDNURL:  cfg.CDNURL,
		APIKey:  cfg.APIKey,
		Timeout: cfg.HTTPTimeout,
	}, logger)
	return NewWithClient(ctx, c, view.Options{Currency: cfg.Currency}, logger)
}

// NewWithClient builds the storefront around an existing shop API client.
func NewWithClient(ctx context.Context, c orchestrator.Client, opts view.Options, logger zerolog.Logger) *App {
	bus := events.NewBus()
	store := state.New(bus, logger)
	storefront := view.New(ctx, bus, opts, logger)
	orch := orchestrator.New(bus, store, c, storefront, storefront, logger)
	orch.Bind()

	return &App{
		Bus:          bus,
		Store:        store,
		Client:       c,
		View:         storefront,
		Orchestrator: orch,
		logger:       logger.With().Str("component", "app").Logger(),
	}
}

// Run starts the catalogue load and blocks in the terminal UI until the user
// quits or ctx is cancelled.
func (a *App) Run(ctx context.Context, opts ...tea.ProgramOption) error {
	defer a.Close()

	a.Orchestrator.Start()
	a.logger.Info().Msg("storefront started")

	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)
	if _, err := tea.NewProgram(a.View, opts...).Run(); err != nil {
		return fmt.Errorf("failed to run storefront: %w", err)
	}

	a.logger.Info().Msg("storefront stopped")
	return nil
}

// Close releases the orchestrator subscriptions.
func (a *App) Close() {
	a.Orchestrator.Close()
}

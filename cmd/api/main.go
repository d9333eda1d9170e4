package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"weblarek/internal/catalog"
	"weblarek/internal/config"
	"weblarek/internal/database"
	"weblarek/internal/handler"
	"weblarek/internal/repository"
	"weblarek/internal/router"
	"weblarek/internal/service"

	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger, os.Stdout)
	logger.Info().Msg("starting weblarek API server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := database.Open(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	productRepo := repository.NewProductRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)

	productService := service.NewProductService(productRepo, logger)
	orderService := service.NewOrderService(orderRepo, productRepo, logger)

	if err := seedCatalog(ctx, cfg, productService, logger); err != nil {
		return err
	}

	productHandler := handler.NewProductHandler(productService, logger)
	orderHandler := handler.NewOrderHandler(orderService, logger)

	mux := router.New(productHandler, orderHandler, router.Options{
		APIKey: cfg.Auth.APIKey,
		CDNDir: cfg.Server.CDNDir,
	}, logger)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// seedCatalog imports the configured catalogue files, from S3 first when it
// is enabled and from the local file system otherwise.
func seedCatalog(ctx context.Context, cfg *config.Config, products service.ProductService, logger zerolog.Logger) error {
	if len(cfg.Catalog.Files) == 0 {
		logger.Info().Msg("no catalogue files configured, skipping seed")
		return nil
	}

	fileLoader := catalog.NewFileLoader(logger)
	loader := fileLoader

	if cfg.S3.Enabled {
		s3Loader, err := catalog.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 loader, falling back to local file system only")
		} else {
			loader = catalog.NewFallbackLoader(s3Loader, fileLoader, cfg.S3.Prefix, true, logger)
		}
	} else {
		logger.Info().Msg("using local file system for catalogue files (S3 disabled)")
	}

	items, err := catalog.LoadAll(ctx, loader, cfg.Catalog.Files, logger)
	if err != nil {
		return fmt.Errorf("failed to load catalogue: %w", err)
	}

	if err := products.Seed(ctx, items); err != nil {
		return fmt.Errorf("failed to seed catalogue: %w", err)
	}

	logger.Info().Int("products", len(items)).Msg("catalogue seeded")
	return nil
}

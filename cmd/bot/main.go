package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kassenbon/internal/bot"
	"kassenbon/internal/catalog"
	"kassenbon/internal/config"
	"kassenbon/internal/handler"
	"kassenbon/internal/render"
	"kassenbon/internal/router"
	"kassenbon/internal/synth"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting receipt bot")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load the catalogue: an optional file with the built-in list as
	// fallback, mirroring the S3-or-local pattern for data files.
	cat := catalog.Default()
	if cfg.Generator.CatalogFile != "" {
		loaded, err := catalog.NewFileLoader(logger).Load(ctx, cfg.Generator.CatalogFile)
		if err != nil {
			logger.Warn().
				Err(err).
				Str("file", cfg.Generator.CatalogFile).
				Msg("failed to load catalogue file, using built-in catalogue")
		} else {
			cat = loaded
		}
	}

	// Initialize the synthesizer factory
	policy, err := synth.ParseWeekdayPolicy(cfg.Generator.WeekdayPolicy)
	if err != nil {
		return fmt.Errorf("failed to configure synthesizer: %w", err)
	}

	factory, err := synth.NewFactory(cat, policy, cfg.Generator.MinCartTotal, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize synthesizer: %w", err)
	}

	// Initialize the renderer
	renderer := render.New(render.Options{
		Width:   cfg.Renderer.Width,
		Height:  cfg.Renderer.Height,
		Scale:   cfg.Renderer.Scale,
		DPI:     cfg.Renderer.DPI,
		LogoURL: cfg.Renderer.LogoURL,
	}, logger)

	// Initialize the Telegram bot
	receiptBot, err := bot.New(
		cfg.Telegram.Token,
		cfg.Telegram.AllowedUserID,
		time.Duration(cfg.Telegram.SendDelaySecs)*time.Second,
		cfg.Generator.MaxDaysBack,
		factory,
		renderer,
		logger,
	)
	if err != nil {
		return fmt.Errorf("failed to initialize bot: %w", err)
	}

	// Channel to listen for errors from the bot
	botErrors := make(chan error, 1)

	go func() {
		botErrors <- receiptBot.Run(ctx)
	}()

	// Optional local preview server
	var server *http.Server
	serverErrors := make(chan error, 1)

	if cfg.Server.Enabled {
		receiptHandler := handler.NewReceiptHandler(factory, renderer, cfg.Generator.MaxDaysBack, logger)
		mux := router.New(receiptHandler, cfg.Server.APIKey, logger)

		server = &http.Server{
			Addr:         cfg.Server.Address(),
			Handler:      mux,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		go func() {
			logger.Info().
				Str("address", cfg.Server.Address()).
				Msg("preview server started")
			serverErrors <- server.ListenAndServe()
		}()
	}

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-botErrors:
		if err != nil {
			return fmt.Errorf("bot error: %w", err)
		}
		return nil

	case err := <-serverErrors:
		return fmt.Errorf("preview server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Stop the bot's polling loop.
		cancel()

		if server != nil {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer shutdownCancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("failed to shutdown preview server gracefully")
				if closeErr := server.Close(); closeErr != nil {
					logger.Error().Err(closeErr).Msg("failed to close preview server")
				}
				return fmt.Errorf("server shutdown failed: %w", err)
			}
		}

		logger.Info().Msg("shutdown completed")
	}

	return nil
}

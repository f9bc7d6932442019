package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/hpn/hpn-cli-bridge/internal/adapter"
	"github.com/hpn/hpn-cli-bridge/internal/config"
	"github.com/hpn/hpn-cli-bridge/internal/handler"
	"github.com/hpn/hpn-cli-bridge/internal/logging"
	"github.com/hpn/hpn-cli-bridge/internal/ui"
)

type serveOptions struct {
	root             *rootOptions
	requireAvailable bool
}

func newServeCmd(opts *serveOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the OpenAI-compatible HTTP server",
		Long: `Start the HTTP server. Each chat completion request runs the configured
CLI once with the conversation as its prompt.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.requireAvailable, "require-available", false, "exit if the configured CLI does not answer its probe")
	return cmd
}

func runServe(cmd *cobra.Command, opts *serveOptions) error {
	// =========================================================================
	// 1. Banner and configuration (Singleton)
	// =========================================================================
	ui.PrintBanner(Version)

	cfg, err := config.GetConfigWithFlags(opts.root.configPath, cmd.Flags())
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// =========================================================================
	// 2. Setup structured logger
	// =========================================================================
	logger, closeLog, err := logging.Setup(cfg)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer func() { _ = closeLog() }()

	logger.Info("starting hpn-cli-bridge",
		slog.String("version", Version),
		slog.String("config_file", cfg.FileUsed),
	)

	// =========================================================================
	// 3. Create the adapter and HTTP server
	// =========================================================================
	srv, cliAdapter, err := buildServer(cfg, logger)
	if err != nil {
		return err
	}

	logger.Info("configuration loaded",
		slog.String("address", srv.Addr),
		slog.String("adapter", cliAdapter.Name()),
		slog.String("model", cliAdapter.ModelName()),
		slog.Int("timeout_ms", cfg.Adapter.TimeoutMS),
		slog.String("runtime_dir", cfg.Adapter.RuntimeDir),
	)

	// =========================================================================
	// 4. Probe the backing CLI
	// =========================================================================
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	available := true
	if opts.requireAvailable {
		if err := adapter.RequireAvailable(ctx, cliAdapter); err != nil {
			return err
		}
	} else if available = cliAdapter.IsAvailable(ctx); !available {
		logger.Warn("configured CLI did not answer its probe, requests will fail until it is installed",
			slog.String("adapter", cliAdapter.Name()),
		)
	}

	ui.PrintStartupInfo(ui.StartupInfo{
		Address:    srv.Addr,
		Adapter:    cliAdapter.Name(),
		Model:      cliAdapter.ModelName(),
		RuntimeDir: cfg.Adapter.RuntimeDir,
		Timeout:    time.Duration(cfg.Adapter.TimeoutMS) * time.Millisecond,
		Available:  available,
		Debug:      cfg.Adapter.Debug,
	})

	// =========================================================================
	// 5. Serve until SIGINT/SIGTERM, then shut down gracefully
	// =========================================================================
	shutdownTimeout := time.Duration(cfg.Server.ShutdownTimeoutSeconds) * time.Second
	return runServer(ctx, srv, shutdownTimeout, logger)
}

// buildServer wires config into an adapter, handler and *http.Server.
func buildServer(cfg *config.Configuration, logger *slog.Logger, opts ...adapter.Option) (*http.Server, adapter.CLIAdapter, error) {
	opts = append([]adapter.Option{
		adapter.WithLogger(logger),
		adapter.WithBinary(cfg.Adapter.Binary),
	}, opts...)

	cliAdapter, err := adapter.New(cfg.AdapterSettings(), opts...)
	if err != nil {
		return nil, nil, err
	}

	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	chatHandler := handler.NewChatHandler(cliAdapter, handler.WithLogger(logger))
	router := handler.NewRouter(chatHandler, logger)

	srv := &http.Server{
		Addr:         cfg.Address(),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
	}

	return srv, cliAdapter, nil
}

// runServer serves until ctx is done, then drains connections for up to
// shutdownTimeout.
func runServer(ctx context.Context, srv *http.Server, shutdownTimeout time.Duration, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", slog.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			logger.Error("server error", slog.String("error", err.Error()))
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutdown signal received")
	ui.PrintShutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("server stopped gracefully")
	ui.PrintGoodbye()
	return nil
}

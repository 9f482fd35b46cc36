package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ashureev/profnet/internal/config"
	"github.com/ashureev/profnet/internal/content"
	"github.com/ashureev/profnet/internal/health"
	"github.com/ashureev/profnet/internal/metrics"
	"github.com/ashureev/profnet/internal/realtime"
	"github.com/ashureev/profnet/internal/session"
	"github.com/ashureev/profnet/internal/store"
	"github.com/ashureev/profnet/internal/tracing"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, websocket push and gRPC health servers",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Port = port
			}
			return serve(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "HTTP port (overrides PORT)")

	return cmd
}

func newMetrics(cfg *config.Config) *metrics.Metrics {
	if !cfg.MetricsEnabled {
		return nil
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return metrics.New(reg)
}

//nolint:funlen // Startup wiring is intentionally sequential to keep dependency setup explicit.
func serve(parent context.Context, cfg *config.Config) error {
	if parent == nil {
		parent = context.Background()
	}
	slog.Info("Starting server", "port", cfg.Port, "storage", cfg.StorageBackend, "dev", cfg.IsDevelopment())

	// Initialize dependencies.
	kv, err := store.Open(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() {
		if closeErr := kv.Close(); closeErr != nil {
			slog.Error("Failed to close storage", "error", closeErr)
		}
	}()

	if err := kv.Ping(parent); err != nil {
		return fmt.Errorf("storage health check failed: %w", err)
	}
	slog.Info("Storage connected", "backend", cfg.StorageBackend)

	m := newMetrics(cfg)

	tp, err := tracing.Setup(parent, tracing.Options{
		ServiceName: cfg.ServiceName,
		Environment: cfg.Environment(),
		Endpoint:    cfg.OTLPEndpoint,
		Insecure:    cfg.OTLPInsecure,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(flushCtx); err != nil {
			slog.Error("Failed to flush traces", "error", err)
		}
	}()
	slog.Info("Tracing initialized", "service", cfg.ServiceName, "exporting", tp.Exporting())

	sessions := session.New(kv,
		session.WithMetrics(m),
		session.WithTracer(tp.Tracer(session.TracerName)),
	)
	defer sessions.Close()
	if err := sessions.Bootstrap(parent); err != nil {
		// A corrupt active identity leaves the session anonymous; keep serving.
		slog.Error("Session bootstrap failed", "error", err)
	}

	contentOpts := []content.Option{content.WithMetrics(m)}
	if cfg.SeedSampleContent {
		contentOpts = append(contentOpts,
			content.WithSeed(content.SamplePosts(time.Now().UTC())),
			content.WithSuggestions(content.SampleSuggestions()),
		)
	}
	posts := content.New(contentOpts...)
	defer posts.Close()

	hub := realtime.NewHub(m)

	srv := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: newRouter(routerDeps{
			cfg:      cfg,
			kv:       kv,
			sessions: sessions,
			content:  posts,
			hub:      hub,
			metrics:  m,
			tracer:   tp.Tracer("github.com/ashureev/profnet/cmd/server"),
		}),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // websocket connections are long-lived
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 2)

	var grpcSrv *health.Server
	if cfg.GRPCPort != "" {
		lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
		if err != nil {
			return fmt.Errorf("failed to listen for gRPC on %s: %w", cfg.GRPCPort, err)
		}
		grpcSrv = health.NewServer(slog.Default())
		health.StartProbe(ctx, kv, grpcSrv, cfg.HealthProbeEvery)
		go func() {
			if err := grpcSrv.Serve(lis); err != nil {
				errCh <- err
			}
		}()
	}

	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	// Wait for shutdown signal or a server failure.
	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
		slog.Error("Server failed", "error", runErr)
	}
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	slog.Info("Closing realtime connections", "count", hub.Count())
	closed := hub.CloseAll()
	slog.Info("Realtime connections closed", "count", closed)
	if grpcSrv != nil {
		grpcSrv.Shutdown()
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("Server stopped successfully")
	return runErr
}

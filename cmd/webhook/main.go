// Command webhook serves the chat-bot event endpoint.
//
// Signed event callbacks arrive on POST /slack/events. URL verification
// challenges are echoed; app mentions are answered with the documents the
// keyword index holds for the mention text.
//
// Usage:
//
//	go run ./cmd/webhook [-config configs/development.yaml]
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Adithya-Monish-Kumar-K/eddy/internal/indexer/persist"
	"github.com/Adithya-Monish-Kumar-K/eddy/internal/webhook"
	"github.com/Adithya-Monish-Kumar-K/eddy/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/eddy/pkg/health"
	"github.com/Adithya-Monish-Kumar-K/eddy/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/eddy/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/eddy/pkg/middleware"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	if cfg.Webhook.SigningSecret == "" {
		slog.Error("webhook.signingSecret is required")
		os.Exit(1)
	}
	slog.Info("starting webhook service",
		"port", cfg.Webhook.Port,
		"persister", cfg.Indexer.Persister,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := persist.Open(ctx, cfg, cfg.Indexer.Persister)
	if err != nil {
		slog.Error("failed to open keyword store", "error", err)
		os.Exit(1)
	}
	defer backend.Close()

	checker := health.NewChecker()
	checker.Register("store", health.PingCheck(backend.Ping, health.StatusDown))

	var m *metrics.Metrics
	mux := http.NewServeMux()
	if cfg.Metrics.Enabled {
		m = metrics.New(prometheus.DefaultRegisterer)
		mux.Handle("GET /metrics", metrics.Handler())
	}
	mux.Handle("POST /slack/events", webhook.NewHandler(cfg.Webhook.SigningSecret, backend.Lookup))
	mux.HandleFunc("GET /health/live", checker.LiveHandler())
	mux.HandleFunc("GET /health/ready", checker.ReadyHandler())

	var limiter *middleware.Limiter
	if cfg.Webhook.RateLimit > 0 {
		limiter = middleware.NewLimiter(cfg.Webhook.RateLimit, time.Minute)
		go limiter.Sweep(ctx, 5*time.Minute)
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Webhook.Port),
		Handler:      middleware.Metrics(m)(middleware.RateLimit(limiter)(mux)),
		ReadTimeout:  cfg.Webhook.ReadTimeout,
		WriteTimeout: cfg.Webhook.WriteTimeout,
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Webhook.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	slog.Info("webhook service listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
	slog.Info("webhook service stopped")
}

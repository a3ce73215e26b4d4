package main

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Adithya-Monish-Kumar-K/eddy/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/eddy/internal/indexer/extractor"
	"github.com/Adithya-Monish-Kumar-K/eddy/internal/indexer/persist"
	"github.com/Adithya-Monish-Kumar-K/eddy/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/eddy/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/eddy/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/eddy/pkg/phrases"
)

func newExtractor(cfg config.ExtractionConfig) *extractor.Extractor {
	return extractor.New(phrases.NewClient(cfg), extractor.Config{
		Locale:    cfg.Locale,
		MaxChars:  cfg.MaxChunkChars,
		MaxChunks: cfg.MaxChunks,
		MinScore:  cfg.MinScore,
	})
}

// startMetrics registers collectors and serves /metrics when enabled. The
// returned stop function is always safe to call.
func startMetrics(cfg config.MetricsConfig) (*metrics.Metrics, func(context.Context) error) {
	if !cfg.Enabled {
		return nil, func(context.Context) error { return nil }
	}
	m := metrics.New(prometheus.DefaultRegisterer)
	return m, metrics.StartServer(cfg.Port)
}

// engineDeps owns every connection an engine needs.
type engineDeps struct {
	engine  *indexer.Engine
	backend *persist.Backend
	closers []func() error
}

func (d *engineDeps) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			slog.Warn("error closing dependency", "error", err)
		}
	}
}

func newEngine(ctx context.Context, cfg *config.Config, persisterKind string, concurrency int, m *metrics.Metrics) (*engineDeps, error) {
	backend, err := persist.Open(ctx, cfg, persisterKind)
	if err != nil {
		return nil, err
	}
	deps := &engineDeps{backend: backend, closers: []func() error{backend.Close}}

	opts := []indexer.Option{
		indexer.WithConcurrency(concurrency),
		indexer.WithMetrics(m),
	}
	if cfg.Kafka.Enabled {
		producer := kafka.NewProducer(cfg.Kafka, cfg.Kafka.Topics.IndexComplete)
		deps.closers = append(deps.closers, producer.Close)
		opts = append(opts, indexer.WithNotifier(producer))
	}
	deps.engine = indexer.NewEngine(newExtractor(cfg.Extraction), backend.Persister, opts...)
	return deps, nil
}

package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Adithya-Monish-Kumar-K/eddy/internal/indexer/consumer"
	"github.com/Adithya-Monish-Kumar-K/eddy/pkg/kafka"
)

func newListenCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "listen",
		Short: "Run an index pass for every request on the index-request topic",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.cfg
			if !cfg.Kafka.Enabled {
				return errors.New("listen requires kafka.enabled")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			m, stopMetrics := startMetrics(cfg.Metrics)
			defer stopMetrics(context.Background())

			deps, err := newEngine(ctx, cfg, cfg.Indexer.Persister, cfg.Indexer.Concurrency, m)
			if err != nil {
				return err
			}
			defer deps.Close()

			handler := consumer.HandleIndexRequest(deps.engine, cfg.Indexer.Root, cfg.Indexer.Extensions)
			kafkaConsumer := kafka.NewConsumer(cfg.Kafka, cfg.Kafka.Topics.IndexRequest, handler)
			indexConsumer := consumer.New(kafkaConsumer)

			slog.Info("indexer ready, consuming from kafka",
				"topic", cfg.Kafka.Topics.IndexRequest,
				"group", cfg.Kafka.ConsumerGroup,
			)
			if err := indexConsumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			slog.Info("indexer stopped")
			return nil
		},
	}
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Adithya-Monish-Kumar-K/eddy/internal/indexer/source"
	apperrors "github.com/Adithya-Monish-Kumar-K/eddy/pkg/errors"
)

func newRunCmd(a *app) *cobra.Command {
	var (
		root        string
		persister   string
		concurrency int
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Index every matching document under the root once",
		Long: `Analyse every document under the root and commit the inverted index in a
single batch. If any document fails nothing is written.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.cfg
			if root == "" {
				root = cfg.Indexer.Root
			}
			if persister == "" {
				persister = cfg.Indexer.Persister
			}
			if concurrency <= 0 {
				concurrency = cfg.Indexer.Concurrency
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			m, stopMetrics := startMetrics(cfg.Metrics)
			defer stopMetrics(context.Background())

			deps, err := newEngine(ctx, cfg, persister, concurrency, m)
			if err != nil {
				return err
			}
			defer deps.Close()

			report, err := deps.engine.IndexRun(ctx, source.Dir(root, cfg.Indexer.Extensions))
			if err != nil {
				return fmt.Errorf("index run failed (%s): %w", apperrors.Kind(err), err)
			}
			fmt.Fprintf(cmd.OutOrStdout(),
				"run %s: %d documents (%d empty), %d keywords, %d appends in %s\n",
				report.RunID, report.Documents, report.EmptyDocuments,
				report.Keywords, report.Appends, report.Duration,
			)
			return nil
		},
	}
	cmd.Flags().StringVar(&root, "root", "", "document tree to index (default from config)")
	cmd.Flags().StringVar(&persister, "persister", "", "append, replace or postgres (default from config)")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "documents analysed at once (default from config)")
	return cmd
}

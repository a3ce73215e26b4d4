// Package indexer drives an index run: every document is analysed into a
// keyword list, the lists are gathered into a forward map, and only when all
// documents succeed is the map inverted and committed in one batch.
package indexer

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Adithya-Monish-Kumar-K/eddy/internal/indexer/extractor"
	"github.com/Adithya-Monish-Kumar-K/eddy/internal/indexer/keymap"
	"github.com/Adithya-Monish-Kumar-K/eddy/internal/indexer/persist"
	"github.com/Adithya-Monish-Kumar-K/eddy/internal/indexer/source"
	apperrors "github.com/Adithya-Monish-Kumar-K/eddy/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/eddy/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/eddy/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/eddy/pkg/metrics"
)

// Analyzer extracts one document's keywords. *extractor.Extractor implements it.
type Analyzer interface {
	Analyze(ctx context.Context, text string) (*extractor.Result, error)
}

// Notifier announces committed runs. *kafka.Producer implements it.
type Notifier interface {
	Publish(ctx context.Context, event kafka.Event) error
}

// IndexCompleted is published after a run commits.
type IndexCompleted struct {
	RunID          string    `json:"run_id"`
	Documents      int       `json:"documents"`
	EmptyDocuments int       `json:"empty_documents"`
	Keywords       int       `json:"keywords"`
	Appends        int       `json:"appends"`
	CompletedAt    time.Time `json:"completed_at"`
}

// RunReport summarises a committed run.
type RunReport struct {
	RunID          string
	Documents      int
	EmptyDocuments int
	Keywords       int
	Appends        int
	Duration       time.Duration
}

// Engine runs the analyse, accumulate, invert and persist pipeline.
type Engine struct {
	analyzer    Analyzer
	persister   persist.Persister
	notifier    Notifier
	metrics     *metrics.Metrics
	concurrency int
	logger      *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithConcurrency sets how many documents are analysed at once. Values below
// one mean sequential processing.
func WithConcurrency(n int) Option {
	return func(e *Engine) {
		if n < 1 {
			n = 1
		}
		e.concurrency = n
	}
}

// WithNotifier publishes an IndexCompleted event after every committed run.
func WithNotifier(n Notifier) Option {
	return func(e *Engine) { e.notifier = n }
}

// WithMetrics records pipeline metrics; nil disables them.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// NewEngine builds a sequential Engine unless WithConcurrency says otherwise.
func NewEngine(analyzer Analyzer, persister persist.Persister, opts ...Option) *Engine {
	e := &Engine{
		analyzer:    analyzer,
		persister:   persister,
		concurrency: 1,
		logger:      slog.Default().With("component", "indexer"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// AnalyzeDocument returns the keywords of a single document without touching
// the store.
func (e *Engine) AnalyzeDocument(ctx context.Context, text string) (keymap.Keywords, error) {
	res, err := e.analyzer.Analyze(ctx, text)
	if err != nil {
		e.metrics.ObserveExtractionFailure()
		return nil, err
	}
	e.metrics.ObserveDocument(res.Chunks, res.Truncated, len(res.Keywords))
	return res.Keywords, nil
}

type docResult struct {
	path     string
	keywords keymap.Keywords
}

// IndexRun analyses every document in docs and commits the inverted map in
// one batch. The first failure, whether from the source or from extraction,
// aborts the run: in-flight results are dropped and the store is not touched.
func (e *Engine) IndexRun(ctx context.Context, docs iter.Seq2[source.Document, error]) (*RunReport, error) {
	start := time.Now()
	runID := uuid.NewString()
	ctx = logger.WithRunID(ctx, runID)
	log := logger.FromContext(ctx).With("component", "indexer")
	log.Info("index run started", "concurrency", e.concurrency)

	report, err := e.run(ctx, runID, docs)
	if err != nil {
		e.metrics.ObserveRun(apperrors.Kind(err), 0)
		log.Error("index run aborted", "error", err, "kind", apperrors.Kind(err))
		return nil, err
	}
	report.Duration = time.Since(start)
	e.metrics.ObserveRun("success", report.Appends)
	log.Info("index run committed",
		"documents", report.Documents,
		"empty_documents", report.EmptyDocuments,
		"keywords", report.Keywords,
		"appends", report.Appends,
		"duration", report.Duration,
	)
	e.notify(ctx, report)
	return report, nil
}

func (e *Engine) run(ctx context.Context, runID string, docs iter.Seq2[source.Document, error]) (*RunReport, error) {
	results, err := e.analyzeAll(ctx, docs)
	if err != nil {
		return nil, err
	}

	builder := keymap.NewBuilder()
	empty := 0
	for _, r := range results {
		if err := builder.Add(r.path, r.keywords); err != nil {
			builder.Discard()
			return nil, err
		}
		if len(r.keywords) == 0 {
			empty++
		}
	}
	reverse, err := builder.Invert()
	if err != nil {
		return nil, err
	}

	persistStart := time.Now()
	if err := e.persister.Persist(ctx, reverse); err != nil {
		return nil, fmt.Errorf("committing index: %w", err)
	}
	e.metrics.ObservePersist(time.Since(persistStart).Seconds())

	return &RunReport{
		RunID:          runID,
		Documents:      builder.Len(),
		EmptyDocuments: empty,
		Keywords:       len(reverse),
		Appends:        reverse.Appends(),
	}, nil
}

// analyzeAll returns one result per document in iteration order. Workers
// write only their own slot; the caller merges after Wait, so accumulation
// has a single writer.
func (e *Engine) analyzeAll(ctx context.Context, docs iter.Seq2[source.Document, error]) ([]docResult, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	var mu sync.Mutex
	results := make([]docResult, 0)
	var sourceErr error

	for doc, err := range docs {
		if err != nil {
			sourceErr = fmt.Errorf("reading documents: %w", err)
			break
		}
		if gctx.Err() != nil {
			break
		}
		mu.Lock()
		slot := len(results)
		results = append(results, docResult{path: doc.Path})
		mu.Unlock()

		g.Go(func() error {
			// The slot may free up only after another document failed.
			if err := gctx.Err(); err != nil {
				return err
			}
			kws, err := e.AnalyzeDocument(gctx, doc.Text)
			if err != nil {
				return fmt.Errorf("analyzing %s: %w", doc.Path, err)
			}
			logger.FromContext(gctx).Debug("document analyzed",
				"doc_path", doc.Path,
				"keyword_count", len(kws),
			)
			mu.Lock()
			results[slot].keywords = kws
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if sourceErr != nil {
		return nil, sourceErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (e *Engine) notify(ctx context.Context, report *RunReport) {
	if e.notifier == nil {
		return
	}
	event := kafka.Event{
		Key: report.RunID,
		Value: IndexCompleted{
			RunID:          report.RunID,
			Documents:      report.Documents,
			EmptyDocuments: report.EmptyDocuments,
			Keywords:       report.Keywords,
			Appends:        report.Appends,
			CompletedAt:    time.Now().UTC(),
		},
	}
	if err := e.notifier.Publish(ctx, event); err != nil {
		logger.FromContext(ctx).Error("failed to publish index completion, index is already committed",
			"error", err,
		)
	}
}


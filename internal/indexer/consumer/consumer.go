// Package consumer turns IndexRequest messages from Kafka into index runs,
// so a document tree can be re-indexed on demand.
package consumer

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/Adithya-Monish-Kumar-K/eddy/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/eddy/internal/indexer/source"
	"github.com/Adithya-Monish-Kumar-K/eddy/pkg/kafka"
)

// IndexRequest asks for one index run over the tree at Root. Root is
// resolved against the consumer's base directory and may not escape it.
type IndexRequest struct {
	Root        string    `json:"root"`
	RequestedBy string    `json:"requested_by,omitempty"`
	RequestedAt time.Time `json:"requested_at"`
}

// Runner is the part of *indexer.Engine the consumer drives.
type Runner interface {
	IndexRun(ctx context.Context, docs iter.Seq2[source.Document, error]) (*indexer.RunReport, error)
}

// IndexConsumer wraps a Kafka consumer to drive index runs.
type IndexConsumer struct {
	consumer *kafka.Consumer
	logger   *slog.Logger
}

// New creates an IndexConsumer backed by the given Kafka consumer.
func New(kafkaConsumer *kafka.Consumer) *IndexConsumer {
	return &IndexConsumer{
		consumer: kafkaConsumer,
		logger:   slog.Default().With("component", "index-consumer"),
	}
}

// Start begins consuming Kafka messages. It blocks until ctx is cancelled.
func (ic *IndexConsumer) Start(ctx context.Context) error {
	ic.logger.Info("index consumer starting")
	return ic.consumer.Start(ctx)
}

// HandleIndexRequest returns a MessageHandler running one index run per
// request. Undecodable or out-of-tree requests are logged and acknowledged;
// a failed run is returned so the message is not committed.
func HandleIndexRequest(runner Runner, baseDir string, exts []string) kafka.MessageHandler {
	logger := slog.Default().With("component", "index-consumer")
	return func(ctx context.Context, key []byte, value []byte) error {
		req, err := kafka.DecodeJSON[IndexRequest](value)
		if err != nil {
			logger.Error("failed to decode index request",
				"error", err,
				"key", string(key),
			)
			return nil
		}
		root, err := resolveRoot(baseDir, req.Root)
		if err != nil {
			logger.Error("rejecting index request", "root", req.Root, "error", err)
			return nil
		}

		logger.Info("index request received",
			"root", root,
			"requested_by", req.RequestedBy,
		)
		report, err := runner.IndexRun(ctx, source.Dir(root, exts))
		if err != nil {
			return fmt.Errorf("indexing %s: %w", root, err)
		}
		logger.Info("index request completed",
			"root", root,
			"run_id", report.RunID,
			"documents", report.Documents,
		)
		return nil
	}
}

func resolveRoot(baseDir, root string) (string, error) {
	path := filepath.Join(baseDir, root)
	rel, err := filepath.Rel(baseDir, path)
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("root %q escapes %s", root, baseDir)
	}
	return path, nil
}

// Package extractor turns one document's text into its keyword list through
// a single batch call to the phrase-extraction service.
package extractor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/hashicorp/go-multierror"

	"github.com/Adithya-Monish-Kumar-K/eddy/internal/indexer/chunker"
	"github.com/Adithya-Monish-Kumar-K/eddy/internal/indexer/keymap"
	"github.com/Adithya-Monish-Kumar-K/eddy/internal/indexer/sanitizer"
	apperrors "github.com/Adithya-Monish-Kumar-K/eddy/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/eddy/pkg/phrases"
)

const (
	DefaultLocale   = "en"
	DefaultMinScore = 0.85
)

// Detector is the phrase-extraction service. *phrases.Client implements it.
type Detector interface {
	DetectKeyPhrases(ctx context.Context, req phrases.BatchRequest) (*phrases.BatchResponse, error)
}

// Config sets the locale, chunk budget and score threshold. Zero values fall
// back to the package defaults.
type Config struct {
	Locale    string
	MaxChars  int
	MaxChunks int
	// MinScore is inclusive. Phrases without a score never pass.
	MinScore float64
}

// Result carries the keywords of one document plus what it cost to get them.
type Result struct {
	Keywords  keymap.Keywords
	Chunks    int
	Truncated bool
}

// Extractor sanitizes, chunks and submits one document per call.
type Extractor struct {
	detector Detector
	chunker  *chunker.Chunker
	locale   string
	minScore float64
	logger   *slog.Logger
}

// New builds an Extractor. An empty Locale defaults to "en" and a MinScore
// of zero or less defaults to 0.85.
func New(detector Detector, cfg Config) *Extractor {
	if cfg.Locale == "" {
		cfg.Locale = DefaultLocale
	}
	if cfg.MinScore <= 0 {
		cfg.MinScore = DefaultMinScore
	}
	return &Extractor{
		detector: detector,
		chunker:  chunker.New(cfg.MaxChars, cfg.MaxChunks),
		locale:   cfg.Locale,
		minScore: cfg.MinScore,
		logger:   slog.Default().With("component", "keyword-extractor"),
	}
}

// Extract returns the keywords of text, or an error if any chunk failed. No
// keywords are returned alongside an error.
func (e *Extractor) Extract(ctx context.Context, text string) (keymap.Keywords, error) {
	res, err := e.Analyze(ctx, text)
	if err != nil {
		return nil, err
	}
	return res.Keywords, nil
}

// Analyze is Extract with chunking details.
func (e *Extractor) Analyze(ctx context.Context, text string) (*Result, error) {
	if !utf8.ValidString(text) {
		return nil, apperrors.New(apperrors.ErrEncoding, http.StatusBadRequest, "text is not valid UTF-8")
	}
	chunks := e.chunker.Chunks(sanitizer.Sanitize(text))
	if len(chunks.Chunks) == 0 {
		return &Result{Keywords: keymap.Keywords{}}, nil
	}
	if chunks.Truncated {
		e.logger.Debug("document exceeds extraction budget, tail discarded",
			"max_chars", e.chunker.MaxChars(),
			"max_chunks", e.chunker.MaxChunks(),
		)
	}

	resp, err := e.detector.DetectKeyPhrases(ctx, phrases.BatchRequest{
		Locale: e.locale,
		Chunks: chunks.Chunks,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrExtraction, err)
	}
	keywords, err := e.collect(resp, len(chunks.Chunks))
	if err != nil {
		return nil, err
	}
	return &Result{
		Keywords:  keywords,
		Chunks:    len(chunks.Chunks),
		Truncated: chunks.Truncated,
	}, nil
}

func (e *Extractor) collect(resp *phrases.BatchResponse, submitted int) (keymap.Keywords, error) {
	if resp == nil {
		return nil, fmt.Errorf("%w: empty response", apperrors.ErrExtraction)
	}
	if len(resp.Errors) > 0 {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrExtraction, chunkErrors(resp.Errors))
	}
	if len(resp.Results) > submitted {
		return nil, fmt.Errorf("%w: %d results for %d chunks", apperrors.ErrExtraction, len(resp.Results), submitted)
	}

	keywords := make(keymap.Keywords, 0)
	for _, result := range resp.Results {
		for _, p := range result.Phrases {
			text := strings.TrimSpace(p.Text)
			if text == "" || p.Score == nil || *p.Score < e.minScore {
				continue
			}
			keywords = append(keywords, text)
		}
	}
	return keywords, nil
}

// chunkErrors folds the per-chunk errors into one error whose message is
// every chunk message, in response order, joined by newlines.
func chunkErrors(list []phrases.ChunkError) error {
	var merr *multierror.Error
	for _, ce := range list {
		msg := ce.Message
		if msg == "" {
			msg = fmt.Sprintf("chunk %d failed (%s)", ce.Index, ce.Code)
		}
		merr = multierror.Append(merr, errors.New(msg))
	}
	merr.ErrorFormat = func(errs []error) string {
		msgs := make([]string, len(errs))
		for i, err := range errs {
			msgs[i] = err.Error()
		}
		return strings.Join(msgs, "\n")
	}
	return merr
}

package extractor

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	apperrors "github.com/Adithya-Monish-Kumar-K/eddy/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/eddy/pkg/phrases"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDetector struct {
	resp     *phrases.BatchResponse
	err      error
	requests []phrases.BatchRequest
}

func (f *fakeDetector) DetectKeyPhrases(_ context.Context, req phrases.BatchRequest) (*phrases.BatchResponse, error) {
	f.requests = append(f.requests, req)
	return f.resp, f.err
}

func score(v float64) *float64 { return &v }

func newExtractor(d Detector) *Extractor {
	return New(d, Config{Locale: "en", MaxChars: 10, MaxChunks: 3, MinScore: DefaultMinScore})
}

func TestExtractFiltersByScoreInChunkOrder(t *testing.T) {
	d := &fakeDetector{resp: &phrases.BatchResponse{
		Results: []phrases.ChunkResult{
			{Index: 0, Phrases: []phrases.Phrase{
				{Text: "deploy", Score: score(0.99)},
				{Text: "maybe", Score: score(0.84)},
				{Text: "threshold", Score: score(0.85)},
				{Text: "unscored"},
			}},
			{Index: 1},
			{Index: 2, Phrases: []phrases.Phrase{
				{Text: " rollback ", Score: score(0.9)},
				{Text: "deploy", Score: score(1)},
				{Text: "  ", Score: score(0.95)},
			}},
		},
	}}

	kws, err := newExtractor(d).Extract(context.Background(), "Deploy the thing! Then rollback?")
	require.NoError(t, err)
	assert.Equal(t, []string{"deploy", "threshold", "rollback", "deploy"}, kws)
}

func TestExtractRequestShape(t *testing.T) {
	d := &fakeDetector{resp: &phrases.BatchResponse{}}
	text := strings.Repeat("abcdefghij", 5)

	_, err := newExtractor(d).Extract(context.Background(), text)
	require.NoError(t, err)

	require.Len(t, d.requests, 1, "one batch call per document")
	req := d.requests[0]
	assert.Equal(t, "en", req.Locale)
	assert.Len(t, req.Chunks, 3)
	for _, ch := range req.Chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(ch), 10)
	}
	assert.Equal(t, strings.Repeat("abcdefghij", 3), strings.Join(req.Chunks, ""))
}

func TestAnalyzeReportsTruncation(t *testing.T) {
	d := &fakeDetector{resp: &phrases.BatchResponse{}}
	res, err := newExtractor(d).Analyze(context.Background(), strings.Repeat("x", 31))
	require.NoError(t, err)
	assert.True(t, res.Truncated)
	assert.Equal(t, 3, res.Chunks)
}

func TestExtractChunkErrorsFailWholeDocument(t *testing.T) {
	d := &fakeDetector{resp: &phrases.BatchResponse{
		Results: []phrases.ChunkResult{
			{Index: 0, Phrases: []phrases.Phrase{{Text: "valid", Score: score(0.99)}}},
		},
		Errors: []phrases.ChunkError{
			{Index: 1, Code: "TEXT_TOO_LONG", Message: "chunk 1 too long"},
			{Index: 2, Code: "INTERNAL"},
		},
	}}

	kws, err := newExtractor(d).Extract(context.Background(), "some text here for chunks")
	require.Error(t, err)
	assert.Nil(t, kws)
	assert.ErrorIs(t, err, apperrors.ErrExtraction)
	assert.Contains(t, err.Error(), "chunk 1 too long\nchunk 2 failed (INTERNAL)")
	assert.NotContains(t, err.Error(), "valid")
}

func TestExtractTransportError(t *testing.T) {
	d := &fakeDetector{err: errors.New("connection refused")}
	_, err := newExtractor(d).Extract(context.Background(), "text")
	require.ErrorIs(t, err, apperrors.ErrExtraction)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestExtractMalformedResponse(t *testing.T) {
	d := &fakeDetector{resp: &phrases.BatchResponse{
		Results: []phrases.ChunkResult{{Index: 0}, {Index: 1}},
	}}
	_, err := newExtractor(d).Extract(context.Background(), "short")
	require.ErrorIs(t, err, apperrors.ErrExtraction)

	d = &fakeDetector{}
	_, err = newExtractor(d).Extract(context.Background(), "short")
	require.ErrorIs(t, err, apperrors.ErrExtraction)
}

func TestExtractEmptyTextSkipsService(t *testing.T) {
	d := &fakeDetector{err: errors.New("must not be called")}
	kws, err := newExtractor(d).Extract(context.Background(), "```\n\n---\n")
	require.NoError(t, err)
	assert.NotNil(t, kws)
	assert.Empty(t, kws)
	assert.Empty(t, d.requests)
}

func TestExtractInvalidUTF8(t *testing.T) {
	d := &fakeDetector{}
	_, err := newExtractor(d).Extract(context.Background(), "bad \xff\xfe bytes")
	require.ErrorIs(t, err, apperrors.ErrEncoding)
	assert.Empty(t, d.requests)
}

func TestNewDefaultsLocale(t *testing.T) {
	d := &fakeDetector{resp: &phrases.BatchResponse{}}
	_, err := New(d, Config{}).Extract(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, DefaultLocale, d.requests[0].Locale)
}

func TestNewDefaultsMinScore(t *testing.T) {
	d := &fakeDetector{resp: &phrases.BatchResponse{Results: []phrases.ChunkResult{{
		Index: 0,
		Phrases: []phrases.Phrase{
			{Text: "weak", Score: score(0.10)},
			{Text: "edge", Score: score(DefaultMinScore)},
			{Text: "unscored"},
		},
	}}}}
	kws, err := New(d, Config{}).Extract(context.Background(), "hello world")
	require.NoError(t, err)
	assert.Equal(t, []string{"edge"}, kws)
}

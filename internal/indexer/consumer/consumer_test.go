package consumer

import (
	"context"
	"errors"
	"iter"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/eddy/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/eddy/internal/indexer/source"
)

type fakeRunner struct {
	paths []string
	err   error
}

func (f *fakeRunner) IndexRun(_ context.Context, docs iter.Seq2[source.Document, error]) (*indexer.RunReport, error) {
	for doc, err := range docs {
		if err != nil {
			return nil, err
		}
		f.paths = append(f.paths, doc.Path)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &indexer.RunReport{RunID: "run", Documents: len(f.paths)}, nil
}

func TestHandleIndexRequest(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(base, "eng-docs", "runbooks"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(base, "eng-docs", "runbooks", "deploy.md"), []byte("Deploy"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(base, "eng-docs", "skip.txt"), []byte("skip"), 0o644))

	runner := &fakeRunner{}
	h := HandleIndexRequest(runner, base, []string{".md"})

	require.NoError(t, h(context.Background(), []byte("k"), []byte(`{"root":"eng-docs"}`)))
	assert.Equal(t, []string{"runbooks/deploy.md"}, runner.paths)
}

func TestHandleIndexRequestRunFailure(t *testing.T) {
	runner := &fakeRunner{err: errors.New("extraction failed")}
	h := HandleIndexRequest(runner, t.TempDir(), nil)

	err := h(context.Background(), nil, []byte(`{"root":"."}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "extraction failed")
}

func TestHandleIndexRequestRejectsBadInput(t *testing.T) {
	runner := &fakeRunner{}
	h := HandleIndexRequest(runner, t.TempDir(), nil)

	assert.NoError(t, h(context.Background(), nil, []byte(`not json`)))
	assert.NoError(t, h(context.Background(), nil, []byte(`{"root":"../../etc"}`)))
	assert.Empty(t, runner.paths)
}

package persist

import (
	"context"
	"errors"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/eddy/internal/indexer/keymap"
	"github.com/Adithya-Monish-Kumar-K/eddy/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/eddy/pkg/errors"
	pkgredis "github.com/Adithya-Monish-Kumar-K/eddy/pkg/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore applies a WriteLists batch all-or-nothing, like MULTI/EXEC.
type memStore struct {
	lists   map[string][]string
	batches [][]pkgredis.ListWrite
	failAt  int
}

func newMemStore() *memStore {
	return &memStore{lists: make(map[string][]string), failAt: -1}
}

func (m *memStore) WriteLists(_ context.Context, writes []pkgredis.ListWrite) error {
	m.batches = append(m.batches, writes)
	if m.failAt >= 0 && len(m.batches)-1 == m.failAt {
		return errors.New("EXECABORT transaction discarded")
	}
	for _, w := range writes {
		if w.Replace {
			delete(m.lists, w.Key)
		}
		m.lists[w.Key] = append(m.lists[w.Key], w.Values...)
	}
	return nil
}

func (m *memStore) ListRange(_ context.Context, key string) ([]string, error) {
	return append([]string{}, m.lists[key]...), nil
}

var sample = keymap.ReverseMap{
	"foo": {"a.md", "b.md", "a.md"},
	"bar": {"a.md"},
}

func TestRedisAppendSingleBatch(t *testing.T) {
	store := newMemStore()
	p := NewRedisAppend(store, "kw:")

	require.NoError(t, p.Persist(context.Background(), sample))

	require.Len(t, store.batches, 1, "all keywords go in one transaction")
	assert.Equal(t, []pkgredis.ListWrite{
		{Key: "kw:bar", Values: []string{"a.md"}},
		{Key: "kw:foo", Values: []string{"a.md", "b.md", "a.md"}},
	}, store.batches[0])
}

func TestRedisAppendIsBlind(t *testing.T) {
	store := newMemStore()
	p := NewRedisAppend(store, "")
	require.NoError(t, p.Persist(context.Background(), sample))
	require.NoError(t, p.Persist(context.Background(), sample))

	assert.Equal(t, []string{"a.md", "b.md", "a.md", "a.md", "b.md", "a.md"}, store.lists["foo"])
	assert.Equal(t, []string{"a.md", "a.md"}, store.lists["bar"])
}

func TestRedisReplaceIsIdempotent(t *testing.T) {
	store := newMemStore()
	store.lists["foo"] = []string{"stale.md"}
	store.lists["untouched"] = []string{"x.md"}
	p := NewRedisReplace(store, "")

	require.NoError(t, p.Persist(context.Background(), sample))
	require.NoError(t, p.Persist(context.Background(), sample))

	assert.Equal(t, []string{"a.md", "b.md"}, store.lists["foo"])
	assert.Equal(t, []string{"a.md"}, store.lists["bar"])
	assert.Equal(t, []string{"x.md"}, store.lists["untouched"])
}

func TestPersistFailureLeavesStoreUntouched(t *testing.T) {
	store := newMemStore()
	store.failAt = 0
	err := NewRedisAppend(store, "").Persist(context.Background(), sample)

	require.ErrorIs(t, err, apperrors.ErrStore)
	assert.Empty(t, store.lists)
}

func TestPersistEmptyMapIsNoop(t *testing.T) {
	store := newMemStore()
	require.NoError(t, NewRedisAppend(store, "").Persist(context.Background(), keymap.ReverseMap{}))
	require.NoError(t, NewRedisReplace(store, "").Persist(context.Background(), nil))
	assert.Empty(t, store.batches)
}

func TestRedisLookup(t *testing.T) {
	store := newMemStore()
	require.NoError(t, NewRedisAppend(store, "kw:").Persist(context.Background(), sample))

	l := NewRedisLookup(store, "kw:")
	docs, err := l.Lookup(context.Background(), "foo")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.md", "b.md", "a.md"}, docs)

	docs, err = l.Lookup(context.Background(), "missing")
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestOpenUnknownPersister(t *testing.T) {
	_, err := Open(context.Background(), config.Default(), "s3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown persister "s3"`)
}

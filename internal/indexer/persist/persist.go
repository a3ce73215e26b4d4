// Package persist commits a completed reverse keyword map to the shared
// store in one atomic batch, and reads it back by keyword.
package persist

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/Adithya-Monish-Kumar-K/eddy/internal/indexer/keymap"
	apperrors "github.com/Adithya-Monish-Kumar-K/eddy/pkg/errors"
	pkgredis "github.com/Adithya-Monish-Kumar-K/eddy/pkg/redis"
)

// Persister commits a reverse map. Implementations must apply the whole map
// or nothing.
type Persister interface {
	Persist(ctx context.Context, reverse keymap.ReverseMap) error
}

// ListStore is the subset of *pkgredis.Client the Redis persisters need.
type ListStore interface {
	WriteLists(ctx context.Context, writes []pkgredis.ListWrite) error
	ListRange(ctx context.Context, key string) ([]string, error)
}

// RedisAppend blind-appends every document path to its keyword's list.
// Nothing is read first and nothing is deduplicated, so re-indexing the same
// documents repeats their paths.
type RedisAppend struct {
	store  ListStore
	prefix string
	logger *slog.Logger
}

func NewRedisAppend(store ListStore, keyPrefix string) *RedisAppend {
	return &RedisAppend{
		store:  store,
		prefix: keyPrefix,
		logger: slog.Default().With("component", "redis-append-persister"),
	}
}

func (p *RedisAppend) Persist(ctx context.Context, reverse keymap.ReverseMap) error {
	writes := buildWrites(reverse, p.prefix, false)
	if len(writes) == 0 {
		return nil
	}
	if err := p.store.WriteLists(ctx, writes); err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrStore, err)
	}
	p.logger.Debug("reverse map appended", "keywords", len(writes), "appends", reverse.Appends())
	return nil
}

// RedisReplace overwrites each keyword's list with its distinct document
// paths, making repeated runs over the same documents idempotent. Keywords
// absent from the map are left untouched.
type RedisReplace struct {
	store  ListStore
	prefix string
	logger *slog.Logger
}

func NewRedisReplace(store ListStore, keyPrefix string) *RedisReplace {
	return &RedisReplace{
		store:  store,
		prefix: keyPrefix,
		logger: slog.Default().With("component", "redis-replace-persister"),
	}
}

func (p *RedisReplace) Persist(ctx context.Context, reverse keymap.ReverseMap) error {
	writes := buildWrites(reverse, p.prefix, true)
	if len(writes) == 0 {
		return nil
	}
	if err := p.store.WriteLists(ctx, writes); err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrStore, err)
	}
	p.logger.Debug("reverse map replaced", "keywords", len(writes))
	return nil
}

// buildWrites orders keys so the transaction body is reproducible.
func buildWrites(reverse keymap.ReverseMap, prefix string, replace bool) []pkgredis.ListWrite {
	keywords := make([]string, 0, len(reverse))
	for kw := range reverse {
		keywords = append(keywords, kw)
	}
	sort.Strings(keywords)

	writes := make([]pkgredis.ListWrite, 0, len(keywords))
	for _, kw := range keywords {
		docs := reverse[kw]
		if replace {
			docs = distinct(docs)
		}
		writes = append(writes, pkgredis.ListWrite{
			Key:     prefix + kw,
			Values:  docs,
			Replace: replace,
		})
	}
	return writes
}

func distinct(docs keymap.DocPaths) keymap.DocPaths {
	seen := make(map[string]struct{}, len(docs))
	out := make(keymap.DocPaths, 0, len(docs))
	for _, d := range docs {
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	return out
}

// RedisLookup reads keyword lists written by the Redis persisters.
type RedisLookup struct {
	store  ListStore
	prefix string
}

func NewRedisLookup(store ListStore, keyPrefix string) *RedisLookup {
	return &RedisLookup{store: store, prefix: keyPrefix}
}

// Lookup returns the stored document list for keyword, duplicates included.
func (l *RedisLookup) Lookup(ctx context.Context, keyword string) ([]string, error) {
	docs, err := l.store.ListRange(ctx, l.prefix+keyword)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrStore, err)
	}
	return docs, nil
}

package persist

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sort"

	"github.com/Adithya-Monish-Kumar-K/eddy/internal/indexer/keymap"
	apperrors "github.com/Adithya-Monish-Kumar-K/eddy/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/eddy/pkg/postgres"
)

// Schema is the table Postgres appends to. Position orders a keyword's
// documents across runs.
const Schema = `CREATE TABLE IF NOT EXISTS keyword_documents (
    id       BIGSERIAL PRIMARY KEY,
    keyword  TEXT NOT NULL,
    doc_path TEXT NOT NULL,
    position INT  NOT NULL
);
CREATE INDEX IF NOT EXISTS keyword_documents_keyword_idx ON keyword_documents (keyword, id);`

// Postgres appends one row per (keyword, document) occurrence inside a single
// transaction. Like RedisAppend it never reads or deduplicates.
type Postgres struct {
	db     *postgres.Client
	logger *slog.Logger
}

func NewPostgres(db *postgres.Client) *Postgres {
	return &Postgres{
		db:     db,
		logger: slog.Default().With("component", "postgres-persister"),
	}
}

// EnsureSchema creates the keyword_documents table if needed.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.DB.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("%w: creating schema: %w", apperrors.ErrStore, err)
	}
	return nil
}

func (p *Postgres) Persist(ctx context.Context, reverse keymap.ReverseMap) error {
	if len(reverse) == 0 {
		return nil
	}
	keywords := make([]string, 0, len(reverse))
	for kw := range reverse {
		keywords = append(keywords, kw)
	}
	sort.Strings(keywords)

	err := p.db.InTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO keyword_documents (keyword, doc_path, position) VALUES ($1, $2, $3)`)
		if err != nil {
			return fmt.Errorf("preparing insert: %w", err)
		}
		defer stmt.Close()
		for _, kw := range keywords {
			for pos, doc := range reverse[kw] {
				if _, err := stmt.ExecContext(ctx, kw, doc, pos); err != nil {
					return fmt.Errorf("inserting %q -> %q: %w", kw, doc, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrStore, err)
	}
	p.logger.Debug("reverse map inserted", "keywords", len(keywords), "rows", reverse.Appends())
	return nil
}

// Lookup returns the documents recorded for keyword in insertion order.
func (p *Postgres) Lookup(ctx context.Context, keyword string) ([]string, error) {
	rows, err := p.db.DB.QueryContext(ctx,
		`SELECT doc_path FROM keyword_documents WHERE keyword = $1 ORDER BY id`, keyword)
	if err != nil {
		return nil, fmt.Errorf("%w: querying %q: %w", apperrors.ErrStore, keyword, err)
	}
	defer rows.Close()

	docs := make([]string, 0)
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("%w: scanning row: %w", apperrors.ErrStore, err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrStore, err)
	}
	return docs, nil
}

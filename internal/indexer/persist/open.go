package persist

import (
	"context"
	"fmt"

	"github.com/Adithya-Monish-Kumar-K/eddy/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/eddy/pkg/postgres"
	pkgredis "github.com/Adithya-Monish-Kumar-K/eddy/pkg/redis"
)

// Lookuper reads the documents stored under a keyword.
type Lookuper interface {
	Lookup(ctx context.Context, keyword string) ([]string, error)
}

// Backend is an opened keyword store: its persister, its reader and the
// connection behind them.
type Backend struct {
	Persister Persister
	Lookup    Lookuper
	Ping      func(ctx context.Context) error
	Close     func() error
}

// Open connects to the store selected by kind (config.PersisterAppend,
// PersisterReplace or PersisterPostgres).
func Open(ctx context.Context, cfg *config.Config, kind string) (*Backend, error) {
	switch kind {
	case config.PersisterAppend, config.PersisterReplace:
		client, err := pkgredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("connecting to redis: %w", err)
		}
		b := &Backend{
			Lookup: NewRedisLookup(client, cfg.Redis.KeyPrefix),
			Ping:   client.Ping,
			Close:  client.Close,
		}
		if kind == config.PersisterReplace {
			b.Persister = NewRedisReplace(client, cfg.Redis.KeyPrefix)
		} else {
			b.Persister = NewRedisAppend(client, cfg.Redis.KeyPrefix)
		}
		return b, nil
	case config.PersisterPostgres:
		db, err := postgres.New(ctx, cfg.Postgres)
		if err != nil {
			return nil, fmt.Errorf("connecting to postgres: %w", err)
		}
		p := NewPostgres(db)
		if err := p.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, err
		}
		return &Backend{
			Persister: p,
			Lookup:    p,
			Ping:      db.DB.PingContext,
			Close:     db.Close,
		}, nil
	default:
		return nil, fmt.Errorf("unknown persister %q", kind)
	}
}

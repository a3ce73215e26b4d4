// Package postgres wraps database/sql with the lib/pq driver and a
// transaction helper.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Adithya-Monish-Kumar-K/eddy/pkg/config"
	_ "github.com/lib/pq"
)

type Client struct {
	DB *sql.DB
}

// New opens a pooled connection and pings it.
func New(ctx context.Context, cfg config.PostgresConfig) (*Client, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("opening postgres connection: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	return &Client{DB: db}, nil
}

func (c *Client) Close() error {
	return c.DB.Close()
}

// InTx runs fn inside a transaction, committing when fn returns nil and
// rolling back otherwise.
func (c *Client) InTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := c.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rolling back transaction after error %v: %w", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// Package redis provides a thin wrapper around go-redis/v9 for the keyword
// store: connection setup from a URL or discrete settings, atomic batched
// list writes, and list reads.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/Adithya-Monish-Kumar-K/eddy/pkg/config"
	"github.com/redis/go-redis/v9"
)

// ListWrite is a single list mutation queued inside a transaction. When
// Replace is set the key is deleted before Values are pushed.
type ListWrite struct {
	Key     string
	Values  []string
	Replace bool
}

// Client wraps a go-redis client.
type Client struct {
	rdb *redis.Client
}

// NewClient creates a Redis client and verifies the connection with a PING.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	opts, err := options(cfg)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &Client{rdb: rdb}, nil
}

func options(cfg config.RedisConfig) (*redis.Options, error) {
	if cfg.URL != "" {
		opts, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		if cfg.PoolSize > 0 {
			opts.PoolSize = cfg.PoolSize
		}
		return opts, nil
	}
	return &redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		PoolSize:    cfg.PoolSize,
		DialTimeout: cfg.DialTimeout,
	}, nil
}

// WriteLists queues every write inside one MULTI/EXEC transaction and submits
// it in a single round trip. Either all writes apply or none do.
func (c *Client) WriteLists(ctx context.Context, writes []ListWrite) error {
	if len(writes) == 0 {
		return nil
	}
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, w := range writes {
			if w.Replace {
				pipe.Del(ctx, w.Key)
			}
			if len(w.Values) == 0 {
				continue
			}
			values := make([]interface{}, len(w.Values))
			for i, v := range w.Values {
				values[i] = v
			}
			pipe.RPush(ctx, w.Key, values...)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("executing list transaction (%d keys): %w", len(writes), err)
	}
	return nil
}

// ListRange returns every element of the list stored at key. A missing key
// yields an empty slice.
func (c *Client) ListRange(ctx context.Context, key string) ([]string, error) {
	values, err := c.rdb.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("reading list %s: %w", key, err)
	}
	return values, nil
}

// Ping sends a PING to Redis and returns any error.
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close closes the underlying Redis connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}

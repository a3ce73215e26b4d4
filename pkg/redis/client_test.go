package redis

import (
	"testing"
	"time"

	"github.com/Adithya-Monish-Kumar-K/eddy/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionsFromURL(t *testing.T) {
	opts, err := options(config.RedisConfig{URL: "redis://:secret@127.0.0.1:6380/3", PoolSize: 4})
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:6380", opts.Addr)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 3, opts.DB)
	assert.Equal(t, 4, opts.PoolSize)
}

func TestOptionsFromFields(t *testing.T) {
	opts, err := options(config.RedisConfig{Addr: "cache:6379", DB: 1, DialTimeout: time.Second})
	require.NoError(t, err)
	assert.Equal(t, "cache:6379", opts.Addr)
	assert.Equal(t, 1, opts.DB)
	assert.Equal(t, time.Second, opts.DialTimeout)
}

func TestOptionsBadURL(t *testing.T) {
	_, err := options(config.RedisConfig{URL: "http://not-redis"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing redis url")
}

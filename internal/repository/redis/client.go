package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client wraps the Redis client for cached solver results.
type Client struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewClient creates a Redis client from a connection URL. Entries expire
// after ttl; zero keeps them forever.
func NewClient(ctx context.Context, redisURL string, ttl time.Duration) (*Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &Client{rdb: rdb, ttl: ttl}, nil
}

// NewClientFromPool wraps an existing redis.Client for use in tests.
func NewClientFromPool(rdb *redis.Client, ttl time.Duration) *Client {
	return &Client{rdb: rdb, ttl: ttl}
}

// Close closes the Redis connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}

package redis

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

func resultKey(horizon int, costKey string) string {
	return "solve:" + strconv.Itoa(horizon) + ":" + costKey
}

// GetGeodes returns a cached geode count. found is false on a miss.
func (c *Client) GetGeodes(ctx context.Context, horizon int, costKey string) (int, bool, error) {
	n, err := c.rdb.Get(ctx, resultKey(horizon, costKey)).Int()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get cached geodes: %w", err)
	}
	return n, true, nil
}

// SetGeodes stores a solved geode count for the cost signature and horizon.
func (c *Client) SetGeodes(ctx context.Context, horizon int, costKey string, geodes int) error {
	if err := c.rdb.Set(ctx, resultKey(horizon, costKey), geodes, c.ttl).Err(); err != nil {
		return fmt.Errorf("set cached geodes: %w", err)
	}
	return nil
}

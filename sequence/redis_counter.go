package sequence

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisCounter struct {
	client *redis.Client
	prefix string
}

// NewRedisCounter backs the generator with a Redis INCR per day key, for
// deployments running more than one instance against the same store.
// Keys expire two days after first use; the day has rolled over long
// before that.
func NewRedisCounter(addr string) Counter {
	return &redisCounter{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		prefix: "order_seq",
	}
}

func (c *redisCounter) Next(ctx context.Context, day string) (int64, error) {
	key := fmt.Sprintf("%s:%s", c.prefix, day)
	value, err := c.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if value == 1 {
		c.client.Expire(ctx, key, 48*time.Hour)
	}
	return value, nil
}

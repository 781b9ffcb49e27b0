package cache

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/heartlinkapp/discovery/internal/config"
)

// FeedCache stores per-fingerprint candidate feeds as Redis lists.
// Consumption is destructive: a page read pops from the front in a
// single server-side command, so concurrent readers of one fingerprint
// can never receive overlapping or skipped candidates. Popping leaves
// the key's TTL untouched, which is exactly the "write the remainder
// back with the same remaining TTL" semantics.
type FeedCache struct {
	Client *redis.Client
}

// NewFeedCache initializes the Redis client from config.
// Only Addr is mandatory, Password/DB are optional.
func NewFeedCache(cfg *config.Config) *FeedCache {
	opts := &redis.Options{
		Addr: cfg.Redis.Addr,
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}
	return &FeedCache{Client: redis.NewClient(opts)}
}

func (c *FeedCache) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

// PopPage atomically removes and returns up to n IDs from the front of
// the feed. A missing or exhausted feed yields an empty page and no
// error; infrastructure failures come back as errors so callers can
// degrade to a direct query.
func (c *FeedCache) PopPage(ctx context.Context, key string, n int) ([]uint64, error) {
	vals, err := c.Client.LPopCount(ctx, key, n).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	ids := make([]uint64, 0, len(vals))
	for _, v := range vals {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// StoreFeed replaces the feed under key with ids and arms the TTL. The
// delete guards against a concurrent refill leaving mixed generations
// in one list.
func (c *FeedCache) StoreFeed(ctx context.Context, key string, ids []uint64, ttl time.Duration) error {
	if len(ids) == 0 {
		return c.Client.Del(ctx, key).Err()
	}

	vals := make([]interface{}, len(ids))
	for i, id := range ids {
		vals[i] = strconv.FormatUint(id, 10)
	}

	pipe := c.Client.TxPipeline()
	pipe.Del(ctx, key)
	pipe.RPush(ctx, key, vals...)
	pipe.Expire(ctx, key, ttl)
	_, err := pipe.Exec(ctx)
	return err
}

// Len reports how many candidates remain in the feed.
func (c *FeedCache) Len(ctx context.Context, key string) (int64, error) {
	return c.Client.LLen(ctx, key).Result()
}

// Invalidate drops the feed under key.
func (c *FeedCache) Invalidate(ctx context.Context, key string) error {
	return c.Client.Del(ctx, key).Err()
}

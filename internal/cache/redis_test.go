package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartlinkapp/discovery/internal/cache"
)

func setupFeedCache(t *testing.T) (*cache.FeedCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	feed := &cache.FeedCache{Client: redis.NewClient(&redis.Options{Addr: mr.Addr()})}
	t.Cleanup(func() { feed.Client.Close() })
	return feed, mr
}

func TestFeedStoreAndPop(t *testing.T) {
	feed, _ := setupFeedCache(t)
	ctx := context.Background()

	require.NoError(t, feed.StoreFeed(ctx, "k", []uint64{1, 2, 3, 4, 5}, time.Hour))

	page, err := feed.PopPage(ctx, "k", 2)
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 2}, page)

	remaining, err := feed.Len(ctx, "k")
	require.NoError(t, err)
	assert.EqualValues(t, 3, remaining)
}

func TestFeedSequentialPagesDisjoint(t *testing.T) {
	feed, _ := setupFeedCache(t)
	ctx := context.Background()

	require.NoError(t, feed.StoreFeed(ctx, "k", []uint64{10, 20, 30, 40, 50}, time.Hour))

	page1, err := feed.PopPage(ctx, "k", 2)
	require.NoError(t, err)
	page2, err := feed.PopPage(ctx, "k", 2)
	require.NoError(t, err)
	page3, err := feed.PopPage(ctx, "k", 2)
	require.NoError(t, err)

	assert.Equal(t, []uint64{10, 20}, page1)
	assert.Equal(t, []uint64{30, 40}, page2)
	assert.Equal(t, []uint64{50}, page3)
}

func TestFeedMissingKeyIsEmptyNotError(t *testing.T) {
	feed, _ := setupFeedCache(t)

	page, err := feed.PopPage(context.Background(), "nope", 10)
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestFeedExpiry(t *testing.T) {
	feed, mr := setupFeedCache(t)
	ctx := context.Background()

	require.NoError(t, feed.StoreFeed(ctx, "k", []uint64{1, 2, 3}, time.Hour))

	mr.FastForward(time.Hour + time.Second)

	page, err := feed.PopPage(ctx, "k", 10)
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestFeedPopKeepsTTL(t *testing.T) {
	feed, mr := setupFeedCache(t)
	ctx := context.Background()

	require.NoError(t, feed.StoreFeed(ctx, "k", []uint64{1, 2, 3}, time.Hour))

	_, err := feed.PopPage(ctx, "k", 1)
	require.NoError(t, err)

	// consuming a page must not rearm or drop the expiry
	assert.Equal(t, time.Hour, mr.TTL("k"))
}

func TestFeedStoreReplacesPreviousGeneration(t *testing.T) {
	feed, _ := setupFeedCache(t)
	ctx := context.Background()

	require.NoError(t, feed.StoreFeed(ctx, "k", []uint64{1, 2, 3}, time.Hour))
	require.NoError(t, feed.StoreFeed(ctx, "k", []uint64{7, 8}, time.Hour))

	page, err := feed.PopPage(ctx, "k", 10)
	require.NoError(t, err)
	assert.Equal(t, []uint64{7, 8}, page)
}

func TestFeedStoreEmptyDeletes(t *testing.T) {
	feed, mr := setupFeedCache(t)
	ctx := context.Background()

	require.NoError(t, feed.StoreFeed(ctx, "k", []uint64{1}, time.Hour))
	require.NoError(t, feed.StoreFeed(ctx, "k", nil, time.Hour))

	assert.False(t, mr.Exists("k"))
}

func TestFeedInvalidate(t *testing.T) {
	feed, mr := setupFeedCache(t)
	ctx := context.Background()

	require.NoError(t, feed.StoreFeed(ctx, "k", []uint64{1, 2}, time.Hour))
	require.NoError(t, feed.Invalidate(ctx, "k"))
	assert.False(t, mr.Exists("k"))
}

func TestFeedDownstreamErrorSurfaces(t *testing.T) {
	feed, mr := setupFeedCache(t)
	mr.Close()

	_, err := feed.PopPage(context.Background(), "k", 10)
	assert.Error(t, err)
}

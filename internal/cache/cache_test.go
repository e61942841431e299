package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return New(client, "job:", time.Minute), mr
}

func TestCache_SetGetDelete(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "1", item{ID: "1", Title: "Go dev"}))
	assert.True(t, mr.Exists("job:1"))

	var got item
	require.NoError(t, c.Get(ctx, "1", &got))
	assert.Equal(t, "Go dev", got.Title)

	require.NoError(t, c.Delete(ctx, "1"))
	assert.ErrorIs(t, c.Get(ctx, "1", &got), ErrCacheNotFound)
}

func TestCache_TTL(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "1", item{ID: "1"}))
	mr.FastForward(2 * time.Minute)

	var got item
	assert.ErrorIs(t, c.Get(ctx, "1", &got), ErrCacheNotFound)
}

func TestCache_NilClient(t *testing.T) {
	c := New(nil, "job:", time.Minute)
	ctx := context.Background()

	assert.False(t, c.Enabled())
	assert.NoError(t, c.Set(ctx, "1", item{}))
	assert.NoError(t, c.Delete(ctx, "1"))
	var got item
	assert.ErrorIs(t, c.Get(ctx, "1", &got), ErrCacheNotAvailable)
	assert.ErrorIs(t, c.Ping(ctx), ErrCacheNotAvailable)
}

func TestGetOrLoad(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	calls := 0
	load := func() (item, error) {
		calls++
		return item{ID: "7", Title: "SRE"}, nil
	}

	first, err := GetOrLoad(ctx, c, "7", load)
	require.NoError(t, err)
	second, err := GetOrLoad(ctx, c, "7", load)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
}

func TestGetOrLoad_LoadError(t *testing.T) {
	c := New(nil, "", time.Minute)
	boom := errors.New("boom")
	_, err := GetOrLoad(context.Background(), c, "x", func() (item, error) { return item{}, boom })
	assert.ErrorIs(t, err, boom)
}

func TestConnect_EmptyURL(t *testing.T) {
	client, err := Connect(context.Background(), "")
	assert.NoError(t, err)
	assert.Nil(t, client)
}

func TestConnect_Miniredis(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := Connect(context.Background(), "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	defer client.Close()
	assert.NoError(t, client.Ping(context.Background()).Err())
}

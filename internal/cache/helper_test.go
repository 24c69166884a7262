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

type cachedBlog struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

func setupMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

func TestAside_MissThenHit(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	fetches := 0
	fetch := func(dest *cachedBlog) func() error {
		return func() error {
			fetches++
			dest.ID = 7
			dest.Title = "cached title"
			return nil
		}
	}

	var first cachedBlog
	err := Aside(ctx, BlogKey(7), &first, BlogTTL, fetch(&first))
	require.NoError(t, err)
	assert.Equal(t, 1, fetches)
	assert.Equal(t, "cached title", first.Title)

	// Second read is served from Redis without calling fetch.
	var second cachedBlog
	err = Aside(ctx, BlogKey(7), &second, BlogTTL, fetch(&second))
	require.NoError(t, err)
	assert.Equal(t, 1, fetches)
	assert.Equal(t, first, second)
}

func TestAside_FetchErrorNotCached(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	var dest cachedBlog
	fetchErr := errors.New("db down")
	err := Aside(ctx, BlogKey(1), &dest, time.Minute, func() error { return fetchErr })
	assert.ErrorIs(t, err, fetchErr)

	found, err := GetJSON(ctx, BlogKey(1), &dest)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestInvalidate(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, BlogKey(3), cachedBlog{ID: 3}, time.Minute))
	Invalidate(ctx, BlogKey(3))

	var dest cachedBlog
	found, err := GetJSON(ctx, BlogKey(3), &dest)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestGetJSON_NilClientIsMiss(t *testing.T) {
	SetClient(nil)
	var dest cachedBlog
	found, err := GetJSON(context.Background(), BlogKey(1), &dest)
	assert.NoError(t, err)
	assert.False(t, found)
}

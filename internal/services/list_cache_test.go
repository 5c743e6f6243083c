package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListCache(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)

	c := NewListCache[int](time.Minute)
	c.now = func() time.Time { return now }

	calls := 0
	load := func(context.Context) ([]int, error) {
		calls++
		return []int{calls}, nil
	}

	got, err := c.Get(ctx, load)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, got)

	got, _ = c.Get(ctx, load)
	assert.Equal(t, []int{1}, got)
	assert.Equal(t, 1, calls)

	c.Invalidate()
	got, _ = c.Get(ctx, load)
	assert.Equal(t, []int{2}, got)

	now = now.Add(2 * time.Minute)
	got, _ = c.Get(ctx, load)
	assert.Equal(t, []int{3}, got)
}

func TestListCacheDoesNotCacheErrors(t *testing.T) {
	ctx := context.Background()
	c := NewListCache[string](0)

	_, err := c.Get(ctx, func(context.Context) ([]string, error) { return nil, errors.New("boom") })
	require.Error(t, err)

	got, err := c.Get(ctx, func(context.Context) ([]string, error) { return []string{"ok"}, nil })
	require.NoError(t, err)
	assert.Equal(t, []string{"ok"}, got)
}

func TestListCacheDropsLoadRacingInvalidate(t *testing.T) {
	ctx := context.Background()
	c := NewListCache[int](0)

	got, err := c.Get(ctx, func(context.Context) ([]int, error) {
		// A write lands while the listing is being read.
		c.Invalidate()
		return []int{1}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1}, got)

	got, _ = c.Get(ctx, func(context.Context) ([]int, error) { return []int{2}, nil })
	assert.Equal(t, []int{2}, got)
}

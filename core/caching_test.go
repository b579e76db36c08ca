package core

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loaderFor(calls *atomic.Int32, root string) func(context.Context) (*repoHandle, error) {
	return func(context.Context) (*repoHandle, error) {
		calls.Add(1)
		return &repoHandle{Root: root}, nil
	}
}

func TestHandleCache_LoadsOnce(t *testing.T) {
	c := newHandleCache(time.Minute, 4)
	var calls atomic.Int32

	for range 3 {
		h, err := c.get(context.Background(), "a", loaderFor(&calls, "/a"))
		require.NoError(t, err)
		assert.Equal(t, "/a", h.Root)
	}
	assert.Equal(t, int32(1), calls.Load())
}

func TestHandleCache_ConcurrentMisses(t *testing.T) {
	c := newHandleCache(time.Minute, 4)
	var calls atomic.Int32
	release := make(chan struct{})
	load := func(context.Context) (*repoHandle, error) {
		calls.Add(1)
		<-release
		return &repoHandle{Root: "/a"}, nil
	}

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h, err := c.get(context.Background(), "a", load)
			assert.NoError(t, err)
			assert.Equal(t, "/a", h.Root)
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.LessOrEqual(t, calls.Load(), int32(8))
	assert.GreaterOrEqual(t, calls.Load(), int32(1))
	assert.Equal(t, 1, c.len())
}

func TestHandleCache_ErrorsAreNotCached(t *testing.T) {
	c := newHandleCache(time.Minute, 4)
	var calls atomic.Int32
	failing := func(context.Context) (*repoHandle, error) {
		calls.Add(1)
		return nil, errors.New("boom")
	}

	_, err := c.get(context.Background(), "a", failing)
	require.Error(t, err)
	_, err = c.get(context.Background(), "a", failing)
	require.Error(t, err)
	assert.Equal(t, int32(2), calls.Load())
	assert.Zero(t, c.len())
}

func TestHandleCache_BoundedSize(t *testing.T) {
	c := newHandleCache(time.Minute, 2)
	var calls atomic.Int32
	for _, key := range []string{"a", "b", "c", "d"} {
		_, err := c.get(context.Background(), key, loaderFor(&calls, "/"+key))
		require.NoError(t, err)
		// distinct expirations so the oldest entry is unambiguous
		time.Sleep(2 * time.Millisecond)
	}
	assert.Equal(t, 2, c.len())

	_, ok := c.items.Get("a")
	assert.False(t, ok)
	_, ok = c.items.Get("d")
	assert.True(t, ok)
}

func TestHandleCache_Invalidate(t *testing.T) {
	c := newHandleCache(time.Minute, 4)
	var calls atomic.Int32
	_, err := c.get(context.Background(), "a", loaderFor(&calls, "/a"))
	require.NoError(t, err)

	c.invalidate("a")
	_, err = c.get(context.Background(), "a", loaderFor(&calls, "/a"))
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestHandleCache_Expiry(t *testing.T) {
	c := newHandleCache(10*time.Millisecond, 4)
	var calls atomic.Int32
	_, err := c.get(context.Background(), "a", loaderFor(&calls, "/a"))
	require.NoError(t, err)

	time.Sleep(25 * time.Millisecond)
	_, err = c.get(context.Background(), "a", loaderFor(&calls, "/a"))
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestCache() *Cache {
	return NewCache(time.Minute, zap.NewNop())
}

func TestCache_GetMiss(t *testing.T) {
	cache := newTestCache()

	data, err := cache.Get(context.Background(), "search:missing:hash")

	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestCache_SetGet(t *testing.T) {
	cache := newTestCache()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "video_detail:v1", []byte(`{"id":"v1"}`), time.Hour))

	data, err := cache.Get(ctx, "video_detail:v1")
	require.NoError(t, err)
	assert.Equal(t, `{"id":"v1"}`, string(data))
	assert.Equal(t, 1, cache.ItemCount())
}

func TestCache_StoresCopies(t *testing.T) {
	cache := newTestCache()
	ctx := context.Background()

	value := []byte("abc")
	require.NoError(t, cache.Set(ctx, "k", value, time.Hour))
	value[0] = 'z'

	data, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	data[1] = 'z'

	again, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again))
}

func TestCache_Expiry(t *testing.T) {
	cache := newTestCache()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", []byte("v"), 20*time.Millisecond))

	assert.Eventually(t, func() bool {
		data, err := cache.Get(ctx, "k")
		return err == nil && data == nil
	}, time.Second, 10*time.Millisecond)
}

func TestCache_DeleteAndClear(t *testing.T) {
	cache := newTestCache()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "a", []byte("1"), time.Hour))
	require.NoError(t, cache.Set(ctx, "b", []byte("2"), 0))

	require.NoError(t, cache.Delete(ctx, "a"))
	require.NoError(t, cache.Delete(ctx, "a"))
	data, _ := cache.Get(ctx, "a")
	assert.Nil(t, data)

	require.NoError(t, cache.Clear(ctx))
	assert.Equal(t, 0, cache.ItemCount())
	assert.NoError(t, cache.Ping(ctx))
}

func TestCache_ConcurrentAccess(t *testing.T) {
	cache := newTestCache()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = cache.Set(ctx, "shared", []byte("value"), time.Hour)
			_, _ = cache.Get(ctx, "shared")
		}()
	}
	wg.Wait()

	data, err := cache.Get(ctx, "shared")
	require.NoError(t, err)
	assert.Equal(t, "value", string(data))
}

package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) *redis.Client {
	t.Helper()

	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr})
	require.NoError(t, rdb.Ping(context.Background()).Err())
	t.Cleanup(func() { _ = rdb.Close() })

	return rdb
}

type cachedDetails struct {
	Name  string `json:"name"`
	Queue int    `json:"queue"`
}

func TestGetOrSetJSONLoadsOnce(t *testing.T) {
	rdb := newTestClient(t)
	ctx := context.Background()
	c := New(rdb)

	storeID := time.Now().UnixNano()
	key := KeyStoreDetails(storeID)
	t.Cleanup(func() { _ = c.InvalidateStore(ctx, storeID) })

	loads := 0
	loader := func(context.Context) (cachedDetails, error) {
		loads++
		return cachedDetails{Name: "Clinic", Queue: loads}, nil
	}

	v, err := GetOrSetJSON(ctx, c, key, time.Minute, loader)
	require.NoError(t, err)
	assert.Equal(t, 1, v.Queue)

	v, err = GetOrSetJSON(ctx, c, key, time.Minute, loader)
	require.NoError(t, err)
	assert.Equal(t, 1, v.Queue)
	assert.Equal(t, 1, loads)

	require.NoError(t, c.InvalidateStore(ctx, storeID))

	v, err = GetOrSetJSON(ctx, c, key, time.Minute, loader)
	require.NoError(t, err)
	assert.Equal(t, 2, v.Queue)
}

func TestSlidingWindowLimiter(t *testing.T) {
	rdb := newTestClient(t)
	ctx := context.Background()

	l := NewSlidingWindowLimiter(rdb, "test", 2, time.Minute)
	id := uuid.NewString()
	t.Cleanup(func() { _ = rdb.Del(ctx, KeyRateLimit("test", id)).Err() })

	for i := 0; i < 2; i++ {
		ok, _, _, err := l.Allow(ctx, id)
		require.NoError(t, err)
		assert.True(t, ok)
	}

	ok, _, retry, err := l.Allow(ctx, id)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Greater(t, retry, time.Duration(0))
}

func TestIdempotencyStore(t *testing.T) {
	rdb := newTestClient(t)
	ctx := context.Background()

	s := NewIdempotencyStore(rdb, time.Minute)
	key := KeyIdemTicket(1, 2, uuid.NewString())
	t.Cleanup(func() { _ = s.Release(ctx, key) })

	locked, err := s.AcquireLock(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.True(t, locked)

	locked, err = s.AcquireLock(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.False(t, locked)

	inProgress, err := s.IsLocked(ctx, key)
	require.NoError(t, err)
	assert.True(t, inProgress)

	require.NoError(t, s.SaveResult(ctx, key, `{"ticket":{"id":1}}`))

	payload, ok, err := s.GetResult(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"ticket":{"id":1}}`, payload)
}

func TestQueuePubSubDelivers(t *testing.T) {
	rdb := newTestClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	p := NewQueuePubSub(rdb)
	got := make(chan int64, 1)

	go func() {
		_ = p.Subscribe(ctx, func(_ context.Context, storeID int64) {
			select {
			case got <- storeID:
			default:
			}
		})
	}()

	// Subscribe is asynchronous; publish until the message lands.
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case id := <-got:
			assert.Equal(t, int64(42), id)
			return
		case <-tick.C:
			require.NoError(t, p.PublishQueueChanged(ctx, 42))
		case <-ctx.Done():
			t.Fatal("no message received")
		}
	}
}

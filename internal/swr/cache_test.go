package swr

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

func fixedClock(t *time.Time, mu *sync.Mutex) func() time.Time {
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return *t
	}
}

func TestFetchCachesFreshResults(t *testing.T) {
	var calls atomic.Int32
	cache := New()
	key := Key{Scope: "journal-all", Cluster: "devnet"}
	fn := func(ctx context.Context) Result {
		calls.Add(1)
		return Ok([]string{"a"})
	}

	first := cache.Fetch(context.Background(), key, fn)
	second := cache.Fetch(context.Background(), key, fn)

	list, ok := Data[[]string](first)
	require.True(t, ok)
	assert.Equal(t, []string{"a"}, list)
	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, int32(1), calls.Load(), "fresh hit must not refetch")
}

func TestFetchServesStaleAndRefreshes(t *testing.T) {
	now := time.Now().UTC()
	var mu sync.Mutex
	cache := New(WithFreshFor(time.Minute), WithClock(fixedClock(&now, &mu)))
	key := Key{Scope: "journal-all", Cluster: "devnet"}

	var value atomic.Int32
	value.Store(1)
	fn := func(ctx context.Context) Result {
		return Ok(int(value.Load()))
	}

	first := cache.Fetch(context.Background(), key, fn)
	v, _ := Data[int](first)
	assert.Equal(t, 1, v)

	value.Store(2)
	mu.Lock()
	now = now.Add(2 * time.Minute)
	mu.Unlock()

	stale := cache.Fetch(context.Background(), key, fn)
	v, _ = Data[int](stale)
	assert.Equal(t, 1, v, "stale snapshot is served immediately")

	assert.Eventually(t, func() bool {
		r, ok := cache.Peek(key)
		if !ok {
			return false
		}
		got, _ := Data[int](r)
		return got == 2
	}, time.Second, 5*time.Millisecond, "background refresh stores the new snapshot")
}

func TestFetchCoalescesConcurrentCallers(t *testing.T) {
	var calls atomic.Int32
	cache := New()
	key := Key{Scope: "journal-all", Cluster: "devnet"}
	fn := func(ctx context.Context) Result {
		calls.Add(1)
		time.Sleep(50 * time.Millisecond)
		return Ok("snapshot")
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r := cache.Fetch(context.Background(), key, fn)
			got, _ := Data[string](r)
			assert.Equal(t, "snapshot", got)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), calls.Load(), "in-flight reads for one key coalesce")
}

func TestClusterKeysAreIsolated(t *testing.T) {
	cache := New()
	devnet := Key{Scope: "journal-all", Cluster: "devnet"}
	mainnet := Key{Scope: "journal-all", Cluster: "mainnet"}

	cache.Fetch(context.Background(), devnet, func(ctx context.Context) Result { return Ok("dev") })
	cache.Fetch(context.Background(), mainnet, func(ctx context.Context) Result { return Ok("main") })

	d, _ := cache.Peek(devnet)
	m, _ := cache.Peek(mainnet)
	dv, _ := Data[string](d)
	mv, _ := Data[string](m)
	assert.Equal(t, "dev", dv)
	assert.Equal(t, "main", mv)
}

func TestInvalidateForcesRefetch(t *testing.T) {
	var calls atomic.Int32
	cache := New()
	key := Key{Scope: "journal-all", Cluster: "devnet"}
	fn := func(ctx context.Context) Result {
		calls.Add(1)
		return Ok(int(calls.Load()))
	}

	cache.Fetch(context.Background(), key, fn)
	cache.Invalidate(key)
	_, cached := cache.Peek(key)
	assert.False(t, cached)

	r := cache.Fetch(context.Background(), key, fn)
	got, _ := Data[int](r)
	assert.Equal(t, 2, got)
}

func TestInvalidateScopeDropsDiscriminatedKeys(t *testing.T) {
	cache := New()
	a := Key{Scope: "journal-fetch", Cluster: "devnet", Extra: "addr-a"}
	b := Key{Scope: "journal-fetch", Cluster: "devnet", Extra: "addr-b"}
	other := Key{Scope: "journal-fetch", Cluster: "mainnet", Extra: "addr-a"}
	for _, k := range []Key{a, b, other} {
		k := k
		cache.Fetch(context.Background(), k, func(ctx context.Context) Result { return Ok(k.Extra) })
	}

	cache.InvalidateScope("journal-fetch", "devnet")
	_, okA := cache.Peek(a)
	_, okB := cache.Peek(b)
	_, okOther := cache.Peek(other)
	assert.False(t, okA)
	assert.False(t, okB)
	assert.True(t, okOther, "other clusters keep their snapshots")
}

func TestResultStatusesAreDistinguishable(t *testing.T) {
	boom := errors.New("network down")
	cache := New()
	empty := Key{Scope: "journal-fetch", Cluster: "devnet", Extra: "missing"}
	failed := Key{Scope: "journal-fetch", Cluster: "devnet", Extra: "broken"}

	er := cache.Fetch(context.Background(), empty, func(ctx context.Context) Result { return Empty() })
	fr := cache.Fetch(context.Background(), failed, func(ctx context.Context) Result { return Fail(boom) })

	assert.Equal(t, StatusEmpty, er.Status)
	assert.NoError(t, er.Err)
	assert.Equal(t, StatusTransportError, fr.Status)
	assert.ErrorIs(t, fr.Err, boom)
}

func TestCancelledFetchIsNotCached(t *testing.T) {
	cache := New()
	key := Key{Scope: "journal-all", Cluster: "devnet"}

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	r := cache.Fetch(cancelled, key, func(ctx context.Context) Result {
		return Fail(ctx.Err())
	})
	assert.Equal(t, StatusTransportError, r.Status, "the torn-down caller sees its own failure")

	_, cached := cache.Peek(key)
	assert.False(t, cached, "a cancellation must not poison the shared cache")

	live := cache.Fetch(context.Background(), key, func(ctx context.Context) Result {
		return Ok("snapshot")
	})
	got, _ := Data[string](live)
	assert.Equal(t, "snapshot", got, "the next live caller fetches for real")
}

func TestFailedRefreshKeepsLastGoodSnapshot(t *testing.T) {
	cache := New()
	key := Key{Scope: "journal-all", Cluster: "devnet"}

	cache.Fetch(context.Background(), key, func(ctx context.Context) Result { return Ok("good") })

	r := cache.Refresh(context.Background(), key, func(ctx context.Context) Result {
		return Fail(errors.New("connection reset"))
	})
	assert.Equal(t, StatusTransportError, r.Status)

	cached, ok := cache.Peek(key)
	require.True(t, ok)
	got, _ := Data[string](cached)
	assert.Equal(t, "good", got, "a transport failure never replaces an Ok snapshot")
}

func TestRefreshBypassesFreshness(t *testing.T) {
	var calls atomic.Int32
	cache := New()
	key := Key{Scope: "journal-all", Cluster: "devnet"}
	fn := func(ctx context.Context) Result {
		calls.Add(1)
		return Ok(int(calls.Load()))
	}

	cache.Fetch(context.Background(), key, fn)
	r := cache.Refresh(context.Background(), key, fn)
	got, _ := Data[int](r)
	assert.Equal(t, 2, got)
}

package counter

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)}
}

func TestMemoryStore_IncrExpiresAfterWindow(t *testing.T) {
	ctx := context.Background()
	clk := newClock()
	s := NewMemoryStore(WithClock(clk.Now))

	for i := int64(1); i <= 3; i++ {
		n, err := s.Incr(ctx, "k", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, i, n)
	}

	// TTL starts at creation, later increments do not extend it
	// TTL 从创建开始计算，后续递增不会延长
	clk.Advance(59 * time.Second)
	n, _ := s.Incr(ctx, "k", time.Minute)
	assert.Equal(t, int64(4), n)

	clk.Advance(time.Second)
	n, _ = s.Incr(ctx, "k", time.Minute)
	assert.Equal(t, int64(1), n)
}

func TestMemoryStore_SetNXAndGet(t *testing.T) {
	ctx := context.Background()
	clk := newClock()
	s := NewMemoryStore(WithClock(clk.Now))

	ok, err := s.SetNX(ctx, "session", "100", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = s.SetNX(ctx, "session", "200", time.Hour)
	assert.False(t, ok)

	v, found, _ := s.Get(ctx, "session")
	assert.True(t, found)
	assert.Equal(t, "100", v)

	ttl, _ := s.TTL(ctx, "session")
	assert.Equal(t, time.Hour, ttl)

	clk.Advance(time.Hour)
	_, found, _ = s.Get(ctx, "session")
	assert.False(t, found)

	ok, _ = s.SetNX(ctx, "session", "300", time.Hour)
	assert.True(t, ok)
	require.NoError(t, s.Del(ctx, "session"))
	_, found, _ = s.Get(ctx, "session")
	assert.False(t, found)
}

func TestMemoryStore_Sweep(t *testing.T) {
	ctx := context.Background()
	clk := newClock()
	s := NewMemoryStore(WithClock(clk.Now))

	_, _ = s.Incr(ctx, "a", time.Second)
	_, _ = s.Incr(ctx, "b", time.Hour)
	clk.Advance(2 * time.Second)

	assert.Equal(t, 1, s.Sweep())
	assert.Equal(t, 1, s.Len())
}

func TestMemoryStore_ConcurrentIncrIsAtomic(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Incr(ctx, "hot", time.Minute)
		}()
	}
	wg.Wait()

	v, _, _ := s.Get(ctx, "hot")
	assert.Equal(t, "200", v)
}

// TestMemoryStore_IncrCountProperty n increments inside one window always yield n
// TestMemoryStore_IncrCountProperty 同一窗口内 n 次递增的结果总是 n
func TestMemoryStore_IncrCountProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("count equals number of increments", prop.ForAll(
		func(n int) bool {
			s := NewMemoryStore()
			var last int64
			for i := 0; i < n; i++ {
				last, _ = s.Incr(context.Background(), "p", time.Minute)
			}
			return last == int64(n)
		},
		gen.IntRange(1, 200),
	))

	properties.TestingRun(t)
}

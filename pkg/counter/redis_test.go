package counter

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	s, err := NewRedisStore(context.Background(), RedisConfig{Addr: mr.Addr(), Prefix: "test:"}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func TestRedisStore_IncrWithExpiry(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedisStore(t)

	for i := int64(1); i <= 30; i++ {
		n, err := s.Incr(ctx, "rate", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, i, n)
	}
	assert.True(t, mr.Exists("test:rate"))
	assert.Equal(t, time.Minute, mr.TTL("test:rate"))

	mr.FastForward(61 * time.Second)
	n, err := s.Incr(ctx, "rate", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestRedisStore_IncrRepairsMissingTTL(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedisStore(t)

	require.NoError(t, mr.Set("test:daily", "5"))
	n, err := s.Incr(ctx, "daily", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(6), n)
	assert.Equal(t, time.Hour, mr.TTL("test:daily"))
}

func TestRedisStore_SetNXGetDelTTL(t *testing.T) {
	ctx := context.Background()
	s, _ := newRedisStore(t)

	ok, err := s.SetNX(ctx, "session", "1700000000", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, _ = s.SetNX(ctx, "session", "x", time.Hour)
	assert.False(t, ok)

	v, found, err := s.Get(ctx, "session")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "1700000000", v)

	ttl, err := s.TTL(ctx, "session")
	require.NoError(t, err)
	assert.Equal(t, time.Hour, ttl)

	require.NoError(t, s.Del(ctx, "session"))
	_, found, _ = s.Get(ctx, "session")
	assert.False(t, found)

	ttl, _ = s.TTL(ctx, "missing")
	assert.Equal(t, time.Duration(0), ttl)
}

func TestNew_SelectsStore(t *testing.T) {
	s, err := New(context.Background(), Config{Type: TypeMemory}, nil)
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	_, err = New(context.Background(), Config{Type: "bogus"}, nil)
	assert.Error(t, err)

	mr := miniredis.RunT(t)
	s, err = New(context.Background(), Config{Type: TypeRedis, Redis: RedisConfig{Addr: mr.Addr()}}, nil)
	require.NoError(t, err)
	assert.IsType(t, &RedisStore{}, s)
}

func TestNewRedisStoreWithClient(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := NewRedisStoreWithClient(client, "", nil)
	n, err := s.Incr(context.Background(), "k", time.Second)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

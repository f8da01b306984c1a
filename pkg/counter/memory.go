package counter

import (
	"context"
	"strconv"
	"sync"
	"time"
)

type memoryEntry struct {
	value    string
	expireAt time.Time
}

func (e *memoryEntry) expired(now time.Time) bool {
	return !e.expireAt.IsZero() && !now.Before(e.expireAt)
}

// MemoryStore is a single process Store, expired keys are dropped lazily and by Sweep
// MemoryStore 单进程计数存储，过期键惰性删除或由 Sweep 清理
type MemoryStore struct {
	mu    sync.Mutex
	items map[string]*memoryEntry
	now   func() time.Time
}

type MemoryOption func(*MemoryStore)

// WithClock replaces the wall clock, used by tests to move time forward
// WithClock 替换时钟，测试中用于推进时间
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) {
		s.now = now
	}
}

func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		items: make(map[string]*memoryEntry),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// live returns the entry for key, dropping it when expired. Caller holds mu.
func (s *MemoryStore) live(key string, now time.Time) *memoryEntry {
	e, ok := s.items[key]
	if !ok {
		return nil
	}
	if e.expired(now) {
		delete(s.items, key)
		return nil
	}
	return e
}

func expireAt(now time.Time, ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return now.Add(ttl)
}

func (s *MemoryStore) Incr(_ context.Context, key string, ttl time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	e := s.live(key, now)
	if e == nil {
		s.items[key] = &memoryEntry{value: "1", expireAt: expireAt(now, ttl)}
		return 1, nil
	}
	n, err := strconv.ParseInt(e.value, 10, 64)
	if err != nil {
		return 0, err
	}
	n++
	e.value = strconv.FormatInt(n, 10)
	if e.expireAt.IsZero() {
		e.expireAt = expireAt(now, ttl)
	}
	return n, nil
}

func (s *MemoryStore) SetNX(_ context.Context, key, value string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if s.live(key, now) != nil {
		return false, nil
	}
	s.items[key] = &memoryEntry{value: value, expireAt: expireAt(now, ttl)}
	return true, nil
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.live(key, s.now())
	if e == nil {
		return "", false, nil
	}
	return e.value, true, nil
}

func (s *MemoryStore) Del(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
	return nil
}

// TTL returns the remaining lifetime, 0 when the key is missing or has no expiry
// TTL 返回剩余存活时间，键不存在或无过期时间时返回 0
func (s *MemoryStore) TTL(_ context.Context, key string) (time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	e := s.live(key, now)
	if e == nil || e.expireAt.IsZero() {
		return 0, nil
	}
	return e.expireAt.Sub(now), nil
}

// Sweep removes every expired key and returns how many were removed
// Sweep 删除所有过期键并返回删除数量
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for k, e := range s.items {
		if e.expired(now) {
			delete(s.items, k)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored keys, expired ones included until swept
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

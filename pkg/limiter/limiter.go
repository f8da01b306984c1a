// Package limiter provides token bucket limiters keyed by request attributes
// Package limiter 提供按请求属性分桶的令牌桶限流器
package limiter

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/juju/ratelimit"
)

// Face is the limiter contract used by middleware.RateLimiter
// Face 限流器接口，供 middleware.RateLimiter 使用
type Face interface {
	Key(c *gin.Context) string
	GetBucket(key string) (*ratelimit.Bucket, bool)
	AddBuckets(rules ...BucketRule) Face
}

// BucketRule describes one token bucket
// BucketRule 令牌桶规则
type BucketRule struct {
	Key          string
	FillInterval time.Duration
	Capacity     int64
	Quantum      int64
}

type buckets struct {
	mu sync.RWMutex
	m  map[string]*ratelimit.Bucket
}

func (b *buckets) get(key string) (*ratelimit.Bucket, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	bucket, ok := b.m[key]
	return bucket, ok
}

func (b *buckets) add(rules ...BucketRule) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, rule := range rules {
		if _, ok := b.m[rule.Key]; ok {
			continue
		}
		quantum := rule.Quantum
		if quantum <= 0 {
			quantum = 1
		}
		b.m[rule.Key] = ratelimit.NewBucketWithQuantum(rule.FillInterval, rule.Capacity, quantum)
	}
}

package limiter

import (
	"github.com/gin-gonic/gin"
	"github.com/juju/ratelimit"
)

// MethodLimiter limits by the matched route pattern
// MethodLimiter 按匹配到的路由模式限流
type MethodLimiter struct {
	buckets *buckets
}

func NewMethodLimiter() Face {
	return &MethodLimiter{buckets: &buckets{m: make(map[string]*ratelimit.Bucket)}}
}

func (l *MethodLimiter) Key(c *gin.Context) string {
	if p := c.FullPath(); p != "" {
		return p
	}
	return c.Request.URL.Path
}

func (l *MethodLimiter) GetBucket(key string) (*ratelimit.Bucket, bool) {
	return l.buckets.get(key)
}

func (l *MethodLimiter) AddBuckets(rules ...BucketRule) Face {
	l.buckets.add(rules...)
	return l
}

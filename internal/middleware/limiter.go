package middleware

import (
	"github.com/haierkeys/uni-task-service/pkg/app"
	"github.com/haierkeys/uni-task-service/pkg/code"
	"github.com/haierkeys/uni-task-service/pkg/limiter"

	"github.com/gin-gonic/gin"
)

// RateLimiter token bucket limiter keyed by l.Key, routes without a bucket pass
// RateLimiter 令牌桶限流中间件，未配置桶的路由直接放行
func RateLimiter(l limiter.Face) gin.HandlerFunc {
	return func(c *gin.Context) {
		if bucket, ok := l.GetBucket(l.Key(c)); ok {
			if bucket.TakeAvailable(1) == 0 {
				c.Header("Retry-After", "1")
				app.NewResponse(c).ToResponse(code.ErrorTooManyRequests)
				c.Abort()
				return
			}
		}
		c.Next()
	}
}

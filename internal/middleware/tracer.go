package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// DefaultTraceIDHeader 默认的 Trace ID 请求头名称
	DefaultTraceIDHeader = "X-Trace-ID"
	// TraceIDKey Context 中存储 Trace ID 的键
	TraceIDKey = "trace_id"
)

type traceIDKey struct{}

// TracerConfig 请求追踪配置
// Disabled turns the middleware into a pass-through
// Disabled 为 true 时中间件直接放行
type TracerConfig struct {
	Disabled bool   `yaml:"disabled"`
	Header   string `yaml:"header" default:"X-Trace-ID"`
}

// Tracer reuses the incoming trace id or generates one
// The id is stored in gin.Context, in request.Context and echoed in the response header
// Tracer 复用请求中的 Trace ID 或生成新的，写入 gin.Context、request.Context 与响应头
func Tracer(cfg TracerConfig) gin.HandlerFunc {
	header := cfg.Header
	if header == "" {
		header = DefaultTraceIDHeader
	}
	return func(c *gin.Context) {
		if cfg.Disabled {
			c.Next()
			return
		}
		traceID := c.GetHeader(header)
		if traceID == "" {
			traceID = uuid.NewString()
		}
		c.Set(TraceIDKey, traceID)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), traceIDKey{}, traceID))
		c.Header(header, traceID)
		c.Next()
	}
}

// GetTraceID 从 context.Context 获取 Trace ID
func GetTraceID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(traceIDKey{}).(string); ok {
		return id
	}
	return ""
}

// GetTraceIDFromGin 从 gin.Context 获取 Trace ID
func GetTraceIDFromGin(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return c.GetString(TraceIDKey)
}

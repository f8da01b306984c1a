package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/haierkeys/uni-task-service/pkg/app"
	"github.com/haierkeys/uni-task-service/pkg/code"
	"github.com/haierkeys/uni-task-service/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Recovery logs panics and answers with the generic 500, the panic value is never sent to clients
// Recovery 记录 panic 并返回通用 500，不向客户端暴露 panic 内容
func Recovery(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				fields := []zap.Field{
					zap.String(logger.FieldPath, c.Request.URL.Path),
					zap.String(logger.FieldMethod, c.Request.Method),
					zap.String("query", c.Request.URL.RawQuery),
					zap.String(logger.FieldIP, app.GetRequestIP(c)),
					zap.String(logger.FieldTraceID, GetTraceIDFromGin(c)),
					zap.String("stack", string(debug.Stack())),
				}
				if err, ok := r.(error); ok {
					fields = append(fields, zap.Error(err))
				} else {
					fields = append(fields, zap.String("panic_value", fmt.Sprintf("%v", r)))
				}
				log.Error("Recovered from panic", fields...)

				app.NewResponse(c).ToResponse(code.ErrorServerInternal)
				c.Abort()
			}
		}()
		c.Next()
	}
}

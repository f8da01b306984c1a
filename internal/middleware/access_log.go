package middleware

import (
	"time"

	"github.com/haierkeys/uni-task-service/pkg/app"
	"github.com/haierkeys/uni-task-service/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AccessLog 访问日志中间件
func AccessLog(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		startTime := time.Now()
		c.Next()
		timeCost := time.Since(startTime)

		fields := []zap.Field{
			zap.String(logger.FieldMethod, c.Request.Method),
			zap.String(logger.FieldPath, path),
			zap.String("query", query),
			zap.Int("status", c.Writer.Status()),
			zap.Duration(logger.FieldDuration, timeCost),
			zap.String(logger.FieldIP, app.GetRequestIP(c)),
			zap.String("user-agent", c.Request.UserAgent()),
			zap.String(logger.FieldTraceID, GetTraceIDFromGin(c)),
		}
		if uid := app.GetUID(c); uid > 0 {
			fields = append(fields, zap.Int64(logger.FieldUID, uid))
		}
		if errs := c.Errors.ByType(gin.ErrorTypePrivate).String(); errs != "" {
			fields = append(fields, zap.String("errors", errs))
		}
		log.Info(path, fields...)
	}
}

// Package api_router 提供 HTTP API 路由处理器
package api_router

import (
	"context"
	"time"

	"github.com/haierkeys/uni-task-service/internal/app"
	pkgapp "github.com/haierkeys/uni-task-service/pkg/app"
	"github.com/haierkeys/uni-task-service/pkg/code"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	probeOK    = "ok"
	probeError = "error"
)

// healthProbeKey is read, never written, a miss still proves the counter store answers
const healthProbeKey = "health:probe"

// HealthHandler 健康检查处理器
type HealthHandler struct {
	*Handler
}

// NewHealthHandler 创建健康检查处理器实例
func NewHealthHandler(a *app.App) *HealthHandler {
	return &HealthHandler{Handler: NewHandler(a)}
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status   string  `json:"status"`   // "healthy" 或 "unhealthy"
	Version  string  `json:"version"`  // 服务版本号
	Uptime   float64 `json:"uptime"`   // 运行时间（秒）
	Database string  `json:"database"` // "ok" 或 "error"
	Counter  string  `json:"counter"`  // 限流计数存储 "ok" 或 "error"
}

func (h *HealthHandler) probe(ctx context.Context) (db, counter error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	db = h.App.DB.WithContext(ctx).Exec("SELECT 1").Error
	_, _, counter = h.App.Counter.Get(ctx, healthProbeKey)
	return db, counter
}

// Check 健康检查接口
// @Summary 健康检查
// @Description 检查数据库与计数存储是否可用
// @Tags 系统
// @Produce json
// @Success 200 {object} pkgapp.Res{data=HealthResponse}
// @Failure 503 {object} pkgapp.Res{data=HealthResponse}
// @Router /api/health [get]
func (h *HealthHandler) Check(c *gin.Context) {
	res := HealthResponse{
		Status:   "healthy",
		Version:  h.App.Version().Version,
		Uptime:   time.Since(h.App.StartTime).Seconds(),
		Database: probeOK,
		Counter:  probeOK,
	}

	dbErr, counterErr := h.probe(c.Request.Context())
	if dbErr != nil {
		res.Database = probeError
	}
	if counterErr != nil {
		res.Counter = probeError
	}
	if dbErr != nil || counterErr != nil {
		res.Status = "unhealthy"
		h.App.Logger().Warn("health check failed", zap.NamedError("database", dbErr), zap.NamedError("counter", counterErr))
		pkgapp.NewResponse(c).ToResponse(code.ErrorUnhealthy.WithData(res))
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(res))
}

// Package api_router 提供 HTTP API 路由处理器
package api_router

import (
	"strconv"

	"github.com/haierkeys/uni-task-service/internal/app"
	"github.com/haierkeys/uni-task-service/internal/middleware"
	"github.com/haierkeys/uni-task-service/internal/service"
	pkgapp "github.com/haierkeys/uni-task-service/pkg/app"
	"github.com/haierkeys/uni-task-service/pkg/code"
	"github.com/haierkeys/uni-task-service/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 基础 Handler 结构体，封装 App Container
// 所有 API Handler 都应该嵌入此结构体以获得依赖注入能力
type Handler struct {
	App *app.App
}

// NewHandler 创建基础 Handler 实例
func NewHandler(a *app.App) *Handler {
	return &Handler{App: a}
}

// bind runs BindAndValid and answers 422 with translated details on failure
// bind 绑定并校验参数，失败时返回 422 及翻译后的详情
func (h *Handler) bind(c *gin.Context, method string, params any) bool {
	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Debug(method+".BindAndValid err", zap.Error(errs))
		pkgapp.NewResponse(c).ToResponse(code.ErrorInvalidParams.WithDetails(errs.Errors()...))
		return false
	}
	return true
}

// renderError maps err to its code, internal errors are logged with the trace id
// renderError 将错误映射为响应码，内部错误附带 trace id 记录日志
func (h *Handler) renderError(c *gin.Context, method string, err error) {
	if service.IsInternal(err) {
		h.App.Logger().Error(method,
			zap.String(logger.FieldTraceID, middleware.GetTraceIDFromGin(c)),
			zap.Int64(logger.FieldUID, pkgapp.GetUID(c)),
			zap.Error(err))
	}
	pkgapp.NewResponse(c).ToResponse(service.ErrorCode(err))
}

// paramID reads a positive integer path parameter, answering 422 otherwise
// paramID 读取正整数路径参数，否则返回 422
func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		pkgapp.NewResponse(c).ToResponse(code.ErrorInvalidParams.WithDetails(name + " must be a positive integer"))
		return 0, false
	}
	return id, true
}

// access returns the share access stored by the ShareAccess middleware
func access(c *gin.Context) *service.Access {
	return middleware.GetAccess(c)
}

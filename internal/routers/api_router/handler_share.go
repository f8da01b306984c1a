package api_router

import (
	"time"

	"github.com/haierkeys/uni-task-service/internal/app"
	"github.com/haierkeys/uni-task-service/internal/dto"
	"github.com/haierkeys/uni-task-service/internal/middleware"
	pkgapp "github.com/haierkeys/uni-task-service/pkg/app"
	"github.com/haierkeys/uni-task-service/pkg/code"

	"github.com/gin-gonic/gin"
)

// ShareHandler 分享链接 API 路由处理器
type ShareHandler struct {
	*Handler
}

// NewShareHandler 创建 ShareHandler 实例
func NewShareHandler(a *app.App) *ShareHandler {
	return &ShareHandler{Handler: NewHandler(a)}
}

// Create 为清单创建分享链接
// @Summary 创建分享链接
// @Description 清单所有者创建公开或指定用户的分享链接，可设置过期时间与访问限制
// @Tags 分享
// @Security UserAuthToken
// @Accept json
// @Produce json
// @Param listId path int true "清单 ID"
// @Param params body dto.ShareCreateRequest true "分享参数"
// @Success 201 {object} pkgapp.Res{data=dto.ShareCreateResponse} "成功"
// @Router /collaborative/share/{listId} [post]
func (h *ShareHandler) Create(c *gin.Context) {
	listID, ok := paramID(c, "listId")
	if !ok {
		return
	}
	params := &dto.ShareCreateRequest{}
	if !h.bind(c, "ShareHandler.Create", params) {
		return
	}

	res, err := h.App.ShareService.Create(c.Request.Context(), pkgapp.GetUID(c), listID, params,
		c.GetString(middleware.AccessHostKey), pkgapp.GetRequestIP(c))
	if err != nil {
		h.renderError(c, "ShareHandler.Create", err)
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.SuccessCreate.WithData(res))
}

// List 获取清单的所有分享链接
// @Summary 分享链接列表
// @Tags 分享
// @Security UserAuthToken
// @Produce json
// @Param listId path int true "清单 ID"
// @Success 200 {object} pkgapp.Res{data=[]dto.ShareDTO} "成功"
// @Router /collaborative/shares/{listId} [get]
func (h *ShareHandler) List(c *gin.Context) {
	listID, ok := paramID(c, "listId")
	if !ok {
		return
	}
	shares, err := h.App.ShareService.ListByList(c.Request.Context(), pkgapp.GetUID(c), listID, c.GetString(middleware.AccessHostKey))
	if err != nil {
		h.renderError(c, "ShareHandler.List", err)
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(shares))
}

// Revoke 撤销分享链接
// @Summary 撤销分享链接
// @Tags 分享
// @Security UserAuthToken
// @Produce json
// @Param token path string true "分享 Token"
// @Success 200 {object} pkgapp.Res "成功"
// @Router /collaborative/share/{token} [delete]
func (h *ShareHandler) Revoke(c *gin.Context) {
	params := &dto.ShareTokenRequest{}
	if err := c.ShouldBindUri(params); err != nil {
		pkgapp.NewResponse(c).ToResponse(code.ErrorInvalidParams.WithDetails(err.Error()))
		return
	}
	if err := h.App.ShareService.Revoke(c.Request.Context(), pkgapp.GetUID(c), params.Token, pkgapp.GetRequestIP(c)); err != nil {
		h.renderError(c, "ShareHandler.Revoke", err)
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.SuccessDelete)
}

// Dashboard 分享页面
// @Summary 获取分享的清单
// @Description 返回清单、条目、附件、授权信息、最近活动与参与者统计。匿名访问仅限 can_view 的公开链接
// @Tags 分享
// @Produce json
// @Param token path string true "分享 Token"
// @Success 200 {object} pkgapp.Res{data=dto.SharedDashboardResponse} "成功"
// @Router /shared/{token} [get]
func (h *ShareHandler) Dashboard(c *gin.Context) {
	res, err := h.App.ShareService.Dashboard(c.Request.Context(), access(c))
	if err != nil {
		h.renderError(c, "ShareHandler.Dashboard", err)
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(res))
}

// Updates 分享页面的轮询接口
// @Summary 获取分享清单的更新
// @Tags 分享
// @Produce json
// @Param token path string true "分享 Token"
// @Param since query string false "RFC3339 时间，只返回之后的条目与附件"
// @Success 200 {object} pkgapp.Res{data=dto.SharedUpdatesResponse} "成功"
// @Router /shared/{token}/updates [get]
func (h *ShareHandler) Updates(c *gin.Context) {
	params := &dto.SharedUpdatesRequest{}
	if !h.bind(c, "ShareHandler.Updates", params) {
		return
	}
	var since *time.Time
	if params.Since != "" {
		t, err := time.Parse(time.RFC3339, params.Since)
		if err != nil {
			pkgapp.NewResponse(c).ToResponse(code.ErrorInvalidParams.WithDetails("since must be an RFC3339 time"))
			return
		}
		since = &t
	}

	res, err := h.App.ShareService.Updates(c.Request.Context(), access(c), since)
	if err != nil {
		h.renderError(c, "ShareHandler.Updates", err)
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(res))
}

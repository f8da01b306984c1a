package api_router

import (
	"github.com/haierkeys/uni-task-service/internal/app"
	"github.com/haierkeys/uni-task-service/internal/dto"
	"github.com/haierkeys/uni-task-service/internal/service"
	pkgapp "github.com/haierkeys/uni-task-service/pkg/app"
	"github.com/haierkeys/uni-task-service/pkg/code"

	"github.com/gin-gonic/gin"
)

// SessionHeader carries the presence session id returned by join
// SessionHeader 携带加入时返回的会话 ID
const SessionHeader = "X-Session-ID"

// PresenceHandler 协作在线状态 API 路由处理器
type PresenceHandler struct {
	*Handler
}

// NewPresenceHandler 创建 PresenceHandler 实例
func NewPresenceHandler(a *app.App) *PresenceHandler {
	return &PresenceHandler{Handler: NewHandler(a)}
}

// Join 加入协作会话
// @Summary 加入协作会话
// @Description 返回新的会话 ID，之后的心跳、离开请求通过 X-Session-ID 携带
// @Tags 协作
// @Security UserAuthToken
// @Accept json
// @Produce json
// @Param token path string true "分享 Token"
// @Param params body dto.PresenceJoinRequest false "当前活动"
// @Success 200 {object} pkgapp.Res{data=dto.PresenceJoinResponse} "成功"
// @Router /collaborative/presence/join/{token} [post]
func (h *PresenceHandler) Join(c *gin.Context) {
	params := &dto.PresenceJoinRequest{}
	if c.Request.ContentLength > 0 && !h.bind(c, "PresenceHandler.Join", params) {
		return
	}

	res, err := h.App.PresenceService.Join(c.Request.Context(), access(c), pkgapp.GetUID(c), service.JoinInput{
		SessionID: c.GetHeader(SessionHeader),
		Activity:  params.Activity,
		Cursor:    params.Cursor,
		UserAgent: c.Request.UserAgent(),
		IP:        pkgapp.GetRequestIP(c),
	})
	if err != nil {
		h.renderError(c, "PresenceHandler.Join", err)
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.SuccessJoin.WithData(res))
}

// Update 心跳
// @Summary 更新在线状态
// @Tags 协作
// @Security UserAuthToken
// @Accept json
// @Produce json
// @Param token path string true "分享 Token"
// @Param X-Session-ID header string true "会话 ID"
// @Param params body dto.PresenceUpdateRequest false "当前活动"
// @Success 200 {object} pkgapp.Res{data=dto.PresenceAckResponse} "成功"
// @Router /collaborative/presence/update/{token} [post]
func (h *PresenceHandler) Update(c *gin.Context) {
	params := &dto.PresenceUpdateRequest{}
	if c.Request.ContentLength > 0 && !h.bind(c, "PresenceHandler.Update", params) {
		return
	}

	found, err := h.App.PresenceService.Heartbeat(c.Request.Context(), access(c), pkgapp.GetUID(c), c.GetHeader(SessionHeader),
		service.HeartbeatInput{Activity: params.Activity, Cursor: params.Cursor})
	h.ack(c, "PresenceHandler.Update", code.Success, found, err)
}

// Away 标记离开（页面隐藏）
// @Summary 标记为离开
// @Tags 协作
// @Security UserAuthToken
// @Produce json
// @Param token path string true "分享 Token"
// @Param X-Session-ID header string true "会话 ID"
// @Success 200 {object} pkgapp.Res{data=dto.PresenceAckResponse} "成功"
// @Router /collaborative/presence/away/{token} [post]
func (h *PresenceHandler) Away(c *gin.Context) {
	found, err := h.App.PresenceService.Away(c.Request.Context(), access(c), pkgapp.GetUID(c), c.GetHeader(SessionHeader))
	h.ack(c, "PresenceHandler.Away", code.Success, found, err)
}

// Leave 离开协作会话
// @Summary 离开协作会话
// @Tags 协作
// @Security UserAuthToken
// @Produce json
// @Param token path string true "分享 Token"
// @Param X-Session-ID header string true "会话 ID"
// @Success 200 {object} pkgapp.Res{data=dto.PresenceAckResponse} "成功"
// @Router /collaborative/presence/leave/{token} [post]
func (h *PresenceHandler) Leave(c *gin.Context) {
	found, err := h.App.PresenceService.Leave(c.Request.Context(), access(c), pkgapp.GetUID(c), c.GetHeader(SessionHeader), pkgapp.GetRequestIP(c))
	h.ack(c, "PresenceHandler.Leave", code.SuccessLeave, found, err)
}

// ack renders leave/update/away results, an unknown session answers SuccessNoop
func (h *PresenceHandler) ack(c *gin.Context, method string, ok *code.Code, found bool, err error) {
	if err != nil {
		h.renderError(c, method, err)
		return
	}
	if !found {
		ok = code.SuccessNoop
	}
	pkgapp.NewResponse(c).ToResponse(ok.WithData(dto.PresenceAckResponse{Found: found}))
}

// Participants 参与者列表
// @Summary 参与者列表
// @Tags 协作
// @Produce json
// @Param token path string true "分享 Token"
// @Success 200 {object} pkgapp.Res{data=dto.ParticipantsResponse} "成功"
// @Router /collaborative/presence/participants/{token} [get]
func (h *PresenceHandler) Participants(c *gin.Context) {
	res, err := h.App.PresenceService.Participants(c.Request.Context(), access(c))
	if err != nil {
		h.renderError(c, "PresenceHandler.Participants", err)
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(res))
}

// Updates 在线状态轮询
// @Summary 在线状态与最近活动
// @Tags 协作
// @Produce json
// @Param token path string true "分享 Token"
// @Success 200 {object} pkgapp.Res{data=dto.PresenceFeedResponse} "成功"
// @Router /collaborative/presence/updates/{token} [get]
func (h *PresenceHandler) Updates(c *gin.Context) {
	res, err := h.App.PresenceService.Feed(c.Request.Context(), access(c))
	if err != nil {
		h.renderError(c, "PresenceHandler.Updates", err)
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(res))
}

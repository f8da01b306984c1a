package api_router

import (
	"mime"
	"net/http"

	"github.com/haierkeys/uni-task-service/internal/app"
	"github.com/haierkeys/uni-task-service/internal/dto"
	"github.com/haierkeys/uni-task-service/internal/service"
	pkgapp "github.com/haierkeys/uni-task-service/pkg/app"
	"github.com/haierkeys/uni-task-service/pkg/code"
	"github.com/haierkeys/uni-task-service/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// SharedHandler handles item and file operations performed through a share link
// SharedHandler 通过分享链接进行的条目与附件操作
type SharedHandler struct {
	*Handler
}

// NewSharedHandler 创建 SharedHandler 实例
func NewSharedHandler(a *app.App) *SharedHandler {
	return &SharedHandler{Handler: NewHandler(a)}
}

// CreateItem 通过分享链接新增条目
// @Summary 新增条目
// @Tags 协作
// @Security UserAuthToken
// @Accept json
// @Produce json
// @Param token path string true "分享 Token"
// @Param params body dto.TodoItemCreateRequest true "条目"
// @Success 201 {object} pkgapp.Res{data=dto.TodoItemDTO} "成功"
// @Router /collaborative/shared/{token}/item [post]
func (h *SharedHandler) CreateItem(c *gin.Context) {
	params := &dto.TodoItemCreateRequest{}
	if !h.bind(c, "SharedHandler.CreateItem", params) {
		return
	}
	a := access(c)
	item, err := h.App.TodoService.CreateItem(c.Request.Context(), a.List.ID, a.Requester, params, pkgapp.GetRequestIP(c))
	if err != nil {
		h.renderError(c, "SharedHandler.CreateItem", err)
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.SuccessCreate.WithData(item))
}

// UpdateItem 通过分享链接修改条目
// @Summary 修改条目
// @Tags 协作
// @Security UserAuthToken
// @Accept json
// @Produce json
// @Param token path string true "分享 Token"
// @Param itemId path int true "条目 ID"
// @Param params body dto.TodoItemUpdateRequest true "修改内容"
// @Success 200 {object} pkgapp.Res{data=dto.TodoItemDTO} "成功"
// @Router /collaborative/shared/{token}/item/{itemId} [put]
func (h *SharedHandler) UpdateItem(c *gin.Context) {
	itemID, ok := paramID(c, "itemId")
	if !ok {
		return
	}
	params := &dto.TodoItemUpdateRequest{}
	if !h.bind(c, "SharedHandler.UpdateItem", params) {
		return
	}
	a := access(c)
	item, err := h.App.TodoService.UpdateItem(c.Request.Context(), a.List.ID, itemID, a.Requester, params, pkgapp.GetRequestIP(c))
	if err != nil {
		h.renderError(c, "SharedHandler.UpdateItem", err)
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.SuccessUpdate.WithData(item))
}

// Upload 通过分享链接上传附件
// @Summary 上传附件
// @Tags 协作
// @Security UserAuthToken
// @Accept multipart/form-data
// @Produce json
// @Param token path string true "分享 Token"
// @Param file formData file true "附件"
// @Success 201 {object} pkgapp.Res{data=dto.FileDTO} "成功"
// @Router /collaborative/shared/{token}/upload [post]
func (h *SharedHandler) Upload(c *gin.Context) {
	maxSize := h.App.ServiceConfig.App.MaxUploadSize
	// 多留 1MB 给 multipart 边界与其它字段
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize+1<<20)

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			pkgapp.NewResponse(c).ToResponse(code.ErrorFileTooLarge)
			return
		}
		pkgapp.NewResponse(c).ToResponse(code.ErrorInvalidParams.WithDetails("file is required"))
		return
	}

	in, f, err := service.UploadFromHeader(fh)
	if err != nil {
		h.renderError(c, "SharedHandler.Upload.Open", err)
		return
	}
	defer f.Close()

	a := access(c)
	res, err := h.App.FileService.Upload(c.Request.Context(), a.List.ID, a.Requester, in, pkgapp.GetRequestIP(c))
	if err != nil {
		h.renderError(c, "SharedHandler.Upload", err)
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.SuccessCreate.WithData(res))
}

// Download 通过分享链接下载附件
// @Summary 下载附件
// @Tags 协作
// @Produce octet-stream
// @Param token path string true "分享 Token"
// @Param fileId path int true "附件 ID"
// @Success 200 {file} binary "附件内容"
// @Router /collaborative/shared/{token}/file/{fileId} [get]
func (h *SharedHandler) Download(c *gin.Context) {
	fileID, ok := paramID(c, "fileId")
	if !ok {
		return
	}
	a := access(c)
	file, rc, err := h.App.FileService.Open(c.Request.Context(), a.List.ID, fileID, a.Requester, pkgapp.GetRequestIP(c))
	if err != nil {
		h.renderError(c, "SharedHandler.Download", err)
		return
	}
	defer func() {
		if err := rc.Close(); err != nil {
			h.App.Logger().Warn("close stored file", zap.Int64(logger.FieldFileID, fileID), zap.Error(err))
		}
	}()

	c.DataFromReader(http.StatusOK, file.Size, file.MimeType, rc, map[string]string{
		"Content-Disposition": mime.FormatMediaType("attachment", map[string]string{"filename": file.OriginalName}),
	})
}

package api_router

import (
	"github.com/haierkeys/uni-task-service/internal/app"
	"github.com/haierkeys/uni-task-service/internal/dto"
	pkgapp "github.com/haierkeys/uni-task-service/pkg/app"
	"github.com/haierkeys/uni-task-service/pkg/code"

	"github.com/gin-gonic/gin"
)

// TodoHandler 清单所有者 API 路由处理器
type TodoHandler struct {
	*Handler
}

// NewTodoHandler 创建 TodoHandler 实例
func NewTodoHandler(a *app.App) *TodoHandler {
	return &TodoHandler{Handler: NewHandler(a)}
}

// List 获取当前用户的清单
// @Summary 清单列表
// @Tags 清单
// @Security UserAuthToken
// @Produce json
// @Param page query int false "页码"
// @Param pageSize query int false "每页数量"
// @Success 200 {object} pkgapp.Res{data=pkgapp.ListRes{list=[]dto.TodoListDTO}} "成功"
// @Router /api/todo-lists [get]
func (h *TodoHandler) List(c *gin.Context) {
	pager := pkgapp.NewPager(c, h.App.PaginationConfig())

	lists, total, err := h.App.TodoService.List(c.Request.Context(), pkgapp.GetUID(c), pager.Page, pager.PageSize)
	if err != nil {
		h.renderError(c, "TodoHandler.List", err)
		return
	}
	pager.TotalRows = int(total)
	pkgapp.NewResponse(c).ToResponseList(code.Success, lists, pager)
}

// Create 创建清单
// @Summary 创建清单
// @Description 指定 course_id 时需要已选修该课程
// @Tags 清单
// @Security UserAuthToken
// @Accept json
// @Produce json
// @Param params body dto.TodoListCreateRequest true "清单"
// @Success 201 {object} pkgapp.Res{data=dto.TodoListDTO} "成功"
// @Router /api/todo-lists [post]
func (h *TodoHandler) Create(c *gin.Context) {
	params := &dto.TodoListCreateRequest{}
	if !h.bind(c, "TodoHandler.Create", params) {
		return
	}
	list, err := h.App.TodoService.Create(c.Request.Context(), pkgapp.GetUID(c), params)
	if err != nil {
		h.renderError(c, "TodoHandler.Create", err)
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.SuccessCreate.WithData(list))
}

// Get 获取清单
// @Summary 获取清单
// @Tags 清单
// @Security UserAuthToken
// @Produce json
// @Param id path int true "清单 ID"
// @Success 200 {object} pkgapp.Res{data=dto.TodoListDTO} "成功"
// @Router /api/todo-lists/{id} [get]
func (h *TodoHandler) Get(c *gin.Context) {
	listID, ok := paramID(c, "id")
	if !ok {
		return
	}
	list, err := h.App.TodoService.Get(c.Request.Context(), pkgapp.GetUID(c), listID)
	if err != nil {
		h.renderError(c, "TodoHandler.Get", err)
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(list))
}

// Update 修改清单
// @Summary 修改清单
// @Tags 清单
// @Security UserAuthToken
// @Accept json
// @Produce json
// @Param id path int true "清单 ID"
// @Param params body dto.TodoListUpdateRequest true "修改内容"
// @Success 200 {object} pkgapp.Res{data=dto.TodoListDTO} "成功"
// @Router /api/todo-lists/{id} [put]
func (h *TodoHandler) Update(c *gin.Context) {
	listID, ok := paramID(c, "id")
	if !ok {
		return
	}
	params := &dto.TodoListUpdateRequest{}
	if !h.bind(c, "TodoHandler.Update", params) {
		return
	}
	list, err := h.App.TodoService.Update(c.Request.Context(), pkgapp.GetUID(c), listID, params)
	if err != nil {
		h.renderError(c, "TodoHandler.Update", err)
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.SuccessUpdate.WithData(list))
}

// Delete 删除清单及其分享、条目、附件
// @Summary 删除清单
// @Tags 清单
// @Security UserAuthToken
// @Produce json
// @Param id path int true "清单 ID"
// @Success 200 {object} pkgapp.Res "成功"
// @Router /api/todo-lists/{id} [delete]
func (h *TodoHandler) Delete(c *gin.Context) {
	listID, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.App.TodoService.Delete(c.Request.Context(), pkgapp.GetUID(c), listID); err != nil {
		h.renderError(c, "TodoHandler.Delete", err)
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.SuccessDelete)
}

// ownedList answers the error and returns false unless the requester owns :id
func (h *TodoHandler) ownedList(c *gin.Context, method string) (int64, bool) {
	listID, ok := paramID(c, "id")
	if !ok {
		return 0, false
	}
	if _, err := h.App.TodoService.OwnedList(c.Request.Context(), pkgapp.GetUID(c), listID); err != nil {
		h.renderError(c, method, err)
		return 0, false
	}
	return listID, true
}

// CreateItem 所有者新增条目
// @Summary 新增条目
// @Tags 清单
// @Security UserAuthToken
// @Accept json
// @Produce json
// @Param id path int true "清单 ID"
// @Param params body dto.TodoItemCreateRequest true "条目"
// @Success 201 {object} pkgapp.Res{data=dto.TodoItemDTO} "成功"
// @Router /api/todo-lists/{id}/items [post]
func (h *TodoHandler) CreateItem(c *gin.Context) {
	listID, ok := h.ownedList(c, "TodoHandler.CreateItem")
	if !ok {
		return
	}
	params := &dto.TodoItemCreateRequest{}
	if !h.bind(c, "TodoHandler.CreateItem", params) {
		return
	}
	uid := pkgapp.GetUID(c)
	item, err := h.App.TodoService.CreateItem(c.Request.Context(), listID, &uid, params, pkgapp.GetRequestIP(c))
	if err != nil {
		h.renderError(c, "TodoHandler.CreateItem", err)
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.SuccessCreate.WithData(item))
}

// UpdateItem 所有者修改条目
// @Summary 修改条目
// @Tags 清单
// @Security UserAuthToken
// @Accept json
// @Produce json
// @Param id path int true "清单 ID"
// @Param itemId path int true "条目 ID"
// @Param params body dto.TodoItemUpdateRequest true "修改内容"
// @Success 200 {object} pkgapp.Res{data=dto.TodoItemDTO} "成功"
// @Router /api/todo-lists/{id}/items/{itemId} [put]
func (h *TodoHandler) UpdateItem(c *gin.Context) {
	listID, ok := h.ownedList(c, "TodoHandler.UpdateItem")
	if !ok {
		return
	}
	itemID, ok := paramID(c, "itemId")
	if !ok {
		return
	}
	params := &dto.TodoItemUpdateRequest{}
	if !h.bind(c, "TodoHandler.UpdateItem", params) {
		return
	}
	uid := pkgapp.GetUID(c)
	item, err := h.App.TodoService.UpdateItem(c.Request.Context(), listID, itemID, &uid, params, pkgapp.GetRequestIP(c))
	if err != nil {
		h.renderError(c, "TodoHandler.UpdateItem", err)
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.SuccessUpdate.WithData(item))
}

// DeleteItem 所有者删除条目
// @Summary 删除条目
// @Tags 清单
// @Security UserAuthToken
// @Produce json
// @Param id path int true "清单 ID"
// @Param itemId path int true "条目 ID"
// @Success 200 {object} pkgapp.Res "成功"
// @Router /api/todo-lists/{id}/items/{itemId} [delete]
func (h *TodoHandler) DeleteItem(c *gin.Context) {
	listID, ok := h.ownedList(c, "TodoHandler.DeleteItem")
	if !ok {
		return
	}
	itemID, ok := paramID(c, "itemId")
	if !ok {
		return
	}
	uid := pkgapp.GetUID(c)
	if err := h.App.TodoService.DeleteItem(c.Request.Context(), listID, itemID, &uid, pkgapp.GetRequestIP(c)); err != nil {
		h.renderError(c, "TodoHandler.DeleteItem", err)
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.SuccessDelete)
}

// DeleteFile 所有者删除附件
// @Summary 删除附件
// @Tags 清单
// @Security UserAuthToken
// @Produce json
// @Param id path int true "清单 ID"
// @Param fileId path int true "附件 ID"
// @Success 200 {object} pkgapp.Res "成功"
// @Router /api/todo-lists/{id}/files/{fileId} [delete]
func (h *TodoHandler) DeleteFile(c *gin.Context) {
	listID, ok := h.ownedList(c, "TodoHandler.DeleteFile")
	if !ok {
		return
	}
	fileID, ok := paramID(c, "fileId")
	if !ok {
		return
	}
	uid := pkgapp.GetUID(c)
	if err := h.App.FileService.Delete(c.Request.Context(), listID, fileID, &uid, pkgapp.GetRequestIP(c)); err != nil {
		h.renderError(c, "TodoHandler.DeleteFile", err)
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.SuccessDelete)
}

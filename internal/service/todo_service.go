package service

import (
	"context"

	"github.com/haierkeys/uni-task-service/internal/domain"
	"github.com/haierkeys/uni-task-service/internal/dto"
	"github.com/haierkeys/uni-task-service/pkg/logger"
	"github.com/haierkeys/uni-task-service/pkg/storage"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// TodoService defines the todo list and item record store interface
// TodoService 定义待办列表与事项接口
type TodoService interface {
	// OwnedList returns the list when uid owns it
	// OwnedList 返回 uid 拥有的列表
	OwnedList(ctx context.Context, uid, listID int64) (*domain.TodoList, error)

	Create(ctx context.Context, uid int64, params *dto.TodoListCreateRequest) (*dto.TodoListDTO, error)
	Get(ctx context.Context, uid, listID int64) (*dto.TodoListDTO, error)
	List(ctx context.Context, uid int64, page, pageSize int) ([]*dto.TodoListDTO, int64, error)
	Update(ctx context.Context, uid, listID int64, params *dto.TodoListUpdateRequest) (*dto.TodoListDTO, error)
	// Delete removes the list with everything attached, stored file bytes included
	// Delete 删除列表及其所有关联数据，包括存储的文件
	Delete(ctx context.Context, uid, listID int64) error

	// Items 列出事项
	Items(ctx context.Context, listID int64) ([]*dto.TodoItemDTO, error)
	// CreateItem, UpdateItem and DeleteItem expect the caller to have authorized actor on listID
	// CreateItem、UpdateItem、DeleteItem 由调用方完成授权
	CreateItem(ctx context.Context, listID int64, actor *int64, params *dto.TodoItemCreateRequest, ip string) (*dto.TodoItemDTO, error)
	UpdateItem(ctx context.Context, listID, itemID int64, actor *int64, params *dto.TodoItemUpdateRequest, ip string) (*dto.TodoItemDTO, error)
	DeleteItem(ctx context.Context, listID, itemID int64, actor *int64, ip string) error
}

type todoService struct {
	lists      domain.TodoListRepository
	items      domain.TodoItemRepository
	files      domain.FileRepository
	courses    domain.CourseRepository
	activities ActivityService
	storage    storage.Storager
	logger     *zap.Logger
	config     *ServiceConfig
}

// NewTodoService creates TodoService instance
// NewTodoService 创建 TodoService 实例
func NewTodoService(lists domain.TodoListRepository, items domain.TodoItemRepository, files domain.FileRepository, courses domain.CourseRepository, activities ActivityService, store storage.Storager, logger *zap.Logger, config *ServiceConfig) TodoService {
	return &todoService{
		lists:      lists,
		items:      items,
		files:      files,
		courses:    courses,
		activities: activities,
		storage:    store,
		logger:     logger,
		config:     config,
	}
}

func (s *todoService) OwnedList(ctx context.Context, uid, listID int64) (*domain.TodoList, error) {
	list, err := s.lists.GetByID(ctx, listID)
	if err != nil {
		if errors.Is(err, domain.ErrListNotFound) {
			return nil, err
		}
		return nil, errors.Wrap(err, "load list")
	}
	if !list.IsOwner(&uid) {
		return nil, domain.ErrForbidden
	}
	return list, nil
}

func (s *todoService) Create(ctx context.Context, uid int64, params *dto.TodoListCreateRequest) (*dto.TodoListDTO, error) {
	if params.CourseID != nil {
		ok, err := s.courses.IsEnrolled(ctx, uid, *params.CourseID)
		if err != nil {
			return nil, errors.Wrap(err, "enrollment check")
		}
		if !ok {
			return nil, domain.ErrNotEnrolled
		}
	}

	list := &domain.TodoList{
		UserID:      uid,
		CourseID:    params.CourseID,
		CategoryID:  params.CategoryID,
		Title:       params.Title,
		Description: params.Description,
		TaskType:    domain.TaskIndividual,
		Priority:    domain.PriorityMedium,
		Status:      domain.TodoPending,
		Deadline:    params.Deadline,
	}
	if params.TaskType != "" {
		list.TaskType = domain.TaskType(params.TaskType)
	}
	if params.Priority != "" {
		list.Priority = domain.Priority(params.Priority)
	}
	if params.Status != "" {
		list.Status = domain.TodoStatus(params.Status)
	}
	if err := s.lists.Create(ctx, list); err != nil {
		return nil, errors.Wrap(err, "create list")
	}
	return todoListDTO(list), nil
}

func (s *todoService) Get(ctx context.Context, uid, listID int64) (*dto.TodoListDTO, error) {
	list, err := s.OwnedList(ctx, uid, listID)
	if err != nil {
		return nil, err
	}
	return todoListDTO(list), nil
}

func (s *todoService) List(ctx context.Context, uid int64, page, pageSize int) ([]*dto.TodoListDTO, int64, error) {
	lists, err := s.lists.ListByUser(ctx, uid, page, pageSize)
	if err != nil {
		return nil, 0, errors.Wrap(err, "list lists")
	}
	total, err := s.lists.CountByUser(ctx, uid)
	if err != nil {
		return nil, 0, errors.Wrap(err, "count lists")
	}
	out := make([]*dto.TodoListDTO, 0, len(lists))
	for _, l := range lists {
		out = append(out, todoListDTO(l))
	}
	return out, total, nil
}

func (s *todoService) Update(ctx context.Context, uid, listID int64, params *dto.TodoListUpdateRequest) (*dto.TodoListDTO, error) {
	list, err := s.OwnedList(ctx, uid, listID)
	if err != nil {
		return nil, err
	}
	if params.Title != nil {
		list.Title = *params.Title
	}
	if params.Description != nil {
		list.Description = *params.Description
	}
	if params.CategoryID != nil {
		list.CategoryID = params.CategoryID
	}
	if params.TaskType != nil {
		list.TaskType = domain.TaskType(*params.TaskType)
	}
	if params.Priority != nil {
		list.Priority = domain.Priority(*params.Priority)
	}
	if params.Status != nil {
		list.Status = domain.TodoStatus(*params.Status)
	}
	if params.Deadline != nil {
		list.Deadline = params.Deadline
	}
	if err := s.lists.Update(ctx, list); err != nil {
		return nil, errors.Wrap(err, "update list")
	}
	return todoListDTO(list), nil
}

func (s *todoService) Delete(ctx context.Context, uid, listID int64) error {
	if _, err := s.OwnedList(ctx, uid, listID); err != nil {
		return err
	}
	files, err := s.files.ListByList(ctx, listID)
	if err != nil {
		return errors.Wrap(err, "list files")
	}
	if err := s.lists.Delete(ctx, listID); err != nil {
		return errors.Wrap(err, "delete list")
	}
	for _, f := range files {
		if err := s.storage.Delete(ctx, f.StoredPath); err != nil {
			s.logger.Warn("stored file delete failed",
				zap.Int64(logger.FieldListID, listID),
				zap.Int64(logger.FieldFileID, f.ID),
				zap.Error(err))
		}
	}
	return nil
}

func (s *todoService) Items(ctx context.Context, listID int64) ([]*dto.TodoItemDTO, error) {
	items, err := s.items.ListByList(ctx, listID)
	if err != nil {
		return nil, errors.Wrap(err, "list items")
	}
	return todoItemDTOs(items)
}

func (s *todoService) CreateItem(ctx context.Context, listID int64, actor *int64, params *dto.TodoItemCreateRequest, ip string) (*dto.TodoItemDTO, error) {
	item := &domain.TodoItem{
		TodoListID:  listID,
		Title:       params.Title,
		Description: params.Description,
		Deadline:    params.Deadline,
	}
	if err := s.items.Create(ctx, item); err != nil {
		return nil, errors.Wrap(err, "create item")
	}
	record(ctx, s.activities, s.logger, listID, actor, domain.ActionItemCreated, map[string]any{
		"item_id":    item.ID,
		"item_title": item.Title,
	}, ip)
	return todoItemDTO(item)
}

func (s *todoService) UpdateItem(ctx context.Context, listID, itemID int64, actor *int64, params *dto.TodoItemUpdateRequest, ip string) (*dto.TodoItemDTO, error) {
	item, err := s.items.GetByID(ctx, listID, itemID)
	if err != nil {
		if errors.Is(err, domain.ErrItemNotFound) {
			return nil, err
		}
		return nil, errors.Wrap(err, "load item")
	}

	completed := false
	if params.Title != nil {
		item.Title = *params.Title
	}
	if params.Description != nil {
		item.Description = *params.Description
	}
	if params.Deadline != nil {
		item.Deadline = params.Deadline
	}
	if params.IsCompleted != nil && *params.IsCompleted != item.IsCompleted {
		item.IsCompleted = *params.IsCompleted
		if item.IsCompleted {
			now := s.config.now()
			item.CompletedAt = &now
			completed = true
		} else {
			item.CompletedAt = nil
		}
	}
	if err := s.items.Update(ctx, item); err != nil {
		return nil, errors.Wrap(err, "update item")
	}

	kind := domain.ActionItemUpdated
	if completed {
		kind = domain.ActionItemCompleted
	}
	record(ctx, s.activities, s.logger, listID, actor, kind, map[string]any{
		"item_id":    item.ID,
		"item_title": item.Title,
	}, ip)
	return todoItemDTO(item)
}

func (s *todoService) DeleteItem(ctx context.Context, listID, itemID int64, actor *int64, ip string) error {
	item, err := s.items.GetByID(ctx, listID, itemID)
	if err != nil {
		if errors.Is(err, domain.ErrItemNotFound) {
			return err
		}
		return errors.Wrap(err, "load item")
	}
	if err := s.items.Delete(ctx, listID, itemID); err != nil {
		return errors.Wrap(err, "delete item")
	}
	record(ctx, s.activities, s.logger, listID, actor, domain.ActionItemDeleted, map[string]any{
		"item_id":    item.ID,
		"item_title": item.Title,
	}, ip)
	return nil
}

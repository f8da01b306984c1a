package dao

import (
	"context"
	"time"

	"github.com/haierkeys/uni-task-service/internal/domain"
	"github.com/haierkeys/uni-task-service/internal/model"
)

// todoItemRepository 实现 domain.TodoItemRepository 接口
type todoItemRepository struct {
	dao *Dao
}

// NewTodoItemRepository 创建 TodoItemRepository 实例
func NewTodoItemRepository(dao *Dao) domain.TodoItemRepository {
	return &todoItemRepository{dao: dao}
}

func (r *todoItemRepository) toDomain(m *model.TodoItem) *domain.TodoItem {
	return &domain.TodoItem{
		ID:          m.ID,
		TodoListID:  m.TodoListID,
		Title:       m.Title,
		Description: m.Description,
		IsCompleted: m.IsCompleted,
		CompletedAt: m.CompletedAt,
		Deadline:    m.Deadline,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func (r *todoItemRepository) toModel(d *domain.TodoItem) *model.TodoItem {
	return &model.TodoItem{
		ID:          d.ID,
		TodoListID:  d.TodoListID,
		Title:       d.Title,
		Description: d.Description,
		IsCompleted: d.IsCompleted,
		CompletedAt: d.CompletedAt,
		Deadline:    d.Deadline,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func (r *todoItemRepository) Create(ctx context.Context, item *domain.TodoItem) error {
	m := r.toModel(item)
	if err := r.dao.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	item.ID = m.ID
	item.CreatedAt = m.CreatedAt
	item.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *todoItemRepository) GetByID(ctx context.Context, listID, id int64) (*domain.TodoItem, error) {
	var m model.TodoItem
	err := r.dao.WithContext(ctx).Where("id = ? AND todo_list_id = ?", id, listID).First(&m).Error
	if err != nil {
		return nil, notFound(err, domain.ErrItemNotFound)
	}
	return r.toDomain(&m), nil
}

func (r *todoItemRepository) Update(ctx context.Context, item *domain.TodoItem) error {
	m := r.toModel(item)
	res := r.dao.WithContext(ctx).Model(&model.TodoItem{}).
		Where("id = ? AND todo_list_id = ?", item.ID, item.TodoListID).
		Select("title", "description", "is_completed", "completed_at", "deadline", "updated_at").
		Updates(m)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

func (r *todoItemRepository) Delete(ctx context.Context, listID, id int64) error {
	res := r.dao.WithContext(ctx).Where("id = ? AND todo_list_id = ?", id, listID).Delete(&model.TodoItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

func (r *todoItemRepository) ListByList(ctx context.Context, listID int64) ([]*domain.TodoItem, error) {
	return r.find(ctx, "todo_list_id = ?", listID)
}

func (r *todoItemRepository) ListUpdatedSince(ctx context.Context, listID int64, since time.Time) ([]*domain.TodoItem, error) {
	return r.find(ctx, "todo_list_id = ? AND updated_at > ?", listID, since)
}

func (r *todoItemRepository) find(ctx context.Context, query string, args ...any) ([]*domain.TodoItem, error) {
	var ms []*model.TodoItem
	if err := r.dao.WithContext(ctx).Where(query, args...).Order("id ASC").Find(&ms).Error; err != nil {
		return nil, err
	}
	ds := make([]*domain.TodoItem, 0, len(ms))
	for _, m := range ms {
		ds = append(ds, r.toDomain(m))
	}
	return ds, nil
}

var _ domain.TodoItemRepository = (*todoItemRepository)(nil)

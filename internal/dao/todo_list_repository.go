package dao

import (
	"context"

	"github.com/haierkeys/uni-task-service/internal/domain"
	"github.com/haierkeys/uni-task-service/internal/model"

	"gorm.io/gorm"
)

// todoListRepository 实现 domain.TodoListRepository 接口
type todoListRepository struct {
	dao *Dao
}

// NewTodoListRepository 创建 TodoListRepository 实例
func NewTodoListRepository(dao *Dao) domain.TodoListRepository {
	return &todoListRepository{dao: dao}
}

func (r *todoListRepository) toDomain(m *model.TodoList) *domain.TodoList {
	return &domain.TodoList{
		ID:          m.ID,
		UserID:      m.UserID,
		CourseID:    m.CourseID,
		CategoryID:  m.CategoryID,
		Title:       m.Title,
		Description: m.Description,
		TaskType:    domain.TaskType(m.TaskType),
		Priority:    domain.Priority(m.Priority),
		Status:      domain.TodoStatus(m.Status),
		Deadline:    m.Deadline,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func (r *todoListRepository) toModel(d *domain.TodoList) *model.TodoList {
	return &model.TodoList{
		ID:          d.ID,
		UserID:      d.UserID,
		CourseID:    d.CourseID,
		CategoryID:  d.CategoryID,
		Title:       d.Title,
		Description: d.Description,
		TaskType:    string(d.TaskType),
		Priority:    string(d.Priority),
		Status:      string(d.Status),
		Deadline:    d.Deadline,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func (r *todoListRepository) Create(ctx context.Context, list *domain.TodoList) error {
	m := r.toModel(list)
	if err := r.dao.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	list.ID = m.ID
	list.CreatedAt = m.CreatedAt
	list.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *todoListRepository) GetByID(ctx context.Context, id int64) (*domain.TodoList, error) {
	var m model.TodoList
	if err := r.dao.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, notFound(err, domain.ErrListNotFound)
	}
	return r.toDomain(&m), nil
}

func (r *todoListRepository) Update(ctx context.Context, list *domain.TodoList) error {
	m := r.toModel(list)
	res := r.dao.WithContext(ctx).Model(&model.TodoList{}).Where("id = ?", list.ID).
		Select("course_id", "category_id", "title", "description", "task_type", "priority", "status", "deadline", "updated_at").
		Updates(m)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrListNotFound
	}
	return nil
}

// Delete cascades inside one transaction
// Delete 在同一事务内级联删除
func (r *todoListRepository) Delete(ctx context.Context, id int64) error {
	return r.dao.Transaction(ctx, func(tx *gorm.DB) error {
		children := []any{
			&model.ActivityLog{},
			&model.Presence{},
			&model.Participant{},
			&model.ShareGrant{},
			&model.File{},
			&model.TodoItem{},
		}
		for _, c := range children {
			if err := tx.Where("todo_list_id = ?", id).Delete(c).Error; err != nil {
				return err
			}
		}
		res := tx.Delete(&model.TodoList{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrListNotFound
		}
		return nil
	})
}

func (r *todoListRepository) ListByUser(ctx context.Context, uid int64, page, pageSize int) ([]*domain.TodoList, error) {
	var ms []*model.TodoList
	offset := 0
	if page > 0 {
		offset = (page - 1) * pageSize
	}
	err := r.dao.WithContext(ctx).Where("user_id = ?", uid).
		Order("created_at DESC").Order("id DESC").
		Offset(offset).Limit(pageSize).Find(&ms).Error
	if err != nil {
		return nil, err
	}
	ds := make([]*domain.TodoList, 0, len(ms))
	for _, m := range ms {
		ds = append(ds, r.toDomain(m))
	}
	return ds, nil
}

func (r *todoListRepository) CountByUser(ctx context.Context, uid int64) (int64, error) {
	var n int64
	err := r.dao.WithContext(ctx).Model(&model.TodoList{}).Where("user_id = ?", uid).Count(&n).Error
	return n, err
}

var _ domain.TodoListRepository = (*todoListRepository)(nil)

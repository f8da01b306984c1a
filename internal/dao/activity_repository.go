package dao

import (
	"context"
	"time"

	"github.com/haierkeys/uni-task-service/internal/domain"
	"github.com/haierkeys/uni-task-service/internal/model"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"
)

// activityRepository 实现 domain.ActivityRepository 接口
type activityRepository struct {
	dao *Dao
}

// NewActivityRepository 创建 ActivityRepository 实例
func NewActivityRepository(dao *Dao) domain.ActivityRepository {
	return &activityRepository{dao: dao}
}

func (r *activityRepository) toDomain(m *model.ActivityLog) *domain.ActivityEntry {
	var data map[string]any
	if m.Data != "" {
		if err := sonic.UnmarshalString(m.Data, &data); err != nil {
			r.dao.logger.Warn("activity payload decode failed", zap.Int64("id", m.ID), zap.Error(err))
		}
	}
	return &domain.ActivityEntry{
		ID:         m.ID,
		TodoListID: m.TodoListID,
		UserID:     m.UserID,
		Action:     domain.ActionKind(m.Action),
		Data:       data,
		IPAddress:  m.IPAddress,
		CreatedAt:  m.CreatedAt,
	}
}

func (r *activityRepository) Append(ctx context.Context, entry *domain.ActivityEntry) error {
	data := ""
	if len(entry.Data) > 0 {
		s, err := sonic.MarshalString(entry.Data)
		if err != nil {
			return err
		}
		data = s
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	m := &model.ActivityLog{
		TodoListID: entry.TodoListID,
		UserID:     entry.UserID,
		Action:     string(entry.Action),
		Data:       data,
		IPAddress:  entry.IPAddress,
		CreatedAt:  entry.CreatedAt,
	}
	if err := r.dao.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	entry.ID = m.ID
	return nil
}

// Recent orders by created_at then id, both descending
// Recent 按 created_at、id 倒序
func (r *activityRepository) Recent(ctx context.Context, listID int64, limit int) ([]*domain.ActivityEntry, error) {
	var ms []*model.ActivityLog
	err := r.dao.WithContext(ctx).Where("todo_list_id = ?", listID).
		Order("created_at DESC").Order("id DESC").Limit(limit).Find(&ms).Error
	if err != nil {
		return nil, err
	}
	ds := make([]*domain.ActivityEntry, 0, len(ms))
	for _, m := range ms {
		ds = append(ds, r.toDomain(m))
	}
	return ds, nil
}

var _ domain.ActivityRepository = (*activityRepository)(nil)

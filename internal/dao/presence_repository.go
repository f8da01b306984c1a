package dao

import (
	"context"
	"time"

	"github.com/haierkeys/uni-task-service/internal/domain"
	"github.com/haierkeys/uni-task-service/internal/model"

	"gorm.io/gorm/clause"
)

// presenceRepository 实现 domain.PresenceRepository 接口
type presenceRepository struct {
	dao *Dao
}

// NewPresenceRepository 创建 PresenceRepository 实例
func NewPresenceRepository(dao *Dao) domain.PresenceRepository {
	return &presenceRepository{dao: dao}
}

func (r *presenceRepository) toDomain(m *model.Presence) (*domain.PresenceRecord, error) {
	status, err := domain.ParsePresenceStatus(m.Status)
	if err != nil {
		return nil, err
	}
	return &domain.PresenceRecord{
		ID:              m.ID,
		UserID:          m.UserID,
		TodoListID:      m.TodoListID,
		SessionID:       m.SessionID,
		Status:          status,
		LastActivityAt:  m.LastActivityAt,
		CurrentActivity: m.CurrentActivity,
		CursorPosition:  m.CursorPosition,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}, nil
}

func (r *presenceRepository) toModel(d *domain.PresenceRecord) *model.Presence {
	return &model.Presence{
		ID:              d.ID,
		UserID:          d.UserID,
		TodoListID:      d.TodoListID,
		SessionID:       d.SessionID,
		Status:          d.Status.String(),
		LastActivityAt:  d.LastActivityAt,
		CurrentActivity: d.CurrentActivity,
		CursorPosition:  d.CursorPosition,
	}
}

func (r *presenceRepository) Upsert(ctx context.Context, rec *domain.PresenceRecord) error {
	m := r.toModel(rec)
	m.ID = 0
	return r.dao.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "todo_list_id"}, {Name: "session_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"status", "last_activity_at", "current_activity", "cursor_position", "updated_at",
		}),
	}).Create(m).Error
}

func (r *presenceRepository) Get(ctx context.Context, userID, listID int64, sessionID string) (*domain.PresenceRecord, error) {
	var m model.Presence
	err := r.dao.WithContext(ctx).
		Where("user_id = ? AND todo_list_id = ? AND session_id = ?", userID, listID, sessionID).
		First(&m).Error
	if err != nil {
		return nil, notFound(err, domain.ErrPresenceNotFound)
	}
	return r.toDomain(&m)
}

func (r *presenceRepository) Update(ctx context.Context, rec *domain.PresenceRecord) error {
	return r.dao.WithContext(ctx).Model(&model.Presence{}).Where("id = ?", rec.ID).
		Updates(map[string]any{
			"status":           rec.Status.String(),
			"last_activity_at": rec.LastActivityAt,
			"current_activity": rec.CurrentActivity,
			"cursor_position":  rec.CursorPosition,
		}).Error
}

func (r *presenceRepository) CountLive(ctx context.Context, userID, listID int64) (int64, error) {
	var n int64
	err := r.dao.WithContext(ctx).Model(&model.Presence{}).
		Where("user_id = ? AND todo_list_id = ? AND status <> ?", userID, listID, domain.StatusOffline.String()).
		Count(&n).Error
	return n, err
}

func (r *presenceRepository) CountOnline(ctx context.Context, userID, listID int64) (int64, error) {
	var n int64
	err := r.dao.WithContext(ctx).Model(&model.Presence{}).
		Where("user_id = ? AND todo_list_id = ? AND status = ?", userID, listID, domain.StatusOnline.String()).
		Count(&n).Error
	return n, err
}

func (r *presenceRepository) ListSince(ctx context.Context, listID int64, since time.Time) ([]*domain.PresenceRecord, error) {
	var ms []*model.Presence
	err := r.dao.WithContext(ctx).
		Where("todo_list_id = ? AND last_activity_at > ?", listID, since).
		Order("last_activity_at DESC").Find(&ms).Error
	if err != nil {
		return nil, err
	}
	ds := make([]*domain.PresenceRecord, 0, len(ms))
	for _, m := range ms {
		d, err := r.toDomain(m)
		if err != nil {
			return nil, err
		}
		ds = append(ds, d)
	}
	return ds, nil
}

func (r *presenceRepository) DeleteOfflineBefore(ctx context.Context, before time.Time) (int64, error) {
	res := r.dao.WithContext(ctx).
		Where("status = ? AND last_activity_at < ?", domain.StatusOffline.String(), before).
		Delete(&model.Presence{})
	return res.RowsAffected, res.Error
}

var _ domain.PresenceRepository = (*presenceRepository)(nil)

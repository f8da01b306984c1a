package dao

import (
	"context"
	"time"

	"github.com/haierkeys/uni-task-service/internal/domain"
	"github.com/haierkeys/uni-task-service/internal/model"

	"gorm.io/gorm/clause"
)

// participantRepository 实现 domain.ParticipantRepository 接口
type participantRepository struct {
	dao *Dao
}

// NewParticipantRepository 创建 ParticipantRepository 实例
func NewParticipantRepository(dao *Dao) domain.ParticipantRepository {
	return &participantRepository{dao: dao}
}

func (r *participantRepository) toDomain(m *model.Participant) (*domain.Participant, error) {
	status, err := domain.ParsePresenceStatus(m.Status)
	if err != nil {
		return nil, err
	}
	return &domain.Participant{
		ID:             m.ID,
		TodoListID:     m.TodoListID,
		UserID:         m.UserID,
		ShareGrantID:   m.ShareGrantID,
		PermissionType: domain.Permission(m.PermissionType),
		Status:         status,
		SessionID:      m.SessionID,
		UserAgent:      m.UserAgent,
		IPAddress:      m.IPAddress,
		IsActive:       m.IsActive,
		LastSeenAt:     m.LastSeenAt,
		JoinedAt:       m.JoinedAt,
		LeftAt:         m.LeftAt,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}, nil
}

func (r *participantRepository) toModel(d *domain.Participant) *model.Participant {
	return &model.Participant{
		ID:             d.ID,
		TodoListID:     d.TodoListID,
		UserID:         d.UserID,
		ShareGrantID:   d.ShareGrantID,
		PermissionType: string(d.PermissionType),
		Status:         d.Status.String(),
		SessionID:      d.SessionID,
		UserAgent:      d.UserAgent,
		IPAddress:      d.IPAddress,
		IsActive:       d.IsActive,
		LastSeenAt:     d.LastSeenAt,
		JoinedAt:       d.JoinedAt,
		LeftAt:         d.LeftAt,
	}
}

// Upsert is a single INSERT .. ON CONFLICT so concurrent joins never duplicate (list, user)
// Upsert 单条 INSERT .. ON CONFLICT 语句，并发加入不会产生重复行
func (r *participantRepository) Upsert(ctx context.Context, p *domain.Participant) (*domain.Participant, error) {
	m := r.toModel(p)
	m.ID = 0
	err := r.dao.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "todo_list_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"share_grant_id", "permission_type", "status", "session_id", "user_agent",
			"ip_address", "is_active", "last_seen_at", "joined_at", "left_at", "updated_at",
		}),
	}).Create(m).Error
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, p.TodoListID, p.UserID)
}

func (r *participantRepository) Get(ctx context.Context, listID, userID int64) (*domain.Participant, error) {
	var m model.Participant
	err := r.dao.WithContext(ctx).Where("todo_list_id = ? AND user_id = ?", listID, userID).First(&m).Error
	if err != nil {
		return nil, notFound(err, domain.ErrParticipantNotFound)
	}
	return r.toDomain(&m)
}

func (r *participantRepository) ListByList(ctx context.Context, listID int64) ([]*domain.Participant, error) {
	var ms []*model.Participant
	err := r.dao.WithContext(ctx).Where("todo_list_id = ?", listID).Order("last_seen_at DESC").Find(&ms).Error
	if err != nil {
		return nil, err
	}
	ds := make([]*domain.Participant, 0, len(ms))
	for _, m := range ms {
		d, err := r.toDomain(m)
		if err != nil {
			return nil, err
		}
		ds = append(ds, d)
	}
	return ds, nil
}

func (r *participantRepository) CountActive(ctx context.Context, listID int64) (int64, error) {
	var n int64
	err := r.dao.WithContext(ctx).Model(&model.Participant{}).
		Where("todo_list_id = ? AND is_active = ?", listID, true).Count(&n).Error
	return n, err
}

func (r *participantRepository) IsActive(ctx context.Context, listID, userID int64) (bool, error) {
	var n int64
	err := r.dao.WithContext(ctx).Model(&model.Participant{}).
		Where("todo_list_id = ? AND user_id = ? AND is_active = ?", listID, userID, true).Count(&n).Error
	return n > 0, err
}

func (r *participantRepository) UpdateStatus(ctx context.Context, listID, userID int64, status domain.PresenceStatus, seenAt time.Time) error {
	return r.dao.WithContext(ctx).Model(&model.Participant{}).
		Where("todo_list_id = ? AND user_id = ?", listID, userID).
		Updates(map[string]any{"status": status.String(), "last_seen_at": seenAt}).Error
}

func (r *participantRepository) MarkLeft(ctx context.Context, listID, userID int64, at time.Time) error {
	return r.dao.WithContext(ctx).Model(&model.Participant{}).
		Where("todo_list_id = ? AND user_id = ?", listID, userID).
		Updates(map[string]any{
			"status":       domain.StatusOffline.String(),
			"is_active":    false,
			"left_at":      at,
			"last_seen_at": at,
		}).Error
}

func (r *participantRepository) DeactivateStale(ctx context.Context, before time.Time) (int64, error) {
	res := r.dao.WithContext(ctx).Model(&model.Participant{}).
		Where("is_active = ? AND last_seen_at < ?", true, before).
		Updates(map[string]any{"status": domain.StatusOffline.String(), "is_active": false})
	return res.RowsAffected, res.Error
}

var _ domain.ParticipantRepository = (*participantRepository)(nil)

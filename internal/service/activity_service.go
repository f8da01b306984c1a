package service

import (
	"context"

	"github.com/haierkeys/uni-task-service/internal/domain"
	"github.com/haierkeys/uni-task-service/internal/dto"
	"github.com/haierkeys/uni-task-service/pkg/logger"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ActivityService defines the activity log interface
// ActivityService 定义活动日志接口
type ActivityService interface {
	// Append records kind on listID, unknown kinds are stored verbatim
	// Append 追加活动记录，未知类型原样保存
	Append(ctx context.Context, listID int64, actor *int64, kind domain.ActionKind, payload map[string]any, ip string) error

	// Recent returns the newest limit entries with descriptions
	// Recent 返回最近的活动及其描述
	Recent(ctx context.Context, listID int64, limit int) ([]*dto.ActivityDTO, error)
}

type activityService struct {
	repo   domain.ActivityRepository
	users  domain.UserRepository
	logger *zap.Logger
	config *ServiceConfig
}

// NewActivityService creates ActivityService instance
// NewActivityService 创建 ActivityService 实例
func NewActivityService(repo domain.ActivityRepository, users domain.UserRepository, logger *zap.Logger, config *ServiceConfig) ActivityService {
	return &activityService{repo: repo, users: users, logger: logger, config: config}
}

func (s *activityService) Append(ctx context.Context, listID int64, actor *int64, kind domain.ActionKind, payload map[string]any, ip string) error {
	entry := &domain.ActivityEntry{
		TodoListID: listID,
		UserID:     actor,
		Action:     kind,
		Data:       payload,
		IPAddress:  ip,
		CreatedAt:  s.config.now(),
	}
	if err := s.repo.Append(ctx, entry); err != nil {
		return errors.Wrap(err, "append activity")
	}
	return nil
}

func (s *activityService) Recent(ctx context.Context, listID int64, limit int) ([]*dto.ActivityDTO, error) {
	entries, err := s.repo.Recent(ctx, listID, limit)
	if err != nil {
		return nil, errors.Wrap(err, "recent activities")
	}

	var ids []int64
	for _, e := range entries {
		if e.UserID != nil {
			ids = append(ids, *e.UserID)
		}
	}
	users, err := s.users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "activity users")
	}

	now := s.config.now()
	out := make([]*dto.ActivityDTO, 0, len(entries))
	for _, e := range entries {
		item := &dto.ActivityDTO{
			ID:          e.ID,
			UserID:      e.UserID,
			UserName:    "Guest",
			Action:      string(e.Action),
			Description: e.Action.Describe(e.Data),
			Data:        e.Data,
			TimeAgo:     humanize.RelTime(e.CreatedAt, now, "ago", "from now"),
			CreatedAt:   e.CreatedAt,
		}
		if e.UserID != nil {
			if u, ok := users[*e.UserID]; ok {
				item.UserName = u.Name
			}
		}
		out = append(out, item)
	}
	return out, nil
}

// record appends an activity and only logs a failure, the mutation it describes already happened
// record 追加活动记录，失败只记录日志
func record(ctx context.Context, activities ActivityService, log *zap.Logger, listID int64, actor *int64, kind domain.ActionKind, payload map[string]any, ip string) {
	if err := activities.Append(ctx, listID, actor, kind, payload, ip); err != nil {
		log.Warn("activity append failed",
			zap.Int64(logger.FieldListID, listID),
			zap.String(logger.FieldAction, string(kind)),
			zap.Error(err))
	}
}

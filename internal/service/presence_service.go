package service

import (
	"context"
	"fmt"
	"time"

	"github.com/haierkeys/uni-task-service/internal/domain"
	"github.com/haierkeys/uni-task-service/internal/dto"
	"github.com/haierkeys/uni-task-service/pkg/logger"
	"github.com/haierkeys/uni-task-service/pkg/writequeue"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// JoinInput 加入协作参数
type JoinInput struct {
	SessionID string // Client supplied session, empty generates one // 客户端会话 ID，空则生成
	Activity  string
	Cursor    string
	UserAgent string
	IP        string
}

// HeartbeatInput 心跳参数，空字段保持原值
type HeartbeatInput struct {
	Activity string
	Cursor   string
}

// PresenceService defines the polling presence tracker interface
// PresenceService 定义基于轮询的在线状态接口
type PresenceService interface {
	// Join upserts the participant and the session presence, both online
	// Join 写入参与者与会话在线记录，状态均为 online
	Join(ctx context.Context, access *Access, uid int64, in JoinInput) (*dto.PresenceJoinResponse, error)

	// Heartbeat refreshes a session, it never creates one
	// Heartbeat 刷新会话，不会创建新会话
	Heartbeat(ctx context.Context, access *Access, uid int64, sessionID string, in HeartbeatInput) (bool, error)

	// Away marks a session away
	// Away 将会话标记为离开
	Away(ctx context.Context, access *Access, uid int64, sessionID string) (bool, error)

	// Leave marks a session offline, the participant goes inactive with its last live session
	// Leave 将会话标记为离线，最后一个会话离线时参与者变为非活跃
	Leave(ctx context.Context, access *Access, uid int64, sessionID string, ip string) (bool, error)

	// Participants lists every participant with display fields and status counts
	// Participants 返回参与者及展示字段和状态统计
	Participants(ctx context.Context, access *Access) (*dto.ParticipantsResponse, error)

	// Feed returns recently active sessions with the latest activities
	// Feed 返回近期活跃会话与最新活动
	Feed(ctx context.Context, access *Access) (*dto.PresenceFeedResponse, error)
}

type presenceService struct {
	participants domain.ParticipantRepository
	presences    domain.PresenceRepository
	users        domain.UserRepository
	activities   ActivityService
	queue        *writequeue.Manager
	logger       *zap.Logger
	config       *ServiceConfig
}

// NewPresenceService creates PresenceService instance
// NewPresenceService 创建 PresenceService 实例
func NewPresenceService(participants domain.ParticipantRepository, presences domain.PresenceRepository, users domain.UserRepository, activities ActivityService, queue *writequeue.Manager, logger *zap.Logger, config *ServiceConfig) PresenceService {
	return &presenceService{
		participants: participants,
		presences:    presences,
		users:        users,
		activities:   activities,
		queue:        queue,
		logger:       logger,
		config:       config,
	}
}

func (s *presenceService) Join(ctx context.Context, access *Access, uid int64, in JoinInput) (*dto.PresenceJoinResponse, error) {
	listID := access.ListID()
	sessionID := in.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	if len(sessionID) > domain.MaxSessionIDLength {
		return nil, domain.NewValidationError("X-Session-ID", fmt.Sprintf("must be at most %d characters", domain.MaxSessionIDLength))
	}

	var participant *domain.Participant
	// Joins on one list run one at a time so the capacity re-check and the upsert cannot interleave
	// 同一列表的加入操作串行执行，容量复核与写入不会交错
	err := s.queue.Execute(ctx, listID, func() error {
		active, err := s.participants.IsActive(ctx, listID, uid)
		if err != nil {
			return err
		}
		if !active {
			count, err := s.participants.CountActive(ctx, listID)
			if err != nil {
				return err
			}
			if count >= int64(s.config.Collaborative.maxConcurrent(access.Grant.MaxConcurrentUsers)) {
				return domain.ErrCapacityExceeded
			}
		}

		now := s.config.now()
		participant, err = s.participants.Upsert(ctx, &domain.Participant{
			TodoListID:     listID,
			UserID:         uid,
			ShareGrantID:   access.Grant.ID,
			PermissionType: access.Permission,
			Status:         domain.StatusOnline,
			SessionID:      sessionID,
			UserAgent:      in.UserAgent,
			IPAddress:      in.IP,
			IsActive:       true,
			LastSeenAt:     now,
			JoinedAt:       now,
		})
		if err != nil {
			return err
		}
		return s.presences.Upsert(ctx, &domain.PresenceRecord{
			UserID:          uid,
			TodoListID:      listID,
			SessionID:       sessionID,
			Status:          domain.StatusOnline,
			LastActivityAt:  now,
			CurrentActivity: in.Activity,
			CursorPosition:  in.Cursor,
		})
	})
	if err != nil {
		if errors.Is(err, domain.ErrCapacityExceeded) {
			return nil, err
		}
		return nil, errors.Wrap(err, "presence join")
	}

	s.logger.Info("participant joined",
		zap.Int64(logger.FieldListID, listID),
		zap.Int64(logger.FieldUID, uid),
		zap.String(logger.FieldSessionID, sessionID))
	record(ctx, s.activities, s.logger, listID, &uid, domain.ActionUserJoined, map[string]any{
		"session_id":      sessionID,
		"permission_type": string(access.Permission),
	}, in.IP)

	view, err := s.participantView(ctx, participant, nil, s.config.now())
	if err != nil {
		return nil, err
	}
	return &dto.PresenceJoinResponse{SessionID: sessionID, Participant: view}, nil
}

// liveSession returns the session unless it is missing, already offline,
// or its participant was deactivated by the stale sweep. A deactivated participant
// must join again so the capacity check sees it.
// liveSession 返回仍在线的会话；会话不存在、已离线或参与者已被清理任务停用时返回 nil，需重新加入
func (s *presenceService) liveSession(ctx context.Context, listID, uid int64, sessionID string) (*domain.PresenceRecord, error) {
	if sessionID == "" {
		return nil, domain.ErrSessionRequired
	}
	p, err := s.participants.Get(ctx, listID, uid)
	if err != nil {
		if errors.Is(err, domain.ErrParticipantNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "participant lookup")
	}
	if !p.IsActive {
		return nil, nil
	}
	rec, err := s.presences.Get(ctx, uid, listID, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrPresenceNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "presence lookup")
	}
	if rec.Status == domain.StatusOffline {
		return nil, nil
	}
	return rec, nil
}

func (s *presenceService) Heartbeat(ctx context.Context, access *Access, uid int64, sessionID string, in HeartbeatInput) (bool, error) {
	listID := access.ListID()
	rec, err := s.liveSession(ctx, listID, uid, sessionID)
	if err != nil || rec == nil {
		return false, err
	}

	now := s.config.now()
	rec.Status = domain.StatusOnline
	rec.LastActivityAt = now
	if in.Activity != "" {
		rec.CurrentActivity = in.Activity
	}
	if in.Cursor != "" {
		rec.CursorPosition = in.Cursor
	}
	if err := s.presences.Update(ctx, rec); err != nil {
		return false, errors.Wrap(err, "presence heartbeat")
	}
	if err := s.participants.UpdateStatus(ctx, listID, uid, domain.StatusOnline, now); err != nil {
		return false, errors.Wrap(err, "participant heartbeat")
	}
	return true, nil
}

func (s *presenceService) Away(ctx context.Context, access *Access, uid int64, sessionID string) (bool, error) {
	listID := access.ListID()
	rec, err := s.liveSession(ctx, listID, uid, sessionID)
	if err != nil || rec == nil {
		return false, err
	}

	now := s.config.now()
	rec.Status = domain.StatusAway
	rec.LastActivityAt = now
	if err := s.presences.Update(ctx, rec); err != nil {
		return false, errors.Wrap(err, "presence away")
	}

	// 其它会话仍在线时参与者保持在线
	online, err := s.presences.CountOnline(ctx, uid, listID)
	if err != nil {
		return false, errors.Wrap(err, "presence count")
	}
	status := domain.StatusAway
	if online > 0 {
		status = domain.StatusOnline
	}
	if err := s.participants.UpdateStatus(ctx, listID, uid, status, now); err != nil {
		return false, errors.Wrap(err, "participant away")
	}
	return true, nil
}

func (s *presenceService) Leave(ctx context.Context, access *Access, uid int64, sessionID string, ip string) (bool, error) {
	listID := access.ListID()
	rec, err := s.liveSession(ctx, listID, uid, sessionID)
	if err != nil || rec == nil {
		return false, err
	}

	now := s.config.now()
	rec.Status = domain.StatusOffline
	rec.LastActivityAt = now
	if err := s.presences.Update(ctx, rec); err != nil {
		return false, errors.Wrap(err, "presence leave")
	}

	live, err := s.presences.CountLive(ctx, uid, listID)
	if err != nil {
		return false, errors.Wrap(err, "presence count")
	}
	if live == 0 {
		if err := s.participants.MarkLeft(ctx, listID, uid, now); err != nil {
			return false, errors.Wrap(err, "participant leave")
		}
	}

	s.logger.Info("participant left",
		zap.Int64(logger.FieldListID, listID),
		zap.Int64(logger.FieldUID, uid),
		zap.String(logger.FieldSessionID, sessionID))
	record(ctx, s.activities, s.logger, listID, &uid, domain.ActionUserLeft, map[string]any{
		"session_id": sessionID,
	}, ip)
	return true, nil
}

func (s *presenceService) Participants(ctx context.Context, access *Access) (*dto.ParticipantsResponse, error) {
	listID := access.ListID()
	now := s.config.now()

	var (
		rows      []*domain.Participant
		presences []*domain.PresenceRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, err = s.participants.ListByList(gctx, listID)
		return err
	})
	g.Go(func() error {
		var err error
		presences, err = s.presences.ListSince(gctx, listID, now.Add(-s.config.Collaborative.PresenceWindow))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "participants read")
	}

	// newest session activity per user, presences are ordered newest first
	latest := make(map[int64]*domain.PresenceRecord, len(presences))
	for _, p := range presences {
		if _, ok := latest[p.UserID]; !ok {
			latest[p.UserID] = p
		}
	}

	ids := make([]int64, 0, len(rows))
	for _, p := range rows {
		ids = append(ids, p.UserID)
	}
	users, err := s.users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "participant users")
	}

	resp := &dto.ParticipantsResponse{
		Participants: make([]*dto.ParticipantDTO, 0, len(rows)),
		Stats:        participantStats(rows),
		LastUpdated:  now,
	}
	for _, p := range rows {
		resp.Participants = append(resp.Participants, s.display(p, users[p.UserID], latest[p.UserID], now))
	}
	return resp, nil
}

func (s *presenceService) Feed(ctx context.Context, access *Access) (*dto.PresenceFeedResponse, error) {
	listID := access.ListID()
	now := s.config.now()

	var (
		presences  []*domain.PresenceRecord
		activities []*dto.ActivityDTO
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		presences, err = s.presences.ListSince(gctx, listID, now.Add(-s.config.Collaborative.PresenceWindow))
		return err
	})
	g.Go(func() error {
		var err error
		activities, err = s.activities.Recent(gctx, listID, s.config.Collaborative.RecentActivityLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "presence feed")
	}

	ids := make([]int64, 0, len(presences))
	for _, p := range presences {
		ids = append(ids, p.UserID)
	}
	users, err := s.users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "presence users")
	}

	resp := &dto.PresenceFeedResponse{
		Presences:        make([]*dto.PresenceDTO, 0, len(presences)),
		RecentActivities: activities,
		Timestamp:        now,
	}
	for _, p := range presences {
		item := &dto.PresenceDTO{
			UserID:          p.UserID,
			SessionID:       p.SessionID,
			Status:          p.Status.String(),
			StatusColor:     p.Status.Color(),
			StatusIcon:      p.Status.Icon(),
			CurrentActivity: domain.DescribeActivity(p.CurrentActivity),
			CursorPosition:  p.CursorPosition,
			LastActivityAt:  p.LastActivityAt,
		}
		if u, ok := users[p.UserID]; ok {
			item.Name = u.Name
		}
		resp.Presences = append(resp.Presences, item)
	}
	return resp, nil
}

func (s *presenceService) participantView(ctx context.Context, p *domain.Participant, presence *domain.PresenceRecord, now time.Time) (*dto.ParticipantDTO, error) {
	users, err := s.users.GetByIDs(ctx, []int64{p.UserID})
	if err != nil {
		return nil, errors.Wrap(err, "participant user")
	}
	return s.display(p, users[p.UserID], presence, now), nil
}

// display builds the participant row, the status drives color, icon and label
// display 构建参与者展示行
func (s *presenceService) display(p *domain.Participant, u *domain.User, presence *domain.PresenceRecord, now time.Time) *dto.ParticipantDTO {
	item := &dto.ParticipantDTO{
		UserID:          p.UserID,
		PermissionType:  string(p.PermissionType),
		Status:          p.Status.String(),
		StatusLabel:     p.Status.Label(),
		StatusColor:     p.Status.Color(),
		StatusIcon:      p.Status.Icon(),
		LastSeen:        humanize.RelTime(p.LastSeenAt, now, "ago", "from now"),
		LastSeenAt:      p.LastSeenAt,
		JoinedAt:        p.JoinedAt,
		LeftAt:          p.LeftAt,
		CurrentActivity: domain.DescribeActivity(""),
		CanEdit:         p.PermissionType == domain.PermissionEdit,
		IsActive:        p.IsActive,
		IsLive:          p.Status != domain.StatusOffline && p.LastSeenAt.After(now.Add(-s.config.Collaborative.ActiveWindow)),
	}
	if u != nil {
		item.Name = u.Name
		item.Email = u.Email
	}
	if presence != nil {
		item.CurrentActivity = domain.DescribeActivity(presence.CurrentActivity)
	}
	return item
}

// participantStats counts participants per status
// participantStats 按状态统计参与者
func participantStats(rows []*domain.Participant) dto.ParticipantStats {
	stats := dto.ParticipantStats{Total: len(rows)}
	for _, p := range rows {
		switch p.Status {
		case domain.StatusOnline:
			stats.Online++
		case domain.StatusAway:
			stats.Away++
		case domain.StatusOffline:
			stats.Offline++
		}
	}
	return stats
}

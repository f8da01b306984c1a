package service

import (
	"context"
	"strings"
	"time"

	"github.com/haierkeys/uni-task-service/internal/domain"
	"github.com/haierkeys/uni-task-service/internal/dto"
	"github.com/haierkeys/uni-task-service/pkg/logger"
	"github.com/haierkeys/uni-task-service/pkg/util"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// shareTokenLength length of generated share tokens
const shareTokenLength = 32

// ShareService defines the share link management interface
// ShareService 定义分享链接管理接口
type ShareService interface {
	// Create issues a share link for a list owned by ownerID
	// Create 为所有者的列表创建分享链接
	Create(ctx context.Context, ownerID, listID int64, params *dto.ShareCreateRequest, baseURL, ip string) (*dto.ShareCreateResponse, error)

	// Revoke deactivates the grant behind token
	// Revoke 停用分享链接
	Revoke(ctx context.Context, ownerID int64, token, ip string) error

	// ListByList lists every grant of a list
	// ListByList 列出列表的所有分享
	ListByList(ctx context.Context, ownerID, listID int64, baseURL string) ([]*dto.ShareDTO, error)

	// Dashboard returns the shared page data
	// Dashboard 返回分享页面数据
	Dashboard(ctx context.Context, access *Access) (*dto.SharedDashboardResponse, error)

	// Updates returns what changed since the given time, nil since returns everything
	// Updates 返回指定时间之后的变更
	Updates(ctx context.Context, access *Access, since *time.Time) (*dto.SharedUpdatesResponse, error)
}

type shareService struct {
	grants       domain.ShareGrantRepository
	lists        domain.TodoListRepository
	items        domain.TodoItemRepository
	files        domain.FileRepository
	users        domain.UserRepository
	participants domain.ParticipantRepository
	activities   ActivityService
	logger       *zap.Logger
	config       *ServiceConfig
}

// NewShareService creates ShareService instance
// NewShareService 创建 ShareService 实例
func NewShareService(grants domain.ShareGrantRepository, lists domain.TodoListRepository, items domain.TodoItemRepository, files domain.FileRepository, users domain.UserRepository, participants domain.ParticipantRepository, activities ActivityService, logger *zap.Logger, config *ServiceConfig) ShareService {
	return &shareService{
		grants:       grants,
		lists:        lists,
		items:        items,
		files:        files,
		users:        users,
		participants: participants,
		activities:   activities,
		logger:       logger,
		config:       config,
	}
}

// ShareURL 拼接分享链接
func ShareURL(baseURL, token string) string {
	return strings.TrimRight(baseURL, "/") + "/shared/" + token
}

// ParseCountries splits a comma separated country list, codes are upper cased
// ParseCountries 解析逗号分隔的国家代码并转为大写
func ParseCountries(raw string) []string {
	var out []string
	for _, c := range strings.Split(raw, ",") {
		if c = strings.ToUpper(strings.TrimSpace(c)); c != "" {
			out = append(out, c)
		}
	}
	return out
}

func (s *shareService) ownedList(ctx context.Context, ownerID, listID int64) (*domain.TodoList, error) {
	list, err := s.lists.GetByID(ctx, listID)
	if err != nil {
		if errors.Is(err, domain.ErrListNotFound) {
			return nil, err
		}
		return nil, errors.Wrap(err, "load list")
	}
	if !list.IsOwner(&ownerID) {
		return nil, domain.ErrForbidden
	}
	return list, nil
}

func (s *shareService) Create(ctx context.Context, ownerID, listID int64, params *dto.ShareCreateRequest, baseURL, ip string) (*dto.ShareCreateResponse, error) {
	list, err := s.ownedList(ctx, ownerID, listID)
	if err != nil {
		return nil, err
	}

	perm := domain.Permission(params.PermissionType)
	if !perm.Valid() {
		return nil, domain.NewValidationError("permission_type", "must be can_edit or can_view")
	}
	now := s.config.now()
	if params.ExpiresAt != nil && !params.ExpiresAt.After(now) {
		return nil, domain.NewValidationError("expires_at", "must be in the future")
	}

	var target *domain.User
	if email := strings.TrimSpace(params.SharedWithEmail); email != "" {
		target, err = s.users.GetByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				return nil, domain.NewValidationError("shared_with_email", "no user with this email")
			}
			return nil, errors.Wrap(err, "share target lookup")
		}
		if target.ID == ownerID {
			return nil, domain.NewValidationError("shared_with_email", "cannot share with yourself")
		}
	}

	grant := &domain.ShareGrant{
		TodoListID:         list.ID,
		SharedByUserID:     ownerID,
		PermissionType:     perm,
		Token:              util.GetRandomString(shareTokenLength),
		IsActive:           true,
		ExpiresAt:          params.ExpiresAt,
		MaxConcurrentUsers: params.MaxConcurrentUsers,
		MaxDailyAccess:     params.MaxDailyAccess,
		MaxSessionDuration: time.Duration(params.MaxSessionDuration) * time.Second,
		AllowedCountries:   ParseCountries(params.AllowedCountries),
	}
	if target != nil {
		grant.SharedWithUserID = &target.ID
	}
	if err := s.grants.Create(ctx, grant); err != nil {
		return nil, errors.Wrap(err, "create share grant")
	}

	s.logger.Info("share link created",
		zap.Int64(logger.FieldListID, list.ID),
		zap.Int64(logger.FieldUID, ownerID),
		zap.String(logger.FieldToken, grant.Token))

	payload := map[string]any{"permission_type": string(perm)}
	if target != nil {
		payload["shared_with"] = target.Email
	}
	record(ctx, s.activities, s.logger, list.ID, &ownerID, domain.ActionListShared, payload, ip)
	if target != nil {
		record(ctx, s.activities, s.logger, list.ID, &ownerID, domain.ActionPermissionGranted, map[string]any{
			"user_id":         target.ID,
			"user_name":       target.Name,
			"permission_type": string(perm),
		}, ip)
	}

	return &dto.ShareCreateResponse{
		ShareURL:       ShareURL(baseURL, grant.Token),
		Token:          grant.Token,
		PermissionType: string(perm),
		ExpiresAt:      grant.ExpiresAt,
	}, nil
}

func (s *shareService) Revoke(ctx context.Context, ownerID int64, token, ip string) error {
	grant, err := s.grants.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrShareNotFound) {
			return err
		}
		return errors.Wrap(err, "load share grant")
	}
	if _, err := s.ownedList(ctx, ownerID, grant.TodoListID); err != nil {
		if errors.Is(err, domain.ErrListNotFound) {
			return domain.ErrShareNotFound
		}
		return err
	}
	if err := s.grants.Deactivate(ctx, grant.ID); err != nil {
		return errors.Wrap(err, "revoke share grant")
	}
	record(ctx, s.activities, s.logger, grant.TodoListID, &ownerID, domain.ActionShareRevoked, map[string]any{
		"permission_type": string(grant.PermissionType),
	}, ip)
	return nil
}

func (s *shareService) ListByList(ctx context.Context, ownerID, listID int64, baseURL string) ([]*dto.ShareDTO, error) {
	if _, err := s.ownedList(ctx, ownerID, listID); err != nil {
		return nil, err
	}
	grants, err := s.grants.ListByList(ctx, listID)
	if err != nil {
		return nil, errors.Wrap(err, "list share grants")
	}
	now := s.config.now()
	out := make([]*dto.ShareDTO, 0, len(grants))
	for _, g := range grants {
		out = append(out, shareDTO(g, baseURL, now))
	}
	return out, nil
}

func shareDTO(g *domain.ShareGrant, baseURL string, now time.Time) *dto.ShareDTO {
	d := &dto.ShareDTO{
		ID:                 g.ID,
		TodoListID:         g.TodoListID,
		Token:              g.Token,
		PermissionType:     string(g.PermissionType),
		SharedWithUserID:   g.SharedWithUserID,
		IsActive:           g.IsActive,
		IsExpired:          g.ExpiresAt != nil && !g.ExpiresAt.After(now),
		ExpiresAt:          g.ExpiresAt,
		MaxConcurrentUsers: g.MaxConcurrentUsers,
		MaxDailyAccess:     g.MaxDailyAccess,
		MaxSessionDuration: int64(g.MaxSessionDuration / time.Second),
		AllowedCountries:   g.AllowedCountries,
		CreatedAt:          g.CreatedAt,
	}
	if baseURL != "" {
		d.ShareURL = ShareURL(baseURL, g.Token)
	}
	return d
}

func (s *shareService) Dashboard(ctx context.Context, access *Access) (*dto.SharedDashboardResponse, error) {
	listID := access.ListID()
	var (
		items        []*domain.TodoItem
		files        []*domain.File
		participants []*domain.Participant
		activities   []*dto.ActivityDTO
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		items, err = s.items.ListByList(gctx, listID)
		return
	})
	g.Go(func() (err error) {
		files, err = s.files.ListByList(gctx, listID)
		return
	})
	g.Go(func() (err error) {
		participants, err = s.participants.ListByList(gctx, listID)
		return
	})
	g.Go(func() (err error) {
		activities, err = s.activities.Recent(gctx, listID, s.config.Collaborative.DashboardActivityLimit)
		return
	})
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "shared dashboard")
	}

	itemDTOs, err := todoItemDTOs(items)
	if err != nil {
		return nil, errors.Wrap(err, "item dto")
	}
	fileList, err := fileDTOs(files)
	if err != nil {
		return nil, errors.Wrap(err, "file dto")
	}

	share := shareDTO(access.Grant, "", s.config.now())
	// 非所有者不返回国家白名单
	if !access.IsOwner {
		share.AllowedCountries = nil
	}

	return &dto.SharedDashboardResponse{
		TodoList:         todoListDTO(access.List),
		Items:            itemDTOs,
		Files:            fileList,
		Share:            share,
		PermissionType:   string(access.Permission),
		CanEdit:          access.CanEdit(),
		IsOwner:          access.IsOwner,
		RecentActivities: activities,
		Stats:            participantStats(participants),
	}, nil
}

func (s *shareService) Updates(ctx context.Context, access *Access, since *time.Time) (*dto.SharedUpdatesResponse, error) {
	listID := access.ListID()
	var (
		items      []*domain.TodoItem
		files      []*domain.File
		activities []*dto.ActivityDTO
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		if since == nil {
			items, err = s.items.ListByList(gctx, listID)
		} else {
			items, err = s.items.ListUpdatedSince(gctx, listID, *since)
		}
		return
	})
	g.Go(func() (err error) {
		if since == nil {
			files, err = s.files.ListByList(gctx, listID)
		} else {
			files, err = s.files.ListCreatedSince(gctx, listID, *since)
		}
		return
	})
	g.Go(func() (err error) {
		activities, err = s.activities.Recent(gctx, listID, s.config.Collaborative.DashboardActivityLimit)
		return
	})
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "shared updates")
	}

	itemDTOs, err := todoItemDTOs(items)
	if err != nil {
		return nil, errors.Wrap(err, "item dto")
	}
	fileList, err := fileDTOs(files)
	if err != nil {
		return nil, errors.Wrap(err, "file dto")
	}

	return &dto.SharedUpdatesResponse{
		Activities: activities,
		Items:      itemDTOs,
		Files:      fileList,
		Timestamp:  s.config.now(),
	}, nil
}

package service

import (
	"context"
	"time"

	"github.com/haierkeys/uni-task-service/internal/domain"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Access is the resolved grant attached to a shared request
// Access 解析后的分享访问信息，附加在请求上下文中
type Access struct {
	Grant      *domain.ShareGrant
	List       *domain.TodoList
	Permission domain.Permission // Effective permission // 实际权限
	Requester  *int64
	IsOwner    bool
}

// CanEdit edit needs an edit permission and an identified requester
// CanEdit 需要编辑权限且已登录
func (a *Access) CanEdit() bool {
	return a != nil && a.Requester != nil && a.Permission == domain.PermissionEdit
}

// ListID 返回列表 ID
func (a *Access) ListID() int64 {
	return a.Grant.TodoListID
}

// Decide resolves the effective permission of requester on grant for action
// It reads nothing but its arguments
// Decide 计算请求者对授权的实际权限，只依赖入参
func Decide(grant *domain.ShareGrant, listOwnerID int64, requester *int64, action domain.Action, now time.Time) (domain.Permission, error) {
	if !grant.Usable(now) {
		return "", domain.ErrShareNotFound
	}
	if requester != nil && *requester <= 0 {
		requester = nil
	}

	if requester != nil && *requester == listOwnerID {
		return domain.PermissionEdit, nil
	}

	perm := grant.PermissionType
	if !perm.Valid() {
		return "", domain.ErrForbidden
	}

	if !grant.IsPublic() {
		if requester == nil {
			return "", domain.ErrAuthRequired
		}
		if *requester != *grant.SharedWithUserID {
			return "", domain.ErrForbidden
		}
		if !perm.Allows(action) {
			return "", domain.ErrForbidden
		}
		return perm, nil
	}

	if action == domain.ActionEdit {
		if requester == nil {
			return "", domain.ErrAuthRequired
		}
		if !perm.Allows(action) {
			return "", domain.ErrForbidden
		}
	}
	return perm, nil
}

// AccessResolver defines the share access resolution interface
// AccessResolver 定义分享访问解析接口
type AccessResolver interface {
	// Resolve loads the grant behind token and decides requester's access for action
	// Resolve 加载 Token 对应的授权并判定访问权限
	Resolve(ctx context.Context, token string, requester *int64, action domain.Action) (*Access, error)

	// Grant returns the usable grant behind token, ErrShareNotFound otherwise
	// Grant 返回 Token 对应的可用授权，否则返回 ErrShareNotFound
	Grant(ctx context.Context, token string) (*domain.ShareGrant, error)
}

type accessResolver struct {
	grants domain.ShareGrantRepository
	lists  domain.TodoListRepository
	logger *zap.Logger
	config *ServiceConfig
}

// NewAccessResolver creates AccessResolver instance
// NewAccessResolver 创建 AccessResolver 实例
func NewAccessResolver(grants domain.ShareGrantRepository, lists domain.TodoListRepository, logger *zap.Logger, config *ServiceConfig) AccessResolver {
	return &accessResolver{grants: grants, lists: lists, logger: logger, config: config}
}

func (r *accessResolver) Grant(ctx context.Context, token string) (*domain.ShareGrant, error) {
	if token == "" {
		return nil, domain.ErrShareNotFound
	}
	grant, err := r.grants.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrShareNotFound) {
			return nil, err
		}
		return nil, errors.Wrap(err, "resolve share grant")
	}
	if !grant.Usable(r.config.now()) {
		return nil, domain.ErrShareNotFound
	}
	return grant, nil
}

func (r *accessResolver) Resolve(ctx context.Context, token string, requester *int64, action domain.Action) (*Access, error) {
	// 不可用的授权在加载列表前直接拒绝
	grant, err := r.Grant(ctx, token)
	if err != nil {
		return nil, err
	}
	now := r.config.now()

	list, err := r.lists.GetByID(ctx, grant.TodoListID)
	if err != nil {
		if errors.Is(err, domain.ErrListNotFound) {
			return nil, domain.ErrShareNotFound
		}
		return nil, errors.Wrap(err, "resolve share list")
	}

	perm, err := Decide(grant, list.UserID, requester, action, now)
	if err != nil {
		return nil, err
	}

	if requester != nil && *requester <= 0 {
		requester = nil
	}
	return &Access{
		Grant:      grant,
		List:       list,
		Permission: perm,
		Requester:  requester,
		IsOwner:    list.IsOwner(requester),
	}, nil
}

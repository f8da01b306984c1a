package domain

import (
	"context"
	"time"
)

// Permission 分享权限级别
type Permission string

const (
	PermissionView Permission = "can_view"
	PermissionEdit Permission = "can_edit"
)

func (p Permission) Valid() bool {
	return p == PermissionView || p == PermissionEdit
}

// Allows reports whether p is enough for action
// Allows 判断权限是否满足动作要求
func (p Permission) Allows(action Action) bool {
	switch action {
	case ActionView:
		return p == PermissionView || p == PermissionEdit
	case ActionEdit:
		return p == PermissionEdit
	}
	return false
}

// Action 请求动作类型
type Action uint8

const (
	ActionView Action = iota + 1
	ActionEdit
)

func (a Action) String() string {
	switch a {
	case ActionView:
		return "view"
	case ActionEdit:
		return "edit"
	}
	return "unknown"
}

// ShareGrant 分享授权领域模型
// SharedWithUserID nil means a public link
// SharedWithUserID 为 nil 表示公开链接
type ShareGrant struct {
	ID                 int64         `json:"id"`
	TodoListID         int64         `json:"todoListId"`
	SharedByUserID     int64         `json:"sharedByUserId"`
	SharedWithUserID   *int64        `json:"sharedWithUserId"`
	PermissionType     Permission    `json:"permissionType"`
	Token              string        `json:"token"`
	IsActive           bool          `json:"isActive"`
	ExpiresAt          *time.Time    `json:"expiresAt"`
	MaxConcurrentUsers int           `json:"maxConcurrentUsers"` // 0 使用全局默认值
	MaxDailyAccess     int           `json:"maxDailyAccess"`     // 0 使用全局默认值
	MaxSessionDuration time.Duration `json:"maxSessionDuration"` // 0 使用全局默认值
	AllowedCountries   []string      `json:"allowedCountries"`   // 空使用全局默认值
	CreatedAt          time.Time     `json:"createdAt"`
	UpdatedAt          time.Time     `json:"updatedAt"`
}

// Usable reports active && (no expiry || expiry in the future)
// Usable 判断授权是否可用：已启用且未过期
func (g *ShareGrant) Usable(now time.Time) bool {
	if g == nil || !g.IsActive {
		return false
	}
	return g.ExpiresAt == nil || g.ExpiresAt.After(now)
}

func (g *ShareGrant) IsPublic() bool {
	return g.SharedWithUserID == nil
}

// ShareGrantRepository 分享授权持久化接口
type ShareGrantRepository interface {
	Create(ctx context.Context, grant *ShareGrant) error
	// GetByToken returns ErrShareNotFound for unknown tokens
	GetByToken(ctx context.Context, token string) (*ShareGrant, error)
	ListByList(ctx context.Context, listID int64) ([]*ShareGrant, error)
	Deactivate(ctx context.Context, id int64) error
}

package dto

import "time"

// ShareCreateRequest 创建分享请求
type ShareCreateRequest struct {
	PermissionType     string     `json:"permission_type" form:"permission_type" binding:"required,permission_type"` // can_edit | can_view
	SharedWithEmail    string     `json:"shared_with_email" form:"shared_with_email" binding:"omitempty,email"`      // 目标用户邮箱，空为公开链接
	ExpiresAt          *time.Time `json:"expires_at" form:"expires_at" binding:""`                                   // 过期时间
	MaxConcurrentUsers int        `json:"max_concurrent_users" form:"max_concurrent_users" binding:"omitempty,min=1,max=1000"`
	MaxDailyAccess     int        `json:"max_daily_access" form:"max_daily_access" binding:"omitempty,min=1,max=100000"`
	MaxSessionDuration int        `json:"max_session_duration" form:"max_session_duration" binding:"omitempty,min=60"` // 秒
	AllowedCountries   string     `json:"allowed_countries" form:"allowed_countries" binding:"omitempty,country_list"` // 逗号分隔 ISO 国家代码
}

// ShareCreateResponse 创建分享响应
type ShareCreateResponse struct {
	ShareURL       string     `json:"shareUrl"`
	Token          string     `json:"token"`
	PermissionType string     `json:"permissionType"`
	ExpiresAt      *time.Time `json:"expiresAt"`
}

// ShareDTO 分享信息
type ShareDTO struct {
	ID                 int64      `json:"id"`
	TodoListID         int64      `json:"todoListId"`
	Token              string     `json:"token"`
	ShareURL           string     `json:"shareUrl"`
	PermissionType     string     `json:"permissionType"`
	SharedWithUserID   *int64     `json:"sharedWithUserId"`
	IsActive           bool       `json:"isActive"`
	IsExpired          bool       `json:"isExpired"`
	ExpiresAt          *time.Time `json:"expiresAt"`
	MaxConcurrentUsers int        `json:"maxConcurrentUsers"`
	MaxDailyAccess     int        `json:"maxDailyAccess"`
	MaxSessionDuration int64      `json:"maxSessionDuration"`
	AllowedCountries   []string   `json:"allowedCountries"`
	CreatedAt          time.Time  `json:"createdAt"`
}

// ShareTokenRequest 路径中的分享 Token
type ShareTokenRequest struct {
	Token string `uri:"token" binding:"required,max=64"`
}

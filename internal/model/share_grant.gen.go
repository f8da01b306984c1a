package model

import "time"

const TableNameShareGrant = "share_grant"

// ShareGrant mapped from table <share_grant>
type ShareGrant struct {
	ID                 int64      `gorm:"column:id;primaryKey" json:"id" form:"id"`
	TodoListID         int64      `gorm:"column:todo_list_id;not null;index:idx_share_grant_list" json:"todoListId" form:"todoListId"`
	SharedByUserID     int64      `gorm:"column:shared_by_user_id;not null" json:"sharedByUserId" form:"sharedByUserId"`
	SharedWithUserID   *int64     `gorm:"column:shared_with_user_id" json:"sharedWithUserId" form:"sharedWithUserId"`
	PermissionType     string     `gorm:"column:permission_type;size:16;not null;default:can_view" json:"permissionType" form:"permissionType"`
	Token              string     `gorm:"column:token;size:64;not null;uniqueIndex:idx_share_grant_token" json:"token" form:"token"`
	IsActive           bool       `gorm:"column:is_active;not null;default:true" json:"isActive" form:"isActive"`
	ExpiresAt          *time.Time `gorm:"column:expires_at" json:"expiresAt" form:"expiresAt"`
	MaxConcurrentUsers int        `gorm:"column:max_concurrent_users;not null;default:0" json:"maxConcurrentUsers" form:"maxConcurrentUsers"`
	MaxDailyAccess     int        `gorm:"column:max_daily_access;not null;default:0" json:"maxDailyAccess" form:"maxDailyAccess"`
	MaxSessionDuration int64      `gorm:"column:max_session_duration;not null;default:0" json:"maxSessionDuration" form:"maxSessionDuration"` // 秒
	AllowedCountries   string     `gorm:"column:allowed_countries;size:255" json:"allowedCountries" form:"allowedCountries"`                     // 逗号分隔
	CreatedAt          time.Time  `gorm:"column:created_at;autoCreateTime" json:"createdAt" form:"createdAt"`
	UpdatedAt          time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt" form:"updatedAt"`
}

// TableName ShareGrant's table name
func (*ShareGrant) TableName() string {
	return TableNameShareGrant
}

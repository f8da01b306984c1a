package model

import "time"

const TableNameParticipant = "collaborative_participant"

// Participant mapped from table <collaborative_participant>
type Participant struct {
	ID             int64      `gorm:"column:id;primaryKey" json:"id" form:"id"`
	TodoListID     int64      `gorm:"column:todo_list_id;not null;uniqueIndex:idx_participant_list_user,priority:1" json:"todoListId" form:"todoListId"`
	UserID         int64      `gorm:"column:user_id;not null;uniqueIndex:idx_participant_list_user,priority:2" json:"userId" form:"userId"`
	ShareGrantID   int64      `gorm:"column:share_grant_id;not null" json:"shareGrantId" form:"shareGrantId"`
	PermissionType string     `gorm:"column:permission_type;size:16;not null" json:"permissionType" form:"permissionType"`
	Status         string     `gorm:"column:status;size:16;not null;default:offline" json:"status" form:"status"`
	SessionID      string     `gorm:"column:session_id;size:64" json:"sessionId" form:"sessionId"`
	UserAgent      string     `gorm:"column:user_agent;size:512" json:"userAgent" form:"userAgent"`
	IPAddress      string     `gorm:"column:ip_address;size:64" json:"ipAddress" form:"ipAddress"`
	IsActive       bool       `gorm:"column:is_active;not null;default:false;index:idx_participant_active" json:"isActive" form:"isActive"`
	LastSeenAt     time.Time  `gorm:"column:last_seen_at" json:"lastSeenAt" form:"lastSeenAt"`
	JoinedAt       time.Time  `gorm:"column:joined_at" json:"joinedAt" form:"joinedAt"`
	LeftAt         *time.Time `gorm:"column:left_at" json:"leftAt" form:"leftAt"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime" json:"createdAt" form:"createdAt"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt" form:"updatedAt"`
}

// TableName Participant's table name
func (*Participant) TableName() string {
	return TableNameParticipant
}

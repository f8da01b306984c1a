package model

import "time"

const TableNamePresence = "user_presence"

// Presence mapped from table <user_presence>
type Presence struct {
	ID              int64     `gorm:"column:id;primaryKey" json:"id" form:"id"`
	UserID          int64     `gorm:"column:user_id;not null;uniqueIndex:idx_presence_session,priority:1" json:"userId" form:"userId"`
	TodoListID      int64     `gorm:"column:todo_list_id;not null;uniqueIndex:idx_presence_session,priority:2;index:idx_presence_list_activity,priority:1" json:"todoListId" form:"todoListId"`
	SessionID       string    `gorm:"column:session_id;size:64;not null;uniqueIndex:idx_presence_session,priority:3" json:"sessionId" form:"sessionId"`
	Status          string    `gorm:"column:status;size:16;not null;default:offline" json:"status" form:"status"`
	LastActivityAt  time.Time `gorm:"column:last_activity_at;index:idx_presence_list_activity,priority:2" json:"lastActivityAt" form:"lastActivityAt"`
	CurrentActivity string    `gorm:"column:current_activity;size:64" json:"currentActivity" form:"currentActivity"`
	CursorPosition  string    `gorm:"column:cursor_position;size:255" json:"cursorPosition" form:"cursorPosition"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt" form:"createdAt"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt" form:"updatedAt"`
}

// TableName Presence's table name
func (*Presence) TableName() string {
	return TableNamePresence
}

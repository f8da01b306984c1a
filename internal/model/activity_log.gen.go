package model

import "time"

const TableNameActivityLog = "activity_log"

// ActivityLog mapped from table <activity_log>
type ActivityLog struct {
	ID         int64     `gorm:"column:id;primaryKey" json:"id" form:"id"`
	TodoListID int64     `gorm:"column:todo_list_id;not null;index:idx_activity_list_created,priority:1" json:"todoListId" form:"todoListId"`
	UserID     *int64    `gorm:"column:user_id" json:"userId" form:"userId"`
	Action     string    `gorm:"column:action;size:64;not null" json:"action" form:"action"`
	Data       string    `gorm:"column:data;type:text" json:"data" form:"data"` // JSON
	IPAddress  string    `gorm:"column:ip_address;size:64" json:"ipAddress" form:"ipAddress"`
	CreatedAt  time.Time `gorm:"column:created_at;index:idx_activity_list_created,priority:2" json:"createdAt" form:"createdAt"`
}

// TableName ActivityLog's table name
func (*ActivityLog) TableName() string {
	return TableNameActivityLog
}

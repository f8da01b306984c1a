package model

import "time"

const TableNameFile = "file"

// File mapped from table <file>
type File struct {
	ID            int64     `gorm:"column:id;primaryKey" json:"id" form:"id"`
	TodoListID    int64     `gorm:"column:todo_list_id;not null;index:idx_file_list" json:"todoListId" form:"todoListId"`
	UserID        int64     `gorm:"column:user_id;not null;default:0" json:"userId" form:"userId"`
	OriginalName  string    `gorm:"column:original_name;size:255;not null" json:"originalName" form:"originalName"`
	StoredPath    string    `gorm:"column:stored_path;size:512;not null" json:"storedPath" form:"storedPath"`
	MimeType      string    `gorm:"column:mime_type;size:128" json:"mimeType" form:"mimeType"`
	Size          int64     `gorm:"column:size;not null;default:0" json:"size" form:"size"`
	DownloadCount int64     `gorm:"column:download_count;not null;default:0" json:"downloadCount" form:"downloadCount"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt" form:"createdAt"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt" form:"updatedAt"`
}

// TableName File's table name
func (*File) TableName() string {
	return TableNameFile
}

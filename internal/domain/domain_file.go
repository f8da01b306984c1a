package domain

import (
	"context"
	"time"
)

// File 列表附件元数据，内容保存在存储后端
type File struct {
	ID            int64     `json:"id"`
	TodoListID    int64     `json:"todoListId"`
	UserID        int64     `json:"userId"` // 上传者，匿名编辑为 0
	OriginalName  string    `json:"originalName"`
	StoredPath    string    `json:"-"`
	MimeType      string    `json:"mimeType"`
	Size          int64     `json:"size"`
	DownloadCount int64     `json:"downloadCount"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// FileRepository 附件持久化接口
type FileRepository interface {
	Create(ctx context.Context, f *File) error
	GetByID(ctx context.Context, listID, id int64) (*File, error)
	ListByList(ctx context.Context, listID int64) ([]*File, error)
	ListCreatedSince(ctx context.Context, listID int64, since time.Time) ([]*File, error)
	IncrementDownloads(ctx context.Context, id int64) error
	Delete(ctx context.Context, listID, id int64) error
}

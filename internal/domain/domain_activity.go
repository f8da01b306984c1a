package domain

import (
	"context"
	"fmt"
	"time"
)

// ActionKind 活动类型，未知类型原样透传
type ActionKind string

const (
	ActionFileUploaded      ActionKind = "file_uploaded"
	ActionFileDownloaded    ActionKind = "file_downloaded"
	ActionItemUpdated       ActionKind = "item_updated"
	ActionItemCreated       ActionKind = "item_created"
	ActionItemCompleted     ActionKind = "item_completed"
	ActionListShared        ActionKind = "list_shared"
	ActionUserJoined        ActionKind = "user_joined"
	ActionUserLeft          ActionKind = "user_left"
	ActionPermissionGranted ActionKind = "permission_granted"
	ActionShareRevoked      ActionKind = "share_revoked"
	ActionItemDeleted       ActionKind = "item_deleted"
	ActionFileDeleted       ActionKind = "file_deleted"
)

var actionDescriptions = map[ActionKind]string{
	ActionFileUploaded:      "uploaded a file",
	ActionFileDownloaded:    "downloaded a file",
	ActionItemUpdated:       "updated an item",
	ActionItemCreated:       "created a new item",
	ActionItemCompleted:     "completed an item",
	ActionListShared:        "shared the todo list",
	ActionUserJoined:        "joined the list",
	ActionUserLeft:          "left the list",
	ActionPermissionGranted: "granted a permission",
	ActionShareRevoked:      "revoked a share link",
	ActionItemDeleted:       "deleted an item",
	ActionFileDeleted:       "deleted a file",
}

// payload key interpolated into the description, per kind
var actionSubjects = map[ActionKind]string{
	ActionFileUploaded:   "file_name",
	ActionFileDownloaded: "file_name",
	ActionFileDeleted:    "file_name",
	ActionItemUpdated:    "item_title",
	ActionItemCreated:    "item_title",
	ActionItemCompleted:  "item_title",
	ActionItemDeleted:    "item_title",
}

// Known reports whether k belongs to the fixed set
func (k ActionKind) Known() bool {
	_, ok := actionDescriptions[k]
	return ok
}

// Describe renders k with its payload, unknown kinds are returned verbatim
// Describe 生成活动描述，未知类型原样返回
func (k ActionKind) Describe(data map[string]any) string {
	desc, ok := actionDescriptions[k]
	if !ok {
		return string(k)
	}
	if key, ok := actionSubjects[k]; ok {
		if v, ok := data[key]; ok && v != nil && fmt.Sprint(v) != "" {
			return fmt.Sprintf("%s %q", desc, fmt.Sprint(v))
		}
	}
	return desc
}

// ActivityEntry 不可变的活动记录
type ActivityEntry struct {
	ID         int64          `json:"id"`
	TodoListID int64          `json:"todoListId"`
	UserID     *int64         `json:"userId"`
	Action     ActionKind     `json:"action"`
	Data       map[string]any `json:"data"`
	IPAddress  string         `json:"ipAddress"`
	CreatedAt  time.Time      `json:"createdAt"`
}

// ActivityRepository 活动日志持久化接口，只追加
type ActivityRepository interface {
	Append(ctx context.Context, entry *ActivityEntry) error
	// Recent returns newest first
	Recent(ctx context.Context, listID int64, limit int) ([]*ActivityEntry, error)
}

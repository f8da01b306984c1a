package domain

import (
	"context"
	"fmt"
	"time"
)

// PresenceStatus 在线状态，封闭枚举
type PresenceStatus uint8

const (
	StatusOffline PresenceStatus = iota
	StatusOnline
	StatusAway
)

// PresenceStatuses lists every status, in display order
var PresenceStatuses = []PresenceStatus{StatusOnline, StatusAway, StatusOffline}

func (s PresenceStatus) String() string {
	switch s {
	case StatusOnline:
		return "online"
	case StatusAway:
		return "away"
	case StatusOffline:
		return "offline"
	}
	panic(fmt.Sprintf("domain: invalid presence status %d", uint8(s)))
}

// Color 状态颜色
func (s PresenceStatus) Color() string {
	switch s {
	case StatusOnline:
		return "green"
	case StatusAway:
		return "yellow"
	case StatusOffline:
		return "gray"
	}
	panic(fmt.Sprintf("domain: invalid presence status %d", uint8(s)))
}

// Icon 状态图标
func (s PresenceStatus) Icon() string {
	switch s {
	case StatusOnline:
		return "🟢"
	case StatusAway:
		return "🟡"
	case StatusOffline:
		return "⚪"
	}
	panic(fmt.Sprintf("domain: invalid presence status %d", uint8(s)))
}

// Label 状态文本
func (s PresenceStatus) Label() string {
	switch s {
	case StatusOnline:
		return "Online"
	case StatusAway:
		return "Away"
	case StatusOffline:
		return "Offline"
	}
	panic(fmt.Sprintf("domain: invalid presence status %d", uint8(s)))
}

func (s PresenceStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ParsePresenceStatus rejects anything outside online/away/offline
// ParsePresenceStatus 解析状态字符串，未知值返回错误
func ParsePresenceStatus(v string) (PresenceStatus, error) {
	switch v {
	case "online":
		return StatusOnline, nil
	case "away":
		return StatusAway, nil
	case "offline":
		return StatusOffline, nil
	}
	return StatusOffline, fmt.Errorf("domain: unknown presence status %q", v)
}

// Activity tags sent by polling clients
// 客户端上报的活动标签
const (
	ActivityTyping          = "typing"
	ActivityEditingItem     = "editing_item"
	ActivityUploadingFile   = "uploading_file"
	ActivityDownloadingFile = "downloading_file"
	ActivityViewingFiles    = "viewing_files"
	ActivityBrowsingItems   = "browsing_items"
)

var activityDescriptions = map[string]string{
	ActivityTyping:          "Typing...",
	ActivityEditingItem:     "Editing an item",
	ActivityUploadingFile:   "Uploading a file",
	ActivityDownloadingFile: "Downloading a file",
	ActivityViewingFiles:    "Viewing files",
	ActivityBrowsingItems:   "Browsing items",
}

// DescribeActivity empty means idle, unknown tags are returned verbatim
// DescribeActivity 空值表示空闲，未知标签原样返回
func DescribeActivity(tag string) string {
	if tag == "" {
		return "Idle"
	}
	if d, ok := activityDescriptions[tag]; ok {
		return d
	}
	return tag
}

// Participant one row per (list, user)
// Participant 每个 (列表, 用户) 一行
type Participant struct {
	ID             int64          `json:"id"`
	TodoListID     int64          `json:"todoListId"`
	UserID         int64          `json:"userId"`
	ShareGrantID   int64          `json:"shareGrantId"`
	PermissionType Permission     `json:"permissionType"`
	Status         PresenceStatus `json:"status"`
	SessionID      string         `json:"sessionId"`
	UserAgent      string         `json:"userAgent"`
	IPAddress      string         `json:"ipAddress"`
	IsActive       bool           `json:"isActive"`
	LastSeenAt     time.Time      `json:"lastSeenAt"`
	JoinedAt       time.Time      `json:"joinedAt"`
	LeftAt         *time.Time     `json:"leftAt"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// MaxSessionIDLength matches the session_id column size
// MaxSessionIDLength 与 session_id 列长度一致
const MaxSessionIDLength = 64

// PresenceRecord one row per (user, list, session)
// PresenceRecord 每个 (用户, 列表, 会话) 一行
type PresenceRecord struct {
	ID              int64          `json:"id"`
	UserID          int64          `json:"userId"`
	TodoListID      int64          `json:"todoListId"`
	SessionID       string         `json:"sessionId"`
	Status          PresenceStatus `json:"status"`
	LastActivityAt  time.Time      `json:"lastActivityAt"`
	CurrentActivity string         `json:"currentActivity"`
	CursorPosition  string         `json:"cursorPosition"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

// ParticipantRepository 参与者持久化接口
type ParticipantRepository interface {
	// Upsert inserts or updates on (todo_list_id, user_id), only created_at survives an update
	Upsert(ctx context.Context, p *Participant) (*Participant, error)
	Get(ctx context.Context, listID, userID int64) (*Participant, error)
	ListByList(ctx context.Context, listID int64) ([]*Participant, error)
	CountActive(ctx context.Context, listID int64) (int64, error)
	IsActive(ctx context.Context, listID, userID int64) (bool, error)
	UpdateStatus(ctx context.Context, listID, userID int64, status PresenceStatus, seenAt time.Time) error
	MarkLeft(ctx context.Context, listID, userID int64, at time.Time) error
	// DeactivateStale flips active participants last seen before the cutoff to offline
	DeactivateStale(ctx context.Context, before time.Time) (int64, error)
}

// PresenceRepository 会话在线状态持久化接口
type PresenceRepository interface {
	// Upsert inserts or updates on (user_id, todo_list_id, session_id)
	Upsert(ctx context.Context, r *PresenceRecord) error
	Get(ctx context.Context, userID, listID int64, sessionID string) (*PresenceRecord, error)
	Update(ctx context.Context, r *PresenceRecord) error
	// CountLive counts the sessions of a user on a list that are not offline
	CountLive(ctx context.Context, userID, listID int64) (int64, error)
	// CountOnline counts the sessions of a user on a list that are online
	CountOnline(ctx context.Context, userID, listID int64) (int64, error)
	ListSince(ctx context.Context, listID int64, since time.Time) ([]*PresenceRecord, error)
	DeleteOfflineBefore(ctx context.Context, before time.Time) (int64, error)
}

package dto

import "time"

// PresenceJoinRequest 加入协作请求
type PresenceJoinRequest struct {
	Activity string `json:"activity" form:"activity" binding:"omitempty,max=64"`
	Cursor   string `json:"cursor_position" form:"cursor_position" binding:"omitempty,max=255"`
}

// PresenceUpdateRequest 心跳请求
type PresenceUpdateRequest struct {
	Activity string `json:"activity" form:"activity" binding:"omitempty,max=64"`
	Cursor   string `json:"cursor_position" form:"cursor_position" binding:"omitempty,max=255"`
}

// PresenceJoinResponse 加入协作响应
type PresenceJoinResponse struct {
	SessionID   string          `json:"sessionId"`
	Participant *ParticipantDTO `json:"participant"`
}

// PresenceAckResponse leave/update/away 响应
type PresenceAckResponse struct {
	Found bool `json:"found"`
}

// ParticipantDTO 参与者展示信息
type ParticipantDTO struct {
	UserID          int64      `json:"userId"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	PermissionType  string     `json:"permissionType"`
	Status          string     `json:"status"`
	StatusLabel     string     `json:"statusLabel"`
	StatusColor     string     `json:"statusColor"`
	StatusIcon      string     `json:"statusIcon"`
	LastSeen        string     `json:"lastSeen"` // 人类可读，例如 "2 minutes ago"
	LastSeenAt      time.Time  `json:"lastSeenAt"`
	JoinedAt        time.Time  `json:"joinedAt"`
	LeftAt          *time.Time `json:"leftAt"`
	CurrentActivity string     `json:"currentActivity"`
	CanEdit         bool       `json:"canEdit"`
	IsActive        bool       `json:"isActive"`
	IsLive          bool       `json:"isLive"` // 最近活跃窗口内有心跳
}

// ParticipantStats 按状态统计
type ParticipantStats struct {
	Total   int `json:"total"`
	Online  int `json:"online"`
	Away    int `json:"away"`
	Offline int `json:"offline"`
}

// ParticipantsResponse 参与者列表
type ParticipantsResponse struct {
	Participants []*ParticipantDTO `json:"participants"`
	Stats        ParticipantStats  `json:"stats"`
	LastUpdated  time.Time         `json:"lastUpdated"`
}

// PresenceDTO 会话在线信息
type PresenceDTO struct {
	UserID          int64     `json:"userId"`
	Name            string    `json:"name"`
	SessionID       string    `json:"sessionId"`
	Status          string    `json:"status"`
	StatusColor     string    `json:"statusColor"`
	StatusIcon      string    `json:"statusIcon"`
	CurrentActivity string    `json:"currentActivity"`
	CursorPosition  string    `json:"cursorPosition"`
	LastActivityAt  time.Time `json:"lastActivityAt"`
}

// PresenceFeedResponse 轮询用的在线与活动信息
type PresenceFeedResponse struct {
	Presences        []*PresenceDTO `json:"presences"`
	RecentActivities []*ActivityDTO `json:"recentActivities"`
	Timestamp        time.Time      `json:"timestamp"`
}

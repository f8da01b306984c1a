package dto

import "time"

// ActivityDTO 活动展示信息
type ActivityDTO struct {
	ID          int64          `json:"id"`
	UserID      *int64         `json:"userId"`
	UserName    string         `json:"userName"`
	Action      string         `json:"action"`
	Description string         `json:"description"`
	Data        map[string]any `json:"data"`
	TimeAgo     string         `json:"timeAgo"`
	CreatedAt   time.Time      `json:"createdAt"`
}

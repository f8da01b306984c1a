package dto

import "time"

// TodoListCreateRequest 创建待办列表请求
type TodoListCreateRequest struct {
	Title       string     `json:"title" form:"title" binding:"required,max=255"`
	Description string     `json:"description" form:"description" binding:"omitempty,max=5000"`
	CourseID    *int64     `json:"course_id" form:"course_id" binding:"omitempty,min=1"`
	CategoryID  *int64     `json:"category_id" form:"category_id" binding:"omitempty,min=1"`
	TaskType    string     `json:"task_type" form:"task_type" binding:"omitempty,oneof=individual group"`
	Priority    string     `json:"priority" form:"priority" binding:"omitempty,oneof=low medium high"`
	Status      string     `json:"status" form:"status" binding:"omitempty,oneof=pending in_progress completed"`
	Deadline    *time.Time `json:"deadline" form:"deadline" binding:""`
}

// TodoListUpdateRequest 更新待办列表请求，nil 字段保持不变
type TodoListUpdateRequest struct {
	Title       *string    `json:"title" form:"title" binding:"omitempty,min=1,max=255"`
	Description *string    `json:"description" form:"description" binding:"omitempty,max=5000"`
	CategoryID  *int64     `json:"category_id" form:"category_id" binding:"omitempty,min=1"`
	TaskType    *string    `json:"task_type" form:"task_type" binding:"omitempty,oneof=individual group"`
	Priority    *string    `json:"priority" form:"priority" binding:"omitempty,oneof=low medium high"`
	Status      *string    `json:"status" form:"status" binding:"omitempty,oneof=pending in_progress completed"`
	Deadline    *time.Time `json:"deadline" form:"deadline" binding:""`
}

// TodoItemCreateRequest 创建待办事项请求
type TodoItemCreateRequest struct {
	Title       string     `json:"title" form:"title" binding:"required,max=255"`
	Description string     `json:"description" form:"description" binding:"omitempty,max=5000"`
	Deadline    *time.Time `json:"deadline" form:"deadline" binding:""`
}

// TodoItemUpdateRequest 更新待办事项请求，nil 字段保持不变
type TodoItemUpdateRequest struct {
	Title       *string    `json:"title" form:"title" binding:"omitempty,min=1,max=255"`
	Description *string    `json:"description" form:"description" binding:"omitempty,max=5000"`
	IsCompleted *bool      `json:"is_completed" form:"is_completed" binding:""`
	Deadline    *time.Time `json:"deadline" form:"deadline" binding:""`
}

// TodoListDTO 待办列表
type TodoListDTO struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"userId"`
	CourseID    *int64     `json:"courseId"`
	CategoryID  *int64     `json:"categoryId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	TaskType    string     `json:"taskType"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	IsPersonal  bool       `json:"isPersonal"`
	Deadline    *time.Time `json:"deadline"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// TodoItemDTO 待办事项
type TodoItemDTO struct {
	ID          int64      `json:"id"`
	TodoListID  int64      `json:"todoListId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	IsCompleted bool       `json:"isCompleted"`
	CompletedAt *time.Time `json:"completedAt"`
	Deadline    *time.Time `json:"deadline"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// FileDTO 附件
type FileDTO struct {
	ID            int64     `json:"id"`
	TodoListID    int64     `json:"todoListId"`
	UserID        int64     `json:"userId"`
	OriginalName  string    `json:"originalName"`
	MimeType      string    `json:"mimeType"`
	Size          int64     `json:"size"`
	SizeHuman     string    `json:"sizeHuman"`
	DownloadCount int64     `json:"downloadCount"`
	CreatedAt     time.Time `json:"createdAt"`
}

// SharedDashboardResponse 分享页面数据
type SharedDashboardResponse struct {
	TodoList         *TodoListDTO     `json:"todoList"`
	Items            []*TodoItemDTO   `json:"items"`
	Files            []*FileDTO       `json:"files"`
	Share            *ShareDTO        `json:"share"`
	PermissionType   string           `json:"permissionType"`
	CanEdit          bool             `json:"canEdit"`
	IsOwner          bool             `json:"isOwner"`
	RecentActivities []*ActivityDTO   `json:"recentActivities"`
	Stats            ParticipantStats `json:"stats"`
}

// SharedUpdatesRequest 轮询请求
type SharedUpdatesRequest struct {
	Since string `form:"since" json:"since" binding:"omitempty,datetime=2006-01-02T15:04:05Z07:00"` // RFC3339
}

// SharedUpdatesResponse 轮询增量数据
type SharedUpdatesResponse struct {
	Activities []*ActivityDTO `json:"activities"`
	Items      []*TodoItemDTO `json:"items"`
	Files      []*FileDTO     `json:"files"`
	Timestamp  time.Time      `json:"timestamp"`
}

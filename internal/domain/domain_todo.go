package domain

import (
	"context"
	"time"
)

type TaskType string

const (
	TaskIndividual TaskType = "individual"
	TaskGroup      TaskType = "group"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

type TodoStatus string

const (
	TodoPending    TodoStatus = "pending"
	TodoInProgress TodoStatus = "in_progress"
	TodoCompleted  TodoStatus = "completed"
)

// TodoList 待办列表
// CourseID nil marks a personal list
// CourseID 为 nil 表示个人列表
type TodoList struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"userId"`
	CourseID    *int64     `json:"courseId"`
	CategoryID  *int64     `json:"categoryId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	TaskType    TaskType   `json:"taskType"`
	Priority    Priority   `json:"priority"`
	Status      TodoStatus `json:"status"`
	Deadline    *time.Time `json:"deadline"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// IsOwner 判断用户是否为列表所有者
func (l *TodoList) IsOwner(uid *int64) bool {
	return l != nil && uid != nil && *uid == l.UserID
}

func (l *TodoList) IsPersonal() bool {
	return l.CourseID == nil
}

// TodoItem 待办事项
type TodoItem struct {
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

// TodoListRepository 待办列表持久化接口
type TodoListRepository interface {
	Create(ctx context.Context, list *TodoList) error
	GetByID(ctx context.Context, id int64) (*TodoList, error)
	Update(ctx context.Context, list *TodoList) error
	// Delete removes the list with its grants, participants, presences, activities, items and files
	Delete(ctx context.Context, id int64) error
	ListByUser(ctx context.Context, uid int64, page, pageSize int) ([]*TodoList, error)
	CountByUser(ctx context.Context, uid int64) (int64, error)
}

// TodoItemRepository 待办事项持久化接口
type TodoItemRepository interface {
	Create(ctx context.Context, item *TodoItem) error
	GetByID(ctx context.Context, listID, id int64) (*TodoItem, error)
	Update(ctx context.Context, item *TodoItem) error
	Delete(ctx context.Context, listID, id int64) error
	ListByList(ctx context.Context, listID int64) ([]*TodoItem, error)
	ListUpdatedSince(ctx context.Context, listID int64, since time.Time) ([]*TodoItem, error)
}

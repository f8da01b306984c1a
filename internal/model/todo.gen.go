package model

import "time"

const (
	TableNameTodoList = "todo_list"
	TableNameTodoItem = "todo_item"
)

// TodoList mapped from table <todo_list>
type TodoList struct {
	ID          int64      `gorm:"column:id;primaryKey" json:"id" form:"id"`
	UserID      int64      `gorm:"column:user_id;not null;index:idx_todo_list_user" json:"userId" form:"userId"`
	CourseID    *int64     `gorm:"column:course_id" json:"courseId" form:"courseId"`
	CategoryID  *int64     `gorm:"column:category_id" json:"categoryId" form:"categoryId"`
	Title       string     `gorm:"column:title;size:255;not null" json:"title" form:"title"`
	Description string     `gorm:"column:description;type:text" json:"description" form:"description"`
	TaskType    string     `gorm:"column:task_type;size:16;not null;default:individual" json:"taskType" form:"taskType"`
	Priority    string     `gorm:"column:priority;size:16;not null;default:medium" json:"priority" form:"priority"`
	Status      string     `gorm:"column:status;size:16;not null;default:pending" json:"status" form:"status"`
	Deadline    *time.Time `gorm:"column:deadline" json:"deadline" form:"deadline"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime" json:"createdAt" form:"createdAt"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt" form:"updatedAt"`
}

// TableName TodoList's table name
func (*TodoList) TableName() string {
	return TableNameTodoList
}

// TodoItem mapped from table <todo_item>
type TodoItem struct {
	ID          int64      `gorm:"column:id;primaryKey" json:"id" form:"id"`
	TodoListID  int64      `gorm:"column:todo_list_id;not null;index:idx_todo_item_list" json:"todoListId" form:"todoListId"`
	Title       string     `gorm:"column:title;size:255;not null" json:"title" form:"title"`
	Description string     `gorm:"column:description;type:text" json:"description" form:"description"`
	IsCompleted bool       `gorm:"column:is_completed;not null;default:false" json:"isCompleted" form:"isCompleted"`
	CompletedAt *time.Time `gorm:"column:completed_at" json:"completedAt" form:"completedAt"`
	Deadline    *time.Time `gorm:"column:deadline" json:"deadline" form:"deadline"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime" json:"createdAt" form:"createdAt"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt" form:"updatedAt"`
}

// TableName TodoItem's table name
func (*TodoItem) TableName() string {
	return TableNameTodoItem
}

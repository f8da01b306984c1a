package model

import "time"

const (
	TableNameUser       = "user"
	TableNameCourse     = "course"
	TableNameUserCourse = "user_course"
)

// User mapped from table <user>
type User struct {
	ID        int64     `gorm:"column:id;primaryKey" json:"id" form:"id"`
	Name      string    `gorm:"column:name;size:255;not null" json:"name" form:"name"`
	Email     string    `gorm:"column:email;size:255;not null;uniqueIndex:idx_user_email" json:"email" form:"email"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt" form:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt" form:"updatedAt"`
}

// TableName User's table name
func (*User) TableName() string {
	return TableNameUser
}

// Course mapped from table <course>
type Course struct {
	ID        int64     `gorm:"column:id;primaryKey" json:"id" form:"id"`
	Code      string    `gorm:"column:code;size:32;not null;uniqueIndex:idx_course_code" json:"code" form:"code"`
	Name      string    `gorm:"column:name;size:255;not null" json:"name" form:"name"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt" form:"createdAt"`
}

// TableName Course's table name
func (*Course) TableName() string {
	return TableNameCourse
}

// UserCourse mapped from table <user_course>
type UserCourse struct {
	ID        int64     `gorm:"column:id;primaryKey" json:"id" form:"id"`
	UserID    int64     `gorm:"column:user_id;not null;uniqueIndex:idx_user_course,priority:1" json:"userId" form:"userId"`
	CourseID  int64     `gorm:"column:course_id;not null;uniqueIndex:idx_user_course,priority:2" json:"courseId" form:"courseId"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt" form:"createdAt"`
}

// TableName UserCourse's table name
func (*UserCourse) TableName() string {
	return TableNameUserCourse
}

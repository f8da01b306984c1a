package domain

import (
	"context"
	"time"
)

// User 用户
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Course 课程
type Course struct {
	ID        int64     `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserRepository 用户持久化接口
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	// GetByIDs missing ids are absent from the result
	GetByIDs(ctx context.Context, ids []int64) (map[int64]*User, error)
}

// CourseRepository 课程与选课持久化接口
type CourseRepository interface {
	Create(ctx context.Context, c *Course) error
	GetByID(ctx context.Context, id int64) (*Course, error)
	Enroll(ctx context.Context, userID, courseID int64) error
	IsEnrolled(ctx context.Context, userID, courseID int64) (bool, error)
}

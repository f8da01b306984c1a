package dao

import (
	"context"

	"github.com/haierkeys/uni-task-service/internal/domain"
	"github.com/haierkeys/uni-task-service/internal/model"

	"github.com/jinzhu/copier"
	"gorm.io/gorm/clause"
)

// courseRepository 实现 domain.CourseRepository 接口
type courseRepository struct {
	dao *Dao
}

// NewCourseRepository 创建 CourseRepository 实例
func NewCourseRepository(dao *Dao) domain.CourseRepository {
	return &courseRepository{dao: dao}
}

func (r *courseRepository) Create(ctx context.Context, c *domain.Course) error {
	m := &model.Course{Code: c.Code, Name: c.Name}
	if err := r.dao.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	c.ID = m.ID
	c.CreatedAt = m.CreatedAt
	return nil
}

func (r *courseRepository) GetByID(ctx context.Context, id int64) (*domain.Course, error) {
	var m model.Course
	if err := r.dao.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, notFound(err, domain.ErrCourseNotFound)
	}
	d := &domain.Course{}
	if err := copier.Copy(d, &m); err != nil {
		return nil, err
	}
	return d, nil
}

// Enroll is idempotent
// Enroll 重复选课不报错
func (r *courseRepository) Enroll(ctx context.Context, userID, courseID int64) error {
	return r.dao.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.UserCourse{UserID: userID, CourseID: courseID}).Error
}

func (r *courseRepository) IsEnrolled(ctx context.Context, userID, courseID int64) (bool, error) {
	var n int64
	err := r.dao.WithContext(ctx).Model(&model.UserCourse{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).Count(&n).Error
	return n > 0, err
}

var _ domain.CourseRepository = (*courseRepository)(nil)

package dao

import (
	"context"
	"strings"

	"github.com/haierkeys/uni-task-service/internal/domain"
	"github.com/haierkeys/uni-task-service/internal/model"

	"github.com/jinzhu/copier"
)

// userRepository 实现 domain.UserRepository 接口
type userRepository struct {
	dao *Dao
}

// NewUserRepository 创建 UserRepository 实例
func NewUserRepository(dao *Dao) domain.UserRepository {
	return &userRepository{dao: dao}
}

func (r *userRepository) toDomain(m *model.User) (*domain.User, error) {
	d := &domain.User{}
	if err := copier.Copy(d, m); err != nil {
		return nil, err
	}
	return d, nil
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	m := &model.User{Name: u.Name, Email: strings.ToLower(strings.TrimSpace(u.Email))}
	if err := r.dao.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	u.ID = m.ID
	u.Email = m.Email
	u.CreatedAt = m.CreatedAt
	u.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var m model.User
	if err := r.dao.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, notFound(err, domain.ErrUserNotFound)
	}
	return r.toDomain(&m)
}

// GetByEmail 邮箱不区分大小写
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var m model.User
	err := r.dao.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&m).Error
	if err != nil {
		return nil, notFound(err, domain.ErrUserNotFound)
	}
	return r.toDomain(&m)
}

func (r *userRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]*domain.User, error) {
	out := make(map[int64]*domain.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var ms []*model.User
	if err := r.dao.WithContext(ctx).Where("id IN ?", ids).Find(&ms).Error; err != nil {
		return nil, err
	}
	for _, m := range ms {
		d, err := r.toDomain(m)
		if err != nil {
			return nil, err
		}
		out[m.ID] = d
	}
	return out, nil
}

var _ domain.UserRepository = (*userRepository)(nil)

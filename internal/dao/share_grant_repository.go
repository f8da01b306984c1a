package dao

import (
	"context"
	"strings"
	"time"

	"github.com/haierkeys/uni-task-service/internal/domain"
	"github.com/haierkeys/uni-task-service/internal/model"
)

// shareGrantRepository 实现 domain.ShareGrantRepository 接口
type shareGrantRepository struct {
	dao *Dao
}

// NewShareGrantRepository 创建 ShareGrantRepository 实例
func NewShareGrantRepository(dao *Dao) domain.ShareGrantRepository {
	return &shareGrantRepository{dao: dao}
}

func (r *shareGrantRepository) toDomain(m *model.ShareGrant) *domain.ShareGrant {
	if m == nil {
		return nil
	}
	var countries []string
	for _, c := range strings.Split(m.AllowedCountries, ",") {
		if c = strings.TrimSpace(c); c != "" {
			countries = append(countries, c)
		}
	}
	return &domain.ShareGrant{
		ID:                 m.ID,
		TodoListID:         m.TodoListID,
		SharedByUserID:     m.SharedByUserID,
		SharedWithUserID:   m.SharedWithUserID,
		PermissionType:     domain.Permission(m.PermissionType),
		Token:              m.Token,
		IsActive:           m.IsActive,
		ExpiresAt:          m.ExpiresAt,
		MaxConcurrentUsers: m.MaxConcurrentUsers,
		MaxDailyAccess:     m.MaxDailyAccess,
		MaxSessionDuration: time.Duration(m.MaxSessionDuration) * time.Second,
		AllowedCountries:   countries,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

func (r *shareGrantRepository) toModel(d *domain.ShareGrant) *model.ShareGrant {
	return &model.ShareGrant{
		ID:                 d.ID,
		TodoListID:         d.TodoListID,
		SharedByUserID:     d.SharedByUserID,
		SharedWithUserID:   d.SharedWithUserID,
		PermissionType:     string(d.PermissionType),
		Token:              d.Token,
		IsActive:           d.IsActive,
		ExpiresAt:          d.ExpiresAt,
		MaxConcurrentUsers: d.MaxConcurrentUsers,
		MaxDailyAccess:     d.MaxDailyAccess,
		MaxSessionDuration: int64(d.MaxSessionDuration / time.Second),
		AllowedCountries:   strings.Join(d.AllowedCountries, ","),
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
	}
}

func (r *shareGrantRepository) Create(ctx context.Context, grant *domain.ShareGrant) error {
	m := r.toModel(grant)
	if err := r.dao.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	grant.ID = m.ID // 回填生成的 ID
	grant.CreatedAt = m.CreatedAt
	grant.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *shareGrantRepository) GetByToken(ctx context.Context, token string) (*domain.ShareGrant, error) {
	var m model.ShareGrant
	if err := r.dao.WithContext(ctx).Where("token = ?", token).First(&m).Error; err != nil {
		return nil, notFound(err, domain.ErrShareNotFound)
	}
	return r.toDomain(&m), nil
}

func (r *shareGrantRepository) ListByList(ctx context.Context, listID int64) ([]*domain.ShareGrant, error) {
	var ms []*model.ShareGrant
	if err := r.dao.WithContext(ctx).Where("todo_list_id = ?", listID).Order("id DESC").Find(&ms).Error; err != nil {
		return nil, err
	}
	ds := make([]*domain.ShareGrant, 0, len(ms))
	for _, m := range ms {
		ds = append(ds, r.toDomain(m))
	}
	return ds, nil
}

func (r *shareGrantRepository) Deactivate(ctx context.Context, id int64) error {
	return r.dao.WithContext(ctx).Model(&model.ShareGrant{}).Where("id = ?", id).Update("is_active", false).Error
}

var _ domain.ShareGrantRepository = (*shareGrantRepository)(nil)

package dao

import (
	"context"
	"time"

	"github.com/haierkeys/uni-task-service/internal/domain"
	"github.com/haierkeys/uni-task-service/internal/model"

	"github.com/jinzhu/copier"
	"gorm.io/gorm"
)

// fileRepository 实现 domain.FileRepository 接口
type fileRepository struct {
	dao *Dao
}

// NewFileRepository 创建 FileRepository 实例
func NewFileRepository(dao *Dao) domain.FileRepository {
	return &fileRepository{dao: dao}
}

func (r *fileRepository) toDomain(m *model.File) (*domain.File, error) {
	d := &domain.File{}
	if err := copier.Copy(d, m); err != nil {
		return nil, err
	}
	return d, nil
}

func (r *fileRepository) Create(ctx context.Context, f *domain.File) error {
	m := &model.File{}
	if err := copier.Copy(m, f); err != nil {
		return err
	}
	if err := r.dao.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	f.ID = m.ID
	f.CreatedAt = m.CreatedAt
	f.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *fileRepository) GetByID(ctx context.Context, listID, id int64) (*domain.File, error) {
	var m model.File
	err := r.dao.WithContext(ctx).Where("id = ? AND todo_list_id = ?", id, listID).First(&m).Error
	if err != nil {
		return nil, notFound(err, domain.ErrFileNotFound)
	}
	return r.toDomain(&m)
}

func (r *fileRepository) ListByList(ctx context.Context, listID int64) ([]*domain.File, error) {
	return r.find(ctx, "todo_list_id = ?", listID)
}

func (r *fileRepository) ListCreatedSince(ctx context.Context, listID int64, since time.Time) ([]*domain.File, error) {
	return r.find(ctx, "todo_list_id = ? AND created_at > ?", listID, since)
}

func (r *fileRepository) find(ctx context.Context, query string, args ...any) ([]*domain.File, error) {
	var ms []*model.File
	if err := r.dao.WithContext(ctx).Where(query, args...).Order("id DESC").Find(&ms).Error; err != nil {
		return nil, err
	}
	ds := make([]*domain.File, 0, len(ms))
	for _, m := range ms {
		d, err := r.toDomain(m)
		if err != nil {
			return nil, err
		}
		ds = append(ds, d)
	}
	return ds, nil
}

func (r *fileRepository) IncrementDownloads(ctx context.Context, id int64) error {
	return r.dao.WithContext(ctx).Model(&model.File{}).Where("id = ?", id).
		UpdateColumn("download_count", gorm.Expr("download_count + ?", 1)).Error
}

func (r *fileRepository) Delete(ctx context.Context, listID, id int64) error {
	res := r.dao.WithContext(ctx).Where("id = ? AND todo_list_id = ?", id, listID).Delete(&model.File{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrFileNotFound
	}
	return nil
}

var _ domain.FileRepository = (*fileRepository)(nil)

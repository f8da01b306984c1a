package service

import (
	"context"
	"io"
	"mime"
	"mime/multipart"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/haierkeys/uni-task-service/internal/domain"
	"github.com/haierkeys/uni-task-service/internal/dto"
	"github.com/haierkeys/uni-task-service/pkg/logger"
	"github.com/haierkeys/uni-task-service/pkg/storage"
	"github.com/haierkeys/uni-task-service/pkg/util"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// storedNameLength random part of stored file names
const storedNameLength = 32

// UploadInput 上传参数
type UploadInput struct {
	Name        string
	Size        int64
	ContentType string
	Body        io.Reader
}

// UploadFromHeader builds an UploadInput from a multipart header, the caller closes the returned file
// UploadFromHeader 从 multipart 头构建上传参数，调用方负责关闭返回的文件
func UploadFromHeader(fh *multipart.FileHeader) (UploadInput, multipart.File, error) {
	f, err := fh.Open()
	if err != nil {
		return UploadInput{}, nil, err
	}
	return UploadInput{
		Name:        fh.Filename,
		Size:        fh.Size,
		ContentType: fh.Header.Get("Content-Type"),
		Body:        f,
	}, f, nil
}

// FileService defines the list attachment interface
// FileService 定义列表附件接口
type FileService interface {
	// Upload stores the bytes under collaborative/{listId}/{random}.{ext} and records file_uploaded
	// Upload 保存文件并记录 file_uploaded
	Upload(ctx context.Context, listID int64, actor *int64, in UploadInput, ip string) (*dto.FileDTO, error)

	// Open streams a file and records file_downloaded, the caller closes the reader
	// Open 读取文件并记录 file_downloaded，调用方负责关闭
	Open(ctx context.Context, listID, fileID int64, actor *int64, ip string) (*domain.File, io.ReadCloser, error)

	Delete(ctx context.Context, listID, fileID int64, actor *int64, ip string) error
	List(ctx context.Context, listID int64) ([]*dto.FileDTO, error)
}

type fileService struct {
	files      domain.FileRepository
	activities ActivityService
	storage    storage.Storager
	logger     *zap.Logger
	config     *ServiceConfig
}

// NewFileService creates FileService instance
// NewFileService 创建 FileService 实例
func NewFileService(files domain.FileRepository, activities ActivityService, store storage.Storager, logger *zap.Logger, config *ServiceConfig) FileService {
	return &fileService{files: files, activities: activities, storage: store, logger: logger, config: config}
}

// storedPath builds the storage key, the original name only contributes its extension
func (s *fileService) storedPath(listID int64, name string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(name)))
	if len(ext) > 16 {
		ext = ""
	}
	return path.Join(s.config.App.UploadPrefix, strconv.FormatInt(listID, 10), util.GetRandomString(storedNameLength)+ext)
}

func (s *fileService) Upload(ctx context.Context, listID int64, actor *int64, in UploadInput, ip string) (*dto.FileDTO, error) {
	limit := s.config.App.MaxUploadSize
	if limit > 0 && in.Size > limit {
		return nil, domain.ErrFileTooLarge
	}
	if in.Size <= 0 || in.Body == nil {
		return nil, domain.NewValidationError("file", "file is required")
	}
	contentType := in.ContentType
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(in.Name))
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := s.storedPath(listID, in.Name)
	body := in.Body
	if limit > 0 {
		body = io.LimitReader(in.Body, limit)
	}
	if err := s.storage.Put(ctx, key, body, in.Size, contentType); err != nil {
		return nil, errors.Wrap(err, "store file")
	}

	f := &domain.File{
		TodoListID:   listID,
		OriginalName: filepath.Base(in.Name),
		StoredPath:   key,
		MimeType:     contentType,
		Size:         in.Size,
	}
	if actor != nil {
		f.UserID = *actor
	}
	if err := s.files.Create(ctx, f); err != nil {
		if derr := s.storage.Delete(ctx, key); derr != nil {
			s.logger.Warn("orphan file cleanup failed", zap.String(logger.FieldPath, key), zap.Error(derr))
		}
		return nil, errors.Wrap(err, "create file record")
	}

	s.logger.Info("file uploaded",
		zap.Int64(logger.FieldListID, listID),
		zap.Int64(logger.FieldFileID, f.ID),
		zap.Int64(logger.FieldSize, f.Size))
	record(ctx, s.activities, s.logger, listID, actor, domain.ActionFileUploaded, map[string]any{
		"file_id":   f.ID,
		"file_name": f.OriginalName,
		"size":      f.Size,
	}, ip)
	return fileDTO(f)
}

func (s *fileService) Open(ctx context.Context, listID, fileID int64, actor *int64, ip string) (*domain.File, io.ReadCloser, error) {
	f, err := s.files.GetByID(ctx, listID, fileID)
	if err != nil {
		if errors.Is(err, domain.ErrFileNotFound) {
			return nil, nil, err
		}
		return nil, nil, errors.Wrap(err, "load file")
	}
	rc, err := s.storage.Open(ctx, f.StoredPath)
	if err != nil {
		return nil, nil, errors.Wrap(err, "open stored file")
	}
	if err := s.files.IncrementDownloads(ctx, f.ID); err != nil {
		s.logger.Warn("download counter update failed", zap.Int64(logger.FieldFileID, f.ID), zap.Error(err))
	}
	record(ctx, s.activities, s.logger, listID, actor, domain.ActionFileDownloaded, map[string]any{
		"file_id":   f.ID,
		"file_name": f.OriginalName,
	}, ip)
	return f, rc, nil
}

func (s *fileService) Delete(ctx context.Context, listID, fileID int64, actor *int64, ip string) error {
	f, err := s.files.GetByID(ctx, listID, fileID)
	if err != nil {
		if errors.Is(err, domain.ErrFileNotFound) {
			return err
		}
		return errors.Wrap(err, "load file")
	}
	if err := s.files.Delete(ctx, listID, fileID); err != nil {
		return errors.Wrap(err, "delete file record")
	}
	if err := s.storage.Delete(ctx, f.StoredPath); err != nil {
		s.logger.Warn("stored file delete failed", zap.String(logger.FieldPath, f.StoredPath), zap.Error(err))
	}
	record(ctx, s.activities, s.logger, listID, actor, domain.ActionFileDeleted, map[string]any{
		"file_id":   f.ID,
		"file_name": f.OriginalName,
	}, ip)
	return nil
}

func (s *fileService) List(ctx context.Context, listID int64) ([]*dto.FileDTO, error) {
	files, err := s.files.ListByList(ctx, listID)
	if err != nil {
		return nil, errors.Wrap(err, "list files")
	}
	return fileDTOs(files)
}

// Package storage stores uploaded file bytes behind a narrow interface
// Package storage 通过精简接口存储上传文件的内容
package storage

import (
	"context"
	"errors"
	"io"

	"github.com/haierkeys/uni-task-service/pkg/storage/aws_s3"
	"github.com/haierkeys/uni-task-service/pkg/storage/local_fs"
)

type Type = string

const (
	LOCAL Type = "localfs"
	S3    Type = "s3"
)

// ErrInvalidStorageType returned for an unknown Config.Type
// ErrInvalidStorageType 未知的存储类型
var ErrInvalidStorageType = errors.New("invalid storage type")

// Config unified storage configuration
// Config 统一存储配置
type Config struct {
	Type       Type   `yaml:"type" default:"localfs"`
	CustomPath string `yaml:"custom-path"`

	// Local FS
	SavePath string `yaml:"save-path" default:"storage/uploads"`

	// S3
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	BucketName      string `yaml:"bucket-name"`
	AccessKeyID     string `yaml:"access-key-id"`
	AccessKeySecret string `yaml:"access-key-secret"`
}

// Storager is what the file service needs from a backend
// Storager 文件服务所需的存储后端接口
type Storager interface {
	Put(ctx context.Context, pathKey string, r io.Reader, size int64, contentType string) error
	Open(ctx context.Context, pathKey string) (io.ReadCloser, error)
	Delete(ctx context.Context, pathKey string) error
}

// NewClient creates the backend selected by config.Type
// NewClient 根据 config.Type 创建存储后端
func NewClient(ctx context.Context, config *Config) (Storager, error) {
	if config == nil {
		return nil, ErrInvalidStorageType
	}
	switch config.Type {
	case LOCAL, "":
		return local_fs.NewClient(&local_fs.Config{
			SavePath:   config.SavePath,
			CustomPath: config.CustomPath,
		})
	case S3:
		return aws_s3.NewClient(ctx, &aws_s3.Config{
			Endpoint:        config.Endpoint,
			Region:          config.Region,
			BucketName:      config.BucketName,
			AccessKeyID:     config.AccessKeyID,
			AccessKeySecret: config.AccessKeySecret,
			CustomPath:      config.CustomPath,
		})
	}
	return nil, ErrInvalidStorageType
}

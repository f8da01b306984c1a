package aws_s3

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
)

type Config struct {
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	BucketName      string `yaml:"bucket-name"`
	AccessKeyID     string `yaml:"access-key-id"`
	AccessKeySecret string `yaml:"access-key-secret"`
	CustomPath      string `yaml:"custom-path"`
}

type S3 struct {
	S3Client *s3.Client
	Config   *Config
}

// NewClient 创建 S3 存储实例
// A non empty Endpoint switches to path style addressing for S3 compatible services
// Endpoint 非空时使用 path style 访问兼容 S3 的服务
func NewClient(ctx context.Context, conf *Config) (*S3, error) {
	if conf.BucketName == "" {
		return nil, errors.New("aws_s3: bucket name is required")
	}

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(conf.AccessKeyID, conf.AccessKeySecret, "")),
		config.WithRegion(conf.Region),
	)
	if err != nil {
		return nil, errors.Wrap(err, "aws_s3")
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if conf.Endpoint != "" {
			o.BaseEndpoint = aws.String(conf.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3{S3Client: client, Config: conf}, nil
}

func (p *S3) objectKey(pathKey string) string {
	prefix := strings.Trim(p.Config.CustomPath, "/")
	key := strings.TrimLeft(pathKey, "/")
	if prefix == "" {
		return key
	}
	return prefix + "/" + key
}

package aws_s3

import (
	"context"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
)

// Put 上传文件
func (p *S3) Put(ctx context.Context, pathKey string, r io.Reader, size int64, contentType string) error {
	input := &s3.PutObjectInput{
		Bucket: aws.String(p.Config.BucketName),
		Key:    aws.String(p.objectKey(pathKey)),
		Body:   r,
	}
	if size > 0 {
		input.ContentLength = aws.Int64(size)
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := p.S3Client.PutObject(ctx, input); err != nil {
		return errors.Wrap(err, "aws_s3")
	}
	return nil
}

// Open 读取文件
func (p *S3) Open(ctx context.Context, pathKey string) (io.ReadCloser, error) {
	out, err := p.S3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(p.Config.BucketName),
		Key:    aws.String(p.objectKey(pathKey)),
	})
	if err != nil {
		return nil, errors.Wrap(err, "aws_s3")
	}
	return out.Body, nil
}

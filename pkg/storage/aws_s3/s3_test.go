package aws_s3

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_ObjectKey(t *testing.T) {
	c, err := NewClient(context.Background(), &Config{
		Region:          "ap-southeast-1",
		BucketName:      "uni-task",
		AccessKeyID:     "id",
		AccessKeySecret: "secret",
		CustomPath:      "/tenant-a/",
		Endpoint:        "http://127.0.0.1:9000",
	})
	require.NoError(t, err)
	assert.Equal(t, "tenant-a/collaborative/1/x.pdf", c.objectKey("/collaborative/1/x.pdf"))

	c.Config.CustomPath = ""
	assert.Equal(t, "collaborative/1/x.pdf", c.objectKey("collaborative/1/x.pdf"))
}

func TestNewClient_RequiresBucket(t *testing.T) {
	_, err := NewClient(context.Background(), &Config{Region: "x"})
	assert.Error(t, err)
}

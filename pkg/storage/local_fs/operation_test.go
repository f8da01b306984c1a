package local_fs

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalFS_PutOpenDelete(t *testing.T) {
	ctx := context.Background()
	tempDir := t.TempDir()
	client, err := NewClient(&Config{SavePath: tempDir})
	require.NoError(t, err)

	key := "collaborative/7/abc.txt"
	require.NoError(t, client.Put(ctx, key, strings.NewReader("hello world"), 11, "text/plain"))

	_, err = os.Stat(filepath.Join(tempDir, "collaborative", "7", "abc.txt"))
	require.NoError(t, err)

	rc, err := client.Open(ctx, key)
	require.NoError(t, err)
	data, _ := io.ReadAll(rc)
	_ = rc.Close()
	assert.Equal(t, "hello world", string(data))

	require.NoError(t, client.Delete(ctx, key))
	_, err = client.Open(ctx, key)
	assert.Error(t, err)

	// deleting again is fine
	assert.NoError(t, client.Delete(ctx, key))
}

func TestLocalFS_KeyCannotEscape(t *testing.T) {
	tempDir := t.TempDir()
	client, err := NewClient(&Config{SavePath: filepath.Join(tempDir, "uploads")})
	require.NoError(t, err)

	require.NoError(t, client.Put(context.Background(), "../../etc/x", strings.NewReader("x"), 1, ""))
	_, err = os.Stat(filepath.Join(tempDir, "uploads", "etc", "x"))
	assert.NoError(t, err)
}

func TestNewClient_RequiresSavePath(t *testing.T) {
	_, err := NewClient(&Config{})
	assert.Error(t, err)
}

package local_fs

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

type Config struct {
	SavePath   string `yaml:"save-path" default:"storage/uploads"`
	CustomPath string `yaml:"custom-path"`
}

type LocalFS struct {
	Config *Config
}

func NewClient(cfg *Config) (*LocalFS, error) {
	if cfg == nil || cfg.SavePath == "" {
		return nil, errors.New("local_fs: save path is required")
	}
	return &LocalFS{Config: cfg}, nil
}

// fullPath maps pathKey below the save path, ".." segments cannot climb out of it
func (p *LocalFS) fullPath(pathKey string) string {
	clean := filepath.Clean("/" + filepath.ToSlash(pathKey))
	return filepath.Join(p.Config.SavePath, p.Config.CustomPath, clean)
}

// Put writes r to the save path, the parent directories are created on demand
// Put 将 r 写入保存路径，按需创建父目录
func (p *LocalFS) Put(_ context.Context, pathKey string, r io.Reader, _ int64, _ string) error {
	dst := p.fullPath(pathKey)
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return errors.Wrap(err, "local_fs")
	}
	f, err := os.Create(dst)
	if err != nil {
		return errors.Wrap(err, "local_fs")
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(dst)
		return errors.Wrap(err, "local_fs")
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(err, "local_fs")
	}
	return nil
}

func (p *LocalFS) Open(_ context.Context, pathKey string) (io.ReadCloser, error) {
	f, err := os.Open(p.fullPath(pathKey))
	if err != nil {
		return nil, errors.Wrap(err, "local_fs")
	}
	return f, nil
}

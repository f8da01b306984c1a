package local_fs

import (
	"context"
	"os"
)

// Delete removes pathKey, a missing file is not an error
// Delete 删除文件，文件不存在时不报错
func (p *LocalFS) Delete(_ context.Context, pathKey string) error {
	if err := os.Remove(p.fullPath(pathKey)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

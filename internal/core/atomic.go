package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
)

var tempSeq atomic.Uint64

// WriteFileAtomic writes data to a temporary file next to path and renames it
// over path, so concurrent readers see either the old or the new content.
func WriteFileAtomic(ctx context.Context, fs FileSystem, path string, data []byte, perm FileMode) error {
	tmp := filepath.Join(
		filepath.Dir(path),
		fmt.Sprintf(".%s.%d-%d.tmp", filepath.Base(path), os.Getpid(), tempSeq.Add(1)),
	)

	if err := fs.WriteFile(ctx, tmp, data, perm); err != nil {
		return err
	}
	if err := fs.Rename(ctx, tmp, path); err != nil {
		_ = fs.Remove(context.WithoutCancel(ctx), tmp)
		return err
	}
	return nil
}

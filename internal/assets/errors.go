package assets

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// FilePermissionError indicates insufficient permissions while staging.
type FilePermissionError struct {
	Src string
	Dst string
	Op  string // "read", "mkdir" or "write"
	Err error
}

func (e *FilePermissionError) Error() string {
	return fmt.Sprintf("permission denied: cannot %s asset %q to %q: %v", e.Op, e.Src, e.Dst, e.Err)
}

func (e *FilePermissionError) Unwrap() error {
	return e.Err
}

// DiskFullError indicates no space left on device.
type DiskFullError struct {
	Path string
	Err  error
}

func (e *DiskFullError) Error() string {
	return fmt.Sprintf("no space left on device at %q: %v", e.Path, e.Err)
}

func (e *DiskFullError) Unwrap() error {
	return e.Err
}

// classifyCopyError maps filesystem errors to the typed errors above.
func classifyCopyError(err error, src, dst, op string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, os.ErrPermission) {
		return &FilePermissionError{Src: src, Dst: dst, Op: op, Err: err}
	}

	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("asset not found: %q: %w", src, err)
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "no space left on device") || strings.Contains(msg, "disk full") {
		return &DiskFullError{Path: dst, Err: err}
	}

	return fmt.Errorf("failed to %s asset %q to %q: %w", op, src, dst, err)
}

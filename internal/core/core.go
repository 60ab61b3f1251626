// Package core holds the small set of abstractions shared by every shiplane
// package: the filesystem seam, file permissions and operation timeouts.
package core

import (
	"context"
	"os"
	"time"
)

// FileMode aliases os.FileMode so callers do not need to import os for permissions.
type FileMode = os.FileMode

const (
	// PermOwnerRW is used for manifests and config files written by shiplane.
	PermOwnerRW FileMode = 0o644

	// PermDir is used for directories created while staging assets.
	PermDir FileMode = 0o755
)

const (
	// TimeoutShort bounds quick git calls such as `git rev-parse HEAD`.
	TimeoutShort = 10 * time.Second

	// TimeoutGit bounds history queries.
	TimeoutGit = 60 * time.Second
)

// FileSystem abstracts the file operations used by the manifest store, the
// asset stager and workspace listing.
type FileSystem interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
	WriteFile(ctx context.Context, path string, data []byte, perm FileMode) error
	Stat(ctx context.Context, path string) (os.FileInfo, error)
	MkdirAll(ctx context.Context, path string, perm FileMode) error
	ReadDir(ctx context.Context, path string) ([]os.DirEntry, error)
	Glob(ctx context.Context, pattern string) ([]string, error)
	Rename(ctx context.Context, oldpath, newpath string) error
	Remove(ctx context.Context, path string) error
}

// Marshaler converts a value to bytes. It is the seam used by config saving.
type Marshaler interface {
	Marshal(v any) ([]byte, error)
}

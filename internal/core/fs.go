package core

import (
	"context"
	iofs "io/fs"
	"os"

	"github.com/spf13/afero"
)

// AferoFileSystem implements FileSystem on top of an afero.Fs.
type AferoFileSystem struct {
	fs afero.Fs
}

// Verify AferoFileSystem implements FileSystem.
var _ FileSystem = (*AferoFileSystem)(nil)

// NewOSFileSystem returns a FileSystem backed by the real operating system.
func NewOSFileSystem() *AferoFileSystem {
	return &AferoFileSystem{fs: afero.NewOsFs()}
}

// NewAferoFileSystem wraps an arbitrary afero.Fs.
func NewAferoFileSystem(fs afero.Fs) *AferoFileSystem {
	return &AferoFileSystem{fs: fs}
}

func (a *AferoFileSystem) ReadFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return afero.ReadFile(a.fs, path)
}

func (a *AferoFileSystem) WriteFile(ctx context.Context, path string, data []byte, perm FileMode) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return afero.WriteFile(a.fs, path, data, perm)
}

func (a *AferoFileSystem) Stat(ctx context.Context, path string) (os.FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return a.fs.Stat(path)
}

func (a *AferoFileSystem) MkdirAll(ctx context.Context, path string, perm FileMode) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return a.fs.MkdirAll(path, perm)
}

// ReadDir returns the entries of path sorted by name.
func (a *AferoFileSystem) ReadDir(ctx context.Context, path string) ([]os.DirEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	infos, err := afero.ReadDir(a.fs, path)
	if err != nil {
		return nil, err
	}
	entries := make([]os.DirEntry, len(infos))
	for i, info := range infos {
		entries[i] = iofs.FileInfoToDirEntry(info)
	}
	return entries, nil
}

func (a *AferoFileSystem) Glob(ctx context.Context, pattern string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return afero.Glob(a.fs, pattern)
}

func (a *AferoFileSystem) Rename(ctx context.Context, oldpath, newpath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return a.fs.Rename(oldpath, newpath)
}

func (a *AferoFileSystem) Remove(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return a.fs.Remove(path)
}

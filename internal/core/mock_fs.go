package core

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// MockFileSystem is an in-memory FileSystem with injectable failures, used by tests.
// Error fields are read on every call; set them before the code under test runs.
type MockFileSystem struct {
	*AferoFileSystem

	ReadErr    error
	WriteErr   error
	StatErr    error
	MkdirErr   error
	ReadDirErr error
	RenameErr  error
}

// Verify MockFileSystem implements FileSystem.
var _ FileSystem = (*MockFileSystem)(nil)

// NewMockFileSystem creates an empty in-memory filesystem.
func NewMockFileSystem() *MockFileSystem {
	return &MockFileSystem{AferoFileSystem: NewAferoFileSystem(afero.NewMemMapFs())}
}

// SetFile writes content at path, creating parent directories.
func (m *MockFileSystem) SetFile(path string, content []byte) {
	_ = m.fs.MkdirAll(filepath.Dir(path), PermDir)
	_ = afero.WriteFile(m.fs, path, content, PermOwnerRW)
}

// GetFile returns the content stored at path and whether it exists.
func (m *MockFileSystem) GetFile(path string) ([]byte, bool) {
	data, err := afero.ReadFile(m.fs, path)
	if err != nil {
		return nil, false
	}
	return data, true
}

func (m *MockFileSystem) ReadFile(ctx context.Context, path string) ([]byte, error) {
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}
	return m.AferoFileSystem.ReadFile(ctx, path)
}

func (m *MockFileSystem) WriteFile(ctx context.Context, path string, data []byte, perm FileMode) error {
	if m.WriteErr != nil {
		return m.WriteErr
	}
	return m.AferoFileSystem.WriteFile(ctx, path, data, perm)
}

func (m *MockFileSystem) Stat(ctx context.Context, path string) (os.FileInfo, error) {
	if m.StatErr != nil {
		return nil, m.StatErr
	}
	return m.AferoFileSystem.Stat(ctx, path)
}

func (m *MockFileSystem) MkdirAll(ctx context.Context, path string, perm FileMode) error {
	if m.MkdirErr != nil {
		return m.MkdirErr
	}
	return m.AferoFileSystem.MkdirAll(ctx, path, perm)
}

func (m *MockFileSystem) ReadDir(ctx context.Context, path string) ([]os.DirEntry, error) {
	if m.ReadDirErr != nil {
		return nil, m.ReadDirErr
	}
	return m.AferoFileSystem.ReadDir(ctx, path)
}

func (m *MockFileSystem) Rename(ctx context.Context, oldpath, newpath string) error {
	if m.RenameErr != nil {
		return m.RenameErr
	}
	return m.AferoFileSystem.Rename(ctx, oldpath, newpath)
}

package manifest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/indaco/shiplane/internal/core"
	"github.com/tidwall/sjson"
)

// Store reads and writes package manifests.
type Store interface {
	Load(ctx context.Context, dir string) (*Descriptor, error)
	Save(ctx context.Context, desc *Descriptor) error
}

// FileStore is the package.json backed Store.
type FileStore struct {
	fs core.FileSystem
}

// Verify FileStore implements Store.
var _ Store = (*FileStore)(nil)

// NewFileStore creates a FileStore over fs.
func NewFileStore(fs core.FileSystem) *FileStore {
	return &FileStore{fs: fs}
}

// Load reads the manifest in dir.
func (s *FileStore) Load(ctx context.Context, dir string) (*Descriptor, error) {
	path := joinPath(dir, FileName)

	data, err := s.fs.ReadFile(ctx, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &NotFoundError{Path: path, Err: err}
		}
		return nil, fmt.Errorf("failed to read manifest %q: %w", path, err)
	}

	var desc Descriptor
	if err := json.Unmarshal(data, &desc); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	desc.Dir = dir

	return &desc, nil
}

// Save writes desc.Version and the reserved extension object back to the
// manifest. Every other field is left untouched.
func (s *FileStore) Save(ctx context.Context, desc *Descriptor) error {
	path := desc.Path()

	data, err := s.fs.ReadFile(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to read manifest %q: %w", path, err)
	}

	updated, err := applyDescriptor(data, desc)
	if err != nil {
		return fmt.Errorf("failed to update manifest %q: %w", path, err)
	}

	if err := core.WriteFileAtomic(ctx, s.fs, path, updated, core.PermOwnerRW); err != nil {
		return fmt.Errorf("failed to write manifest %q: %w", path, err)
	}
	return nil
}

// applyDescriptor patches raw manifest bytes with the mutable fields of desc.
func applyDescriptor(data []byte, desc *Descriptor) ([]byte, error) {
	updated, err := sjson.SetBytes(data, "version", desc.Version)
	if err != nil {
		return nil, err
	}

	updated, err = sjson.SetBytes(updated, ExtensionKey+".schema", SchemaVersion)
	if err != nil {
		return nil, err
	}

	updated, err = sjson.SetBytes(updated, ExtensionKey+".reference_commit", desc.Extension.ReferenceCommit)
	if err != nil {
		return nil, err
	}

	if len(desc.Extension.Assets) > 0 {
		updated, err = sjson.SetBytes(updated, ExtensionKey+".assets", desc.Extension.Assets)
		if err != nil {
			return nil, err
		}
	}

	if len(updated) > 0 && updated[len(updated)-1] != '\n' {
		updated = append(updated, '\n')
	}
	return updated, nil
}

func joinPath(dir, name string) string {
	if dir == "" {
		return name
	}
	return filepath.Join(dir, name)
}

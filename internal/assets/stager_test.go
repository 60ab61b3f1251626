package assets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"testing"

	"github.com/indaco/shiplane/internal/core"
	"github.com/indaco/shiplane/internal/manifest"
)

func newPackage(fs *core.MockFileSystem, assets ...string) *manifest.Descriptor {
	fs.SetFile("/ws/lib/package.json", []byte(`{"name":"lib","version":"1.0.0"}`))
	return &manifest.Descriptor{
		Name:      "lib",
		Version:   "1.0.0",
		Dir:       "/ws/lib",
		Extension: manifest.Extension{Assets: assets},
	}
}

func TestStage_CopiesAssetsAndManifest(t *testing.T) {
	fs := core.NewMockFileSystem()
	desc := newPackage(fs, "README.md", "docs/*.md")
	fs.SetFile("/ws/lib/README.md", []byte("# lib"))
	fs.SetFile("/ws/lib/docs/guide.md", []byte("guide"))
	fs.SetFile("/ws/lib/docs/api.md", []byte("api"))
	fs.SetFile("/ws/lib/docs/logo.png", []byte("png"))

	staged, err := NewStager(fs).Stage(context.Background(), desc, "/ws/lib/dist")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"README.md", "docs/api.md", "docs/guide.md", "package.json"}
	if !slices.Equal(staged, want) {
		t.Errorf("staged = %v, want %v", staged, want)
	}
	for _, rel := range want {
		if _, ok := fs.GetFile("/ws/lib/dist/" + rel); !ok {
			t.Errorf("expected %s in output dir", rel)
		}
	}
	if _, ok := fs.GetFile("/ws/lib/dist/docs/logo.png"); ok {
		t.Error("unmatched file should not be staged")
	}
}

func TestStage_ManifestListedOnce(t *testing.T) {
	fs := core.NewMockFileSystem()
	desc := newPackage(fs, "package.json")

	staged, err := NewStager(fs).Stage(context.Background(), desc, "/out")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(staged) != 1 {
		t.Errorf("staged = %v", staged)
	}
}

func TestStage_SkipsIgnoredNames(t *testing.T) {
	fs := core.NewMockFileSystem()
	desc := newPackage(fs, "*/*.js")
	fs.SetFile("/ws/lib/node_modules/dep.js", []byte("x"))
	fs.SetFile("/ws/lib/bin/cli.js", []byte("x"))

	staged, err := NewStager(fs).Stage(context.Background(), desc, "/out")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if slices.Contains(staged, "node_modules/dep.js") {
		t.Error("node_modules should be skipped")
	}
	if !slices.Contains(staged, "bin/cli.js") {
		t.Errorf("expected bin/cli.js, got %v", staged)
	}
}

func TestStage_Errors(t *testing.T) {
	tests := []struct {
		name   string
		assets []string
		setup  func(fs *core.MockFileSystem)
		check  func(t *testing.T, err error)
	}{
		{
			name:   "missing literal asset",
			assets: []string{"LICENSE"},
			check: func(t *testing.T, err error) {
				if !errors.Is(err, os.ErrNotExist) {
					t.Errorf("expected not-exist error, got %v", err)
				}
			},
		},
		{
			name:   "asset escapes package",
			assets: []string{"../secrets.txt"},
			check: func(t *testing.T, err error) {
				if err == nil || !strings.Contains(err.Error(), "inside the package") {
					t.Errorf("unexpected error: %v", err)
				}
			},
		},
		{
			name: "permission denied on write",
			setup: func(fs *core.MockFileSystem) {
				fs.WriteErr = fmt.Errorf("open: %w", os.ErrPermission)
			},
			check: func(t *testing.T, err error) {
				var permErr *FilePermissionError
				if !errors.As(err, &permErr) {
					t.Fatalf("expected FilePermissionError, got %v", err)
				}
				if permErr.Op != "write" {
					t.Errorf("Op = %q", permErr.Op)
				}
			},
		},
		{
			name: "disk full",
			setup: func(fs *core.MockFileSystem) {
				fs.WriteErr = errors.New("write /out/package.json: no space left on device")
			},
			check: func(t *testing.T, err error) {
				var diskErr *DiskFullError
				if !errors.As(err, &diskErr) {
					t.Fatalf("expected DiskFullError, got %v", err)
				}
			},
		},
		{
			name: "mkdir failure",
			setup: func(fs *core.MockFileSystem) {
				fs.MkdirErr = errors.New("read-only file system")
			},
			check: func(t *testing.T, err error) {
				if err == nil || !strings.Contains(err.Error(), "failed to mkdir") {
					t.Errorf("unexpected error: %v", err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := core.NewMockFileSystem()
			desc := newPackage(fs, tt.assets...)
			if tt.setup != nil {
				tt.setup(fs)
			}

			_, err := NewStager(fs).Stage(context.Background(), desc, "/out")
			tt.check(t, err)
		})
	}
}

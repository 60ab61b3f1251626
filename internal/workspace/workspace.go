// Package workspace lists the sibling packages under a monorepo root.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/indaco/shiplane/internal/core"
	"github.com/indaco/shiplane/internal/manifest"
)

// skipDirs are never treated as packages.
var skipDirs = []string{"node_modules", "vendor", ".git", "dist", "build", "coverage", "tmp"}

// Lister finds package directories.
type Lister struct {
	fs       core.FileSystem
	excludes []string
}

// NewLister creates a Lister. excludes are filepath.Match patterns tested
// against directory names.
func NewLister(fs core.FileSystem, excludes []string) *Lister {
	return &Lister{fs: fs, excludes: excludes}
}

// Siblings returns the directories directly below root that contain a
// manifest, in lexical order.
func (l *Lister) Siblings(ctx context.Context, root string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := l.fs.ReadDir(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("failed to list packages in %s: %w", root, err)
	}

	var dirs []string
	for _, entry := range entries {
		if !entry.IsDir() || l.shouldExclude(entry.Name()) {
			continue
		}

		dir := filepath.Join(root, entry.Name())
		_, err := l.fs.Stat(ctx, filepath.Join(dir, manifest.FileName))
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("failed to inspect %s: %w", dir, err)
		}
		dirs = append(dirs, dir)
	}

	slices.Sort(dirs)
	return dirs, nil
}

func (l *Lister) shouldExclude(name string) bool {
	if strings.HasPrefix(name, ".") || slices.Contains(skipDirs, name) {
		return true
	}
	for _, pattern := range l.excludes {
		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
	}
	return false
}

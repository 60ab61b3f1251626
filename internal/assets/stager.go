// Package assets copies a package's declared assets and its manifest into the
// build output directory before publishing.
package assets

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/indaco/shiplane/internal/core"
	"github.com/indaco/shiplane/internal/manifest"
)

// skipNames are never staged, even when matched by a glob.
var skipNames = map[string]struct{}{
	".git":         {},
	".DS_Store":    {},
	"node_modules": {},
}

// Stager copies assets into an output directory.
type Stager struct {
	fs core.FileSystem
}

// NewStager creates a Stager over fs.
func NewStager(fs core.FileSystem) *Stager {
	return &Stager{fs: fs}
}

// Stage copies every asset of desc plus its manifest from desc.Dir into
// outDir, keeping relative paths. Asset entries may be glob patterns; a
// literal entry that does not exist is an error. It returns the staged paths
// relative to outDir.
func (s *Stager) Stage(ctx context.Context, desc *manifest.Descriptor, outDir string) ([]string, error) {
	files, err := s.expand(ctx, desc.Dir, desc.Extension.Assets)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(files, manifest.FileName) {
		files = append(files, manifest.FileName)
	}

	for _, rel := range files {
		src := filepath.Join(desc.Dir, rel)
		dst := filepath.Join(outDir, rel)
		if err := s.copyFile(ctx, src, dst); err != nil {
			return nil, err
		}
	}
	return files, nil
}

// expand resolves asset entries to sorted, de-duplicated relative file paths.
func (s *Stager) expand(ctx context.Context, dir string, entries []string) ([]string, error) {
	seen := map[string]struct{}{}
	var files []string

	add := func(rel string) {
		if _, ok := seen[rel]; ok {
			return
		}
		seen[rel] = struct{}{}
		files = append(files, rel)
	}

	for _, entry := range entries {
		entry = filepath.Clean(entry)
		if filepath.IsAbs(entry) || entry == ".." || strings.HasPrefix(entry, ".."+string(filepath.Separator)) {
			return nil, fmt.Errorf("asset %q must stay inside the package directory", entry)
		}

		if !isGlob(entry) {
			add(entry)
			continue
		}

		matches, err := s.fs.Glob(ctx, filepath.Join(dir, entry))
		if err != nil {
			return nil, fmt.Errorf("invalid asset pattern %q: %w", entry, err)
		}
		for _, match := range matches {
			info, err := s.fs.Stat(ctx, match)
			if err != nil || info.IsDir() || shouldSkip(match) {
				continue
			}
			rel, err := filepath.Rel(dir, match)
			if err != nil {
				return nil, fmt.Errorf("failed to compute relative path of %q: %w", match, err)
			}
			add(rel)
		}
	}

	slices.Sort(files)
	return files, nil
}

func (s *Stager) copyFile(ctx context.Context, src, dst string) error {
	data, err := s.fs.ReadFile(ctx, src)
	if err != nil {
		return classifyCopyError(err, src, dst, "read")
	}
	if err := s.fs.MkdirAll(ctx, filepath.Dir(dst), core.PermDir); err != nil {
		return classifyCopyError(err, src, dst, "mkdir")
	}
	if err := s.fs.WriteFile(ctx, dst, data, core.PermOwnerRW); err != nil {
		return classifyCopyError(err, src, dst, "write")
	}
	return nil
}

func isGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[")
}

func shouldSkip(path string) bool {
	for part := range strings.SplitSeq(filepath.ToSlash(path), "/") {
		if _, skip := skipNames[part]; skip {
			return true
		}
	}
	return false
}

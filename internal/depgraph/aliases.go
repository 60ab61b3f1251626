package depgraph

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
	"github.com/tidwall/gjson"
)

// AliasMap resolves a dependency name to the directory of a local package.
type AliasMap map[string]string

// tsconfigFiles are searched in order at the workspace root.
var tsconfigFiles = []string{"tsconfig.base.json", "tsconfig.json"}

// LoadAliases builds the alias map for root. Configured aliases win; when none
// are configured the path mappings of the root tsconfig are used. A nil map is
// returned when neither source exists.
func LoadAliases(ctx context.Context, fs core.FileSystem, root string, configured map[string]string) (AliasMap, error) {
	if len(configured) > 0 {
		aliases := make(AliasMap, len(configured))
		for name, path := range configured {
			if !filepath.IsAbs(path) {
				path = filepath.Join(root, path)
			}
			aliases[name] = filepath.Clean(path)
		}
		return aliases, nil
	}

	for _, name := range tsconfigFiles {
		path := filepath.Join(root, name)
		data, err := fs.ReadFile(ctx, path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		return aliasesFromTSConfig(ctx, fs, root, data)
	}

	return nil, nil
}

// aliasesFromTSConfig reads compilerOptions.paths. Each alias target is walked
// up to the nearest directory holding a manifest, stopping at root.
func aliasesFromTSConfig(ctx context.Context, fs core.FileSystem, root string, data []byte) (AliasMap, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid tsconfig JSON in %s", root)
	}

	opts := gjson.GetBytes(data, "compilerOptions")
	paths := opts.Get("paths")
	if !paths.Exists() {
		return nil, nil
	}

	base := root
	if baseURL := opts.Get("baseUrl").String(); baseURL != "" {
		base = filepath.Join(root, baseURL)
	}

	aliases := AliasMap{}
	var walkErr error
	paths.ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		if strings.Contains(name, "*") {
			return true
		}
		targets := value.Array()
		if len(targets) == 0 {
			return true
		}

		target := filepath.Join(base, strings.TrimSuffix(targets[0].String(), "/*"))
		dir, err := nearestPackageDir(ctx, fs, root, target)
		if err != nil {
			walkErr = err
			return false
		}
		if dir != "" {
			aliases[name] = dir
		}
		return true
	})
	if walkErr != nil {
		return nil, walkErr
	}

	return aliases, nil
}

// nearestPackageDir returns the closest directory at or above path that has a
// manifest, without leaving root. Empty means none was found.
func nearestPackageDir(ctx context.Context, fs core.FileSystem, root, path string) (string, error) {
	root = filepath.Clean(root)
	dir := filepath.Clean(path)
	if info, err := fs.Stat(ctx, dir); err != nil || !info.IsDir() {
		dir = filepath.Dir(dir)
	}

	for {
		_, err := fs.Stat(ctx, filepath.Join(dir, manifest.FileName))
		if err == nil {
			return dir, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("failed to stat manifest in %s: %w", dir, err)
		}

		if dir == root || !isWithin(root, dir) {
			return "", nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

func isWithin(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// Names returns the alias names in sorted order.
func (m AliasMap) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

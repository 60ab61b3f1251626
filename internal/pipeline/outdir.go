package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/indaco/shiplane/internal/config"
	"github.com/indaco/shiplane/internal/core"
	"github.com/tidwall/gjson"
)

// tsconfigFiles are read in order for compilerOptions.outDir.
var tsconfigFiles = []string{"tsconfig.json", "tsconfig.lib.json"}

// assetStagingMarkers are files of build tools that stage assets themselves.
var assetStagingMarkers = []string{"ng-package.json"}

// ResolveOutputDir returns the build output directory of the package in dir.
// A configured value wins; otherwise the first tsconfig outDir found, else
// config.DefaultOutputDir.
func ResolveOutputDir(ctx context.Context, fs core.FileSystem, dir, configured string) (string, error) {
	if configured != "" {
		if filepath.IsAbs(configured) {
			return configured, nil
		}
		return filepath.Join(dir, configured), nil
	}

	for _, name := range tsconfigFiles {
		path := filepath.Join(dir, name)
		data, err := fs.ReadFile(ctx, path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return "", fmt.Errorf("failed to read %s: %w", path, err)
		}

		outDir := gjson.GetBytes(data, "compilerOptions.outDir").String()
		if outDir != "" {
			return filepath.Join(dir, outDir), nil
		}
	}

	return filepath.Join(dir, config.DefaultOutputDir), nil
}

// stagesAssetsItself reports whether the package's build tool copies assets
// into the output directory on its own.
func stagesAssetsItself(ctx context.Context, fs core.FileSystem, dir string) bool {
	for _, marker := range assetStagingMarkers {
		if _, err := fs.Stat(ctx, filepath.Join(dir, marker)); err == nil {
			return true
		}
	}
	return false
}

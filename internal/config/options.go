package config

import (
	"os"

	"github.com/indaco/shiplane/internal/mirror"
)

// Options is the merged, read-only configuration of one run. It is built
// once by the CLI and passed by value; its maps and slices must not be
// modified.
type Options struct {
	// Target is the package directory, or the monorepo folder when All is set.
	Target string
	All    bool

	Tag string

	// OutputDir is relative to each package. Empty means resolve from
	// tsconfig, then DefaultOutputDir.
	OutputDir string

	Build          bool
	BuildCommand   string
	StagesAssets   bool
	Publish        bool
	PublishCommand string

	// ForceContinue passes the commit gate without prompting.
	ForceContinue bool
	DryRun        bool

	Aliases map[string]string
	Sync    []mirror.Target
	Exclude []string

	// BaseDir is the directory relative alias paths are resolved against.
	BaseDir string
}

// Options converts the file configuration into run options, applying
// SHIPLANE_TAG and defaults. Flags are applied by the caller afterwards.
func (c *Config) Options() Options {
	opts := Options{
		Target:    c.Root,
		Tag:       c.Tag,
		OutputDir: c.OutputDir,
		Build:     true,
		Publish:   true,
		Aliases:   c.Aliases,
		Sync:      c.Sync,
		Exclude:   c.Exclude,
	}

	if c.Build != nil {
		if c.Build.Enabled != nil {
			opts.Build = *c.Build.Enabled
		}
		opts.BuildCommand = c.Build.Command
		opts.StagesAssets = c.Build.StagesAssets
	}
	if c.Publish != nil {
		if c.Publish.Enabled != nil {
			opts.Publish = *c.Publish.Enabled
		}
		opts.PublishCommand = c.Publish.Command
	}

	if tag := os.Getenv(EnvTag); tag != "" {
		opts.Tag = tag
	}
	if opts.Tag == "" {
		opts.Tag = DefaultTag
	}

	return opts
}

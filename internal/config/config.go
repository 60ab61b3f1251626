// Package config loads .shiplane.yaml and merges it with environment
// overrides into the Options value handed to the release engine.
package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/indaco/shiplane/internal/core"
	"github.com/indaco/shiplane/internal/mirror"
)

// DefaultConfigFile is looked up in the working directory.
const DefaultConfigFile = ".shiplane.yaml"

// Environment variables read by Load and Config.Options.
const (
	EnvConfigPath = "SHIPLANE_CONFIG"
	EnvTag        = "SHIPLANE_TAG"
)

// Defaults applied when neither the file nor flags set a value.
const (
	DefaultTag       = "latest"
	DefaultOutputDir = "dist"
)

// ConfigFilePerm is the permission used when writing .shiplane.yaml.
const ConfigFilePerm = core.PermOwnerRW

// BuildConfig configures the external build step.
type BuildConfig struct {
	Enabled *bool  `yaml:"enabled,omitempty"`
	Command string `yaml:"command,omitempty"`

	// StagesAssets marks a build tool that already copies assets into the
	// output directory.
	StagesAssets bool `yaml:"stages_assets,omitempty"`
}

// PublishConfig configures the external publish step.
type PublishConfig struct {
	Enabled *bool  `yaml:"enabled,omitempty"`
	Command string `yaml:"command,omitempty"`
}

// LogConfig holds logger defaults; flags take precedence.
type LogConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// Config is the on-disk configuration.
type Config struct {
	// Root is the folder holding sibling packages in monorepo mode.
	Root string `yaml:"root,omitempty"`

	Tag       string         `yaml:"tag,omitempty"`
	OutputDir string         `yaml:"output_dir,omitempty"`
	Build     *BuildConfig   `yaml:"build,omitempty"`
	Publish   *PublishConfig `yaml:"publish,omitempty"`

	// Aliases maps a package name to its directory, relative to the config file.
	Aliases map[string]string `yaml:"aliases,omitempty"`

	// Sync lists files that mirror the released version.
	Sync []mirror.Target `yaml:"sync,omitempty"`

	// Exclude holds directory name patterns skipped when listing siblings.
	Exclude []string `yaml:"exclude,omitempty"`

	Log *LogConfig `yaml:"log,omitempty"`

	// Theme styles the interactive continue prompt (see tui.ThemeNames).
	Theme string `yaml:"theme,omitempty"`
}

// LoadConfigFn is swapped in tests.
var LoadConfigFn = Load

// Load reads the configuration. SHIPLANE_CONFIG wins over path; an empty path
// means DefaultConfigFile. A missing file yields an empty Config.
func Load(path string) (*Config, error) {
	if envPath := os.Getenv(EnvConfigPath); envPath != "" {
		cleanPath := filepath.Clean(envPath)
		if strings.Contains(cleanPath, "..") {
			return nil, fmt.Errorf("invalid %s: path traversal not allowed, use absolute path instead", EnvConfigPath)
		}
		path = cleanPath
	}
	if path == "" {
		path = DefaultConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read config %q: %w", path, err)
	}

	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data), yaml.Strict())
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %q: %w", path, err)
	}

	return &cfg, nil
}

// yamlMarshaler is the production core.Marshaler.
type yamlMarshaler struct{}

func (m *yamlMarshaler) Marshal(v any) ([]byte, error) {
	return yaml.Marshal(v)
}

// ConfigSaver writes configuration files.
type ConfigSaver struct {
	fs        core.FileSystem
	marshaler core.Marshaler
}

// NewConfigSaver creates a ConfigSaver. A nil marshaler means YAML.
func NewConfigSaver(fs core.FileSystem, marshaler core.Marshaler) *ConfigSaver {
	if marshaler == nil {
		marshaler = &yamlMarshaler{}
	}
	return &ConfigSaver{fs: fs, marshaler: marshaler}
}

// SaveTo writes cfg to path.
func (s *ConfigSaver) SaveTo(ctx context.Context, cfg *Config, path string) error {
	data, err := s.marshaler.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config to %q: %w", path, err)
	}

	if err := core.WriteFileAtomic(ctx, s.fs, path, data, ConfigFilePerm); err != nil {
		return fmt.Errorf("failed to write config to %q: %w", path, err)
	}
	return nil
}

// Default returns the configuration written by `shiplane init`.
func Default() *Config {
	enabled := true
	return &Config{
		Tag:       DefaultTag,
		OutputDir: DefaultOutputDir,
		Build:     &BuildConfig{Enabled: &enabled, Command: "npm run build"},
		Publish:   &PublishConfig{Enabled: &enabled, Command: "npm publish --tag {tag}"},
	}
}

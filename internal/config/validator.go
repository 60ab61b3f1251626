package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/indaco/shiplane/internal/core"
	"github.com/indaco/shiplane/internal/invoker"
	"github.com/indaco/shiplane/internal/logging"
	"github.com/indaco/shiplane/internal/mirror"
	"github.com/indaco/shiplane/internal/tui"
)

// ValidationResult represents the result of a validation check.
type ValidationResult struct {
	// Category is the validation category (e.g., "Build", "Sync").
	Category string

	// Passed indicates if the check passed.
	Passed bool

	// Message provides details about the validation result.
	Message string

	// Warning indicates if this is a warning rather than an error.
	Warning bool
}

// Validator validates configuration files and settings.
type Validator struct {
	fs          core.FileSystem
	cfg         *Config
	rootDir     string
	validations []ValidationResult
}

// NewValidator creates a new configuration validator.
// The rootDir parameter is the directory where .shiplane.yaml is located.
func NewValidator(fs core.FileSystem, cfg *Config, rootDir string) *Validator {
	return &Validator{
		fs:          fs,
		cfg:         cfg,
		rootDir:     rootDir,
		validations: make([]ValidationResult, 0),
	}
}

// Validate runs all validation checks and returns the results.
func (v *Validator) Validate(ctx context.Context) ([]ValidationResult, error) {
	v.validations = make([]ValidationResult, 0)
	if v.cfg == nil {
		v.addValidation("Config", true, "No configuration found, using defaults", false)
		return v.validations, nil
	}

	v.validateCommands()
	v.validatePaths()
	v.validateAliases(ctx)
	v.validateSync()
	v.validateAppearance()

	return v.validations, nil
}

func (v *Validator) validateCommands() {
	if b := v.cfg.Build; b != nil && b.Command != "" && strings.TrimSpace(b.Command) == "" {
		v.addValidation("Build", false, "build.command is blank", false)
	}

	p := v.cfg.Publish
	if p == nil || p.Command == "" {
		return
	}
	if strings.TrimSpace(p.Command) == "" {
		v.addValidation("Publish", false, "publish.command is blank", false)
		return
	}
	if !strings.Contains(p.Command, invoker.TagPlaceholder) {
		v.addValidation("Publish", true,
			fmt.Sprintf("publish.command does not use %s, the distribution tag is ignored", invoker.TagPlaceholder), true)
	}
}

func (v *Validator) validatePaths() {
	if v.cfg.OutputDir != "" && filepath.IsAbs(v.cfg.OutputDir) {
		v.addValidation("Output", false, fmt.Sprintf("output_dir %q must be relative to the package", v.cfg.OutputDir), false)
	}
	for _, pattern := range v.cfg.Exclude {
		if _, err := filepath.Match(pattern, ""); err != nil {
			v.addValidation("Workspace", false, fmt.Sprintf("invalid exclude pattern %q: %v", pattern, err), false)
		}
	}
}

func (v *Validator) validateAliases(ctx context.Context) {
	for name, path := range v.cfg.Aliases {
		if filepath.IsAbs(path) {
			v.addValidation("Aliases", false, fmt.Sprintf("alias %q: path %q must be relative", name, path), false)
			continue
		}
		if _, err := v.fs.Stat(ctx, filepath.Join(v.rootDir, path)); err != nil {
			if os.IsNotExist(err) {
				v.addValidation("Aliases", true, fmt.Sprintf("alias %q: directory %q does not exist", name, path), true)
				continue
			}
			v.addValidation("Aliases", false, fmt.Sprintf("alias %q: %v", name, err), false)
		}
	}
}

func (v *Validator) validateSync() {
	for i, target := range v.cfg.Sync {
		label := fmt.Sprintf("sync[%d] %s", i, target.Path)
		switch {
		case target.Path == "":
			v.addValidation("Sync", false, fmt.Sprintf("sync[%d]: path is required", i), false)
		case !target.Format.IsValid():
			v.addValidation("Sync", false, fmt.Sprintf("%s: unknown format %q", label, target.Format), false)
		case target.Format == mirror.FormatRegex:
			v.validatePattern(label, target.Pattern)
		case target.Format != mirror.FormatRaw && target.Field == "":
			v.addValidation("Sync", false, fmt.Sprintf("%s: field is required for %s files", label, target.Format), false)
		}
	}
}

func (v *Validator) validatePattern(label, pattern string) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		v.addValidation("Sync", false, fmt.Sprintf("%s: invalid pattern: %v", label, err), false)
		return
	}
	if re.NumSubexp() < 1 {
		v.addValidation("Sync", false, fmt.Sprintf("%s: pattern needs a capturing group", label), false)
	}
}

func (v *Validator) validateAppearance() {
	if v.cfg.Theme != "" && !tui.IsValidTheme(v.cfg.Theme) {
		v.addValidation("Theme", true, fmt.Sprintf("unknown theme %q, using %s (%s)", v.cfg.Theme, tui.DefaultTheme, tui.ThemeHelp()), true)
	}
	if v.cfg.Log == nil {
		return
	}
	switch v.cfg.Log.Format {
	case "", logging.FormatConsole, logging.FormatJSON:
	default:
		v.addValidation("Logging", false, fmt.Sprintf("unknown log format %q", v.cfg.Log.Format), false)
	}
	switch v.cfg.Log.Level {
	case "", logging.LevelDebug, logging.LevelInfo, logging.LevelWarn, logging.LevelError, logging.LevelNone:
	default:
		v.addValidation("Logging", false, fmt.Sprintf("unknown log level %q", v.cfg.Log.Level), false)
	}
}

// addValidation adds a validation result to the list.
func (v *Validator) addValidation(category string, passed bool, message string, warning bool) {
	v.validations = append(v.validations, ValidationResult{
		Category: category,
		Passed:   passed,
		Message:  message,
		Warning:  warning,
	})
}

// HasErrors returns true if any validation failed.
func HasErrors(results []ValidationResult) bool {
	return ErrorCount(results) > 0
}

// ErrorCount returns the number of failed validations.
func ErrorCount(results []ValidationResult) int {
	count := 0
	for _, r := range results {
		if !r.Passed && !r.Warning {
			count++
		}
	}
	return count
}

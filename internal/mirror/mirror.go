// Package mirror copies a released version into secondary files of a package
// (Chart.yaml, Cargo.toml, a plain VERSION file...) so they never drift from
// the manifest.
package mirror

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/indaco/shiplane/internal/core"
	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Format identifies how a mirror file stores its version.
type Format string

const (
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatTOML  Format = "toml"
	FormatRaw   Format = "raw"
	FormatRegex Format = "regex"
)

// IsValid returns true if the format is known.
func (f Format) IsValid() bool {
	switch f {
	case FormatJSON, FormatYAML, FormatTOML, FormatRaw, FormatRegex:
		return true
	default:
		return false
	}
}

// Target describes one mirror file.
type Target struct {
	// Path is relative to the package directory unless absolute.
	Path string `yaml:"path"`

	Format Format `yaml:"format"`

	// Field is a dot path for structured formats, e.g. "package.version".
	Field string `yaml:"field,omitempty"`

	// Pattern must contain one capturing group around the version (regex format).
	Pattern string `yaml:"pattern,omitempty"`
}

// Resolve returns t with Path joined to dir when relative.
func (t Target) Resolve(dir string) Target {
	if !filepath.IsAbs(t.Path) {
		t.Path = filepath.Join(dir, t.Path)
	}
	return t
}

// Writer updates mirror files.
type Writer struct {
	fs core.FileSystem
}

// NewWriter creates a Writer over fs.
func NewWriter(fs core.FileSystem) *Writer {
	return &Writer{fs: fs}
}

// Write stores version into the target file.
func (w *Writer) Write(ctx context.Context, t Target, version string) error {
	if t.Path == "" {
		return fmt.Errorf("mirror path is required")
	}
	if !t.Format.IsValid() {
		return fmt.Errorf("invalid mirror format %q for %s", t.Format, t.Path)
	}

	if t.Format == FormatRaw {
		return w.save(ctx, t.Path, []byte(strings.TrimSpace(version)+"\n"))
	}

	data, err := w.fs.ReadFile(ctx, t.Path)
	if err != nil {
		return fmt.Errorf("failed to read file %q: %w", t.Path, err)
	}

	var updated []byte
	switch t.Format {
	case FormatJSON:
		updated, err = setJSON(data, t.Field, version)
	case FormatYAML:
		updated, err = setStructured(data, t.Field, version, yamlUnmarshal, yaml.Marshal)
	case FormatTOML:
		updated, err = setStructured(data, t.Field, version, toml.Unmarshal, toml.Marshal)
	case FormatRegex:
		updated, err = setRegex(data, t.Pattern, version)
	}
	if err != nil {
		return fmt.Errorf("in file %q: %w", t.Path, err)
	}

	return w.save(ctx, t.Path, updated)
}

// Read returns the version currently stored in the target file.
func (w *Writer) Read(ctx context.Context, t Target) (string, error) {
	data, err := w.fs.ReadFile(ctx, t.Path)
	if err != nil {
		return "", fmt.Errorf("failed to read file %q: %w", t.Path, err)
	}

	switch t.Format {
	case FormatRaw:
		return strings.TrimSpace(string(data)), nil
	case FormatJSON:
		if t.Field == "" {
			return "", fmt.Errorf("field is required for json format")
		}
		res := gjson.GetBytes(data, t.Field)
		if !res.Exists() {
			return "", fmt.Errorf("field %q not found in %q", t.Field, t.Path)
		}
		return res.String(), nil
	case FormatYAML, FormatTOML:
		unmarshal := yamlUnmarshal
		if t.Format == FormatTOML {
			unmarshal = toml.Unmarshal
		}
		var obj map[string]any
		if err := unmarshal(data, &obj); err != nil {
			return "", fmt.Errorf("failed to parse %s in %q: %w", t.Format, t.Path, err)
		}
		value, err := lookup(obj, t.Field)
		if err != nil {
			return "", fmt.Errorf("in file %q: %w", t.Path, err)
		}
		return fmt.Sprint(value), nil
	case FormatRegex:
		re, err := regexp.Compile(t.Pattern)
		if err != nil {
			return "", fmt.Errorf("invalid regex pattern %q: %w", t.Pattern, err)
		}
		m := re.FindSubmatch(data)
		if len(m) < 2 {
			return "", fmt.Errorf("no version match found in %q", t.Path)
		}
		return string(m[1]), nil
	default:
		return "", fmt.Errorf("invalid mirror format %q", t.Format)
	}
}

// yamlUnmarshal drops the variadic decode options so it fits the toml signature.
func yamlUnmarshal(data []byte, v any) error {
	return yaml.Unmarshal(data, v)
}

func (w *Writer) save(ctx context.Context, path string, data []byte) error {
	if err := core.WriteFileAtomic(ctx, w.fs, path, data, core.PermOwnerRW); err != nil {
		return fmt.Errorf("failed to write file %q: %w", path, err)
	}
	return nil
}

// setJSON uses sjson so key order and indentation survive the update.
func setJSON(data []byte, field, version string) ([]byte, error) {
	if field == "" {
		return nil, fmt.Errorf("field is required for json format")
	}
	updated, err := sjson.SetBytes(data, field, version)
	if err != nil {
		return nil, err
	}
	if len(updated) > 0 && updated[len(updated)-1] != '\n' {
		updated = append(updated, '\n')
	}
	return updated, nil
}

func setStructured(
	data []byte,
	field, version string,
	unmarshal func([]byte, any) error,
	marshal func(any) ([]byte, error),
) ([]byte, error) {
	if field == "" {
		return nil, fmt.Errorf("field is required for structured formats")
	}
	var obj map[string]any
	if err := unmarshal(data, &obj); err != nil {
		return nil, fmt.Errorf("failed to parse: %w", err)
	}
	if obj == nil {
		obj = make(map[string]any)
	}
	if err := assign(obj, field, version); err != nil {
		return nil, err
	}
	return marshal(obj)
}

func setRegex(data []byte, pattern, version string) ([]byte, error) {
	if pattern == "" {
		return nil, fmt.Errorf("pattern is required for regex format")
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid regex pattern %q: %w", pattern, err)
	}
	loc := re.FindSubmatchIndex(data)
	if len(loc) < 4 || loc[2] < 0 {
		return nil, fmt.Errorf("pattern %q does not match", pattern)
	}

	out := make([]byte, 0, len(data)+len(version))
	out = append(out, data[:loc[2]]...)
	out = append(out, version...)
	out = append(out, data[loc[3]:]...)
	return out, nil
}

// lookup walks obj along a dot path.
func lookup(obj map[string]any, field string) (any, error) {
	if field == "" {
		return nil, fmt.Errorf("field path cannot be empty")
	}
	var current any = obj
	for part := range strings.SplitSeq(field, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("field %q is not an object", field)
		}
		if current, ok = m[part]; !ok {
			return nil, fmt.Errorf("field %q not found", field)
		}
	}
	return current, nil
}

// assign sets value at a dot path, creating intermediate objects.
func assign(obj map[string]any, field string, value any) error {
	parts := strings.Split(field, ".")
	current := obj
	for i, part := range parts[:len(parts)-1] {
		next, ok := current[part]
		if !ok {
			created := make(map[string]any)
			current[part] = created
			current = created
			continue
		}
		nextMap, ok := next.(map[string]any)
		if !ok {
			return fmt.Errorf("field %q is not an object", strings.Join(parts[:i+1], "."))
		}
		current = nextMap
	}
	current[parts[len(parts)-1]] = value
	return nil
}

package mirror

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/indaco/shiplane/internal/core"
)

func TestWriter_Write(t *testing.T) {
	tests := []struct {
		name     string
		target   Target
		content  string
		wantRead string
		contains string
	}{
		{
			name:     "json nested field keeps order",
			target:   Target{Path: "/p/app.json", Format: FormatJSON, Field: "app.version"},
			content:  "{\n  \"name\": \"x\",\n  \"app\": {\"version\": \"1.0.0\"}\n}",
			wantRead: "2.0.0",
			contains: "\"name\": \"x\"",
		},
		{
			name:     "yaml chart",
			target:   Target{Path: "/p/Chart.yaml", Format: FormatYAML, Field: "version"},
			content:  "apiVersion: v2\nname: x\nversion: 1.0.0\n",
			wantRead: "2.0.0",
			contains: "apiVersion: v2",
		},
		{
			name:     "toml cargo",
			target:   Target{Path: "/p/Cargo.toml", Format: FormatTOML, Field: "package.version"},
			content:  "[package]\nname = \"x\"\nversion = \"1.0.0\"\n",
			wantRead: "2.0.0",
			contains: "name = ",
		},
		{
			name:     "raw file",
			target:   Target{Path: "/p/VERSION", Format: FormatRaw},
			content:  "1.0.0\n",
			wantRead: "2.0.0",
		},
		{
			name:     "regex",
			target:   Target{Path: "/p/version.go", Format: FormatRegex, Pattern: `Version = "([^"]+)"`},
			content:  "package p\n\nconst Version = \"1.0.0\"\n",
			wantRead: "2.0.0",
			contains: "package p",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := core.NewMockFileSystem()
			fs.SetFile(tt.target.Path, []byte(tt.content))
			w := NewWriter(fs)

			if err := w.Write(context.Background(), tt.target, "2.0.0"); err != nil {
				t.Fatalf("Write failed: %v", err)
			}

			got, err := w.Read(context.Background(), tt.target)
			if err != nil {
				t.Fatalf("Read failed: %v", err)
			}
			if got != tt.wantRead {
				t.Errorf("Read() = %q, want %q", got, tt.wantRead)
			}

			if tt.contains != "" {
				data, _ := fs.GetFile(tt.target.Path)
				if !strings.Contains(string(data), tt.contains) {
					t.Errorf("expected %q to survive, got:\n%s", tt.contains, data)
				}
			}
		})
	}
}

func TestWriter_WriteErrors(t *testing.T) {
	tests := []struct {
		name    string
		target  Target
		content string
	}{
		{"missing path", Target{Format: FormatRaw}, ""},
		{"invalid format", Target{Path: "/p/x", Format: "xml"}, "x"},
		{"json without field", Target{Path: "/p/x.json", Format: FormatJSON}, "{}"},
		{"yaml invalid", Target{Path: "/p/x.yaml", Format: FormatYAML, Field: "version"}, "a: [unclosed"},
		{"regex without match", Target{Path: "/p/x.go", Format: FormatRegex, Pattern: `v=(\d+)`}, "nothing"},
		{"regex without pattern", Target{Path: "/p/x.go", Format: FormatRegex}, "nothing"},
		{"yaml scalar parent", Target{Path: "/p/x.yaml", Format: FormatYAML, Field: "a.b"}, "a: 1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := core.NewMockFileSystem()
			if tt.target.Path != "" {
				fs.SetFile(tt.target.Path, []byte(tt.content))
			}
			if err := NewWriter(fs).Write(context.Background(), tt.target, "2.0.0"); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

func TestWriter_WriteFailure(t *testing.T) {
	fs := core.NewMockFileSystem()
	fs.WriteErr = errors.New("read-only fs")

	err := NewWriter(fs).Write(context.Background(), Target{Path: "/p/VERSION", Format: FormatRaw}, "1.0.0")
	if err == nil || !strings.Contains(err.Error(), "read-only fs") {
		t.Fatalf("expected wrapped write error, got %v", err)
	}
}

func TestTarget_Resolve(t *testing.T) {
	rel := Target{Path: "Chart.yaml"}.Resolve("/repo/charts/x")
	if rel.Path != "/repo/charts/x/Chart.yaml" {
		t.Errorf("relative path resolved to %q", rel.Path)
	}
	abs := Target{Path: "/etc/VERSION"}.Resolve("/repo")
	if abs.Path != "/etc/VERSION" {
		t.Errorf("absolute path changed to %q", abs.Path)
	}
}

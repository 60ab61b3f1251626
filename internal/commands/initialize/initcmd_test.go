package initialize

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/indaco/shiplane/internal/config"
	"github.com/indaco/shiplane/internal/core"
	"github.com/indaco/shiplane/internal/printer"
)

func TestRunInit(t *testing.T) {
	printer.SetNoColor(true)
	ctx := context.Background()

	t.Run("creates config with header", func(t *testing.T) {
		fs := core.NewMockFileSystem()
		if err := runInit(ctx, fs, "/ws/.shiplane.yaml", false); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		data, ok := fs.GetFile("/ws/.shiplane.yaml")
		if !ok {
			t.Fatal("config not written")
		}
		if !strings.HasPrefix(string(data), "# shiplane configuration file") {
			t.Error("expected header comment")
		}

		var cfg config.Config
		if err := yaml.NewDecoder(bytes.NewReader(data), yaml.Strict()).Decode(&cfg); err != nil {
			t.Fatalf("generated config does not load: %v", err)
		}
		if cfg.Tag != config.DefaultTag || cfg.Build == nil || cfg.Build.Enabled == nil || !*cfg.Build.Enabled {
			t.Errorf("unexpected generated config: %+v", cfg)
		}
	})

	t.Run("refuses to overwrite", func(t *testing.T) {
		fs := core.NewMockFileSystem()
		fs.SetFile("/ws/.shiplane.yaml", []byte("tag: keep\n"))

		err := runInit(ctx, fs, "/ws/.shiplane.yaml", false)
		if err == nil || !strings.Contains(err.Error(), "--force") {
			t.Fatalf("expected overwrite error, got %v", err)
		}
		data, _ := fs.GetFile("/ws/.shiplane.yaml")
		if string(data) != "tag: keep\n" {
			t.Error("existing config was modified")
		}
	})

	t.Run("force overwrites", func(t *testing.T) {
		fs := core.NewMockFileSystem()
		fs.SetFile("/ws/.shiplane.yaml", []byte("tag: keep\n"))

		if err := runInit(ctx, fs, "/ws/.shiplane.yaml", true); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		data, _ := fs.GetFile("/ws/.shiplane.yaml")
		if strings.Contains(string(data), "keep") {
			t.Error("config was not overwritten")
		}
	})

	t.Run("stat failure", func(t *testing.T) {
		fs := core.NewMockFileSystem()
		fs.StatErr = errors.New("io error")

		if err := runInit(ctx, fs, "/ws/.shiplane.yaml", false); err == nil {
			t.Fatal("expected error")
		}
	})
}

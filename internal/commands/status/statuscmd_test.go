package status

import (
	"testing"

	"github.com/indaco/shiplane/internal/config"
)

func TestPreviewOptions(t *testing.T) {
	opts := previewOptions(config.Options{Target: "/ws", All: true, Build: true, Publish: true, Tag: "next"})

	if !opts.DryRun || !opts.ForceContinue {
		t.Error("preview must be a forced dry run")
	}
	if opts.Build || opts.Publish {
		t.Error("preview must not build or publish")
	}
	if opts.Target != "/ws" || !opts.All || opts.Tag != "next" {
		t.Errorf("selection changed: %+v", opts)
	}
}

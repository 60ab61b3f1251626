package clix

import (
	"context"
	"fmt"

	"github.com/indaco/shiplane/internal/core"
	"github.com/indaco/shiplane/internal/mirror"
	"github.com/indaco/shiplane/internal/orchestrator"
	"github.com/indaco/shiplane/internal/printer"
)

// Drift is a mirror file whose version does not match its package manifest.
type Drift struct {
	Package  string
	Path     string
	Manifest string
	Mirrored string
	Err      error
}

func (d Drift) String() string {
	if d.Err != nil {
		return fmt.Sprintf("%s: cannot read %s: %v", d.Package, d.Path, d.Err)
	}
	return fmt.Sprintf("%s: %s has %s, manifest has %s", d.Package, d.Path, d.Mirrored, d.Manifest)
}

// MirrorDrift compares every sync target of the packages in summary with the
// version their manifest held before the run.
func MirrorDrift(ctx context.Context, fs core.FileSystem, targets []mirror.Target, summary *orchestrator.Summary) []Drift {
	if summary == nil || len(targets) == 0 {
		return nil
	}

	reader := mirror.NewWriter(fs)
	var drifts []Drift
	for _, o := range summary.Outcomes {
		if o.Result == nil || o.Result.Skipped || o.Result.PreviousVersion == "" {
			continue
		}
		for _, t := range targets {
			t = t.Resolve(o.Dir)
			got, err := reader.Read(ctx, t)
			if err == nil && got == o.Result.PreviousVersion {
				continue
			}
			drifts = append(drifts, Drift{
				Package:  o.Name(),
				Path:     t.Path,
				Manifest: o.Result.PreviousVersion,
				Mirrored: got,
				Err:      err,
			})
		}
	}
	return drifts
}

// PrintDrift prints one warning per drifted mirror file.
func PrintDrift(drifts []Drift) {
	for _, d := range drifts {
		printer.PrintWarning(d.String())
	}
}

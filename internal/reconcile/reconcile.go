// Package reconcile unifies the reference commit and baseline version of
// sibling packages released together.
package reconcile

import (
	"context"
	"errors"
	"fmt"

	"github.com/indaco/shiplane/internal/git"
	"github.com/indaco/shiplane/internal/logging"
	"github.com/indaco/shiplane/internal/manifest"
	"github.com/indaco/shiplane/internal/semver"
	"golang.org/x/sync/errgroup"
)

// ErrNoVersions is returned when no sibling carries a valid version.
var ErrNoVersions = errors.New("no sibling package has a valid version")

// ReferenceCommit is the change window shared by a batch.
type ReferenceCommit struct {
	Hash  string
	Total int
}

// GreatestRelease is the baseline every sibling pipeline of a batch starts from.
type GreatestRelease struct {
	GreatestVersion semver.SemVersion
	ReferenceCommit ReferenceCommit
}

// Reconciler computes a GreatestRelease from sibling manifests.
type Reconciler struct {
	source git.CommitSource
	log    logging.Logger
}

// NewReconciler creates a Reconciler reading history from source.
func NewReconciler(source git.CommitSource, log logging.Logger) *Reconciler {
	if log == nil {
		log = logging.NewNop()
	}
	return &Reconciler{source: source, log: log}
}

// Reconcile queries every sibling's pending history in parallel, then picks
// the reference with the strictly greatest total and the greatest stored
// version. Equal totals or versions keep the first sibling in slice order.
func (r *Reconciler) Reconcile(ctx context.Context, siblings []*manifest.Descriptor) (GreatestRelease, error) {
	if len(siblings) == 0 {
		return GreatestRelease{}, errors.New("no sibling packages to reconcile")
	}

	head, err := r.source.Head(ctx)
	if err != nil {
		return GreatestRelease{}, err
	}

	refs := make([]string, len(siblings))
	totals := make([]int, len(siblings))

	g, gctx := errgroup.WithContext(ctx)
	for i, sib := range siblings {
		refs[i] = sib.Extension.ReferenceCommit
		if refs[i] == "" {
			refs[i] = head
		}
		g.Go(func() error {
			history, err := r.source.Log(gctx, refs[i], 1)
			if err != nil {
				return fmt.Errorf("failed to read history of %s: %w", sib.Name, err)
			}
			totals[i] = history.Total
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return GreatestRelease{}, err
	}

	var release GreatestRelease
	best := -1
	for i, sib := range siblings {
		r.log.Debug("sibling history", "package", sib.Name, "reference", refs[i], "total", totals[i])
		if best < 0 || totals[i] > release.ReferenceCommit.Total {
			best = i
			release.ReferenceCommit = ReferenceCommit{Hash: refs[i], Total: totals[i]}
		}
	}

	found := false
	for _, sib := range siblings {
		v, err := semver.ParseVersion(sib.Version)
		if err != nil {
			r.log.Warn("skipping sibling with invalid version", "package", sib.Name, "version", sib.Version)
			continue
		}
		if !found {
			release.GreatestVersion = v
			found = true
			continue
		}
		release.GreatestVersion = semver.Greatest(release.GreatestVersion, v)
	}
	if !found {
		return GreatestRelease{}, ErrNoVersions
	}

	r.log.Info("reconciled release",
		"version", release.GreatestVersion.String(),
		"reference", release.ReferenceCommit.Hash,
		"total", release.ReferenceCommit.Total,
		"from", siblings[best].Name,
	)
	return release, nil
}

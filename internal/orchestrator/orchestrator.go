// Package orchestrator selects between releasing one package and releasing
// every sibling package of a monorepo folder, and wires the shared batch
// state into each package pipeline.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/indaco/shiplane/internal/config"
	"github.com/indaco/shiplane/internal/depgraph"
	"github.com/indaco/shiplane/internal/logging"
	"github.com/indaco/shiplane/internal/manifest"
	"github.com/indaco/shiplane/internal/pipeline"
	"github.com/indaco/shiplane/internal/reconcile"
	"github.com/indaco/shiplane/internal/workspace"
	"go.uber.org/multierr"
)

// ErrAborted is returned when the operator declines the commit gate.
var ErrAborted = errors.New("release aborted")

// Orchestrator runs release pipelines.
type Orchestrator struct {
	opts config.Options
	deps pipeline.Deps
	log  logging.Logger
}

// New creates an Orchestrator. deps.Aliases is ignored; the alias map is
// loaded from opts when the run starts.
func New(opts config.Options, deps pipeline.Deps) *Orchestrator {
	if deps.Logger == nil {
		deps.Logger = logging.NewNop()
	}
	return &Orchestrator{opts: opts, deps: deps, log: deps.Logger}
}

// Run releases opts.Target, or every sibling below it when opts.All is set.
// The returned Summary is never nil.
func (o *Orchestrator) Run(ctx context.Context) (*Summary, error) {
	aliases, err := depgraph.LoadAliases(ctx, o.deps.FS, o.baseDir(), o.opts.Aliases)
	if err != nil {
		return &Summary{}, err
	}
	o.deps.Aliases = aliases
	o.log.Debug("local dependency map", "aliases", aliases.Names())

	if o.opts.All {
		return o.runBatch(ctx)
	}
	return o.runIsolated(ctx)
}

func (o *Orchestrator) baseDir() string {
	if o.opts.BaseDir != "" {
		return o.opts.BaseDir
	}
	return o.opts.Target
}

func (o *Orchestrator) runIsolated(ctx context.Context) (*Summary, error) {
	result, err := pipeline.New(o.opts.Target, o.opts, o.deps, pipeline.Overrides{}).Run(ctx)
	summary := &Summary{Outcomes: []Outcome{{Dir: o.opts.Target, Result: result, Err: err}}}

	if errors.Is(err, pipeline.ErrNoCommits) {
		return summary, fmt.Errorf("%w: %w", ErrAborted, err)
	}
	return summary, err
}

func (o *Orchestrator) runBatch(ctx context.Context) (*Summary, error) {
	summary := &Summary{}

	dirs, err := workspace.NewLister(o.deps.FS, o.opts.Exclude).Siblings(ctx, o.opts.Target)
	if err != nil {
		return summary, err
	}
	if len(dirs) == 0 {
		return summary, fmt.Errorf("no packages found in %s", o.opts.Target)
	}

	siblings := o.loadSiblings(ctx, dirs)
	if len(siblings) == 0 {
		return summary, fmt.Errorf("no readable manifest found in %s", o.opts.Target)
	}

	release, err := reconcile.NewReconciler(o.deps.Source, o.log).Reconcile(ctx, siblings)
	if err != nil {
		return summary, err
	}

	if err := o.batchGate(release, len(dirs)); err != nil {
		return summary, err
	}

	if o.opts.Build && !o.opts.DryRun {
		o.log.Info("building all packages", "dir", o.opts.Target)
		if err := o.deps.Invoker.Build(ctx, o.opts.Target); err != nil {
			return summary, &pipeline.BuildFailure{Package: o.opts.Target, Err: err}
		}
	}

	overrides := pipeline.Overrides{
		Release:              &release,
		SoftError:            true,
		SkipBuild:            true,
		OmitContinueQuestion: true,
	}

	summary.Outcomes = make([]Outcome, len(dirs))
	var wg sync.WaitGroup
	for i, dir := range dirs {
		deps := o.deps
		deps.Logger = o.log.With("package", filepath.Base(dir))
		wg.Go(func() {
			result, err := pipeline.New(dir, o.opts, deps, overrides).Run(ctx)
			summary.Outcomes[i] = Outcome{Dir: dir, Result: result, Err: err}
		})
	}
	wg.Wait()

	var errs error
	for _, outcome := range summary.Outcomes {
		if outcome.Err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", outcome.Name(), outcome.Err))
		}
	}
	return summary, errs
}

// loadSiblings reads every sibling manifest. Unreadable ones are left out of
// reconciliation; their pipelines report them as skipped.
func (o *Orchestrator) loadSiblings(ctx context.Context, dirs []string) []*manifest.Descriptor {
	siblings := make([]*manifest.Descriptor, 0, len(dirs))
	for _, dir := range dirs {
		desc, err := o.deps.Store.Load(ctx, dir)
		if err != nil {
			o.log.Warn("ignoring sibling during reconciliation", "dir", dir, "error", err.Error())
			continue
		}
		siblings = append(siblings, desc)
	}
	return siblings
}

// batchGate asks once for the whole batch when no sibling has pending commits.
func (o *Orchestrator) batchGate(release reconcile.GreatestRelease, count int) error {
	if release.ReferenceCommit.Total > 0 || o.opts.ForceContinue {
		return nil
	}

	ok := false
	if o.deps.Prompter != nil {
		var err error
		ok, err = o.deps.Prompter.Confirm(
			"No new commits since "+release.ReferenceCommit.Hash,
			fmt.Sprintf("Release all %d packages anyway?", count),
		)
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
	}
	if !ok {
		return fmt.Errorf("%w: %w", ErrAborted, pipeline.ErrNoCommits)
	}
	return nil
}

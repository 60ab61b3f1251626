// Package pipeline releases a single package: it checks the manifest, reads
// the pending history, gates on empty history, builds, bumps the version,
// validates local dependencies, persists the manifest, stages assets and
// publishes.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/indaco/shiplane/internal/assets"
	"github.com/indaco/shiplane/internal/commitparser"
	"github.com/indaco/shiplane/internal/config"
	"github.com/indaco/shiplane/internal/core"
	"github.com/indaco/shiplane/internal/depgraph"
	"github.com/indaco/shiplane/internal/git"
	"github.com/indaco/shiplane/internal/invoker"
	"github.com/indaco/shiplane/internal/logging"
	"github.com/indaco/shiplane/internal/manifest"
	"github.com/indaco/shiplane/internal/mirror"
	"github.com/indaco/shiplane/internal/reconcile"
	"github.com/indaco/shiplane/internal/semver"
	"golang.org/x/sync/errgroup"
)

// Prompter asks the operator a yes/no question.
type Prompter interface {
	Confirm(title, description string) (bool, error)
}

// Overrides are injected by the orchestrator when a pipeline runs as part
// of a batch.
type Overrides struct {
	// Release replaces the reference commit and the baseline version.
	Release *reconcile.GreatestRelease

	// SoftError demotes a PreconditionError to a warning and a skipped result.
	SoftError bool

	// SkipBuild disables the build step regardless of Options.Build.
	SkipBuild bool

	// OmitContinueQuestion passes the commit gate without prompting.
	OmitContinueQuestion bool
}

// Deps are the collaborators of a pipeline.
type Deps struct {
	FS       core.FileSystem
	Store    manifest.Store
	Source   git.CommitSource
	Invoker  invoker.Invoker
	Aliases  depgraph.AliasMap
	Prompter Prompter
	Logger   logging.Logger
}

// Result describes what a pipeline did.
type Result struct {
	Package         string
	Dir             string
	PreviousVersion string
	Version         string
	Bump            semver.Bump
	Reference       string
	Head            string
	Commits         int
	OutputDir       string
	Staged          []string
	Published       bool
	DryRun          bool

	// LocalDependencies lists the workspace packages this one depends on.
	LocalDependencies []string

	// Skipped is set when a soft error abandoned the pipeline.
	Skipped    bool
	SkipReason string
}

// Pipeline releases the package in one directory.
type Pipeline struct {
	dir       string
	opts      config.Options
	overrides Overrides

	fs        core.FileSystem
	store     manifest.Store
	source    git.CommitSource
	invoker   invoker.Invoker
	validator *depgraph.Validator
	stager    *assets.Stager
	mirrors   *mirror.Writer
	prompter  Prompter
	log       logging.Logger
}

// New creates a Pipeline for the package in dir.
func New(dir string, opts config.Options, deps Deps, overrides Overrides) *Pipeline {
	log := deps.Logger
	if log == nil {
		log = logging.NewNop()
	}
	return &Pipeline{
		dir:       dir,
		opts:      opts,
		overrides: overrides,
		fs:        deps.FS,
		store:     deps.Store,
		source:    deps.Source,
		invoker:   deps.Invoker,
		validator: depgraph.NewValidator(deps.Store, deps.Aliases, log),
		stager:    assets.NewStager(deps.FS),
		mirrors:   mirror.NewWriter(deps.FS),
		prompter:  deps.Prompter,
		log:       log,
	}
}

// Run executes the pipeline. A PreconditionError under SoftError returns a
// skipped Result and a nil error.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	result := &Result{Dir: p.dir, DryRun: p.opts.DryRun}

	desc, err := p.loadManifest(ctx)
	if err != nil {
		var preErr *PreconditionError
		if p.overrides.SoftError && errors.As(err, &preErr) {
			p.log.Warn("skipping package", "dir", p.dir, "reason", err.Error())
			result.Skipped = true
			result.SkipReason = err.Error()
			return result, nil
		}
		return nil, err
	}
	log := p.log.With("package", desc.Name)
	result.Package = desc.Name
	result.PreviousVersion = desc.Version

	if _, err := semver.ParseVersion(desc.Version); err != nil {
		return nil, err
	}

	head, err := p.source.Head(ctx)
	if err != nil {
		return nil, err
	}
	result.Head = head
	result.Reference = p.resolveReference(desc, head)

	history, err := p.source.Log(ctx, result.Reference, 0)
	if err != nil {
		return nil, err
	}
	result.Commits = history.Total
	log.Debug("history fetched", "reference", result.Reference, "head", head, "commits", history.Total)

	if err := p.gate(desc, history); err != nil {
		return nil, err
	}

	outDir, err := p.buildAndResolveOutput(ctx, desc, log)
	if err != nil {
		return nil, err
	}
	result.OutputDir = outDir

	result.Bump = commitparser.Analyze(history)
	baseline := ""
	if p.overrides.Release != nil {
		baseline = p.overrides.Release.GreatestVersion.String()
	}
	next, err := semver.Resolve(desc.Version, result.Bump, baseline)
	if err != nil {
		return nil, err
	}
	result.Version = next.String()

	graph, err := p.validator.Validate(ctx, desc)
	if err != nil {
		return nil, err
	}
	result.LocalDependencies = graph.Names()
	if len(result.LocalDependencies) > 0 {
		log.Debug("local dependencies resolved", "dependencies", result.LocalDependencies)
	}

	if p.opts.DryRun {
		log.Info("dry run", "version", result.Version, "bump", result.Bump.String(), "commits", result.Commits)
		return result, nil
	}

	desc.Version = result.Version
	desc.Extension.ReferenceCommit = head
	if err := p.store.Save(ctx, desc); err != nil {
		return nil, err
	}
	log.Info("manifest updated", "version", result.Version, "reference", head)

	for _, target := range p.opts.Sync {
		if err := p.mirrors.Write(ctx, target.Resolve(p.dir), result.Version); err != nil {
			return nil, err
		}
	}

	if p.opts.StagesAssets || stagesAssetsItself(ctx, p.fs, p.dir) {
		log.Debug("build tool stages assets, skipping copy")
	} else {
		staged, err := p.stager.Stage(ctx, desc, outDir)
		if err != nil {
			return nil, err
		}
		result.Staged = staged
		log.Debug("assets staged", "count", len(staged), "output", outDir)
	}

	if !p.opts.Publish {
		log.Info("publish disabled, skipping", "version", result.Version)
		return result, nil
	}
	if err := p.invoker.Publish(ctx, outDir, p.opts.Tag); err != nil {
		return nil, &PublishFailure{Package: desc.Name, Tag: p.opts.Tag, Err: err}
	}
	result.Published = true
	log.Success("published", "version", result.Version, "tag", p.opts.Tag)

	return result, nil
}

func (p *Pipeline) loadManifest(ctx context.Context) (*manifest.Descriptor, error) {
	desc, err := p.store.Load(ctx, p.dir)
	if err != nil {
		var notFound *manifest.NotFoundError
		var parseErr *manifest.ParseError
		if errors.As(err, &notFound) || errors.As(err, &parseErr) {
			return nil, &PreconditionError{Dir: p.dir, Err: err}
		}
		return nil, err
	}
	if missing := desc.MissingFields(); len(missing) > 0 {
		return nil, &PreconditionError{Dir: p.dir, Missing: missing}
	}
	return desc, nil
}

// resolveReference picks the override reference, then the stored one, then HEAD.
func (p *Pipeline) resolveReference(desc *manifest.Descriptor, head string) string {
	if p.overrides.Release != nil && p.overrides.Release.ReferenceCommit.Hash != "" {
		return p.overrides.Release.ReferenceCommit.Hash
	}
	if desc.Extension.ReferenceCommit != "" {
		return desc.Extension.ReferenceCommit
	}
	return head
}

func (p *Pipeline) gate(desc *manifest.Descriptor, history git.History) error {
	if !history.IsEmpty() || p.opts.ForceContinue || p.overrides.OmitContinueQuestion {
		return nil
	}
	if p.prompter == nil {
		return ErrNoCommits
	}

	ok, err := p.prompter.Confirm(
		fmt.Sprintf("No new commits for %s since %s", desc.Name, shortHash(history.Reference)),
		"Release anyway?",
	)
	if err != nil {
		return fmt.Errorf("failed to read confirmation: %w", err)
	}
	if !ok {
		return ErrNoCommits
	}
	return nil
}

// buildAndResolveOutput runs the build while the output directory is
// resolved. Both must finish before assets are staged.
func (p *Pipeline) buildAndResolveOutput(ctx context.Context, desc *manifest.Descriptor, log logging.Logger) (string, error) {
	var outDir string

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		dir, err := ResolveOutputDir(gctx, p.fs, p.dir, p.opts.OutputDir)
		outDir = dir
		return err
	})

	if p.opts.Build && !p.overrides.SkipBuild && !p.opts.DryRun {
		g.Go(func() error {
			log.Info("building")
			if err := p.invoker.Build(gctx, p.dir); err != nil {
				return &BuildFailure{Package: desc.Name, Err: err}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return "", err
	}
	return outDir, nil
}

func shortHash(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}

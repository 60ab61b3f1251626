package release

import (
	"context"
	"fmt"

	"github.com/indaco/shiplane/internal/clix"
	"github.com/indaco/shiplane/internal/config"
	"github.com/indaco/shiplane/internal/core"
	"github.com/indaco/shiplane/internal/orchestrator"
	"github.com/indaco/shiplane/internal/printer"
	"github.com/urfave/cli/v3"
)

// Run returns the "release" command.
func Run(cfg *config.Config) *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:    "tag",
			Aliases: []string{"t"},
			Usage:   "Distribution tag passed to the publish command",
		},
		&cli.StringFlag{
			Name:  "output-dir",
			Usage: "Build output directory, relative to each package",
		},
		&cli.BoolFlag{
			Name:  "skip-build",
			Usage: "Do not run the build command",
		},
		&cli.BoolFlag{
			Name:  "skip-publish",
			Usage: "Update manifests and stage assets without publishing",
		},
		&cli.BoolFlag{
			Name:    "yes",
			Aliases: []string{"y"},
			Usage:   "Release even when there are no new commits",
		},
		&cli.BoolFlag{
			Name:  "dry-run",
			Usage: "Print the planned versions without writing or running anything",
		},
	}
	flags = append(flags, clix.TargetFlags()...)

	return &cli.Command{
		Name:      "release",
		Usage:     "Bump, build and publish a package or every sibling package",
		UsageText: "shiplane release [path] [--all] [--tag name] [--yes] [--dry-run]",
		Flags:     flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runRelease(ctx, cmd, cfg)
		},
	}
}

func runRelease(ctx context.Context, cmd *cli.Command, cfg *config.Config) error {
	opts, err := clix.Options(cmd, cfg)
	if err != nil {
		return err
	}

	if err := validateConfig(ctx, core.NewOSFileSystem(), cfg, opts.BaseDir); err != nil {
		return err
	}

	log, err := clix.Logger(cmd, cfg)
	if err != nil {
		return err
	}
	defer clix.SyncLogger(log)

	if opts.DryRun {
		printer.PrintInfo("Dry run: nothing will be written, built or published")
	}

	summary, err := orchestrator.New(opts, clix.Deps(opts, log)).Run(ctx)
	clix.PrintSummary(summary)
	return err
}

// validateConfig prints configuration warnings and fails on errors.
func validateConfig(ctx context.Context, fs core.FileSystem, cfg *config.Config, baseDir string) error {
	results, err := config.NewValidator(fs, cfg, baseDir).Validate(ctx)
	if err != nil {
		return err
	}

	for _, r := range results {
		switch {
		case !r.Passed && !r.Warning:
			printer.PrintError(fmt.Sprintf("%s: %s", r.Category, r.Message))
		case r.Warning:
			printer.PrintWarning(fmt.Sprintf("%s: %s", r.Category, r.Message))
		}
	}
	if config.HasErrors(results) {
		return fmt.Errorf("invalid configuration: %d error(s)", config.ErrorCount(results))
	}
	return nil
}

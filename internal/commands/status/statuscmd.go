package status

import (
	"context"

	"github.com/indaco/shiplane/internal/clix"
	"github.com/indaco/shiplane/internal/config"
	"github.com/indaco/shiplane/internal/orchestrator"
	"github.com/urfave/cli/v3"
)

// Run returns the "status" command.
func Run(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "status",
		Usage:     "Show pending commits, bump and next version without changing anything",
		UsageText: "shiplane status [path] [--all]",
		Flags:     clix.TargetFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runStatus(ctx, cmd, cfg)
		},
	}
}

func runStatus(ctx context.Context, cmd *cli.Command, cfg *config.Config) error {
	opts, err := clix.Options(cmd, cfg)
	if err != nil {
		return err
	}
	opts = previewOptions(opts)

	log, err := clix.Logger(cmd, cfg)
	if err != nil {
		return err
	}
	defer clix.SyncLogger(log)

	deps := clix.Deps(opts, log)
	summary, err := orchestrator.New(opts, deps).Run(ctx)
	clix.PrintSummary(summary)
	clix.PrintDrift(clix.MirrorDrift(ctx, deps.FS, opts.Sync, summary))
	return err
}

// previewOptions turns release options into a read-only preview.
func previewOptions(opts config.Options) config.Options {
	opts.DryRun = true
	opts.ForceContinue = true
	opts.Build = false
	opts.Publish = false
	return opts
}

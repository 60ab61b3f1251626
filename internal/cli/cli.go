package cli

import (
	"context"
	"fmt"

	"github.com/indaco/shiplane/internal/clix"
	"github.com/indaco/shiplane/internal/commands/initialize"
	"github.com/indaco/shiplane/internal/commands/release"
	"github.com/indaco/shiplane/internal/commands/status"
	"github.com/indaco/shiplane/internal/config"
	"github.com/indaco/shiplane/internal/printer"
	"github.com/indaco/shiplane/internal/tui"
	urfavecli "github.com/urfave/cli/v3"
)

// Version is set at build time with -ldflags.
var Version = "dev"

var noColorFlag bool

// New builds and returns the root CLI command,
// configuring all subcommands and flags for the shiplane cli.
func New(cfg *config.Config) *urfavecli.Command {
	return &urfavecli.Command{
		Name:                  "shiplane",
		Version:               fmt.Sprintf("v%s", Version),
		Usage:                 "Commit-driven versioning and publishing for monorepo packages",
		EnableShellCompletion: true,
		Flags: []urfavecli.Flag{
			&urfavecli.BoolFlag{
				Name:        "no-color",
				Usage:       "Disable colored output",
				Destination: &noColorFlag,
			},
			&urfavecli.StringFlag{
				Name:        clix.FlagLogFormat,
				Usage:       "Log output format: console or json",
				DefaultText: "console",
			},
			&urfavecli.StringFlag{
				Name:        clix.FlagLogLevel,
				Usage:       "Log level: debug, info, warn, error or none",
				DefaultText: "info",
			},
		},
		Before: func(ctx context.Context, cmd *urfavecli.Command) (context.Context, error) {
			printer.SetNoColor(noColorFlag)
			tui.SetTheme(cfg.Theme)
			return ctx, nil
		},
		Commands: []*urfavecli.Command{
			initialize.Run(),
			status.Run(cfg),
			release.Run(cfg),
		},
	}
}

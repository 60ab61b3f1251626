package initialize

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/indaco/shiplane/internal/config"
	"github.com/indaco/shiplane/internal/core"
	"github.com/indaco/shiplane/internal/printer"
	"github.com/urfave/cli/v3"
)

const configHeader = `# shiplane configuration file
#
# build.command runs in each package directory (or once in the target folder
# with --all); publish.command runs in the output directory with {tag}
# replaced by the distribution tag.
# aliases maps local package names to their directories and enables the
# mutual dependency check; tsconfig paths are used when it is empty.
# theme styles the "no new commits" continue prompt: base, base16,
# catppuccin, charm, dracula or shiplane.

`

// Run returns the "init" command.
func Run() *cli.Command {
	return &cli.Command{
		Name:      "init",
		Usage:     "Create a " + config.DefaultConfigFile + " with the default settings",
		UsageText: "shiplane init [--force]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Overwrite an existing configuration file",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runInit(ctx, core.NewOSFileSystem(), config.DefaultConfigFile, cmd.Bool("force"))
		},
	}
}

func runInit(ctx context.Context, fs core.FileSystem, path string, force bool) error {
	if _, err := fs.Stat(ctx, path); err == nil && !force {
		return fmt.Errorf("%s already exists, use --force to overwrite", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to check %s: %w", path, err)
	}

	if err := config.NewConfigSaver(fs, commentedMarshaler{}).SaveTo(ctx, config.Default(), path); err != nil {
		return err
	}

	printer.PrintSuccess(fmt.Sprintf("Created %s", path))
	return nil
}

// commentedMarshaler writes YAML preceded by configHeader.
type commentedMarshaler struct{}

func (commentedMarshaler) Marshal(v any) ([]byte, error) {
	data, err := yaml.Marshal(v)
	if err != nil {
		return nil, err
	}
	return append([]byte(configHeader), data...), nil
}

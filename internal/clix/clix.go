// Package clix holds the wiring shared by shiplane commands: merging flags
// into config.Options, building the logger and the production collaborators,
// and rendering run summaries.
package clix

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/indaco/shiplane/internal/config"
	"github.com/indaco/shiplane/internal/core"
	"github.com/indaco/shiplane/internal/git"
	"github.com/indaco/shiplane/internal/invoker"
	"github.com/indaco/shiplane/internal/logging"
	"github.com/indaco/shiplane/internal/manifest"
	"github.com/indaco/shiplane/internal/pipeline"
	"github.com/indaco/shiplane/internal/tui"
	"github.com/urfave/cli/v3"
)

// Flag names shared between the root command and subcommands.
const (
	FlagLogFormat = "log-format"
	FlagLogLevel  = "log-level"
	FlagAll       = "all"
)

// TargetFlags are accepted by every command that selects packages.
func TargetFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:    FlagAll,
			Aliases: []string{"a"},
			Usage:   "Release every sibling package found in the target folder",
		},
		&cli.StringSliceFlag{
			Name:  "exclude",
			Usage: "Directory name pattern to skip with --all (repeatable)",
		},
	}
}

// Options merges cfg, the target argument and command flags. Flags that were
// not set keep the file values.
func Options(cmd *cli.Command, cfg *config.Config) (config.Options, error) {
	opts := cfg.Options()

	target := cmd.Args().First()
	if target == "" {
		target = opts.Target
	}
	if target == "" {
		target = "."
	}
	abs, err := filepath.Abs(target)
	if err != nil {
		return opts, fmt.Errorf("failed to resolve %q: %w", target, err)
	}
	opts.Target = abs
	opts.All = cmd.Bool(FlagAll)

	if cmd.IsSet("exclude") {
		opts.Exclude = cmd.StringSlice("exclude")
	}
	if cmd.IsSet("tag") {
		opts.Tag = cmd.String("tag")
	}
	if cmd.IsSet("output-dir") {
		opts.OutputDir = cmd.String("output-dir")
	}
	if cmd.Bool("skip-build") {
		opts.Build = false
	}
	if cmd.Bool("skip-publish") {
		opts.Publish = false
	}
	opts.ForceContinue = cmd.Bool("yes")
	opts.DryRun = cmd.Bool("dry-run")

	opts.BaseDir, err = BaseDir()
	if err != nil {
		return opts, err
	}
	return opts, nil
}

// BaseDir is the directory holding the configuration file.
func BaseDir() (string, error) {
	if path := os.Getenv(config.EnvConfigPath); path != "" {
		return filepath.Abs(filepath.Dir(path))
	}
	return os.Getwd()
}

// Logger builds the logger selected by the global flags, falling back to
// the config file.
func Logger(cmd *cli.Command, cfg *config.Config) (logging.Logger, error) {
	format, level := logging.FormatConsole, logging.LevelInfo
	if cfg.Log != nil {
		if cfg.Log.Format != "" {
			format = cfg.Log.Format
		}
		if cfg.Log.Level != "" {
			level = cfg.Log.Level
		}
	}
	if cmd.IsSet(FlagLogFormat) {
		format = cmd.String(FlagLogFormat)
	}
	if cmd.IsSet(FlagLogLevel) {
		level = cmd.String(FlagLogLevel)
	}
	return logging.New(format, level)
}

// SyncLogger flushes buffered log entries.
func SyncLogger(log logging.Logger) {
	if s, ok := log.(interface{ Sync() error }); ok {
		_ = s.Sync()
	}
}

// Deps builds the production collaborators for opts.
func Deps(opts config.Options, log logging.Logger) pipeline.Deps {
	fs := core.NewOSFileSystem()

	shell := invoker.NewShell(opts.BuildCommand, opts.PublishCommand)
	shell.Quiet = opts.All
	shell.Output = os.Stderr

	return pipeline.Deps{
		FS:       fs,
		Store:    manifest.NewFileStore(fs),
		Source:   git.NewLogReader(opts.Target),
		Invoker:  shell,
		Prompter: tui.ConfirmPrompter{},
		Logger:   log,
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/indaco/shiplane/internal/cli"
	"github.com/indaco/shiplane/internal/config"
	"github.com/indaco/shiplane/internal/orchestrator"
	"github.com/indaco/shiplane/internal/printer"
	"go.uber.org/multierr"
)

// Exit statuses.
const (
	exitFailure = 1
	exitAborted = 2
)

func main() {
	if err := runCLI(os.Args); err != nil {
		for _, e := range multierr.Errors(err) {
			printer.PrintError(e.Error())
		}
		os.Exit(exitCode(err))
	}
}

// runCLI loads the configuration and runs the root command.
func runCLI(args []string) error {
	cfg, err := config.LoadConfigFn("")
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return cli.New(cfg).Run(ctx, args)
}

func exitCode(err error) int {
	if errors.Is(err, orchestrator.ErrAborted) {
		return exitAborted
	}
	return exitFailure
}

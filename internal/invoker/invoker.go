// Package invoker runs the external build and publish commands of a package.
// Each call blocks until the command exits; a non-zero exit is reported as a
// *CommandError carrying the exit code and trimmed stderr.
package invoker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/indaco/shiplane/internal/tui"
)

const (
	// DefaultBuildCommand runs in the package directory.
	DefaultBuildCommand = "npm run build"

	// DefaultPublishCommand runs in the output directory. {tag} is replaced
	// with the distribution tag.
	DefaultPublishCommand = "npm publish --tag {tag}"

	// TagPlaceholder is substituted in publish commands.
	TagPlaceholder = "{tag}"
)

// execCommand is swapped in tests.
var execCommand = exec.CommandContext

// spin wraps a blocking call with a progress indicator.
var spin = tui.Spin

// Invoker runs builds and publishes.
type Invoker interface {
	Build(ctx context.Context, dir string) error
	Publish(ctx context.Context, dir, tag string) error
}

// CommandError is a command that exited non-zero or could not start.
type CommandError struct {
	Command  string
	Dir      string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%q in %s exited with status %d", e.Command, e.Dir, e.ExitCode)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// Shell runs commands through `sh -c`.
type Shell struct {
	BuildCommand   string
	PublishCommand string

	// Output receives the command's stdout. Nil discards it.
	Output io.Writer

	// Quiet disables the spinner, e.g. when several pipelines run at once.
	Quiet bool
}

// Verify Shell implements Invoker.
var _ Invoker = (*Shell)(nil)

// NewShell returns a Shell with the given commands, falling back to the npm
// defaults for empty ones.
func NewShell(build, publish string) *Shell {
	if strings.TrimSpace(build) == "" {
		build = DefaultBuildCommand
	}
	if strings.TrimSpace(publish) == "" {
		publish = DefaultPublishCommand
	}
	return &Shell{BuildCommand: build, PublishCommand: publish}
}

// Build runs the build command in dir.
func (s *Shell) Build(ctx context.Context, dir string) error {
	return s.run(ctx, "Building "+dir, s.BuildCommand, dir)
}

// Publish runs the publish command in dir with tag substituted.
func (s *Shell) Publish(ctx context.Context, dir, tag string) error {
	command := strings.ReplaceAll(s.PublishCommand, TagPlaceholder, tag)
	return s.run(ctx, "Publishing "+dir, command, dir)
}

func (s *Shell) run(ctx context.Context, title, command, dir string) error {
	if s.Quiet {
		return s.exec(ctx, command, dir)
	}
	return spin(ctx, title, func() error { return s.exec(ctx, command, dir) })
}

func (s *Shell) exec(ctx context.Context, command, dir string) error {
	cmd := execCommand(ctx, "sh", "-c", command)
	cmd.Dir = dir

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if s.Output != nil {
		cmd.Stdout = s.Output
	}

	if err := cmd.Run(); err != nil {
		return &CommandError{
			Command:  command,
			Dir:      dir,
			ExitCode: exitCode(err),
			Stderr:   strings.TrimSpace(stderr.String()),
			Err:      err,
		}
	}
	return nil
}

func exitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/indaco/shiplane/internal/invoker"
)

// ErrNoCommits is returned when the commit gate is declined.
var ErrNoCommits = errors.New("no new commits since the last release")

// PreconditionError reports a manifest that cannot be released.
type PreconditionError struct {
	Dir     string
	Missing []string
	Err     error
}

func (e *PreconditionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("package at %s cannot be released: %v", e.Dir, e.Err)
	}
	return fmt.Sprintf("package at %s cannot be released: manifest is missing %s", e.Dir, strings.Join(e.Missing, ", "))
}

func (e *PreconditionError) Unwrap() error {
	return e.Err
}

// BuildFailure wraps a failed build command.
type BuildFailure struct {
	Package string
	Err     error
}

func (e *BuildFailure) Error() string {
	return fmt.Sprintf("build of %s failed: %v", e.Package, e.Err)
}

func (e *BuildFailure) Unwrap() error {
	return e.Err
}

// ExitCode returns the build command's exit status, or -1 if unknown.
func (e *BuildFailure) ExitCode() int {
	return exitCodeOf(e.Err)
}

// PublishFailure wraps a failed publish command.
type PublishFailure struct {
	Package string
	Tag     string
	Err     error
}

func (e *PublishFailure) Error() string {
	return fmt.Sprintf("publish of %s with tag %q failed: %v", e.Package, e.Tag, e.Err)
}

func (e *PublishFailure) Unwrap() error {
	return e.Err
}

// ExitCode returns the publish command's exit status, or -1 if unknown.
func (e *PublishFailure) ExitCode() int {
	return exitCodeOf(e.Err)
}

func exitCodeOf(err error) int {
	var cmdErr *invoker.CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.ExitCode
	}
	return -1
}

package clix

import (
	"errors"
	"fmt"
	"strings"

	"github.com/indaco/shiplane/internal/orchestrator"
	"github.com/indaco/shiplane/internal/pipeline"
	"github.com/indaco/shiplane/internal/printer"
)

// PrintSummary prints one line per package and a closing count line.
func PrintSummary(summary *orchestrator.Summary) {
	if summary == nil || len(summary.Outcomes) == 0 {
		return
	}

	_, _ = fmt.Fprintln(printer.Output)
	for _, o := range summary.Outcomes {
		_, _ = fmt.Fprintln(printer.Output, FormatOutcome(o))
	}

	var counts []string
	for _, status := range []orchestrator.Status{
		orchestrator.StatusReleased,
		orchestrator.StatusPlanned,
		orchestrator.StatusSkipped,
		orchestrator.StatusFailed,
	} {
		if n := summary.Count(status); n > 0 {
			counts = append(counts, fmt.Sprintf("%d %s", n, status))
		}
	}
	printer.PrintFaint(strings.Join(counts, ", "))
}

// FormatOutcome renders one summary line.
func FormatOutcome(o orchestrator.Outcome) string {
	switch o.Status() {
	case orchestrator.StatusFailed:
		return fmt.Sprintf("%s %s %s", printer.ErrorBadge("FAIL"), printer.Bold(o.Name()), printer.Faint(failureDetail(o.Err)))
	case orchestrator.StatusSkipped:
		reason := ""
		if o.Result != nil {
			reason = o.Result.SkipReason
		}
		return fmt.Sprintf("%s %s %s", printer.WarningBadge("SKIP"), printer.Bold(o.Name()), printer.Faint(reason))
	}

	r := o.Result
	line := fmt.Sprintf("%s %s -> %s %s",
		printer.Bold(r.Package),
		r.PreviousVersion,
		printer.Success(r.Version),
		printer.Faint(fmt.Sprintf("(%s, %d commits)", r.Bump, r.Commits)),
	)
	if o.Status() == orchestrator.StatusPlanned {
		return printer.Info("PLAN") + " " + line
	}
	return printer.SuccessBadge("DONE") + " " + line
}

// failureDetail shortens command failures to their step and exit status. The
// full error, stderr included, is printed once the command returns.
func failureDetail(err error) string {
	var build *pipeline.BuildFailure
	var publish *pipeline.PublishFailure
	switch {
	case errors.As(err, &build) && build.ExitCode() >= 0:
		return fmt.Sprintf("build failed (exit %d)", build.ExitCode())
	case errors.As(err, &publish) && publish.ExitCode() >= 0:
		return fmt.Sprintf("publish failed (exit %d)", publish.ExitCode())
	}
	return err.Error()
}

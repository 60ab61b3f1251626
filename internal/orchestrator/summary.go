package orchestrator

import "github.com/indaco/shiplane/internal/pipeline"

// Status is the final state of one package in a run.
type Status string

const (
	StatusReleased Status = "released"
	StatusPlanned  Status = "planned"
	StatusSkipped  Status = "skipped"
	StatusFailed   Status = "failed"
)

// Outcome is the result of one package pipeline.
type Outcome struct {
	Dir    string
	Result *pipeline.Result
	Err    error
}

// Status classifies the outcome.
func (o Outcome) Status() Status {
	switch {
	case o.Err != nil:
		return StatusFailed
	case o.Result == nil || o.Result.Skipped:
		return StatusSkipped
	case o.Result.DryRun:
		return StatusPlanned
	default:
		return StatusReleased
	}
}

// Name returns the package name, or the directory when the manifest was unusable.
func (o Outcome) Name() string {
	if o.Result != nil && o.Result.Package != "" {
		return o.Result.Package
	}
	return o.Dir
}

// Summary lists every outcome of a run in sibling order.
type Summary struct {
	Outcomes []Outcome
}

// Count returns the number of outcomes with status s.
func (s *Summary) Count(status Status) int {
	n := 0
	for _, o := range s.Outcomes {
		if o.Status() == status {
			n++
		}
	}
	return n
}

// Package commitparser derives a release bump from conventional commit markers.
package commitparser

import (
	"strings"

	"github.com/indaco/shiplane/internal/git"
	"github.com/indaco/shiplane/internal/semver"
)

// Markers recognised in commit subjects and bodies, strongest first.
const (
	MarkerBreaking = "BREAKING CHANGE:"
	MarkerFeature  = "feat:"
	MarkerFix      = "fix:"
)

// Analyze returns the strongest bump found across every commit of history.
// Subject and body are scanned independently; commit order does not matter.
func Analyze(history git.History) semver.Bump {
	return AnalyzeCommits(history.Commits)
}

// AnalyzeCommits is Analyze over a plain commit slice.
func AnalyzeCommits(commits []git.Commit) semver.Bump {
	decision := semver.BumpNone
	for _, c := range commits {
		decision = decision.Max(classify(c.Subject)).Max(classify(c.Body))
		if decision == semver.BumpMajor {
			return decision
		}
	}
	return decision
}

// classify maps a single message to the bump its strongest marker implies.
func classify(text string) semver.Bump {
	switch {
	case text == "":
		return semver.BumpNone
	case strings.Contains(text, MarkerBreaking):
		return semver.BumpMajor
	case strings.Contains(text, MarkerFeature):
		return semver.BumpMinor
	case strings.Contains(text, MarkerFix):
		return semver.BumpPatch
	default:
		return semver.BumpNone
	}
}

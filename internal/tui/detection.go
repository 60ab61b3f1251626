package tui

import (
	"os"

	"golang.org/x/term"
)

// ciEnvs are environment variables set by common CI providers.
var ciEnvs = []string{
	"CI",
	"CONTINUOUS_INTEGRATION",
	"GITHUB_ACTIONS",
	"GITLAB_CI",
	"CIRCLECI",
	"JENKINS_HOME",
	"BUILDKITE",
	"BITBUCKET_BUILD_NUMBER",
	"TF_BUILD",
}

// isTerminalFn is swapped in tests.
var isTerminalFn = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd())) && term.IsTerminal(int(os.Stdin.Fd())) //nolint:gosec // G115: fd is a small value
}

// IsInteractive reports whether prompts can be shown: stdin and stdout are
// terminals and no CI provider is detected.
func IsInteractive() bool {
	if !isTerminalFn() {
		return false
	}
	for _, env := range ciEnvs {
		if os.Getenv(env) != "" {
			return false
		}
	}
	return true
}

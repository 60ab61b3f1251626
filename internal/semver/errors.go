package semver

import "fmt"

// InvalidVersionError reports a string that is not a valid semantic version.
type InvalidVersionError struct {
	Input  string
	Reason string
	Err    error
}

func (e *InvalidVersionError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("invalid version %q", e.Input)
	}
	return fmt.Sprintf("invalid version %q: %s", e.Input, e.Reason)
}

// Unwrap returns the underlying parse error, if any.
func (e *InvalidVersionError) Unwrap() error {
	return e.Err
}

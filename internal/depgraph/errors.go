package depgraph

import "fmt"

// CircularDependencyError reports a cycle found before any manifest write.
type CircularDependencyError struct {
	// Package is the package being released.
	Package string

	// Via is the local dependency that closes the cycle. Empty for a self cycle.
	Via string
}

func (e *CircularDependencyError) Error() string {
	if e.Via == "" {
		return fmt.Sprintf("%s depends on itself.", e.Package)
	}
	return fmt.Sprintf("%s depends on %s which depends on %s.", e.Package, e.Via, e.Package)
}

// Package depgraph detects dependency cycles between local packages before a
// release rewrites any manifest.
//
// Two shapes are detected: a package that lists itself as a dependency, and
// two local packages that depend on each other. Longer cycles are not
// reported. The mutual check needs an alias map resolving dependency names to
// package directories; without one only the self check runs.
package depgraph

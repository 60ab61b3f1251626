// Package git reads commit history from the local repository by shelling out
// to the git binary. It is the only package that knows git's output formats.
package git

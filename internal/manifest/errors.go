package manifest

import "fmt"

// NotFoundError indicates a package directory without a manifest.
type NotFoundError struct {
	Path string
	Err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("manifest not found: %s", e.Path)
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}

// ParseError indicates a manifest that is not valid JSON or has the wrong shape.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse manifest at %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

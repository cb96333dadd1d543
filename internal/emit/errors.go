package emit

import "fmt"

// WriteError reports a failure to write the bundle to its destination.
type WriteError struct {
	Path string
	Err  error
}

// Error implements the error interface for WriteError.
func (e *WriteError) Error() string {
	return fmt.Sprintf("writing %s: %v", e.Path, e.Err)
}

// Unwrap provides compatibility for Go 1.13 error chains.
func (e *WriteError) Unwrap() error { return e.Err }

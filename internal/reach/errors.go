package reach

import (
	"fmt"
	"strings"
)

// UnresolvedReferenceError reports a used symbol that no import edge or
// in-scope definition resolves.
type UnresolvedReferenceError struct {
	File   string
	Line   int
	Column int
	Symbol string
}

// Error implements the error interface for UnresolvedReferenceError.
func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("unresolved reference %s at %s:%d:%d", e.Symbol, e.File, e.Line, e.Column)
}

// AmbiguousReferenceError reports an unqualified symbol that several dot
// imports provide. Picking one would be a guess, so it is an error.
type AmbiguousReferenceError struct {
	File       string
	Line       int
	Column     int
	Symbol     string
	Candidates []string
}

// Error implements the error interface for AmbiguousReferenceError.
func (e *AmbiguousReferenceError) Error() string {
	return fmt.Sprintf("ambiguous reference %s at %s:%d:%d: provided by %s", e.Symbol, e.File, e.Line, e.Column, strings.Join(e.Candidates, ", "))
}

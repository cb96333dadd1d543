package source

import "fmt"

// ParseError reports malformed source, localized to a file position.
type ParseError struct {
	File   string
	Line   int
	Column int
	Msg    string
}

// Error implements the error interface for ParseError.
func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s:%d:%d: %s", e.File, e.Line, e.Column, e.Msg)
	}
	return fmt.Sprintf("parse error in %s: %s", e.File, e.Msg)
}

package modgraph

import "fmt"

// UnresolvedModuleError reports an import of a library module that has no
// source content.
type UnresolvedModuleError struct {
	File       string
	Line       int
	ImportPath string
}

// Error implements the error interface for UnresolvedModuleError.
func (e *UnresolvedModuleError) Error() string {
	return fmt.Sprintf("unresolved module %q imported at %s:%d: no Go sources found", e.ImportPath, e.File, e.Line)
}

// DuplicateItemError reports two declarations of one name in a module,
// which would break the single-owner rule for items.
type DuplicateItemError struct {
	Module       string
	Name         string
	File         string
	PreviousFile string
}

// Error implements the error interface for DuplicateItemError.
func (e *DuplicateItemError) Error() string {
	return fmt.Sprintf("%s redeclared in module %s: %s (previous declaration in %s)", e.Name, e.Module, e.File, e.PreviousFile)
}

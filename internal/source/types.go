package source

import (
	"go/ast"
	"go/token"
)

// Layout locates the inputs of a single bundling run.
type Layout struct {
	// Root is the project directory holding go.mod.
	Root string
	// LibraryDir is the library root, relative to Root ("." for the whole module).
	LibraryDir string
	// EntryFile is the problem's entry file, relative to Root.
	EntryFile string
}

// File is one parsed source file.
type File struct {
	// Path is the root-relative path with forward slashes, e.g. "lib/io/scan.go".
	Path string
	// Module is the module path the file belongs to, e.g. "io" or "main".
	Module string
	// Syntax is the parsed file, comments included.
	Syntax *ast.File
}

// Snapshot is the loaded, unresolved forest handed to the graph builder.
type Snapshot struct {
	Fset *token.FileSet
	// ModulePath is the module path declared in go.mod.
	ModulePath string
	// ImportPrefix is the import path that maps to the library root.
	ImportPrefix string
	Entry        *File
	// Library holds every library file sorted by Path.
	Library []*File
}

// ModuleForImport maps an import path to a library module path. It returns
// false for imports outside the library (standard library, third parties).
func (s *Snapshot) ModuleForImport(importPath string) (string, bool) {
	if importPath == s.ImportPrefix {
		return rootModule, true
	}
	rest, ok := cutPathPrefix(importPath, s.ImportPrefix)
	if !ok {
		return "", false
	}
	return rest, true
}

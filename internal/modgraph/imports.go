package modgraph

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/vk/gobundle/internal/source"
)

var majorVersion = regexp.MustCompile(`^v[0-9]+$`)

// resolveImports builds the import edges of f.
func (t *SourceTree) resolveImports(snap *source.Snapshot, f *File) error {
	for _, spec := range f.Syntax.Imports {
		importPath, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			return &source.ParseError{File: f.Path, Line: t.Fset.Position(spec.Pos()).Line, Msg: "malformed import path " + spec.Path.Value}
		}
		edge := &ImportEdge{Path: importPath, Spec: spec}

		if module, ok := snap.ModuleForImport(importPath); ok {
			node, found := t.modules[module]
			if !found || !node.HasSource() {
				return &UnresolvedModuleError{File: f.Path, Line: t.Fset.Position(spec.Pos()).Line, ImportPath: importPath}
			}
			edge.Module = module
			edge.Name = node.Name
		} else if importPath == snap.ModulePath || strings.HasPrefix(importPath, snap.ModulePath+"/") {
			// A package of this project outside the library cannot be bundled.
			return &UnresolvedModuleError{File: f.Path, Line: t.Fset.Position(spec.Pos()).Line, ImportPath: importPath}
		} else {
			edge.Name = DefaultImportName(importPath)
		}

		if spec.Name != nil {
			edge.Name = spec.Name.Name
			edge.Explicit = true
		}
		f.Imports = append(f.Imports, edge)
		if edge.Name != "_" && edge.Name != "." {
			f.byName[edge.Name] = edge
		}
	}
	return nil
}

// DefaultImportName guesses the package name of an external import path
// following the go tool's conventions: the last element, skipping a major
// version suffix, without a "go-" prefix or ".vN" suffix.
func DefaultImportName(importPath string) string {
	elems := strings.Split(importPath, "/")
	name := elems[len(elems)-1]
	if majorVersion.MatchString(name) && len(elems) > 1 {
		name = elems[len(elems)-2]
	}
	if i := strings.Index(name, ".v"); i > 0 {
		name = name[:i]
	}
	name = strings.TrimPrefix(name, "go-")
	return strings.NewReplacer("-", "_", ".", "_").Replace(name)
}

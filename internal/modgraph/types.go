package modgraph

import (
	"go/ast"
	"go/token"

	"github.com/vk/gobundle/internal/itemid"
	"github.com/vk/gobundle/internal/source"
)

// Kind tags what sort of declaration an item is.
type Kind int

const (
	KindFunc Kind = iota
	KindType
	KindInterface
	KindMethod
	// KindImpl is an explicit interface satisfaction assertion for a type.
	KindImpl
	KindConst
	KindVar
	// KindRule is a const group using implicit repetition; it is indivisible.
	KindRule
	// KindInit is a package initialiser: an init func or a blank var.
	KindInit
	// KindAlias is a re-export of an item defined in another module.
	KindAlias
)

var kindNames = [...]string{"func", "type", "interface", "method", "impl", "const", "var", "rule", "init", "alias"}

// String returns the lower-case kind name.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Declares reports whether items of this kind introduce package-level names.
func (k Kind) Declares() bool {
	switch k {
	case KindMethod, KindImpl, KindInit:
		return false
	}
	return true
}

// ImportEdge maps one import spec, as written in a consuming file, to the
// module it resolves to.
type ImportEdge struct {
	// Name is the local name in the file: explicit, ".", "_" or derived.
	Name string
	Path string
	// Module is the library module path; empty for external imports.
	Module string
	// Explicit is true when the source names the import.
	Explicit bool
	Spec     *ast.ImportSpec
}

// IsLibrary reports whether the import points into the library.
func (e *ImportEdge) IsLibrary() bool {
	return e.Module != ""
}

// File is a source file attached to its module, with resolved imports.
type File struct {
	*source.File
	Node    *ModuleNode
	Imports []*ImportEdge
	byName  map[string]*ImportEdge
}

// Import returns the import bound to a local name in this file.
func (f *File) Import(name string) (*ImportEdge, bool) {
	e, ok := f.byName[name]
	return e, ok
}

// DotImports returns the file's dot imports in source order.
func (f *File) DotImports() []*ImportEdge {
	var out []*ImportEdge
	for _, e := range f.Imports {
		if e.Name == "." {
			out = append(out, e)
		}
	}
	return out
}

// AliasTarget is the item an alias edge points at.
type AliasTarget struct {
	Module string
	Name   string
}

// ItemDef is one top-level declaration with a stable identity.
type ItemDef struct {
	ID   itemid.ID
	Kind Kind
	// Names lists every package-level name the item declares; the first is
	// the primary one. Empty for methods, assertions and initialisers.
	Names []string
	// Decl is the declaration to emit. Grouped specs get a synthesized
	// single-spec GenDecl sharing the original nodes.
	Decl     ast.Decl
	File     *File
	Exported bool
	// Receiver is the receiver type name for methods.
	Receiver string
	// Alias is set for re-exports.
	Alias *AliasTarget
	// Asserts is the concrete type an assertion is about.
	Asserts string
}

// Pos returns the position of the declaration.
func (it *ItemDef) Pos() token.Pos {
	return it.Decl.Pos()
}

// ModuleNode is one package directory of the tree.
type ModuleNode struct {
	Path string
	// Name is the Go package name; empty for directories without sources.
	Name     string
	Children []string
	Items    []*ItemDef
	Files    []*File

	names   map[string]*ItemDef
	methods map[string][]*ItemDef
	impls   map[string][]*ItemDef
	inits   []*ItemDef
}

// HasSource reports whether the module has at least one source file.
func (m *ModuleNode) HasSource() bool {
	return len(m.Files) > 0
}

// Lookup returns the item declaring name at package level.
func (m *ModuleNode) Lookup(name string) (*ItemDef, bool) {
	it, ok := m.names[name]
	return it, ok
}

// Methods returns the methods declared on the named receiver type.
func (m *ModuleNode) Methods(recv string) []*ItemDef {
	return m.methods[recv]
}

// Impls returns the satisfaction assertions about the named type.
func (m *ModuleNode) Impls(typeName string) []*ItemDef {
	return m.impls[typeName]
}

// Initializers returns init funcs and blank vars in source order.
func (m *ModuleNode) Initializers() []*ItemDef {
	return m.inits
}

// SourceTree is the addressable module hierarchy of one run.
type SourceTree struct {
	Fset         *token.FileSet
	ImportPrefix string
	Entry        *ModuleNode

	modules map[string]*ModuleNode
	items   map[itemid.ID]*ItemDef
}

// Module returns the module at path.
func (t *SourceTree) Module(path string) (*ModuleNode, bool) {
	m, ok := t.modules[path]
	return m, ok
}

// Item returns the item with the given identity.
func (t *SourceTree) Item(id itemid.ID) (*ItemDef, bool) {
	it, ok := t.items[id]
	return it, ok
}

// ItemCount returns the number of items in the tree.
func (t *SourceTree) ItemCount() int {
	return len(t.items)
}

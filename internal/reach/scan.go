package reach

import (
	"go/ast"
	"go/token"

	"github.com/vk/gobundle/internal/modgraph"
)

type refKind int

const (
	// refIdent is an unqualified use of a package-level name.
	refIdent refKind = iota
	// refKey is an unqualified composite literal key; it may name a struct
	// field, so failing to resolve it is not an error.
	refKey
	// refQualified is a `pkg.Name` use through a file import.
	refQualified
)

type ref struct {
	kind  refKind
	ident *ast.Ident
	sel   *ast.SelectorExpr
}

// scanResult is what one item's declaration mentions.
type scanResult struct {
	refs []ref
	// selected holds method or field names selected on values, plus the
	// method names of interface types written in the declaration.
	selected []string
	locals   map[string]bool
	// embedded holds the types of embedded struct fields.
	embedded []ast.Expr
}

type scanner struct {
	file *modgraph.File
	out  *scanResult
}

// scanItem collects the references of one item's declaration. The item's own
// names are declarations, not references, and are skipped.
func scanItem(it *modgraph.ItemDef) *scanResult {
	s := &scanner{file: it.File, out: &scanResult{locals: make(map[string]bool)}}
	switch d := it.Decl.(type) {
	case *ast.FuncDecl:
		s.fields(d.Recv, true)
		s.fields(d.Type.TypeParams, true)
		s.fields(d.Type.Params, true)
		s.fields(d.Type.Results, true)
		if d.Body != nil {
			s.walk(d.Body)
		}
	case *ast.GenDecl:
		for _, spec := range d.Specs {
			switch sp := spec.(type) {
			case *ast.TypeSpec:
				s.fields(sp.TypeParams, true)
				s.walk(sp.Type)
			case *ast.ValueSpec:
				s.walk(sp.Type)
				for _, v := range sp.Values {
					s.walk(v)
				}
			}
		}
	}
	return s.out
}

func (s *scanner) walk(n ast.Node) {
	if n == nil {
		return
	}
	ast.Inspect(n, s.visit)
}

func (s *scanner) visit(n ast.Node) bool {
	switch n := n.(type) {
	case *ast.Ident:
		s.ident(n, refIdent)
		return false
	case *ast.SelectorExpr:
		s.selector(n)
		return false
	case *ast.FuncType:
		s.fields(n.TypeParams, true)
		s.fields(n.Params, true)
		s.fields(n.Results, true)
		return false
	case *ast.StructType:
		for _, f := range n.Fields.List {
			if len(f.Names) == 0 {
				s.out.embedded = append(s.out.embedded, f.Type)
			}
		}
		s.fields(n.Fields, false)
		return false
	case *ast.InterfaceType:
		if n.Methods != nil {
			for _, m := range n.Methods.List {
				for _, name := range m.Names {
					s.out.selected = append(s.out.selected, name.Name)
				}
				s.walk(m.Type)
			}
		}
		return false
	case *ast.CompositeLit:
		s.compositeLit(n)
		return false
	case *ast.BranchStmt:
		return false
	case *ast.LabeledStmt:
		s.walk(n.Stmt)
		return false
	}
	return true
}

// fields walks field types. Names of parameters and results are locals;
// struct field names are not scoped and are ignored.
func (s *scanner) fields(fl *ast.FieldList, scoped bool) {
	if fl == nil {
		return
	}
	for _, f := range fl.List {
		if scoped {
			for _, name := range f.Names {
				s.out.locals[name.Name] = true
			}
		}
		s.walk(f.Type)
	}
}

func (s *scanner) compositeLit(n *ast.CompositeLit) {
	s.walk(n.Type)
	keyed := true
	switch n.Type.(type) {
	case *ast.MapType, *ast.ArrayType:
		keyed = false
	}
	for _, elt := range n.Elts {
		kv, ok := elt.(*ast.KeyValueExpr)
		if !ok {
			s.walk(elt)
			continue
		}
		if id, ok := kv.Key.(*ast.Ident); ok && keyed {
			s.ident(id, refKey)
		} else {
			s.walk(kv.Key)
		}
		s.walk(kv.Value)
	}
}

func (s *scanner) ident(id *ast.Ident, kind refKind) {
	if id.Name == "_" {
		return
	}
	if id.Obj != nil && s.file.Syntax.Scope.Lookup(id.Name) != id.Obj {
		if id.Obj.Kind != ast.Lbl {
			s.out.locals[id.Name] = true
		}
		return
	}
	s.out.refs = append(s.out.refs, ref{kind: kind, ident: id})
}

func (s *scanner) selector(sel *ast.SelectorExpr) {
	if x, ok := sel.X.(*ast.Ident); ok && x.Obj == nil {
		if _, isImport := s.file.Import(x.Name); isImport {
			s.out.refs = append(s.out.refs, ref{kind: refQualified, ident: x, sel: sel})
			return
		}
	}
	s.out.selected = append(s.out.selected, sel.Sel.Name)
	s.walk(sel.X)
}

func position(fset *token.FileSet, pos token.Pos) (int, int) {
	p := fset.Position(pos)
	return p.Line, p.Column
}

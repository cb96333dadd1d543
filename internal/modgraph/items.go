package modgraph

import (
	"fmt"
	"go/ast"
	"go/token"

	"github.com/vk/gobundle/internal/itemid"
)

// extractor turns the declarations of one file into items.
type extractor struct {
	tree *SourceTree
	file *File
}

func (x *extractor) extract() error {
	for _, decl := range x.file.Syntax.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			if err := x.addFunc(d); err != nil {
				return err
			}
		case *ast.GenDecl:
			var err error
			switch d.Tok {
			case token.TYPE:
				err = x.addTypes(d)
			case token.CONST:
				err = x.addConsts(d)
			case token.VAR:
				err = x.addVars(d)
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func (x *extractor) module() *ModuleNode {
	return x.file.Node
}

func (x *extractor) addFunc(d *ast.FuncDecl) error {
	name := d.Name.Name
	if d.Recv == nil || len(d.Recv.List) == 0 {
		if name == "init" {
			return x.add(&ItemDef{ID: x.syntheticID("init"), Kind: KindInit, Decl: d})
		}
		return x.add(&ItemDef{ID: itemid.New(x.module().Path, name), Kind: KindFunc, Names: []string{name}, Decl: d, Exported: ast.IsExported(name)})
	}
	recv := ReceiverTypeName(d.Recv.List[0].Type)
	return x.add(&ItemDef{
		ID:       itemid.NewMethod(x.module().Path, recv, name),
		Kind:     KindMethod,
		Decl:     d,
		Exported: ast.IsExported(name),
		Receiver: recv,
	})
}

func (x *extractor) addTypes(d *ast.GenDecl) error {
	for _, spec := range d.Specs {
		s := spec.(*ast.TypeSpec)
		name := s.Name.Name
		if name == "_" {
			continue
		}
		item := &ItemDef{ID: itemid.New(x.module().Path, name), Kind: KindType, Names: []string{name}, Decl: single(d, s), Exported: ast.IsExported(name)}
		if s.Assign.IsValid() && s.TypeParams == nil {
			if target := x.aliasTarget(s.Type); target != nil {
				item.Kind = KindAlias
				item.Alias = target
			}
		}
		if _, ok := s.Type.(*ast.InterfaceType); ok && item.Kind == KindType {
			item.Kind = KindInterface
		}
		if err := x.add(item); err != nil {
			return err
		}
	}
	return nil
}

func (x *extractor) addConsts(d *ast.GenDecl) error {
	if isRuleGroup(d) {
		var names []string
		for _, spec := range d.Specs {
			names = append(names, nonBlank(spec.(*ast.ValueSpec).Names)...)
		}
		if len(names) == 0 {
			return nil
		}
		return x.add(&ItemDef{ID: itemid.New(x.module().Path, names[0]), Kind: KindRule, Names: names, Decl: d, Exported: ast.IsExported(names[0])})
	}

	for _, spec := range d.Specs {
		s := spec.(*ast.ValueSpec)
		names := nonBlank(s.Names)
		if len(names) == 0 {
			continue
		}
		item := &ItemDef{ID: itemid.New(x.module().Path, names[0]), Kind: KindConst, Names: names, Decl: single(d, s), Exported: ast.IsExported(names[0])}
		x.detectAlias(item, s)
		if err := x.add(item); err != nil {
			return err
		}
	}
	return nil
}

func (x *extractor) addVars(d *ast.GenDecl) error {
	for _, spec := range d.Specs {
		s := spec.(*ast.ValueSpec)
		names := nonBlank(s.Names)
		if len(names) == 0 {
			item := &ItemDef{ID: x.syntheticID("_"), Kind: KindInit, Decl: single(d, s)}
			if s.Type != nil && len(s.Values) == 1 {
				if typ := AssertedType(s.Values[0]); typ != "" {
					item.Kind = KindImpl
					item.Asserts = typ
				}
			}
			if err := x.add(item); err != nil {
				return err
			}
			continue
		}
		item := &ItemDef{ID: itemid.New(x.module().Path, names[0]), Kind: KindVar, Names: names, Decl: single(d, s), Exported: ast.IsExported(names[0])}
		x.detectAlias(item, s)
		if err := x.add(item); err != nil {
			return err
		}
	}
	return nil
}

// detectAlias marks `NAME = pkg.Target` value specs as re-exports.
func (x *extractor) detectAlias(item *ItemDef, s *ast.ValueSpec) {
	if len(s.Names) != 1 || s.Type != nil || len(s.Values) != 1 {
		return
	}
	if target := x.aliasTarget(s.Values[0]); target != nil {
		item.Kind = KindAlias
		item.Alias = target
	}
}

// aliasTarget returns the library item a bare qualified identifier names.
func (x *extractor) aliasTarget(expr ast.Expr) *AliasTarget {
	sel, ok := expr.(*ast.SelectorExpr)
	if !ok {
		return nil
	}
	pkg, ok := sel.X.(*ast.Ident)
	if !ok {
		return nil
	}
	edge, ok := x.file.Import(pkg.Name)
	if !ok || !edge.IsLibrary() {
		return nil
	}
	return &AliasTarget{Module: edge.Module, Name: sel.Sel.Name}
}

// syntheticID numbers anonymous items (init funcs, blank vars) per module.
func (x *extractor) syntheticID(prefix string) itemid.ID {
	n := 0
	for _, it := range x.module().Items {
		if !it.Kind.Declares() && !it.ID.IsMethod() {
			n++
		}
	}
	return itemid.New(x.module().Path, fmt.Sprintf("%s#%d", prefix, n))
}

func (x *extractor) add(item *ItemDef) error {
	m := x.module()
	item.File = x.file
	for _, name := range item.Names {
		if prev, ok := m.names[name]; ok {
			return &DuplicateItemError{Module: m.Path, Name: name, File: x.file.Path, PreviousFile: prev.File.Path}
		}
	}
	if prev, ok := x.tree.items[item.ID]; ok {
		return &DuplicateItemError{Module: m.Path, Name: item.ID.Name, File: x.file.Path, PreviousFile: prev.File.Path}
	}
	for _, name := range item.Names {
		m.names[name] = item
	}
	m.Items = append(m.Items, item)
	x.tree.items[item.ID] = item
	return nil
}

// single returns a declaration holding only spec. Ungrouped declarations
// are returned unchanged so their doc comment stays attached.
func single(d *ast.GenDecl, spec ast.Spec) ast.Decl {
	if len(d.Specs) == 1 {
		return d
	}
	return &ast.GenDecl{Doc: specDoc(spec), TokPos: spec.Pos(), Tok: d.Tok, Specs: []ast.Spec{spec}}
}

func specDoc(spec ast.Spec) *ast.CommentGroup {
	switch s := spec.(type) {
	case *ast.ValueSpec:
		return s.Doc
	case *ast.TypeSpec:
		return s.Doc
	}
	return nil
}

// isRuleGroup reports whether a const group relies on implicit repetition
// of a previous spec's expression list.
func isRuleGroup(d *ast.GenDecl) bool {
	if !d.Lparen.IsValid() {
		return false
	}
	for i, spec := range d.Specs {
		if i > 0 && len(spec.(*ast.ValueSpec).Values) == 0 {
			return true
		}
	}
	return false
}

func isVarDecl(d ast.Decl) bool {
	g, ok := d.(*ast.GenDecl)
	return ok && g.Tok == token.VAR
}

func nonBlank(idents []*ast.Ident) []string {
	var names []string
	for _, id := range idents {
		if id.Name != "_" {
			names = append(names, id.Name)
		}
	}
	return names
}

// ReceiverTypeName extracts the base type name of a method receiver,
// unwrapping pointers, parentheses and type parameter lists.
func ReceiverTypeName(expr ast.Expr) string {
	for {
		switch e := expr.(type) {
		case *ast.StarExpr:
			expr = e.X
		case *ast.ParenExpr:
			expr = e.X
		case *ast.IndexExpr:
			expr = e.X
		case *ast.IndexListExpr:
			expr = e.X
		case *ast.Ident:
			return e.Name
		default:
			return ""
		}
	}
}

// AssertedType returns the local type named by the value side of a
// satisfaction assertion: `(*T)(nil)`, `T{}`, `&T{}`, `new(T)` or `T(v)`.
func AssertedType(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.CallExpr:
		if fun, ok := e.Fun.(*ast.Ident); ok && fun.Name == "new" && len(e.Args) == 1 {
			return typeName(e.Args[0])
		}
		if len(e.Args) == 1 {
			return typeName(e.Fun)
		}
	case *ast.CompositeLit:
		return typeName(e.Type)
	case *ast.UnaryExpr:
		if e.Op == token.AND {
			return AssertedType(e.X)
		}
	}
	return ""
}

func typeName(expr ast.Expr) string {
	if expr == nil {
		return ""
	}
	return ReceiverTypeName(expr)
}

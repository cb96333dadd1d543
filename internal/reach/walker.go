package reach

import (
	"context"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"sort"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/vk/gobundle/internal/ctxlog"
	"github.com/vk/gobundle/internal/itemid"
	"github.com/vk/gobundle/internal/modgraph"
	"github.com/vk/gobundle/internal/refgraph"
)

type walker struct {
	tree *modgraph.SourceTree
	keep map[string]bool
	res  *Result

	queue    []*modgraph.ItemDef
	selected map[string]bool
	// waiting holds methods of reachable types until their name is selected.
	waiting map[string][]*modgraph.ItemDef
	modules map[*modgraph.ModuleNode]bool
}

// Walk computes the reachable set of the tree's entry point.
func Walk(ctx context.Context, tree *modgraph.SourceTree, opts Options) (*Result, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Walk: Starting reachability walk.", "items", tree.ItemCount())

	scans, err := lru.New[itemid.ID, *scanResult](max(tree.ItemCount(), 1))
	if err != nil {
		return nil, fmt.Errorf("creating scan cache: %w", err)
	}
	w := &walker{
		tree: tree,
		keep: make(map[string]bool, len(opts.KeepMethods)),
		res: &Result{
			Set:        newReachableSet(),
			Graph:      refgraph.New(),
			Idents:     make(map[*ast.Ident]Target),
			Selectors:  make(map[*ast.SelectorExpr]Target),
			External:   make(map[*ast.SelectorExpr]*modgraph.ImportEdge),
			DotImports: make(map[string]*modgraph.ImportEdge),
			Files:      make(map[*modgraph.File]bool),
			Builtins:   make(map[string]bool),
			Qualified:  make(map[itemid.ID][]Target),
			tree:       tree,
			scans:      scans,
		},
		selected: make(map[string]bool),
		waiting:  make(map[string][]*modgraph.ItemDef),
		modules:  make(map[*modgraph.ModuleNode]bool),
	}
	for _, name := range opts.KeepMethods {
		w.keep[name] = true
	}

	if err := w.seed(); err != nil {
		return nil, err
	}
	for len(w.queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		it := w.queue[0]
		w.queue = w.queue[1:]
		if err := w.process(it); err != nil {
			return nil, err
		}
	}

	logger.Info("Walk: Reachability walk complete.", "reachable", w.res.Set.Len(), "total", tree.ItemCount())
	return w.res, nil
}

// seed marks the entry point and the initialisers of blank-imported library
// modules.
func (w *walker) seed() error {
	entry := w.tree.Entry
	main, ok := entry.Lookup("main")
	if !ok || main.Kind != modgraph.KindFunc {
		file := ""
		if len(entry.Files) > 0 {
			file = entry.Files[0].Path
		}
		return &UnresolvedReferenceError{File: file, Symbol: "main"}
	}
	w.res.Seeds = append(w.res.Seeds, main.ID)
	w.mark(nil, main)

	for _, f := range entry.Files {
		for _, edge := range f.Imports {
			if edge.Name != "_" || !edge.IsLibrary() {
				continue
			}
			m, _ := w.tree.Module(edge.Module)
			for _, init := range m.Initializers() {
				w.res.Seeds = append(w.res.Seeds, init.ID)
				w.mark(nil, init)
			}
		}
	}
	return nil
}

// mark records the edge and queues the target the first time it is seen.
func (w *walker) mark(from, to *modgraph.ItemDef) {
	if from != nil {
		w.res.Graph.AddEdge(from.ID, to.ID)
	} else {
		w.res.Graph.AddNode(to.ID)
	}
	if !w.res.Set.add(to.ID) {
		return
	}
	w.queue = append(w.queue, to)
	w.res.Files[to.File] = true

	m := to.File.Node
	if !w.modules[m] {
		w.modules[m] = true
		for _, init := range m.Initializers() {
			w.mark(to, init)
		}
	}

	switch to.Kind {
	case modgraph.KindType, modgraph.KindInterface:
		name := to.Names[0]
		for _, meth := range m.Methods(name) {
			member := meth.ID.Member()
			if w.selected[member] || w.keep[member] {
				w.mark(to, meth)
			} else {
				w.waiting[member] = append(w.waiting[member], meth)
			}
		}
		for _, impl := range m.Impls(name) {
			w.mark(to, impl)
		}
	}
}

// selectName releases methods waiting on a selected name.
func (w *walker) selectName(from *modgraph.ItemDef, name string) {
	if w.selected[name] {
		return
	}
	w.selected[name] = true
	for _, meth := range w.waiting[name] {
		w.mark(from, meth)
	}
	delete(w.waiting, name)
}

// useExternal releases the methods a standard package calls through its
// interfaces.
func (w *walker) useExternal(from *modgraph.ItemDef, importPath string) {
	for _, name := range CapabilityMethods[importPath] {
		w.selectName(from, name)
	}
}

func (w *walker) process(it *modgraph.ItemDef) error {
	sc := w.res.scanOf(it.ID)
	for _, name := range sc.selected {
		w.selectName(it, name)
	}
	for _, r := range sc.refs {
		if err := w.resolve(it, r); err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) resolve(it *modgraph.ItemDef, r ref) error {
	switch r.kind {
	case refQualified:
		edge, _ := it.File.Import(r.ident.Name)
		if !edge.IsLibrary() {
			w.res.External[r.sel] = edge
			w.useExternal(it, edge.Path)
			return nil
		}
		symbol := r.ident.Name + "." + r.sel.Sel.Name
		target, err := w.follow(it, edge.Module, r.sel.Sel.Name, r.sel.Sel.Pos(), symbol)
		if err != nil {
			return err
		}
		w.res.Selectors[r.sel] = target.Target
		w.res.Qualified[it.ID] = append(w.res.Qualified[it.ID], target.Target)
		w.mark(it, target.def)
		return nil
	default:
		target, err := w.unqualified(it, r.ident, r.kind == refKey)
		if err != nil || target == nil {
			return err
		}
		if r.kind == refIdent {
			w.res.Idents[r.ident] = target.Target
		}
		w.mark(it, target.def)
		return nil
	}
}

type resolved struct {
	Target
	def *modgraph.ItemDef
}

// unqualified resolves a bare name: package scope first, then library dot
// imports, then predeclared names, then external dot imports. A nil result
// with a nil error means the name needs no item.
func (w *walker) unqualified(it *modgraph.ItemDef, id *ast.Ident, soft bool) (*resolved, error) {
	name := id.Name
	if _, ok := it.File.Node.Lookup(name); ok {
		return w.follow(it, it.File.Node.Path, name, id.Pos(), name)
	}

	var candidates []*modgraph.ImportEdge
	var external []*modgraph.ImportEdge
	for _, edge := range it.File.DotImports() {
		if !edge.IsLibrary() {
			external = append(external, edge)
			continue
		}
		m, _ := w.tree.Module(edge.Module)
		if _, ok := m.Lookup(name); ok {
			candidates = append(candidates, edge)
		}
	}
	switch {
	case len(candidates) == 1:
		return w.follow(it, candidates[0].Module, name, id.Pos(), name)
	case len(candidates) > 1:
		if soft {
			return nil, nil
		}
		line, col := position(w.tree.Fset, id.Pos())
		paths := make([]string, 0, len(candidates))
		for _, c := range candidates {
			paths = append(paths, c.Path)
		}
		sort.Strings(paths)
		return nil, &AmbiguousReferenceError{File: it.File.Path, Line: line, Column: col, Symbol: name, Candidates: paths}
	}

	if types.Universe.Lookup(name) != nil {
		w.res.Builtins[name] = true
		if name == "error" {
			w.selectName(it, "Error")
		}
		return nil, nil
	}
	if len(external) > 0 {
		for _, edge := range external {
			w.res.DotImports[edge.Path] = edge
			w.useExternal(it, edge.Path)
		}
		return nil, nil
	}
	if soft {
		return nil, nil
	}
	return nil, w.unresolved(it.File, id.Pos(), name)
}

// follow looks a name up in a module and chases alias items to the
// declaration they re-export.
func (w *walker) follow(it *modgraph.ItemDef, module, name string, pos token.Pos, symbol string) (*resolved, error) {
	file := it.File
	seen := make(map[itemid.ID]bool)
	for {
		var def *modgraph.ItemDef
		if m, ok := w.tree.Module(module); ok {
			def, _ = m.Lookup(name)
		}
		if def == nil {
			return nil, w.unresolved(file, pos, symbol)
		}
		if def.Kind != modgraph.KindAlias {
			return &resolved{Target: Target{ID: def.ID, Name: name}, def: def}, nil
		}
		if seen[def.ID] {
			return nil, w.unresolved(def.File, def.Pos(), def.ID.String())
		}
		seen[def.ID] = true
		module, name = def.Alias.Module, def.Alias.Name
		file, pos, symbol = def.File, def.Pos(), def.Alias.Module+"."+def.Alias.Name
	}
}

func (w *walker) unresolved(file *modgraph.File, pos token.Pos, symbol string) error {
	line, col := position(w.tree.Fset, pos)
	return &UnresolvedReferenceError{File: file.Path, Line: line, Column: col, Symbol: symbol}
}

package flatten

import (
	"context"
	"path"
	"sort"
	"strings"

	"github.com/vk/gobundle/internal/ctxlog"
	"github.com/vk/gobundle/internal/itemid"
	"github.com/vk/gobundle/internal/modgraph"
	"github.com/vk/gobundle/internal/reach"
)

// Flatten orders and names the reachable items of tree.
func Flatten(ctx context.Context, tree *modgraph.SourceTree, res *reach.Result) (*Plan, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Flatten: Starting.", "reachable", res.Set.Len())

	p := &Plan{
		Tree:     tree,
		Reach:    res,
		items:    make(map[itemid.ID]*Item),
		external: make(map[string]string),
	}
	p.collect()
	logger.Debug("Flatten: Items collected.", "sections", len(p.Sections), "items", len(p.items))

	p.planImports()
	logger.Debug("Flatten: Imports planned.", "imports", len(p.Imports))

	renamed, err := p.assignNames()
	if err != nil {
		return nil, err
	}

	logger.Info("Flatten: Plan ready.", "items", len(p.items), "renamed", renamed, "imports", len(p.Imports))
	return p, nil
}

// collect groups reachable items by module in initialisation order, each
// ordered by file path and source offset.
func (p *Plan) collect() {
	byModule := make(map[string][]*modgraph.ItemDef)
	for _, id := range p.Reach.Set.IDs() {
		if def, ok := p.Tree.Item(id); ok {
			byModule[def.File.Node.Path] = append(byModule[def.File.Node.Path], def)
		}
	}
	for _, m := range p.initOrder() {
		defs := byModule[m.Path]
		if len(defs) == 0 {
			continue
		}
		sort.SliceStable(defs, func(i, j int) bool {
			if defs[i].File.Path != defs[j].File.Path {
				return defs[i].File.Path < defs[j].File.Path
			}
			return defs[i].Pos() < defs[j].Pos()
		})

		sec := &Section{Module: m.Path}
		for _, def := range defs {
			it := &Item{Def: def, Names: make(map[string]string, len(def.Names))}
			if def.Kind.Declares() {
				for _, name := range def.Names {
					it.Names[name] = name
				}
			}
			sec.Items = append(sec.Items, it)
			p.items[def.ID] = it
		}
		p.Sections = append(p.Sections, sec)
	}
}

// initOrder lists modules in the order Go initialises packages: repeatedly
// the smallest import path whose library imports are all initialised, with
// the entry module last. init funcs of one file run in source order, so the
// bundle's sections must follow this order.
func (p *Plan) initOrder() []*modgraph.ModuleNode {
	modules := p.Tree.Modules()
	entry, library := modules[0], modules[1:]

	deps := make(map[string][]string, len(library))
	for _, m := range library {
		for _, f := range m.Files {
			for _, edge := range f.Imports {
				if edge.IsLibrary() && edge.Module != m.Path {
					deps[m.Path] = append(deps[m.Path], edge.Module)
				}
			}
		}
	}

	done := make(map[string]bool, len(library))
	ready := func(m *modgraph.ModuleNode) bool {
		for _, dep := range deps[m.Path] {
			if !done[dep] {
				return false
			}
		}
		return true
	}
	out := make([]*modgraph.ModuleNode, 0, len(modules))
	for len(out) < len(library) {
		next := -1
		for i, m := range library {
			if !done[m.Path] && ready(m) {
				next = i
				break
			}
		}
		if next < 0 {
			// Import cycle: the go tool rejects it, keep path order.
			for _, m := range library {
				if !done[m.Path] {
					done[m.Path] = true
					out = append(out, m)
				}
			}
			break
		}
		done[library[next].Path] = true
		out = append(out, library[next])
	}
	return append(out, entry)
}

// planImports builds the output import block. External packages sharing a
// package name are all imported under path-derived names.
func (p *Plan) planImports() {
	byName := make(map[string][]string)
	seen := make(map[string]bool)
	for _, edge := range p.Reach.External {
		if seen[edge.Path] {
			continue
		}
		seen[edge.Path] = true
		name := modgraph.DefaultImportName(edge.Path)
		byName[name] = append(byName[name], edge.Path)
	}
	for name, paths := range byName {
		for _, importPath := range paths {
			local := name
			if len(paths) > 1 {
				local = qualifyPath(importPath)
			}
			p.external[importPath] = local
			imp := Import{Path: importPath}
			if local != path.Base(importPath) {
				imp.Name = local
			}
			p.Imports = append(p.Imports, imp)
		}
	}

	specials := make(map[Import]bool)
	for f := range p.Reach.Files {
		for _, edge := range f.Imports {
			if edge.Name == "_" && !edge.IsLibrary() {
				specials[Import{Name: "_", Path: edge.Path}] = true
			}
		}
	}
	for importPath := range p.Reach.DotImports {
		specials[Import{Name: ".", Path: importPath}] = true
	}
	for imp := range specials {
		p.Imports = append(p.Imports, imp)
	}

	sort.Slice(p.Imports, func(i, j int) bool {
		if p.Imports[i].Path != p.Imports[j].Path {
			return p.Imports[i].Path < p.Imports[j].Path
		}
		return p.Imports[i].Name < p.Imports[j].Name
	})
}

// assignNames qualifies colliding names and verifies the result is
// unambiguous. It returns the number of renamed items.
func (p *Plan) assignNames() (int, error) {
	reserved := make(map[string]bool)
	for _, local := range p.external {
		reserved[local] = true
	}
	for name := range p.Reach.Builtins {
		reserved[name] = true
	}

	owners := make(map[string][]*Item)
	for _, sec := range p.Sections {
		for _, it := range sec.Items {
			for name := range it.Names {
				owners[name] = append(owners[name], it)
			}
		}
	}

	collides := make(map[string]bool)
	for name, its := range owners {
		if len(its) > 1 || reserved[name] {
			collides[name] = true
		}
	}
	for id, targets := range p.Reach.Qualified {
		locals := p.Reach.LocalNames(id)
		for _, t := range targets {
			if locals[t.Name] {
				collides[t.Name] = true
			}
		}
	}

	// An embedded type's name is also a field name, so it cannot change.
	pinned := p.embeddedTypes()
	renamed := 0
	for name := range collides {
		for _, it := range owners[name] {
			if isEntryMain(it.Def.ID) || pinned[it.Def.ID] {
				continue
			}
			it.Names[name] = p.qualifier(it.Def.ID.Module) + "_" + name
			renamed++
		}
	}

	return renamed, p.verify(reserved)
}

// embeddedTypes returns the items embedded as struct fields anywhere in
// reachable code.
func (p *Plan) embeddedTypes() map[itemid.ID]bool {
	out := make(map[itemid.ID]bool)
	for _, sec := range p.Sections {
		for _, it := range sec.Items {
			for _, t := range p.Reach.Embeds(it.Def.ID) {
				out[t.ID] = true
			}
		}
	}
	return out
}

// verify rejects output names that are still shared, hidden by reserved
// names, or shadowed by locals of the items using them.
func (p *Plan) verify(reserved map[string]bool) error {
	final := make(map[string][]itemid.ID)
	for id, it := range p.items {
		for _, out := range it.Names {
			final[out] = append(final[out], id)
		}
	}
	names := make([]string, 0, len(final))
	for name := range final {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		ids := final[name]
		if len(ids) > 1 || (reserved[name] && !isEntryMain(ids[0])) {
			itemid.Sort(ids)
			return &NameCollisionError{Name: name, Items: ids}
		}
	}

	users := make([]itemid.ID, 0, len(p.Reach.Qualified))
	for id := range p.Reach.Qualified {
		users = append(users, id)
	}
	itemid.Sort(users)
	for _, id := range users {
		locals := p.Reach.LocalNames(id)
		for _, t := range p.Reach.Qualified[id] {
			if out := p.EmitName(t); locals[out] {
				return &NameCollisionError{Name: out, Items: []itemid.ID{t.ID, id}}
			}
		}
	}
	return nil
}

// qualifier returns the disambiguating prefix for a module's items.
func (p *Plan) qualifier(module string) string {
	switch module {
	case itemid.EntryModule:
		return "main"
	case itemid.RootModule:
		if m, ok := p.Tree.Module(module); ok && m.Name != "" {
			return m.Name
		}
		return "root"
	}
	return qualifyPath(module)
}

func isEntryMain(id itemid.ID) bool {
	return id.Module == itemid.EntryModule && id.Name == "main"
}

// qualifyPath turns a slash-separated path into an identifier fragment.
func qualifyPath(p string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '.', '-':
			return '_'
		}
		return r
	}, p)
}

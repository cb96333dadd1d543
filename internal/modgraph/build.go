package modgraph

import (
	"context"
	"path"
	"sort"

	"github.com/vk/gobundle/internal/ctxlog"
	"github.com/vk/gobundle/internal/itemid"
	"github.com/vk/gobundle/internal/source"
)

// Build constructs the SourceTree for a loaded snapshot.
func Build(ctx context.Context, snap *source.Snapshot) (*SourceTree, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Build: Starting source tree construction.")

	tree := &SourceTree{
		Fset:         snap.Fset,
		ImportPrefix: snap.ImportPrefix,
		modules:      make(map[string]*ModuleNode),
		items:        make(map[itemid.ID]*ItemDef),
	}

	// First pass: create all modules and attach files.
	tree.Entry = tree.ensureModule(itemid.EntryModule)
	files := make([]*File, 0, len(snap.Library)+1)
	for _, sf := range append([]*source.File{snap.Entry}, snap.Library...) {
		node := tree.ensureModule(sf.Module)
		node.Name = sf.Syntax.Name.Name
		f := &File{File: sf, Node: node, byName: make(map[string]*ImportEdge)}
		node.Files = append(node.Files, f)
		files = append(files, f)
	}
	for _, m := range tree.modules {
		sort.Strings(m.Children)
	}
	logger.Debug("Build: Module creation complete.", "module_count", len(tree.modules))

	// Second pass: resolve imports now that every module is known.
	for _, f := range files {
		if err := tree.resolveImports(snap, f); err != nil {
			return nil, err
		}
	}
	logger.Debug("Build: Import resolution complete.")

	// Third pass: extract items.
	for _, f := range files {
		x := extractor{tree: tree, file: f}
		if err := x.extract(); err != nil {
			return nil, err
		}
	}
	logger.Debug("Build: Item extraction complete.", "item_count", len(tree.items))

	// Final pass: link methods, assertions and initialisers.
	tree.link()

	logger.Info("Build: Source tree construction successful.", "modules", len(tree.modules), "items", len(tree.items))
	return tree, nil
}

// ensureModule returns the module at p, creating it and all of its ancestor
// directories as needed.
func (t *SourceTree) ensureModule(p string) *ModuleNode {
	if m, ok := t.modules[p]; ok {
		return m
	}
	m := &ModuleNode{
		Path:    p,
		names:   make(map[string]*ItemDef),
		methods: make(map[string][]*ItemDef),
		impls:   make(map[string][]*ItemDef),
	}
	t.modules[p] = m

	if p == itemid.EntryModule || p == itemid.RootModule {
		return m
	}
	parentPath := path.Dir(p)
	parent := t.ensureModule(parentPath)
	parent.Children = append(parent.Children, path.Base(p))
	return m
}

// link indexes methods, assertions and initialisers, and demotes items whose
// special form turned out not to apply.
func (t *SourceTree) link() {
	for _, m := range t.modules {
		for _, it := range m.Items {
			switch it.Kind {
			case KindImpl:
				target, ok := m.names[it.Asserts]
				if !ok || (target.Kind != KindType && target.Kind != KindInterface) {
					it.Kind = KindInit
					it.Asserts = ""
					m.inits = append(m.inits, it)
					continue
				}
				m.impls[it.Asserts] = append(m.impls[it.Asserts], it)
			case KindMethod:
				m.methods[it.Receiver] = append(m.methods[it.Receiver], it)
			case KindInit:
				m.inits = append(m.inits, it)
			case KindAlias:
				t.demoteValueAlias(it)
			}
		}
	}
}

// demoteValueAlias turns `var X = pkg.Y` back into a plain variable unless
// Y is a function: only function values can be substituted at use sites
// without changing behaviour.
func (t *SourceTree) demoteValueAlias(it *ItemDef) {
	if !isVarDecl(it.Decl) {
		return
	}
	target, ok := t.modules[it.Alias.Module]
	if !ok {
		return
	}
	def, ok := target.names[it.Alias.Name]
	if !ok || def.Kind == KindFunc || def.Kind == KindAlias {
		return
	}
	it.Kind = KindVar
	it.Alias = nil
}

// Modules returns every module with sources, entry first, then library
// modules sorted by path.
func (t *SourceTree) Modules() []*ModuleNode {
	out := []*ModuleNode{t.Entry}
	paths := make([]string, 0, len(t.modules))
	for p, m := range t.modules {
		if p != itemid.EntryModule && m.HasSource() {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)
	for _, p := range paths {
		out = append(out, t.modules[p])
	}
	return out
}

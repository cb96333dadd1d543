package reach

import (
	"go/ast"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/vk/gobundle/internal/itemid"
	"github.com/vk/gobundle/internal/modgraph"
	"github.com/vk/gobundle/internal/refgraph"
)

// CapabilityMethods lists, per standard package, the methods it calls
// through its own interfaces. No selector in the bundled code reveals those
// calls, so the methods are released on reachable types once reachable code
// uses the package. The predeclared error type releases Error the same way.
var CapabilityMethods = map[string][]string{
	"bufio":          {"Read", "Write"},
	"container/heap": {"Len", "Less", "Swap", "Push", "Pop"},
	"errors":         {"Error", "Unwrap", "Is", "As"},
	"fmt":            {"String", "GoString", "Format", "Error"},
	"io":             {"Read", "Write", "Close"},
	"sort":           {"Len", "Less", "Swap"},
}

// Options tunes the walk.
type Options struct {
	// KeepMethods are method names retained on every reachable type even
	// when nothing in the bundle needs them.
	KeepMethods []string
}

// Target is the item a use site resolved to, with the declared name used.
type Target struct {
	ID   itemid.ID
	Name string
}

// ReachableSet is the closed set of required items, in discovery order.
type ReachableSet struct {
	order []itemid.ID
	set   map[itemid.ID]bool
}

func newReachableSet() *ReachableSet {
	return &ReachableSet{set: make(map[itemid.ID]bool)}
}

func (s *ReachableSet) add(id itemid.ID) bool {
	if s.set[id] {
		return false
	}
	s.set[id] = true
	s.order = append(s.order, id)
	return true
}

// Has reports membership.
func (s *ReachableSet) Has(id itemid.ID) bool {
	return s.set[id]
}

// Len returns the number of reachable items.
func (s *ReachableSet) Len() int {
	return len(s.order)
}

// IDs returns the reachable items in discovery order.
func (s *ReachableSet) IDs() []itemid.ID {
	return append([]itemid.ID(nil), s.order...)
}

// Result is the outcome of a walk.
type Result struct {
	// Seeds are the items the walk started from.
	Seeds []itemid.ID
	Set   *ReachableSet
	Graph *refgraph.Graph

	// Idents maps unqualified use sites to package-level items.
	Idents map[*ast.Ident]Target
	// Selectors maps qualified library use sites (`pkg.Name`) to items.
	Selectors map[*ast.SelectorExpr]Target
	// External maps qualified uses of non-library packages to their import.
	External map[*ast.SelectorExpr]*modgraph.ImportEdge
	// DotImports holds non-library dot imports that resolved an identifier.
	DotImports map[string]*modgraph.ImportEdge
	// Files holds every file contributing at least one reachable item.
	Files map[*modgraph.File]bool
	// Builtins holds predeclared names used by reachable code.
	Builtins map[string]bool
	// Qualified holds, per item, the targets it reaches through `pkg.Name`.
	Qualified map[itemid.ID][]Target

	tree *modgraph.SourceTree
	// scans memoises what each item's declaration mentions.
	scans *lru.Cache[itemid.ID, *scanResult]
}

// scanOf returns the memoised scan of id, computing it on first use.
func (r *Result) scanOf(id itemid.ID) *scanResult {
	if sc, ok := r.scans.Get(id); ok {
		return sc
	}
	it, ok := r.tree.Item(id)
	if !ok {
		return nil
	}
	sc := scanItem(it)
	r.scans.Add(id, sc)
	return sc
}

// LocalNames returns the names declared in local scopes of id's declaration.
func (r *Result) LocalNames(id itemid.ID) map[string]bool {
	if sc := r.scanOf(id); sc != nil {
		return sc.locals
	}
	return nil
}

// Embeds returns the items id's declaration embeds as struct fields. An
// embedded type's name is also a field name.
func (r *Result) Embeds(id itemid.ID) []Target {
	sc := r.scanOf(id)
	if sc == nil {
		return nil
	}
	var out []Target
	for _, expr := range sc.embedded {
		if t, ok := r.embeddedTarget(expr); ok {
			out = append(out, t)
		}
	}
	return out
}

func (r *Result) embeddedTarget(expr ast.Expr) (Target, bool) {
	for {
		switch e := expr.(type) {
		case *ast.StarExpr:
			expr = e.X
		case *ast.IndexExpr:
			expr = e.X
		case *ast.IndexListExpr:
			expr = e.X
		case *ast.Ident:
			t, ok := r.Idents[e]
			return t, ok
		case *ast.SelectorExpr:
			t, ok := r.Selectors[e]
			return t, ok
		default:
			return Target{}, false
		}
	}
}

// Explain returns the shortest reference chain from a seed to id.
func (r *Result) Explain(id itemid.ID) ([]itemid.ID, error) {
	return r.Graph.PathTo(r.Seeds, id)
}

package flatten

import (
	"github.com/vk/gobundle/internal/itemid"
	"github.com/vk/gobundle/internal/modgraph"
	"github.com/vk/gobundle/internal/reach"
)

// Item is one declaration in the flat output.
type Item struct {
	Def *modgraph.ItemDef
	// Names maps each declared name to its output name.
	Names map[string]string
}

// Renamed reports whether any declared name changes in the output.
func (it *Item) Renamed() bool {
	for from, to := range it.Names {
		if from != to {
			return true
		}
	}
	return false
}

// Section groups the items of one module.
type Section struct {
	Module string
	Items  []*Item
}

// Import is one spec of the output import block.
type Import struct {
	// Name is the explicit local name, empty when the default applies.
	Name string
	Path string
}

// Plan is the ordered, renamed output of a run.
type Plan struct {
	Tree     *modgraph.SourceTree
	Reach    *reach.Result
	Sections []*Section
	Imports  []Import

	items    map[itemid.ID]*Item
	external map[string]string
}

// Len returns the number of items in the plan.
func (p *Plan) Len() int {
	return len(p.items)
}

// Item returns the plan entry for id.
func (p *Plan) Item(id itemid.ID) (*Item, bool) {
	it, ok := p.items[id]
	return it, ok
}

// EmitName returns the output name of a resolved use site.
func (p *Plan) EmitName(t reach.Target) string {
	if it, ok := p.items[t.ID]; ok {
		if name, ok := it.Names[t.Name]; ok {
			return name
		}
	}
	return t.Name
}

// ImportName returns the local name of an external import in the output.
func (p *Plan) ImportName(importPath string) string {
	return p.external[importPath]
}

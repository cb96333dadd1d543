// Package refgraph records the reference edges discovered while walking the
// source tree: an edge from A to B means item A refers to item B. Unlike a
// scheduling DAG, reference graphs are routinely cyclic (mutually recursive
// functions, self-referential types), so no cycle detection is performed.
//
// The graph is queried after the walk to explain why an item was included in
// a bundle: the shortest reference chain from the entry point to the item.
package refgraph

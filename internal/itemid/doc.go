// internal/itemid/doc.go

/*
Package itemid provides the stable identity of a top-level declaration in the
bundled source tree, based on the canonical format `module.name`.

The module part is the slash-separated package directory relative to the
library root (e.g. `math/nt`); the entry package uses the reserved module
`main`. Methods carry their receiver in the name part, e.g. `ds.Stack.Push`.

Identities are assigned once when the source tree is built and never change
for the rest of the run, so reachability can be tracked over plain values
instead of pointers into the syntax trees.
*/
package itemid

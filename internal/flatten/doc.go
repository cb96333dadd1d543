// Package flatten turns the reachable items of a source tree into one
// ordered, collision-free list of declarations for a single package.
//
// Items keep their module grouping, in the order Go would initialise the
// packages (dependencies first, entry module last), but lose the module
// itself: every item is renamed into
// one flat namespace. A short name is kept as written unless it collides,
// in which case every colliding item gets its module path as a qualifier:
//
//	math/nt.Gcd   -> math_nt_Gcd
//	math/alt.Gcd  -> math_alt_Gcd
//	io.Scanner    -> Scanner        (no collision, unchanged)
//
// Collision covers more than duplicate item names. A name also collides
// when it equals an output import name, a predeclared identifier that
// bundled code relies on, or a local name declared inside an item that
// reaches it through a package qualifier.
package flatten

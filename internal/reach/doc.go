// Package reach computes the set of items a problem's entry point actually
// needs: a mark-and-sweep fixed point over stable item identities.
//
// # How It Works
//
// The walk is seeded with the entry file's main func and the initialisers
// of library packages the entry file blank-imports. Items are popped from a
// work queue and their references are resolved through the literal import
// path written at the use site, never through a tree-wide search:
//
//	nt.Gcd(a, b)   -> the file's import bound to "nt" -> module math/nt -> Gcd
//	Gcd(a, b)      -> package scope, then dot imports, then the universe
//
// Every newly found item is marked and queued; the visited set makes the walk
// terminate on cyclic references. Three shapes get special handling:
//
//   - Rule groups (iota-style const blocks) are single items, so using any
//     member pulls in the whole group and, through its expressions, the rules
//     it depends on.
//   - Methods become reachable when their receiver type is reachable and
//     their name is selected somewhere in reachable code, declared by a
//     reachable interface, called by a standard package that reachable code
//     uses (CapabilityMethods), or listed in Options.KeepMethods. Satisfaction
//     assertions travel with their type and pull in the asserted interface.
//     Assertions and methods of unrelated types stay out.
//   - Alias items are followed to the original declaration; the alias itself
//     is never marked.
//
// Besides the reachable set, the walk records how every use site resolved
// so the flattener and emitter can rename identifiers without re-resolving.
package reach

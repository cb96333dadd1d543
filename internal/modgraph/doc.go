/*
Package modgraph turns the raw forest produced by the source loader into the
queryable SourceTree: module path -> {child modules, local item definitions}.

Construction is a multi-pass process:

 1. Module Creation: one ModuleNode per package directory, plus every
    ancestor directory so that child lists form a proper tree.

 2. Import Resolution: every import spec of every file becomes an ImportEdge.
    Imports inside the library prefix must land on a module with sources,
    otherwise the build fails with an *UnresolvedModuleError.

 3. Item Extraction: each top-level declaration becomes an ItemDef with a
    stable itemid.ID. Grouped var and type specs are split into separate
    items. A const group relying on implicit repetition (iota style) is kept
    whole as one Rule item because its members cannot be emitted apart.
    Re-exports (`type A = pkg.B`, `var F = pkg.F`, `const C = pkg.C`) are
    recorded as alias edges and never duplicated.

 4. Linking: methods are indexed by receiver, satisfaction assertions
    (`var _ I = (*T)(nil)`) by the asserted type, and package initialisers
    (init funcs, blank vars) per module.

The result is read-only for the rest of the run.
*/
package modgraph

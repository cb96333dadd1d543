// Package emit renders a flatten.Plan as a single Go source file and writes
// it atomically.
//
// Rendering rewrites the plan's syntax trees in place: qualified library
// references become bare identifiers, renamed items and their uses get
// their output names, and external package qualifiers take the output
// import names. The rewrite is idempotent, so rendering one plan twice
// yields byte-identical output.
package emit

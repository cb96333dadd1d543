// Package source reads one immutable snapshot of a contest project: the
// entry file of a problem and every Go source under the library directory.
//
// Loading is all-or-nothing. The first malformed file aborts the run with a
// *ParseError carrying its position; no recovery is attempted. Files are
// parsed concurrently, but the snapshot lists them in sorted path order so
// that later stages never observe scheduling effects.
package source

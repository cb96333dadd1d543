package source

import (
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/build/constraint"
	"go/parser"
	"go/scanner"
	"go/token"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/mod/modfile"
	"golang.org/x/sync/errgroup"

	"github.com/vk/gobundle/internal/ctxlog"
	"github.com/vk/gobundle/internal/fsutil"
	"github.com/vk/gobundle/internal/itemid"
)

const (
	entryModule = itemid.EntryModule
	rootModule  = itemid.RootModule
)

// Load parses the entry file and the whole library tree described by layout.
func Load(ctx context.Context, layout Layout) (*Snapshot, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Source loader started.", "root", layout.Root, "library", layout.LibraryDir, "entry", layout.EntryFile)

	modulePath, err := readModulePath(layout.Root)
	if err != nil {
		return nil, err
	}
	libDir := path.Clean(filepath.ToSlash(layout.LibraryDir))
	prefix := modulePath
	if libDir != "." {
		prefix = modulePath + "/" + libDir
	}
	logger.Debug("Resolved library import prefix.", "module", modulePath, "prefix", prefix)

	libRoot := filepath.Join(layout.Root, filepath.FromSlash(libDir))
	paths, err := fsutil.FindFilesByExtension(libRoot, ".go")
	if err != nil {
		return nil, fmt.Errorf("failed to scan library %s: %w", libRoot, err)
	}
	entryAbs := filepath.Join(layout.Root, filepath.FromSlash(layout.EntryFile))
	logger.Debug("Discovered library sources.", "count", len(paths))

	snap := &Snapshot{
		Fset:         token.NewFileSet(),
		ModulePath:   modulePath,
		ImportPrefix: prefix,
	}

	// Slot per file keeps the result independent of goroutine scheduling.
	parsed := make([]*File, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, p := range paths {
		if sameFile(p, entryAbs) {
			continue
		}
		i, p := i, p
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rel, err := filepath.Rel(layout.Root, p)
			if err != nil {
				return err
			}
			f, err := parseFile(snap.Fset, p, filepath.ToSlash(rel))
			if err != nil || f == nil {
				return err
			}
			module := moduleOf(libRoot, p)
			f.Module = module
			parsed[i] = f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	entryRel := filepath.ToSlash(filepath.Clean(layout.EntryFile))
	entry, err := parseFile(snap.Fset, entryAbs, entryRel)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, &ParseError{File: entryRel, Msg: "entry file is excluded by its build constraint"}
	}
	if entry.Syntax.Name.Name != "main" {
		return nil, &ParseError{File: entryRel, Msg: fmt.Sprintf("entry file must declare package main, found %q", entry.Syntax.Name.Name)}
	}
	entry.Module = entryModule
	snap.Entry = entry

	pkgNames := make(map[string]*File)
	for _, f := range parsed {
		if f == nil {
			continue
		}
		// Other problems' entry files may live under the library root.
		if f.Syntax.Name.Name == "main" {
			logger.Debug("Skipping program file inside library.", "file", f.Path)
			continue
		}
		if f.Module == entryModule {
			return nil, &ParseError{File: f.Path, Msg: fmt.Sprintf("library directory %q clashes with the reserved entry module name", entryModule)}
		}
		if first, ok := pkgNames[f.Module]; ok && first.Syntax.Name.Name != f.Syntax.Name.Name {
			return nil, &ParseError{File: f.Path, Line: 1, Column: 1, Msg: fmt.Sprintf("package %s conflicts with package %s declared in %s", f.Syntax.Name.Name, first.Syntax.Name.Name, first.Path)}
		} else if !ok {
			pkgNames[f.Module] = f
		}
		snap.Library = append(snap.Library, f)
	}

	logger.Info("Sources loaded.", "library_files", len(snap.Library), "modules", len(pkgNames))
	return snap, nil
}

// parseFile parses one file. It returns a nil file without error when a
// build constraint excludes it from the fixed view of the tree.
func parseFile(fset *token.FileSet, absPath, relPath string) (*File, error) {
	code, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", relPath, err)
	}
	syntax, err := parser.ParseFile(fset, relPath, code, parser.ParseComments)
	if err != nil {
		return nil, toParseError(relPath, err)
	}
	if !included(syntax.Comments, syntax.Package) {
		return nil, nil
	}
	return &File{Path: relPath, Syntax: syntax}, nil
}

func toParseError(file string, err error) error {
	var list scanner.ErrorList
	if errors.As(err, &list) && len(list) > 0 {
		first := list[0]
		return &ParseError{File: file, Line: first.Pos.Line, Column: first.Pos.Column, Msg: first.Msg}
	}
	return &ParseError{File: file, Msg: err.Error()}
}

// included evaluates a //go:build line against one fixed view of the tree:
// the host platform and the gc toolchain. Files tagged `ignore` never match.
func included(groups []*ast.CommentGroup, pkgPos token.Pos) bool {
	for _, g := range groups {
		if g.Pos() >= pkgPos {
			break
		}
		for _, c := range g.List {
			if !constraint.IsGoBuild(c.Text) {
				continue
			}
			expr, err := constraint.Parse(c.Text)
			if err != nil {
				return true
			}
			return expr.Eval(func(tag string) bool {
				switch tag {
				case runtime.GOOS, runtime.GOARCH, "gc":
					return true
				}
				return strings.HasPrefix(tag, "go1.")
			})
		}
	}
	return true
}

// readModulePath reads the module path declared in root/go.mod.
func readModulePath(root string) (string, error) {
	gomod := filepath.Join(root, "go.mod")
	data, err := os.ReadFile(gomod)
	if err != nil {
		return "", fmt.Errorf("failed to read go.mod: %w", err)
	}
	modulePath := modfile.ModulePath(data)
	if modulePath == "" {
		return "", &ParseError{File: "go.mod", Msg: "no module directive found"}
	}
	return modulePath, nil
}

// moduleOf derives the module path of a library file from its directory.
func moduleOf(libRoot, file string) string {
	rel, err := filepath.Rel(libRoot, filepath.Dir(file))
	if err != nil || rel == "." {
		return rootModule
	}
	return filepath.ToSlash(rel)
}

func sameFile(a, b string) bool {
	ia, errA := os.Stat(a)
	ib, errB := os.Stat(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return os.SameFile(ia, ib)
}

func cutPathPrefix(p, prefix string) (string, bool) {
	rest, ok := strings.CutPrefix(p, prefix+"/")
	if !ok || rest == "" {
		return "", false
	}
	return rest, true
}

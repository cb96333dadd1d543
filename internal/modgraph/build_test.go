package modgraph

import (
	"errors"
	"go/ast"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/gobundle/internal/itemid"
	"github.com/vk/gobundle/internal/source"
	"github.com/vk/gobundle/internal/testutil"
)

const entry = `package main

import (
	"contest/lib/io"
	"contest/lib/math/nt"
)

func main() {
	io.Wln(nt.Gcd(4, 6))
}
`

func buildTree(t *testing.T, files map[string]string) (*SourceTree, error) {
	t.Helper()
	root := testutil.WriteProject(t, files)
	ctx := testutil.Context(t)
	snap, err := source.Load(ctx, source.Layout{Root: root, LibraryDir: "lib", EntryFile: "cmd/a/main.go"})
	require.NoError(t, err)
	return Build(ctx, snap)
}

func mustBuild(t *testing.T, extra map[string]string) *SourceTree {
	t.Helper()
	files := testutil.Merge(testutil.ContestLibrary(), map[string]string{"cmd/a/main.go": entry})
	tree, err := buildTree(t, testutil.Merge(files, extra))
	require.NoError(t, err)
	return tree
}

func TestBuild_Hierarchy(t *testing.T) {
	tree := mustBuild(t, nil)

	root, ok := tree.Module(itemid.RootModule)
	require.True(t, ok)
	assert.False(t, root.HasSource())
	assert.Equal(t, []string{"dir", "ds", "io", "math", "parity", "prelude"}, root.Children)

	math, ok := tree.Module("math")
	require.True(t, ok)
	assert.False(t, math.HasSource())
	assert.Equal(t, []string{"alt", "nt"}, math.Children)

	nt, ok := tree.Module("math/nt")
	require.True(t, ok)
	assert.Equal(t, "nt", nt.Name)
	assert.True(t, nt.HasSource())

	var paths []string
	for _, m := range tree.Modules() {
		paths = append(paths, m.Path)
	}
	assert.Equal(t, []string{"main", "dir", "ds", "io", "math/alt", "math/nt", "parity", "prelude"}, paths)
}

func TestBuild_ItemKinds(t *testing.T) {
	tree := mustBuild(t, nil)

	testCases := []struct {
		id   itemid.ID
		kind Kind
	}{
		{itemid.New("main", "main"), KindFunc},
		{itemid.New("io", "Scanner"), KindType},
		{itemid.New("io", "Writer"), KindVar},
		{itemid.New("io", "bufSize"), KindConst},
		{itemid.NewMethod("io", "Scanner", "Int"), KindMethod},
		{itemid.New("ds", "Container"), KindInterface},
		{itemid.New("dir", "Up"), KindRule},
		{itemid.New("prelude", "Gcd"), KindAlias},
	}
	for _, tc := range testCases {
		t.Run(tc.id.String(), func(t *testing.T) {
			it, ok := tree.Item(tc.id)
			require.True(t, ok)
			assert.Equal(t, tc.kind, it.Kind)
		})
	}
}

func TestBuild_RuleGroupOwnsAllNames(t *testing.T) {
	tree := mustBuild(t, nil)
	dir, _ := tree.Module("dir")

	up, ok := dir.Lookup("Up")
	require.True(t, ok)
	left, ok := dir.Lookup("Left")
	require.True(t, ok)
	assert.Same(t, up, left)
	assert.Equal(t, []string{"Up", "Right", "Down", "Left"}, up.Names)
}

func TestBuild_AliasEdge(t *testing.T) {
	tree := mustBuild(t, nil)
	it, ok := tree.Item(itemid.New("prelude", "Gcd"))
	require.True(t, ok)
	require.NotNil(t, it.Alias)
	assert.Equal(t, AliasTarget{Module: "math/nt", Name: "Gcd"}, *it.Alias)
}

func TestBuild_ValueAliasOfVariableIsDemoted(t *testing.T) {
	tree := mustBuild(t, map[string]string{
		"lib/prelude/out.go": "package prelude\n\nimport \"contest/lib/io\"\n\nvar Out = io.Writer\n",
	})
	it, ok := tree.Item(itemid.New("prelude", "Out"))
	require.True(t, ok)
	assert.Equal(t, KindVar, it.Kind)
	assert.Nil(t, it.Alias)
}

func TestBuild_CapabilityImplementations(t *testing.T) {
	tree := mustBuild(t, nil)
	ds, _ := tree.Module("ds")

	stackImpls := ds.Impls("Stack")
	require.Len(t, stackImpls, 1)
	assert.Equal(t, KindImpl, stackImpls[0].Kind)
	assert.Len(t, ds.Impls("Queue"), 1)

	var methods []string
	for _, m := range ds.Methods("Stack") {
		methods = append(methods, m.ID.Member())
	}
	assert.Equal(t, []string{"Push", "Len"}, methods)
}

func TestBuild_InitializersAndBlankVars(t *testing.T) {
	tree := mustBuild(t, map[string]string{
		"lib/tables/tables.go": `package tables

var Squares [10]int

func init() {
	for i := range Squares {
		Squares[i] = i * i
	}
}

var _ = register()

func register() int { return 0 }

var _ = (*Nope)(nil)
`,
	})
	tables, ok := tree.Module("tables")
	require.True(t, ok)
	inits := tables.Initializers()
	require.Len(t, inits, 3)
	for _, it := range inits {
		assert.Equal(t, KindInit, it.Kind)
	}
	assert.Equal(t, "init#0", inits[0].ID.Name)
}

func TestBuild_GroupedSpecsAreSplit(t *testing.T) {
	tree := mustBuild(t, map[string]string{
		"lib/grid/grid.go": `package grid

var (
	// DX is the row delta.
	DX = [4]int{-1, 0, 1, 0}
	// DY is the column delta.
	DY = [4]int{0, 1, 0, -1}
)

type (
	Point struct{ X, Y int }
	Cells []Point
)
`,
	})
	dx, ok := tree.Item(itemid.New("grid", "DX"))
	require.True(t, ok)
	assert.Equal(t, KindVar, dx.Kind)
	decl, ok := dx.Decl.(*ast.GenDecl)
	require.True(t, ok)
	assert.Len(t, decl.Specs, 1)
	require.NotNil(t, decl.Doc)
	assert.Equal(t, "DX is the row delta.\n", decl.Doc.Text())

	_, ok = tree.Item(itemid.New("grid", "DY"))
	assert.True(t, ok)
	_, ok = tree.Item(itemid.New("grid", "Point"))
	assert.True(t, ok)
	_, ok = tree.Item(itemid.New("grid", "Cells"))
	assert.True(t, ok)
}

func TestBuild_Errors(t *testing.T) {
	t.Run("unresolved module", func(t *testing.T) {
		_, err := buildTree(t, map[string]string{
			"cmd/a/main.go": "package main\n\nimport \"contest/lib/missing\"\n\nfunc main() { missing.X() }\n",
			"lib/x/x.go":    "package x\n",
		})
		var uerr *UnresolvedModuleError
		require.True(t, errors.As(err, &uerr))
		assert.Equal(t, "contest/lib/missing", uerr.ImportPath)
		assert.Equal(t, "cmd/a/main.go", uerr.File)
		assert.Equal(t, 3, uerr.Line)
	})

	t.Run("project package outside library", func(t *testing.T) {
		_, err := buildTree(t, map[string]string{
			"cmd/a/main.go": "package main\n\nimport \"contest/cmd/b\"\n\nfunc main() { b.X() }\n",
			"lib/x/x.go":    "package x\n",
		})
		var uerr *UnresolvedModuleError
		require.True(t, errors.As(err, &uerr))
	})

	t.Run("intermediate directory without sources", func(t *testing.T) {
		_, err := buildTree(t, map[string]string{
			"cmd/a/main.go":   "package main\n\nimport \"contest/lib/math\"\n\nfunc main() { math.X() }\n",
			"lib/math/nt/x.go": "package nt\n",
		})
		var uerr *UnresolvedModuleError
		require.True(t, errors.As(err, &uerr))
	})

	t.Run("duplicate item", func(t *testing.T) {
		_, err := buildTree(t, map[string]string{
			"cmd/a/main.go": "package main\n\nfunc main() {}\n",
			"lib/x/a.go":    "package x\n\nfunc F() {}\n",
			"lib/x/b.go":    "package x\n\nvar F = 1\n",
		})
		var derr *DuplicateItemError
		require.True(t, errors.As(err, &derr))
		assert.Equal(t, "F", derr.Name)
		assert.Equal(t, "lib/x/a.go", derr.PreviousFile)
	})
}

func TestDefaultImportName(t *testing.T) {
	testCases := map[string]string{
		"fmt":                         "fmt",
		"math/rand":                   "rand",
		"math/rand/v2":                "rand",
		"gopkg.in/yaml.v3":            "yaml",
		"github.com/mattn/go-isatty":  "isatty",
		"github.com/foo/bar-baz":      "bar_baz",
		"github.com/hashicorp/hcl/v2": "hcl",
	}
	for in, want := range testCases {
		assert.Equal(t, want, DefaultImportName(in), in)
	}
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "rule", KindRule.String())
	assert.Equal(t, "unknown", Kind(99).String())
	assert.False(t, KindMethod.Declares())
	assert.True(t, KindAlias.Declares())
}

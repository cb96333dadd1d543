package source

import (
	"errors"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/gobundle/internal/testutil"
)

func layout(root string) Layout {
	return Layout{Root: root, LibraryDir: "lib", EntryFile: "cmd/a/main.go"}
}

const entry = `package main

import "contest/lib/math/nt"

func main() { println(nt.Gcd(4, 6)) }
`

func TestLoad(t *testing.T) {
	root := testutil.WriteProject(t, testutil.Merge(testutil.ContestLibrary(), map[string]string{
		"cmd/a/main.go":          entry,
		"lib/math/nt/gcd_test.go": "package nt\n",
		"lib/other/main.go":      "package main\n\nfunc main() {}\n",
		"lib/ignored/x.go":       "//go:build ignore\n\npackage ignored\n",
	}))

	snap, err := Load(testutil.Context(t), layout(root))
	require.NoError(t, err)

	assert.Equal(t, testutil.ModulePath, snap.ModulePath)
	assert.Equal(t, testutil.ModulePath+"/lib", snap.ImportPrefix)
	require.NotNil(t, snap.Entry)
	assert.Equal(t, "main", snap.Entry.Module)
	assert.Equal(t, "cmd/a/main.go", snap.Entry.Path)

	var paths, modules []string
	for _, f := range snap.Library {
		paths = append(paths, f.Path)
		modules = append(modules, f.Module)
	}
	assert.IsIncreasing(t, paths)
	assert.Contains(t, paths, "lib/math/nt/gcd.go")
	assert.NotContains(t, paths, "lib/math/nt/gcd_test.go")
	assert.NotContains(t, paths, "lib/other/main.go")
	assert.NotContains(t, paths, "lib/ignored/x.go")
	assert.Contains(t, modules, "math/nt")
	assert.Contains(t, modules, "ds")
}

func TestLoad_Deterministic(t *testing.T) {
	root := testutil.WriteProject(t, testutil.Merge(testutil.ContestLibrary(), map[string]string{"cmd/a/main.go": entry}))

	first, err := Load(testutil.Context(t), layout(root))
	require.NoError(t, err)
	second, err := Load(testutil.Context(t), layout(root))
	require.NoError(t, err)

	require.Len(t, second.Library, len(first.Library))
	for i := range first.Library {
		assert.Equal(t, first.Library[i].Path, second.Library[i].Path)
	}
}

func TestLoad_BuildConstraintsUseHostPlatform(t *testing.T) {
	root := testutil.WriteProject(t, testutil.Merge(testutil.ContestLibrary(), map[string]string{
		"cmd/a/main.go":         entry,
		"lib/plat/host.go":      "//go:build " + runtime.GOOS + " && gc\n\npackage plat\n",
		"lib/plat/other.go":     "//go:build !" + runtime.GOOS + "\n\npackage plat\n",
		"lib/plat/release.go":   "//go:build go1.21\n\npackage plat\n",
		"lib/plat/unrelated.go": "//go:build " + runtime.GOARCH + " && ignore\n\npackage plat\n",
	}))

	snap, err := Load(testutil.Context(t), layout(root))
	require.NoError(t, err)

	var paths []string
	for _, f := range snap.Library {
		if f.Module == "plat" {
			paths = append(paths, f.Path)
		}
	}
	assert.Equal(t, []string{"lib/plat/host.go", "lib/plat/release.go"}, paths)
}

func TestLoad_ParseError(t *testing.T) {
	root := testutil.WriteProject(t, testutil.Merge(testutil.ContestLibrary(), map[string]string{
		"cmd/a/main.go":     entry,
		"lib/broken/bad.go": "package broken\n\nfunc f( {\n",
	}))

	_, err := Load(testutil.Context(t), layout(root))
	require.Error(t, err)
	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "lib/broken/bad.go", perr.File)
	assert.Equal(t, 3, perr.Line)
	assert.Contains(t, err.Error(), "lib/broken/bad.go:3:")
}

func TestLoad_EntryErrors(t *testing.T) {
	t.Run("entry not package main", func(t *testing.T) {
		root := testutil.WriteProject(t, map[string]string{
			"cmd/a/main.go": "package solution\n",
			"lib/x/x.go":    "package x\n",
		})
		_, err := Load(testutil.Context(t), layout(root))
		var perr *ParseError
		require.True(t, errors.As(err, &perr))
		assert.Contains(t, perr.Msg, "package main")
	})

	t.Run("missing entry", func(t *testing.T) {
		root := testutil.WriteProject(t, map[string]string{"lib/x/x.go": "package x\n"})
		_, err := Load(testutil.Context(t), layout(root))
		assert.ErrorContains(t, err, "failed to read cmd/a/main.go")
	})

	t.Run("missing go.mod module", func(t *testing.T) {
		root := testutil.WriteProject(t, map[string]string{
			"go.mod":        "go 1.22\n",
			"cmd/a/main.go": entry,
		})
		_, err := Load(testutil.Context(t), layout(root))
		var perr *ParseError
		require.True(t, errors.As(err, &perr))
		assert.Equal(t, "go.mod", perr.File)
	})

	t.Run("mixed package names in one directory", func(t *testing.T) {
		root := testutil.WriteProject(t, map[string]string{
			"cmd/a/main.go": "package main\n\nfunc main() {}\n",
			"lib/x/a.go":    "package x\n",
			"lib/x/b.go":    "package y\n",
		})
		_, err := Load(testutil.Context(t), layout(root))
		var perr *ParseError
		require.True(t, errors.As(err, &perr))
		assert.Equal(t, "lib/x/b.go", perr.File)
	})
}

func TestSnapshot_ModuleForImport(t *testing.T) {
	snap := &Snapshot{ImportPrefix: "contest/lib"}

	m, ok := snap.ModuleForImport("contest/lib/math/nt")
	assert.True(t, ok)
	assert.Equal(t, "math/nt", m)

	m, ok = snap.ModuleForImport("contest/lib")
	assert.True(t, ok)
	assert.Equal(t, ".", m)

	_, ok = snap.ModuleForImport("contest/library")
	assert.False(t, ok)
	_, ok = snap.ModuleForImport("fmt")
	assert.False(t, ok)
}

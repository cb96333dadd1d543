package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindFilesByExtension(t *testing.T) {
	root := t.TempDir()
	for _, rel := range []string{
		"io/io.go",
		"io/io_test.go",
		"math/nt/gcd.go",
		"math/nt/testdata/fixture.go",
		".hidden/x.go",
		"_scratch/y.go",
		"README.md",
	} {
		p := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("package x\n"), 0o644))
	}

	files, err := FindFilesByExtension(root, ".go")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "io/io.go"),
		filepath.Join(root, "math/nt/gcd.go"),
	}, files)
}

func TestFindFilesByExtension_MissingRoot(t *testing.T) {
	_, err := FindFilesByExtension(filepath.Join(t.TempDir(), "nope"), ".go")
	assert.Error(t, err)
}

func TestFindFilesByExtension_EmptyExtensionPanics(t *testing.T) {
	assert.Panics(t, func() { _, _ = FindFilesByExtension(".", "") })
}

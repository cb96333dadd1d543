package flatten

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/gobundle/internal/itemid"
	"github.com/vk/gobundle/internal/modgraph"
	"github.com/vk/gobundle/internal/reach"
	"github.com/vk/gobundle/internal/source"
	"github.com/vk/gobundle/internal/testutil"
)

func plan(t *testing.T, entry string, extra map[string]string) (*Plan, error) {
	t.Helper()
	files := testutil.Merge(testutil.ContestLibrary(), map[string]string{"cmd/a/main.go": entry})
	root := testutil.WriteProject(t, testutil.Merge(files, extra))
	ctx := testutil.Context(t)
	snap, err := source.Load(ctx, source.Layout{Root: root, LibraryDir: "lib", EntryFile: "cmd/a/main.go"})
	require.NoError(t, err)
	tree, err := modgraph.Build(ctx, snap)
	require.NoError(t, err)
	res, err := reach.Walk(ctx, tree, reach.Options{})
	require.NoError(t, err)
	return Flatten(ctx, tree, res)
}

func mustPlan(t *testing.T, entry string, extra map[string]string) *Plan {
	t.Helper()
	p, err := plan(t, entry, extra)
	require.NoError(t, err)
	return p
}

func emitNames(p *Plan) map[string]string {
	out := make(map[string]string)
	for _, sec := range p.Sections {
		for _, it := range sec.Items {
			for from, to := range it.Names {
				out[it.Def.ID.Module+"."+from] = to
			}
		}
	}
	return out
}

func TestFlatten_OrderFollowsInitialisation(t *testing.T) {
	p := mustPlan(t, `package main

import (
	"contest/lib/io"
	"contest/lib/math/nt"
)

func main() {
	io.Wln(nt.Gcd(4, 6))
	io.Flush()
}

func helper() {}
`, nil)

	var order []string
	for _, sec := range p.Sections {
		for _, it := range sec.Items {
			order = append(order, it.Def.ID.String())
		}
	}
	want := []string{
		// writer.go: bufSize, Writer, Wln, Flush in source order.
		"io.bufSize", "io.Writer", "io.Wln", "io.Flush",
		"math/nt.Gcd",
		"main.main",
	}
	if diff := cmp.Diff(want, order); diff != "" {
		t.Errorf("item order mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 6, p.Len())
	assert.Equal(t, []Import{{Path: "bufio"}, {Path: "fmt"}, {Path: "os"}}, p.Imports)
}

func TestFlatten_CollidingNamesAreQualified(t *testing.T) {
	p := mustPlan(t, `package main

import (
	"fmt"

	"contest/lib/math/alt"
	"contest/lib/math/nt"
)

func main() {
	fmt.Println(nt.Gcd(4, 6), alt.Gcd(9, 6), nt.Lcm(2, 3))
}
`, nil)

	names := emitNames(p)
	assert.Equal(t, "math_nt_Gcd", names["math/nt.Gcd"])
	assert.Equal(t, "math_alt_Gcd", names["math/alt.Gcd"])
	assert.Equal(t, "Lcm", names["math/nt.Lcm"], "no collision, unchanged")
	assert.Equal(t, "main", names["main.main"])

	it, ok := p.Item(itemid.New("math/nt", "Gcd"))
	require.True(t, ok)
	assert.True(t, it.Renamed())
	assert.Equal(t, "math_nt_Gcd", p.EmitName(reach.Target{ID: it.Def.ID, Name: "Gcd"}))
}

func TestFlatten_EntryItemsCollideToo(t *testing.T) {
	p := mustPlan(t, `package main

import (
	"fmt"

	"contest/lib/math/nt"
)

func Gcd(a, b int) int { return nt.Gcd(a, b) }

func main() { fmt.Println(Gcd(2, 4)) }
`, nil)

	names := emitNames(p)
	assert.Equal(t, "main_Gcd", names["main.Gcd"])
	assert.Equal(t, "math_nt_Gcd", names["math/nt.Gcd"])
}

func TestFlatten_ReservedNames(t *testing.T) {
	testCases := []struct {
		name  string
		entry string
		extra map[string]string
		item  string
		want  string
	}{
		{
			name: "shadows an import name",
			entry: `package main

import (
	"fmt"

	"contest/lib/tools"
)

func main() { fmt.Println(tools.Run()) }
`,
			extra: map[string]string{
				"lib/tools/tools.go": `package tools

func fmt() int { return 1 }

func Run() int { return fmt() }
`,
			},
			item: "tools.fmt",
			want: "tools_fmt",
		},
		{
			name: "shadows a builtin used elsewhere",
			entry: `package main

import "contest/lib/tools"

func main() { println(min(1, 2), tools.Lo(3, 4)) }
`,
			extra: map[string]string{
				"lib/tools/tools.go": `package tools

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func Lo(a, b int) int { return min(a, b) }
`,
			},
			item: "tools.min",
			want: "tools_min",
		},
		{
			name: "shadowed by a local at a qualified use",
			entry: `package main

import "contest/lib/math/nt"

func main() {
	Gcd := 3
	println(Gcd, nt.Gcd(6, 9))
}
`,
			item: "math/nt.Gcd",
			want: "math_nt_Gcd",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := mustPlan(t, tc.entry, tc.extra)
			assert.Equal(t, tc.want, emitNames(p)[tc.item])
		})
	}
}

func TestFlatten_ImportNameConflictsAreQualified(t *testing.T) {
	p := mustPlan(t, `package main

import (
	crand "crypto/rand"
	"math/rand"
)

func main() {
	b := make([]byte, 1)
	crand.Read(b)
	println(rand.Intn(3))
}
`, nil)

	assert.Equal(t, []Import{
		{Name: "crypto_rand", Path: "crypto/rand"},
		{Name: "math_rand", Path: "math/rand"},
	}, p.Imports)
	assert.Equal(t, "crypto_rand", p.ImportName("crypto/rand"))
}

func TestFlatten_SideEffectAndDotImports(t *testing.T) {
	p := mustPlan(t, `package main

import (
	. "strings"
	_ "embed"

	"contest/lib/math/nt"
)

func main() { println(ToUpper("x"), nt.Gcd(1, 2)) }
`, nil)

	assert.Equal(t, []Import{{Name: "_", Path: "embed"}, {Name: ".", Path: "strings"}}, p.Imports)
}

func TestFlatten_UnreachableFilesContributeNoImports(t *testing.T) {
	p := mustPlan(t, `package main

import "contest/lib/math/nt"

func main() { println(nt.Gcd(1, 2)) }
`, nil)

	assert.Empty(t, p.Imports)
	for _, sec := range p.Sections {
		assert.NotEqual(t, "io", sec.Module)
	}
}

func TestFlatten_QualifiedNamesStillColliding(t *testing.T) {
	_, err := plan(t, `package main

import (
	"contest/lib/a/b"
	"contest/lib/a_b"
)

func main() { println(b.C, a_b.C) }
`, map[string]string{
		"lib/a/b/b.go":  "package b\n\nconst C = 1\n",
		"lib/a_b/ab.go": "package a_b\n\nconst C = 2\n",
	})

	var collision *NameCollisionError
	require.True(t, errors.As(err, &collision), "got %v", err)
	assert.Equal(t, "a_b_C", collision.Name)
	assert.Equal(t, []itemid.ID{itemid.New("a/b", "C"), itemid.New("a_b", "C")}, collision.Items)
}

func TestFlatten_Deterministic(t *testing.T) {
	entry := `package main

import (
	"fmt"

	"contest/lib/math/alt"
	"contest/lib/math/nt"
)

func main() { fmt.Println(nt.Gcd(1, 2), alt.Gcd(3, 4)) }
`
	first := emitNames(mustPlan(t, entry, nil))
	second := emitNames(mustPlan(t, entry, nil))
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("names differ between runs (-first +second):\n%s", diff)
	}
}

var nodeModules = map[string]string{
	"lib/a/a.go": "package a\n\n// Node is a list node.\ntype Node struct{ V int }\n",
	"lib/b/b.go": "package b\n\n// Node is a tree node.\ntype Node struct{ L, R int }\n",
	"lib/c/c.go": "package c\n\nimport \"contest/lib/a\"\n\n// Wrap embeds a list node.\ntype Wrap struct {\n\t*a.Node\n}\n",
}

func TestFlatten_EmbeddedTypesKeepTheirName(t *testing.T) {
	p := mustPlan(t, `package main

import (
	"contest/lib/b"
	"contest/lib/c"
)

func main() { println(c.Wrap{}.Node.V, b.Node{}.L) }
`, nodeModules)

	names := emitNames(p)
	assert.Equal(t, "Node", names["a.Node"], "embedded in c.Wrap")
	assert.Equal(t, "b_Node", names["b.Node"])
}

func TestFlatten_CollidingEmbeddedTypesAreRejected(t *testing.T) {
	modules := testutil.Merge(nodeModules, map[string]string{
		"lib/d/d.go": "package d\n\nimport \"contest/lib/b\"\n\ntype Tree struct{ b.Node }\n",
	})
	_, err := plan(t, `package main

import (
	"contest/lib/c"
	"contest/lib/d"
)

func main() { _, _ = c.Wrap{}, d.Tree{} }
`, modules)

	var collision *NameCollisionError
	require.True(t, errors.As(err, &collision), "got %v", err)
	assert.Equal(t, "Node", collision.Name)
	assert.Equal(t, []itemid.ID{itemid.New("a", "Node"), itemid.New("b", "Node")}, collision.Items)
}

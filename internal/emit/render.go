package emit

import (
	"bytes"
	"context"
	"fmt"
	"go/ast"
	"go/format"
	"go/printer"
	"go/token"
	"strconv"
	"strings"

	"golang.org/x/tools/go/ast/astutil"

	"github.com/vk/gobundle/internal/ctxlog"
	"github.com/vk/gobundle/internal/flatten"
)

// Render produces the formatted bundle for p. A non-empty header is
// written as a leading comment.
func Render(ctx context.Context, p *flatten.Plan, header string) ([]byte, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Render: Starting.", "items", p.Len())

	var buf bytes.Buffer
	writeHeader(&buf, header)
	buf.WriteString("package main\n\n")
	writeImports(&buf, p.Imports)

	for _, sec := range p.Sections {
		fmt.Fprintf(&buf, "// module: %s\n\n", sec.Module)
		for _, it := range sec.Items {
			decl := rewrite(p, it)
			if err := printDecl(&buf, p.Tree.Fset, it, decl); err != nil {
				return nil, fmt.Errorf("printing %s: %w", it.Def.ID, err)
			}
			buf.WriteString("\n\n")
		}
	}

	out, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("formatting bundle: %w", err)
	}
	logger.Info("Render: Bundle rendered.", "bytes", len(out), "sections", len(p.Sections))
	return out, nil
}

func writeHeader(buf *bytes.Buffer, header string) {
	header = strings.TrimSpace(header)
	if header == "" {
		return
	}
	for _, line := range strings.Split(header, "\n") {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			buf.WriteString("//\n")
			continue
		}
		buf.WriteString("// " + line + "\n")
	}
	buf.WriteString("\n")
}

func writeImports(buf *bytes.Buffer, imports []flatten.Import) {
	if len(imports) == 0 {
		return
	}
	buf.WriteString("import (\n")
	for _, imp := range imports {
		buf.WriteString("\t")
		if imp.Name != "" {
			buf.WriteString(imp.Name + " ")
		}
		buf.WriteString(strconv.Quote(imp.Path) + "\n")
	}
	buf.WriteString(")\n\n")
}

// rewrite applies the plan's names to one item's declaration.
func rewrite(p *flatten.Plan, it *flatten.Item) ast.Decl {
	renameDeclared(it)
	res := p.Reach
	out := astutil.Apply(it.Def.Decl, func(c *astutil.Cursor) bool {
		switch n := c.Node().(type) {
		case *ast.SelectorExpr:
			if t, ok := res.Selectors[n]; ok {
				c.Replace(&ast.Ident{NamePos: n.Pos(), Name: p.EmitName(t)})
				return false
			}
			if edge, ok := res.External[n]; ok {
				if x, ok := n.X.(*ast.Ident); ok {
					x.Name = p.ImportName(edge.Path)
				}
				return false
			}
		case *ast.Ident:
			if t, ok := res.Idents[n]; ok {
				n.Name = p.EmitName(t)
			}
		}
		return true
	}, nil)
	return out.(ast.Decl)
}

// renameDeclared renames the names an item declares.
func renameDeclared(it *flatten.Item) {
	if !it.Renamed() {
		return
	}
	rename := func(id *ast.Ident) {
		if to, ok := it.Names[id.Name]; ok {
			id.Name = to
		}
	}
	switch d := it.Def.Decl.(type) {
	case *ast.FuncDecl:
		rename(d.Name)
	case *ast.GenDecl:
		for _, spec := range d.Specs {
			switch s := spec.(type) {
			case *ast.TypeSpec:
				rename(s.Name)
			case *ast.ValueSpec:
				for _, name := range s.Names {
					rename(name)
				}
			}
		}
	}
}

// printDecl prints decl with the comments of its source range: the doc
// comment, comments inside the body and a trailing line comment.
func printDecl(buf *bytes.Buffer, fset *token.FileSet, it *flatten.Item, decl ast.Decl) error {
	start, end := declRange(decl)
	var comments []*ast.CommentGroup
	for _, cg := range it.Def.File.Syntax.Comments {
		if cg.Pos() >= start && cg.End() <= end {
			comments = append(comments, cg)
		}
	}
	return format.Node(buf, fset, &printer.CommentedNode{Node: decl, Comments: comments})
}

func declRange(decl ast.Decl) (token.Pos, token.Pos) {
	start, end := decl.Pos(), decl.End()
	switch d := decl.(type) {
	case *ast.FuncDecl:
		if d.Doc != nil {
			start = d.Doc.Pos()
		}
	case *ast.GenDecl:
		if d.Doc != nil {
			start = d.Doc.Pos()
		}
		for _, spec := range d.Specs {
			var line *ast.CommentGroup
			switch s := spec.(type) {
			case *ast.TypeSpec:
				line = s.Comment
			case *ast.ValueSpec:
				line = s.Comment
			}
			if line != nil && line.End() > end {
				end = line.End()
			}
		}
	}
	return start, end
}

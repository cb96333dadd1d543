package hcl_adapter

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/gobundle/internal/config"
	"github.com/vk/gobundle/internal/ctxlog"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// fileRoot is the shape of a bundle.hcl file. Attributes are decoded as raw
// expressions and evaluated later against the run's variables.
type fileRoot struct {
	Library     hcl.Expression `hcl:"library,optional"`
	Entry       hcl.Expression `hcl:"entry,optional"`
	Output      hcl.Expression `hcl:"output,optional"`
	Header      hcl.Expression `hcl:"header,optional"`
	KeepMethods hcl.Expression `hcl:"keep_methods,optional"`
}

// Load reads and evaluates the configuration file at path.
func (l *Loader) Load(ctx context.Context, path string, vars config.Vars) (*config.Project, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path", path, "problem", vars.Problem)

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"problem": cty.StringVal(vars.Problem),
			"root":    cty.StringVal(vars.Root),
		},
	}

	var root fileRoot
	if _, err := os.Stat(path); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("error accessing config %s: %w", path, err)
		}
		logger.Debug("No config file found, using defaults.", "path", path)
	} else {
		parser := hclparse.NewParser()
		hclFile, diags := parser.ParseHCLFile(path)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
		}
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
		}
	}

	project := &config.Project{}
	fields := []struct {
		name   string
		expr   hcl.Expression
		def    string
		target *string
	}{
		{"library", root.Library, config.DefaultLibrary, &project.LibraryDir},
		{"entry", root.Entry, config.DefaultEntry, &project.EntryFile},
		{"output", root.Output, config.DefaultOutput, &project.OutputFile},
		{"header", root.Header, config.DefaultHeader, &project.Header},
	}
	for _, f := range fields {
		val, err := evalString(ctx, f.expr, f.name, f.def, evalCtx)
		if err != nil {
			return nil, fmt.Errorf("in %s: %w", path, err)
		}
		*f.target = val
	}

	if isExprDefined(ctx, root.KeepMethods, "keep_methods") {
		var keep []string
		if diags := gohcl.DecodeExpression(root.KeepMethods, evalCtx, &keep); diags.HasErrors() {
			return nil, fmt.Errorf("in %s: invalid keep_methods: %w", path, diags)
		}
		project.KeepMethods = append([]string{}, keep...)
	}

	for _, req := range []struct{ name, val string }{
		{"library", project.LibraryDir},
		{"entry", project.EntryFile},
		{"output", project.OutputFile},
	} {
		if req.val == "" {
			return nil, fmt.Errorf("in %s: attribute %q must not be empty", path, req.name)
		}
	}

	logger.Debug("HCL loading complete.", "library", project.LibraryDir, "entry", project.EntryFile, "output", project.OutputFile)
	return project, nil
}

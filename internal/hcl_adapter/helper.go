package hcl_adapter

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclsyntax"

	"github.com/vk/gobundle/internal/ctxlog"
)

// isExprDefined checks if an HCL expression was actually present in the source
// code. The HCL decoder populates omitted optional fields with non-nil,
// zero-width expression objects, so a simple nil check is insufficient.
func isExprDefined(ctx context.Context, expr hcl.Expression, attrName string) bool {
	logger := ctxlog.FromContext(ctx)

	if expr == nil {
		logger.Debug("Expression is nil, considering it undefined.", "attribute", attrName)
		return false
	}

	// A real attribute occupies bytes in the file; a placeholder for an
	// omitted one has a zero-width range.
	exprRange := expr.Range()
	isDefined := exprRange.End.Byte > exprRange.Start.Byte

	logger.Debug("Checking if HCL attribute was explicitly defined.",
		"attribute", attrName,
		"hcl_range", exprRange.String(),
		"is_defined", isDefined,
	)

	return isDefined
}

// evalString evaluates a string attribute, falling back to the default
// template when the attribute is absent.
func evalString(ctx context.Context, expr hcl.Expression, attrName, def string, evalCtx *hcl.EvalContext) (string, error) {
	if !isExprDefined(ctx, expr, attrName) {
		tmpl, diags := hclsyntax.ParseTemplate([]byte(def), "<default "+attrName+">", hcl.InitialPos)
		if diags.HasErrors() {
			return "", fmt.Errorf("invalid default for %s: %w", attrName, diags)
		}
		expr = tmpl
	}
	var out string
	if diags := gohcl.DecodeExpression(expr, evalCtx, &out); diags.HasErrors() {
		return "", fmt.Errorf("invalid value for %s: %w", attrName, diags)
	}
	return out, nil
}

// internal/itemid/parser.go
package itemid

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// moduleSegmentRegex matches one directory segment of a module path.
	moduleSegmentRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)
	// nameRegex matches an item name, optionally qualified by a receiver.
	nameRegex = regexp.MustCompile(`^[\p{L}_][\p{L}\p{N}_#]*(\.[\p{L}_][\p{L}\p{N}_]*)?$`)
)

// isValidSegmentName checks for undesirable but technically valid names.
func isValidSegmentName(name string) bool {
	return name != "." && name != ".." && name != "-"
}

// Parse creates an ID by parsing its canonical string representation.
// The module part ends at the first dot after the last slash, so
// "math/nt.Gcd" and "ds.Stack.Push" both parse unambiguously.
func Parse(raw string) (ID, error) {
	if raw == "" {
		return ID{}, fmt.Errorf("identifier cannot be empty")
	}

	// The library root module is written as "." and needs special casing
	// because its own dot would otherwise end the module part.
	if rest, ok := strings.CutPrefix(raw, RootModule+"."); ok {
		if !nameRegex.MatchString(rest) {
			return ID{}, fmt.Errorf("invalid item name: %q", rest)
		}
		return New(RootModule, rest), nil
	}

	start := strings.LastIndexByte(raw, '/') + 1
	dot := strings.IndexByte(raw[start:], '.')
	if dot < 0 {
		return ID{}, fmt.Errorf("identifier %q has no item name", raw)
	}
	module, name := raw[:start+dot], raw[start+dot+1:]

	if module == "" {
		return ID{}, fmt.Errorf("identifier %q has an empty module path", raw)
	}
	for _, segment := range strings.Split(module, "/") {
		if segment == "" {
			return ID{}, fmt.Errorf("module path contains empty segment")
		}
		if !moduleSegmentRegex.MatchString(segment) || !isValidSegmentName(segment) {
			return ID{}, fmt.Errorf("invalid module segment: %q", segment)
		}
	}
	if !nameRegex.MatchString(name) {
		return ID{}, fmt.Errorf("invalid item name: %q", name)
	}
	return New(module, name), nil
}

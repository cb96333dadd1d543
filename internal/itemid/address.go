// internal/itemid/address.go
package itemid

import (
	"sort"
	"strings"
)

// String serializes the ID into its canonical `module.name` representation.
func (id ID) String() string {
	if id.isZero() {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(id.Module)
	sb.WriteRune('.')
	sb.WriteString(id.Name)
	return sb.String()
}

// Less orders identifiers by module path, then name.
func (id ID) Less(other ID) bool {
	if id.Module != other.Module {
		return id.Module < other.Module
	}
	return id.Name < other.Name
}

// Sort sorts ids in place in canonical order.
func Sort(ids []ID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i].Less(ids[j]) })
}

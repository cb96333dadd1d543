// internal/itemid/types.go
package itemid

import "strings"

// EntryModule is the module path reserved for the entry file's package.
const EntryModule = "main"

// RootModule is the module path of a package living directly in the library root.
const RootModule = "."

// ID is the structured representation of a unique item identifier.
type ID struct {
	// Module is the slash-separated module path, e.g. "math/nt".
	Module string
	// Name is the item name; methods use "Recv.Method".
	Name string
}

// New creates an identifier for a package-level item.
func New(module, name string) ID {
	return ID{Module: module, Name: name}
}

// NewMethod creates an identifier for a method declared on recv.
func NewMethod(module, recv, method string) ID {
	return ID{Module: module, Name: recv + "." + method}
}

// IsMethod reports whether the identifier names a method.
func (id ID) IsMethod() bool {
	return strings.Contains(id.Name, ".")
}

// Receiver returns the receiver type name of a method identifier, or "".
func (id ID) Receiver() string {
	recv, _, ok := strings.Cut(id.Name, ".")
	if !ok {
		return ""
	}
	return recv
}

// Member returns the last name component: the method name for methods,
// the plain name otherwise.
func (id ID) Member() string {
	if i := strings.LastIndexByte(id.Name, '.'); i >= 0 {
		return id.Name[i+1:]
	}
	return id.Name
}

func (id ID) isZero() bool {
	return id.Module == "" && id.Name == ""
}

package flatten

import (
	"fmt"
	"strings"

	"github.com/vk/gobundle/internal/itemid"
)

// NameCollisionError reports items that still share an output name after
// qualification.
type NameCollisionError struct {
	Name  string
	Items []itemid.ID
}

// Error implements the error interface for NameCollisionError.
func (e *NameCollisionError) Error() string {
	names := make([]string, 0, len(e.Items))
	for _, id := range e.Items {
		names = append(names, id.String())
	}
	return fmt.Sprintf("name collision on %q between %s", e.Name, strings.Join(names, ", "))
}

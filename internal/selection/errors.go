package selection

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound matches every *NotFoundError via errors.Is.
	ErrNotFound = errors.New("selection: node not found")
	// ErrDuplicateNode is returned by New when two files share a path.
	ErrDuplicateNode = errors.New("selection: duplicate node")
)

// NotFoundError reports an identifier that does not exist in the tree.
// Callers passing unknown identifiers have a bug; the state is not modified.
type NotFoundError struct {
	Kind  string // "file", "class", "function" or "method"
	Path  string
	Class string
	Name  string
}

func (e *NotFoundError) Error() string {
	switch e.Kind {
	case "file":
		return fmt.Sprintf("selection: file %q not found", e.Path)
	case "class":
		return fmt.Sprintf("selection: class %q not found in %s", e.Class, e.Path)
	case "method":
		return fmt.Sprintf("selection: method %s.%s not found in %s", e.Class, e.Name, e.Path)
	default:
		return fmt.Sprintf("selection: %s %q not found in %s", e.Kind, e.Name, e.Path)
	}
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

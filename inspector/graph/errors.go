package graph

import "fmt"

// NotFoundError reports a model element expected but missing, it signals a logic error rather than bad input
type NotFoundError struct {
	Kind string // type, property, operation
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("invariant violation: %s %s not found", e.Kind, e.Name)
}

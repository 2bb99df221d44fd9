package catalog

import "fmt"

// NotFoundError reports a catalog or entry name that does not resolve
// anywhere in the subtree.
type NotFoundError struct {
	Kind string
	Name string
}

// Error returns the error message.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
}

// UnsupportedObservableError reports an observable matching no classifier rule.
type UnsupportedObservableError struct {
	Observable string
}

// Error returns the error message.
func (e *UnsupportedObservableError) Error() string {
	return fmt.Sprintf("unsupported observable: %q", e.Observable)
}

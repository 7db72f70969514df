package domain

import "errors"

// ErrContainerNotFound is returned by the runtime adapter when the engine
// has no container under the requested name.
var ErrContainerNotFound = errors.New("container not found")

// RuntimeError wraps a control-plane call that reached the engine and
// failed there (timeout, permission, conflicting state). The engine's own
// diagnostic is preserved verbatim for the operator.
type RuntimeError struct {
	Op   string
	Name string
	Err  error
}

func (e *RuntimeError) Error() string { return e.Err.Error() }

func (e *RuntimeError) Unwrap() error { return e.Err }

// Category classifies a failed control request into the externally visible
// error buckets of the API.
type Category int

const (
	InvalidAction Category = iota
	UnknownService
	Forbidden
	NotFound
	RuntimeFailure
)

// ActionError is the typed failure the dispatcher hands to the HTTP layer.
// Message is already operator-facing; the HTTP layer only maps Category to
// a status code.
type ActionError struct {
	Category Category
	Message  string
}

func (e *ActionError) Error() string { return e.Message }

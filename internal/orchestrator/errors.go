package orchestrator

import "fmt"

// Stage names a pipeline step.
type Stage string

const (
	StageHealth    Stage = "health"
	StageToken     Stage = "token"
	StageLogin     Stage = "login"
	StageGateway   Stage = "gateway"
	StageDiscovery Stage = "discovery"
)

// FatalError aborts a run. Reason carries the typed cause.
type FatalError struct {
	Stage  Stage
	Reason error
}

// Error returns a user-friendly error message.
func (e *FatalError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Reason)
}

// Unwrap returns the underlying error.
func (e *FatalError) Unwrap() error {
	return e.Reason
}

// Is allows errors.Is() to work with wrapped errors.
func (e *FatalError) Is(target error) bool {
	_, ok := target.(*FatalError)
	return ok
}

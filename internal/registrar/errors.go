package registrar

import "fmt"

// MissingIDError is returned when the control plane accepted a create call
// but its response carried no id. The control plane contract is violated
// and the run cannot continue.
type MissingIDError struct {
	Resource string
	Name     string
}

// Error returns a user-friendly error message.
func (e *MissingIDError) Error() string {
	return fmt.Sprintf("%s %q created but no 'id' in response", e.Resource, e.Name)
}

// Is allows errors.Is() to work with wrapped errors.
func (e *MissingIDError) Is(target error) bool {
	_, ok := target.(*MissingIDError)
	return ok
}

// CreateError is returned when creating a resource failed.
type CreateError struct {
	Resource string
	Name     string
	Reason   error
}

// Error returns a user-friendly error message.
func (e *CreateError) Error() string {
	return fmt.Sprintf("%s %q registration failed: %v", e.Resource, e.Name, e.Reason)
}

// Unwrap returns the underlying error.
func (e *CreateError) Unwrap() error {
	return e.Reason
}

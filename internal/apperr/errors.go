package apperr

import "fmt"

type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func NewValidation(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

func NewValidationWrap(msg string, err error) *ValidationError {
	return &ValidationError{Message: msg, Err: err}
}

type NotFoundError struct {
	Resource string
	ID       any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v not found", e.Resource, e.ID)
}

func NewNotFound(resource string, id any) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// StoreUnavailableError reports a connection or transport failure talking to
// the backing store. It is surfaced to callers and never retried here.
type StoreUnavailableError struct {
	Backend string
	Err     error
}

func (e *StoreUnavailableError) Error() string {
	return fmt.Sprintf("%s store unavailable: %v", e.Backend, e.Err)
}

func (e *StoreUnavailableError) Unwrap() error {
	return e.Err
}

func NewStoreUnavailable(backend string, err error) *StoreUnavailableError {
	return &StoreUnavailableError{Backend: backend, Err: err}
}

// ImportError reports an unreadable or malformed bulk import source.
type ImportError struct {
	Source string
	Err    error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("import from %q failed: %v", e.Source, e.Err)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

func NewImport(source string, err error) *ImportError {
	return &ImportError{Source: source, Err: err}
}

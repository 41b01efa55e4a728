// Package errs contains the error kinds shared by the repository, service and handler layers.
package errs

import "errors"

// Kinds. Match them with errors.Is.
var (
	// ErrValidation indicates a missing or malformed input field.
	ErrValidation = errors.New("validation error")

	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrStorage indicates a document store read or write failure.
	ErrStorage = errors.New("storage error")

	// ErrAsset indicates an asset store upload or destroy failure.
	ErrAsset = errors.New("asset error")
)

// Error carries a kind, a client-facing message and an optional cause.
type Error struct {
	Kind error
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func Validation(msg string) error {
	return &Error{Kind: ErrValidation, Msg: msg}
}

func NotFound(msg string) error {
	return &Error{Kind: ErrNotFound, Msg: msg}
}

func Storage(msg string, err error) error {
	return &Error{Kind: ErrStorage, Msg: msg, Err: err}
}

func Asset(msg string, err error) error {
	return &Error{Kind: ErrAsset, Msg: msg, Err: err}
}

// Message returns the client-facing message of err, without the cause chain.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	return err.Error()
}

package importerr

import (
	"errors"
	"fmt"
)

// Kind classifies an importer failure.
type Kind string

const (
	KindConfig          Kind = "config"
	KindInputValidation Kind = "input_validation"
	KindAPIRequest      Kind = "api_request"
)

// Error is a typed importer error. Message is safe to show to operators;
// Err, when set, carries the underlying cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
}

// Unwrap exposes the underlying error for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// Config returns a KindConfig error.
func Config(message string, err error) *Error {
	return &Error{Kind: KindConfig, Message: message, Err: err}
}

// InputValidation returns a KindInputValidation error.
func InputValidation(message string, err error) *Error {
	return &Error{Kind: KindInputValidation, Message: message, Err: err}
}

// APIRequest returns a KindAPIRequest error.
func APIRequest(message string, err error) *Error {
	return &Error{Kind: KindAPIRequest, Message: message, Err: err}
}

// Is reports whether any error in err's chain is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Common error sentinel values
var (
	ErrMethodNotAllowed = errors.New("method not allowed")
)

type ApiErr struct {
	StatusCode int
	err        error
	Details    string      // Additional details about the error
	Field      string      // Field that caused the error (for validation errors)
	Fields     FieldErrors // Every failing field with its messages (form validation)
	Cause      error       // The underlying cause of the error
}

// implements error interface. this allows us to pass an instance of ApiErr as an argument of type `error`
func (e *ApiErr) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.err.Error(), e.Details)
	}
	return e.err.Error()
}

// GetFullError returns a recursive error message including all causes
func (e *ApiErr) GetFullError() string {
	msg := e.Error()
	if e.Cause != nil {
		var apiErr *ApiErr
		if errors.As(e.Cause, &apiErr) {
			msg = fmt.Sprintf("%s -> %s", msg, apiErr.GetFullError())
		} else {
			msg = fmt.Sprintf("%s -> %s", msg, e.Cause.Error())
		}
	}
	return msg
}

// UserMessage is the text shown to a site visitor: the details when present,
// otherwise the error itself.
func (e *ApiErr) UserMessage() string {
	if e.Details != "" {
		return e.Details
	}
	return e.err.Error()
}

// this function allows us to do the following:
// err := &ApiErr{StatusCode: ..., err: someSentinelError}
// errors.Is(err, someSentinelError) ==> evaluates to true
func (e *ApiErr) Unwrap() error {
	return e.err
}

func NewInternalErrorWithCause(message string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        errors.New(message),
		Cause:      cause,
	}
}

func NewMethodNotAllowedError(method string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusMethodNotAllowed,
		err:        ErrMethodNotAllowed,
		Details:    fmt.Sprintf("Method \"%s\" not allowed.", method),
	}
}

// StatusCode returns the HTTP status carried by err, or 500 for anything that
// is not an ApiErr.
func StatusCode(err error) int {
	var apiErr *ApiErr
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return http.StatusInternalServerError
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

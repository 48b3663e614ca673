package errs

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
)

// Request & Input-Validation Errors
var (
	ErrMalformedPayload = errors.New("malformed payload")
	ErrValidationFailed = errors.New("validation failed")
)

// FieldErrors maps a form field name to its validation messages.
type FieldErrors map[string][]string

func (f FieldErrors) Add(field, message string) {
	f[field] = append(f[field], message)
}

// Names returns the failing field names in sorted order.
func (f FieldErrors) Names() []string {
	names := make([]string, 0, len(f))
	for name := range f {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func NewMalformedPayloadError(payloadType string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrMalformedPayload,
		Details:    fmt.Sprintf("Malformed %s payload", payloadType),
		Cause:      cause,
		Field:      "payload",
	}
}

// NewValidationFailedError reports every failing field. Field and Details
// carry the first failure (by field name) for single-error consumers.
func NewValidationFailedError(fields FieldErrors) *ApiErr {
	apiErr := &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrValidationFailed,
		Fields:     fields,
	}
	if names := fields.Names(); len(names) > 0 {
		apiErr.Field = names[0]
		if messages := fields[names[0]]; len(messages) > 0 {
			apiErr.Details = messages[0]
		}
	}
	return apiErr
}

func IsValidationFailed(err error) bool {
	return errors.Is(err, ErrValidationFailed)
}

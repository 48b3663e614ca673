package errs

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrAlreadyExists      = errors.New("already exists")
	ErrNotFound           = errors.New("not found")
	ErrDatabaseQuery      = errors.New("database query failed")
	ErrDatabaseConnection = errors.New("database connection failed")
)

func NewAlreadyExists(entity string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusConflict,
		err:        fmt.Errorf("%s %w", entity, ErrAlreadyExists),
	}
}

func NewNotFound(entity string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusNotFound,
		err:        fmt.Errorf("%s %w", entity, ErrNotFound),
	}
}

// NewDatabaseError creates a new database error with details about the operation
func NewDatabaseError(operation, entity string, cause error) *ApiErr {
	details := fmt.Sprintf("Failed to %s %s", operation, entity)

	if errors.Is(cause, gorm.ErrRecordNotFound) {
		apiErr := NewNotFound(entity)
		apiErr.Details = details
		apiErr.Cause = cause
		return apiErr
	}

	// Check for common database errors and provide more specific messages
	if cause != nil {
		errStr := strings.ToLower(cause.Error())
		switch {
		case errors.Is(cause, gorm.ErrDuplicatedKey),
			strings.Contains(errStr, "duplicate key"),
			strings.Contains(errStr, "unique constraint"):
			apiErr := NewAlreadyExists(entity)
			apiErr.Details = details
			apiErr.Cause = cause
			return apiErr
		case strings.Contains(errStr, "foreign key constraint"):
			return &ApiErr{
				StatusCode: http.StatusBadRequest,
				err:        fmt.Errorf("invalid reference in %s", entity),
				Details:    "The referenced resource does not exist or cannot be linked",
				Cause:      cause,
			}
		case strings.Contains(errStr, "connection"):
			return &ApiErr{
				StatusCode: http.StatusServiceUnavailable,
				err:        ErrDatabaseConnection,
				Details:    "Unable to connect to database",
				Cause:      cause,
			}
		}
	}

	// Generic database error
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrDatabaseQuery,
		Details:    details,
		Cause:      cause,
	}
}

func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

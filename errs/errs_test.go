package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestNewDatabaseErrorClassification(t *testing.T) {
	notFound := NewDatabaseError("find", "blog post", gorm.ErrRecordNotFound)
	assert.Equal(t, http.StatusNotFound, notFound.StatusCode)
	assert.True(t, IsNotFound(notFound))

	dup := NewDatabaseError("create", "blog post", errors.New("UNIQUE constraint failed: blog_post_translations.language_code"))
	assert.Equal(t, http.StatusConflict, dup.StatusCode)
	assert.True(t, IsAlreadyExists(dup))

	conn := NewDatabaseError("find", "comment", errors.New("dial tcp: connection refused"))
	assert.Equal(t, http.StatusServiceUnavailable, conn.StatusCode)

	generic := NewDatabaseError("find", "comment", errors.New("syntax error"))
	assert.Equal(t, http.StatusInternalServerError, generic.StatusCode)
	assert.ErrorIs(t, generic, ErrDatabaseQuery)
	assert.Contains(t, generic.GetFullError(), "syntax error")
}

func TestRateLimitedMessage(t *testing.T) {
	err := NewRateLimitedError(60 * time.Minute)

	assert.True(t, IsRateLimited(err))
	assert.Equal(t, http.StatusTooManyRequests, StatusCode(err))
	assert.Equal(t, "You can only submit a comment once every 60 minutes.", err.UserMessage())
}

func TestValidationFailedCarriesAllFields(t *testing.T) {
	fields := FieldErrors{}
	fields.Add("username", "This field is required.")
	fields.Add("body", "This field is required.")

	err := NewValidationFailedError(fields)

	assert.True(t, IsValidationFailed(err))
	assert.Equal(t, "body", err.Field)
	assert.Equal(t, []string{"body", "username"}, err.Fields.Names())
	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
}

func TestStatusCodeOfPlainError(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, StatusCode(errors.New("boom")))
	assert.Equal(t, http.StatusMethodNotAllowed, StatusCode(fmt.Errorf("wrapped: %w", NewMethodNotAllowedError("POST"))))
}

func TestNotificationErrorWrapsBoth(t *testing.T) {
	cause := errors.New("535 auth failed")
	err := NewNotificationError("smtp", cause)

	assert.ErrorIs(t, err, ErrNotificationFailed)
	assert.ErrorIs(t, err, cause)
}

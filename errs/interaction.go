package errs

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Visitor interaction errors
var (
	ErrRateLimited        = errors.New("rate limited")
	ErrTooManyRequests    = errors.New("too many requests")
	ErrNotificationFailed = errors.New("notification failed")
)

// NewRateLimitedError is returned when a visitor comments again before the
// cooldown has elapsed.
func NewRateLimitedError(cooldown time.Duration) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusTooManyRequests,
		err:        ErrRateLimited,
		Details:    fmt.Sprintf("You can only submit a comment once every %d minutes.", int(cooldown.Minutes())),
		Field:      "rate_limit",
	}
}

// NewTooManyRequestsError is returned by the per-client submission throttle.
func NewTooManyRequestsError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusTooManyRequests,
		err:        ErrTooManyRequests,
		Details:    "Too many submissions from this address. Slow down and try again shortly.",
	}
}

// NewNotificationError wraps a delivery failure from a notification channel.
func NewNotificationError(channel string, cause error) error {
	return fmt.Errorf("%w: %s: %w", ErrNotificationFailed, channel, cause)
}

func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

package calendar

import "errors"

// Sentinel kinds for calendar query failures. A rejected credential means
// the user has to sign in again; an unavailable upstream is retryable.
var (
	ErrUnauthorized        = errors.New("calendar rejected the access credential")
	ErrUpstreamUnavailable = errors.New("calendar service unavailable")
)

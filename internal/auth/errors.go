package auth

import "errors"

// Sentinel kinds for credential failures. A bad credential and an
// unreachable identity provider are distinct outcomes: the first refuses
// the login, the second marks the attempt as retryable.
var (
	ErrInvalidCredential       = errors.New("invalid identity credential")
	ErrVerificationUnavailable = errors.New("identity provider unavailable")
)

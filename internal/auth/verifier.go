// Package auth verifies Google identity credentials and exchanges OAuth
// authorization codes for calendar access tokens.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"

	"google.golang.org/api/idtoken"
)

// Identity is the verified payload of one credential. It lives for a single
// request and is never stored.
type Identity struct {
	Subject string
	Email   string
	// AccessCredential authorizes the calendar read. When the verified
	// payload carried no access_token claim this is the raw ID token
	// itself, a best-effort fallback with no guarantee downstream; the
	// authorization-code flow (Exchanger) yields a real access token.
	AccessCredential string
}

// TokenValidator abstracts the Google ID-token validator so tests can
// substitute one.
type TokenValidator interface {
	Validate(ctx context.Context, token, audience string) (*idtoken.Payload, error)
}

// Verifier checks identity credentials against Google's public signing keys
// and the configured audience. Stateless.
type Verifier struct {
	audience  string
	validator TokenValidator
}

// NewVerifier builds a verifier for the given audience (the OAuth client ID).
func NewVerifier(ctx context.Context, audience string) (*Verifier, error) {
	v, err := idtoken.NewValidator(ctx)
	if err != nil {
		return nil, fmt.Errorf("create idtoken validator: %w", err)
	}
	return &Verifier{audience: audience, validator: v}, nil
}

// NewVerifierWith builds a verifier around a custom validator.
func NewVerifierWith(audience string, validator TokenValidator) *Verifier {
	return &Verifier{audience: audience, validator: validator}
}

// Verify validates one credential and extracts the identity it proves.
func (v *Verifier) Verify(ctx context.Context, credential string) (*Identity, error) {
	if credential == "" {
		return nil, fmt.Errorf("%w: empty credential", ErrInvalidCredential)
	}

	payload, err := v.validator.Validate(ctx, credential, v.audience)
	if err != nil {
		return nil, classifyVerifyError(err)
	}

	id := &Identity{
		Subject:          payload.Subject,
		AccessCredential: credential,
	}
	if email, ok := payload.Claims["email"].(string); ok {
		id.Email = email
	}
	if access, ok := payload.Claims["access_token"].(string); ok && access != "" {
		id.AccessCredential = access
	}
	return id, nil
}

// classifyVerifyError separates "the provider could not be reached" from
// "the credential is bad". Transport failures while fetching Google's
// signing keys surface as url/net errors; everything else is a verdict on
// the credential itself.
func classifyVerifyError(err error) error {
	var uerr *url.Error
	var nerr net.Error
	if errors.As(err, &uerr) || errors.As(err, &nerr) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", ErrVerificationUnavailable, err)
	}
	return fmt.Errorf("%w: %v", ErrInvalidCredential, err)
}

package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const calendarReadScope = "https://www.googleapis.com/auth/calendar.readonly"

// Exchanger trades an OAuth authorization code for a calendar access token.
// This is the preferred way to obtain the access credential; reusing the
// identity token only works when the calendar API happens to accept it.
type Exchanger struct {
	conf *oauth2.Config
}

// NewExchanger builds an exchanger against Google's token endpoint. The
// redirect URI must match the one registered for the client ID.
func NewExchanger(clientID, clientSecret, redirectURI string) *Exchanger {
	return &Exchanger{
		conf: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURI,
			Scopes:       []string{calendarReadScope},
			Endpoint:     google.Endpoint,
		},
	}
}

// Exchange redeems one authorization code. Codes are single-use; a reused
// or expired code comes back as ErrInvalidCredential.
func (e *Exchanger) Exchange(ctx context.Context, code string) (string, error) {
	if code == "" {
		return "", fmt.Errorf("%w: empty authorization code", ErrInvalidCredential)
	}

	tok, err := e.conf.Exchange(ctx, code)
	if err != nil {
		var rerr *oauth2.RetrieveError
		if errors.As(err, &rerr) {
			if rerr.Response != nil && rerr.Response.StatusCode >= http.StatusInternalServerError {
				return "", fmt.Errorf("%w: %v", ErrVerificationUnavailable, err)
			}
			return "", fmt.Errorf("%w: %v", ErrInvalidCredential, err)
		}
		return "", classifyVerifyError(err)
	}
	return tok.AccessToken, nil
}

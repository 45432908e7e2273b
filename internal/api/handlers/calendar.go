package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/calevents/calevents/internal/auth"
	"github.com/calevents/calevents/internal/calendar"
)

// Stable error codes carried in every failure response so a client can
// tell the failure kinds apart even where the HTTP status is shared.
const (
	codeMissingInput            = "missing_input"
	codeInvalidCredential       = "invalid_credential"
	codeVerificationUnavailable = "verification_unavailable"
	codeUnauthorized            = "unauthorized"
	codeUpstreamUnavailable     = "upstream_unavailable"
	codeUnexpected              = "unexpected"
)

// CredentialVerifier validates an identity credential and yields the access
// credential for the calendar read.
type CredentialVerifier interface {
	Verify(ctx context.Context, credential string) (*auth.Identity, error)
}

// CodeExchanger trades an authorization code for an access token.
type CodeExchanger interface {
	Exchange(ctx context.Context, code string) (string, error)
}

// EventLister runs the upcoming-events query.
type EventLister interface {
	ListUpcoming(ctx context.Context, accessCredential string, now time.Time) ([]calendar.Event, error)
}

// CalendarHandler serves POST /api/calendar: verify (or exchange), query,
// return the raw event list. Nothing survives the request; every call is
// independently verified and independently queried.
type CalendarHandler struct {
	verifier  CredentialVerifier
	exchanger CodeExchanger
	events    EventLister
	now       func() time.Time
}

// NewCalendarHandler wires the two credential paths and the query executor.
func NewCalendarHandler(v CredentialVerifier, x CodeExchanger, e EventLister) *CalendarHandler {
	return &CalendarHandler{verifier: v, exchanger: x, events: e, now: time.Now}
}

type calendarRequest struct {
	Token string `json:"token"`
	Code  string `json:"code"`
}

// FetchEvents handles one login-and-list request.
func (h *CalendarHandler) FetchEvents(c *gin.Context) {
	var req calendarRequest
	if err := c.ShouldBindJSON(&req); err != nil || (req.Token == "" && req.Code == "") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Token is required", "code": codeMissingInput})
		return
	}

	ctx := c.Request.Context()

	accessCredential, err := h.accessCredential(ctx, req)
	if err != nil {
		h.fail(c, err)
		return
	}

	events, err := h.events.ListUpcoming(ctx, accessCredential, h.now())
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, events)
}

// accessCredential picks the credential path: a real token exchange when
// the client sent an authorization code, ID-token verification otherwise.
func (h *CalendarHandler) accessCredential(ctx context.Context, req calendarRequest) (string, error) {
	if req.Code != "" {
		return h.exchanger.Exchange(ctx, req.Code)
	}
	identity, err := h.verifier.Verify(ctx, req.Token)
	if err != nil {
		return "", err
	}
	return identity.AccessCredential, nil
}

// fail maps the error taxonomy onto the HTTP contract.
func (h *CalendarHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, auth.ErrInvalidCredential):
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Invalid token",
			"code":  codeInvalidCredential,
		})
	case errors.Is(err, calendar.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Calendar access was rejected, please sign in again",
			"code":  codeUnauthorized,
		})
	case errors.Is(err, auth.ErrVerificationUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "Could not verify the login right now",
			"code":    codeVerificationUnavailable,
			"details": err.Error(),
		})
	case errors.Is(err, calendar.ErrUpstreamUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "Failed to fetch calendar events",
			"code":    codeUpstreamUnavailable,
			"details": err.Error(),
		})
	default:
		log.Printf("calendar request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to fetch calendar events",
			"code":    codeUnexpected,
			"details": err.Error(),
		})
	}
}

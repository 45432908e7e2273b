// Package session holds the client-side login state machine and the
// derived, filtered view of the fetched events.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/calevents/calevents/internal/calendar"
	"github.com/calevents/calevents/internal/client"
)

// State of the login flow.
type State int

const (
	LoggedOut State = iota
	Authenticating
	LoggedIn
)

func (s State) String() string {
	switch s {
	case Authenticating:
		return "authenticating"
	case LoggedIn:
		return "logged-in"
	default:
		return "logged-out"
	}
}

const fallbackErrMessage = "Failed to fetch calendar events. Please try again."

// Backend fetches the event set for one credential.
type Backend interface {
	FetchEvents(ctx context.Context, credential string) ([]calendar.Event, error)
}

// BackendFunc adapts a function to the Backend interface.
type BackendFunc func(ctx context.Context, credential string) ([]calendar.Event, error)

func (f BackendFunc) FetchEvents(ctx context.Context, credential string) ([]calendar.Event, error) {
	return f(ctx, credential)
}

// Session sequences credential → backend → event set and re-derives the
// filtered view whenever the date window changes. The fetched event set is
// the immutable source of truth for the login; filtering always derives a
// fresh slice and never triggers a network call.
type Session struct {
	backend Backend

	mu       sync.Mutex
	state    State
	lastErr  string
	events   []calendar.Event
	window   calendar.DateWindow
	filtered []calendar.Event

	started uint64 // login attempts handed out
	applied uint64 // newest attempt whose outcome was applied
}

// New starts in the LoggedOut state.
func New(backend Backend) *Session {
	return &Session{backend: backend, state: LoggedOut}
}

// Login runs one authentication attempt. A failure returns the session to
// LoggedOut with a user-visible message and no partial state. Overlapping
// attempts cannot corrupt the stored event set: the outcome of an attempt
// older than one already applied is discarded, so the newest completed
// attempt wins.
func (s *Session) Login(ctx context.Context, credential string) error {
	s.mu.Lock()
	s.started++
	gen := s.started
	s.state = Authenticating
	s.lastErr = ""
	s.mu.Unlock()

	events, err := s.backend.FetchEvents(ctx, credential)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen <= s.applied {
		return err
	}
	s.applied = gen

	if err != nil {
		s.state = LoggedOut
		s.lastErr = userMessage(err)
		s.events = nil
		s.filtered = nil
		s.window = calendar.DateWindow{}
		return err
	}

	s.state = LoggedIn
	s.events = events
	s.window = calendar.DateWindow{}
	s.filtered = calendar.FilterEvents(events, s.window)
	return nil
}

// SetWindow replaces the date window and re-derives the filtered view from
// the stored event set. Pure recomputation; the login state is untouched.
func (s *Session) SetWindow(w calendar.DateWindow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.window = w
	if s.state == LoggedIn {
		s.filtered = calendar.FilterEvents(s.events, w)
	}
}

// State returns the current login state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the message of the last failed attempt, empty otherwise.
func (s *Session) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Events returns a copy of the stored event set.
func (s *Session) Events() []calendar.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]calendar.Event, len(s.events))
	copy(out, s.events)
	return out
}

// Filtered returns a copy of the current filtered view.
func (s *Session) Filtered() []calendar.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]calendar.Event, len(s.filtered))
	copy(out, s.filtered)
	return out
}

// userMessage derives the single error line shown for a failed attempt,
// preferring the backend's own message.
func userMessage(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallbackErrMessage
}

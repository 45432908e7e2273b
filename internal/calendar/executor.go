package calendar

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"time"

	"golang.org/x/oauth2"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const primaryCalendarID = "primary"

// DefaultMaxResults caps one upcoming-events page.
const DefaultMaxResults = 10

// Executor issues the fixed upcoming-events query. The query parameters are
// policy, not caller input: primary calendar only, lower time bound only,
// recurring events expanded to single occurrences, ascending start order,
// one capped page.
type Executor struct {
	maxResults int64
	opts       []option.ClientOption
}

// NewExecutor returns an executor capped at maxResults events per query.
// Extra options are passed through to the Calendar service constructor;
// tests use option.WithEndpoint.
func NewExecutor(maxResults int64, opts ...option.ClientOption) *Executor {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	return &Executor{maxResults: maxResults, opts: opts}
}

// ListUpcoming runs one events.list call authorized by accessCredential and
// returns the normalized result. Every call re-queries; nothing is cached.
func (x *Executor) ListUpcoming(ctx context.Context, accessCredential string, now time.Time) ([]Event, error) {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessCredential,
		TokenType:   "Bearer",
	}))

	opts := append([]option.ClientOption{option.WithHTTPClient(client)}, x.opts...)
	srv, err := gcal.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}

	res, err := srv.Events.List(primaryCalendarID).
		TimeMin(now.Format(time.RFC3339)).
		MaxResults(x.maxResults).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, classifyAPIError(err)
	}

	return x.normalize(res.Items), nil
}

// normalize enforces the guarantees this package makes to its callers even
// if upstream misbehaves: valid events only, unique IDs, ascending
// effective start, at most maxResults entries.
func (x *Executor) normalize(items []*gcal.Event) []Event {
	events := make([]Event, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if item == nil || item.Start == nil || item.End == nil {
			continue
		}
		e := Event{
			ID:      item.Id,
			Summary: item.Summary,
			Start:   toTimePoint(item.Start),
			End:     toTimePoint(item.End),
		}
		if !e.Valid() {
			continue
		}
		if _, dup := seen[e.ID]; dup {
			continue
		}
		seen[e.ID] = struct{}{}
		events = append(events, e)
	}
	sort.SliceStable(events, func(i, j int) bool {
		a, _ := events[i].Start.Resolve()
		b, _ := events[j].Start.Resolve()
		return a.Before(b)
	})
	if int64(len(events)) > x.maxResults {
		events = events[:x.maxResults]
	}
	return events
}

// toTimePoint keeps a single representation, preferring the instant when
// upstream sends both.
func toTimePoint(t *gcal.EventDateTime) TimePoint {
	if t.DateTime != "" {
		return TimePoint{DateTime: t.DateTime}
	}
	return TimePoint{Date: t.Date}
}

func classifyAPIError(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch {
		case gerr.Code == http.StatusUnauthorized || gerr.Code == http.StatusForbidden:
			return fmt.Errorf("%w: %v", ErrUnauthorized, err)
		case gerr.Code == http.StatusRequestTimeout ||
			gerr.Code == http.StatusTooManyRequests ||
			gerr.Code >= http.StatusInternalServerError:
			return fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
		default:
			return fmt.Errorf("list events: %w", err)
		}
	}
	var uerr *url.Error
	if errors.As(err, &uerr) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	return fmt.Errorf("list events: %w", err)
}
